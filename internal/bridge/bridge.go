// Package bridge exposes the gateway as named request/response channels for the desktop UI.
package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"pdv_desk/internal/gateway"
	"pdv_desk/internal/models"
)

// ErrUnknownChannel is returned by Call for unregistered channel names.
var ErrUnknownChannel = errors.New("unknown channel")

// ErrBadPayload wraps payload decoding failures.
var ErrBadPayload = errors.New("invalid payload")

// Handler serves one channel. payload is the raw JSON sent by the UI, possibly empty.
type Handler func(ctx context.Context, payload json.RawMessage) (interface{}, error)

// Result is returned by mutating channels and by every failing channel.
type Result struct {
	Success bool            `json:"success"`
	ID      int64           `json:"id,omitempty"`
	Usuario *models.User    `json:"usuario,omitempty"`
	Outcome gateway.Outcome `json:"outcome,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Failure builds the {success:false, error} result.
func Failure(err error) Result {
	return Result{Success: false, Error: err.Error(), Outcome: gateway.Failed}
}

// Bridge maps channel names to handlers.
type Bridge struct {
	channels map[string]Handler
}

// New registers every channel against gw.
func New(gw *gateway.Gateway) *Bridge {
	b := &Bridge{channels: make(map[string]Handler)}
	b.registerUsers(gw)
	b.registerProducts(gw)
	b.registerSales(gw)
	b.registerCustomers(gw)
	return b
}

// Handle registers or replaces a channel.
func (b *Bridge) Handle(name string, h Handler) {
	b.channels[name] = h
}

// Channels lists the registered channel names, sorted.
func (b *Bridge) Channels() []string {
	names := make([]string, 0, len(b.channels))
	for name := range b.channels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Call dispatches payload to the named channel. Operation failures come back as a Result
// value, not as an error; the error return is reserved for unknown channels and
// undecodable payloads.
func (b *Bridge) Call(ctx context.Context, name string, payload json.RawMessage) (interface{}, error) {
	h, ok := b.channels[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownChannel, name)
	}
	return h(ctx, payload)
}

func decode(payload json.RawMessage, dst interface{}) error {
	if len(payload) == 0 {
		return fmt.Errorf("%w: empty payload", ErrBadPayload)
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	return nil
}

// decodeID accepts a bare id (5) or an object ({"id": 5}).
func decodeID(payload json.RawMessage) (int64, error) {
	var id int64
	if err := json.Unmarshal(payload, &id); err == nil {
		return id, nil
	}
	var obj struct {
		ID int64 `json:"id"`
	}
	if err := decode(payload, &obj); err != nil {
		return 0, err
	}
	return obj.ID, nil
}

func mutation(id int64, outcome gateway.Outcome, err error) (interface{}, error) {
	if err != nil {
		return Failure(err), nil
	}
	return Result{Success: true, ID: id, Outcome: outcome}, nil
}

// listOrEmpty keeps the UI contract that listings are arrays, empty when logged out.
func listOrEmpty[T any](items []T, err error) (interface{}, error) {
	if errors.Is(err, gateway.ErrNotLoggedIn) {
		return []T{}, nil
	}
	if err != nil {
		return Failure(err), nil
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// itemOrNull answers null when logged out or when nothing was found.
func itemOrNull[T any](item *T, err error) (interface{}, error) {
	if errors.Is(err, gateway.ErrNotLoggedIn) {
		return nil, nil
	}
	if err != nil {
		return Failure(err), nil
	}
	if item == nil {
		return nil, nil
	}
	return item, nil
}

func done(outcome gateway.Outcome, err error) (interface{}, error) {
	return mutation(0, outcome, err)
}
