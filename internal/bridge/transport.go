package bridge

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"pdv_desk/internal/middleware"
	"pdv_desk/pkg/utils"
)

// NewEngine serves the bridge over HTTP for the desktop UI:
//
//	GET  /bridge           lists the channels
//	POST /bridge/:channel  calls a channel with the request body as payload
func NewEngine(b *Bridge) *gin.Engine {
	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(utils.GinLogger())
	engine.Use(gin.Recovery())

	engine.GET("/bridge", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"channels": b.Channels()})
	})
	engine.POST("/bridge/:channel", b.serve)
	return engine
}

func (b *Bridge) serve(c *gin.Context) {
	channel := c.Param("channel")

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Falha ao ler requisição", err.Error()))
		return
	}

	result, err := b.Call(c.Request.Context(), channel, payload)
	switch {
	case errors.Is(err, ErrUnknownChannel):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Canal desconhecido", channel))
		return
	case errors.Is(err, ErrBadPayload):
		utils.RespondValidationFailed(c, err.Error())
		return
	case err != nil:
		utils.LogError(err, "Bridge channel failed", map[string]interface{}{"channel": channel})
		utils.RespondInternal(c, "Erro interno")
		return
	}

	c.JSON(http.StatusOK, result)
}
