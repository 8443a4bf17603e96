package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pdv_desk/internal/models"
	"pdv_desk/internal/services"
)

// CustomerHandler holds the customer service.
type CustomerHandler struct {
	customerService services.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(cs services.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: cs}
}

func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req models.CustomerInput
	if !bindJSON(c, &req, "CreateCustomer") {
		return
	}
	id, err := h.customerService.CreateCustomer(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, err, "CreateCustomer", "Erro ao criar cliente")
		return
	}
	c.JSON(http.StatusCreated, models.IDResponse{ID: id})
}

func (h *CustomerHandler) GetCustomers(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	customers, err := h.customerService.ListCustomers(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err, "GetCustomers", "Erro ao listar")
		return
	}
	c.JSON(http.StatusOK, customers)
}

func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	customer, err := h.customerService.GetCustomer(c.Request.Context(), userID, id)
	if err != nil {
		respondServiceError(c, err, "GetCustomer", "Erro ao buscar cliente")
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req models.CustomerInput
	if !bindJSON(c, &req, "UpdateCustomer") {
		return
	}
	if err := h.customerService.UpdateCustomer(c.Request.Context(), userID, id, req); err != nil {
		respondServiceError(c, err, "UpdateCustomer", "Erro ao atualizar")
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true})
}

func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.customerService.DeleteCustomer(c.Request.Context(), userID, id); err != nil {
		respondServiceError(c, err, "DeleteCustomer", "Erro ao excluir")
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true})
}
