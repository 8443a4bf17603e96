package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pdv_desk/internal/models"
	"pdv_desk/internal/services"
)

// SaleHandler holds the sale service.
type SaleHandler struct {
	saleService services.SaleService
}

// NewSaleHandler creates a new SaleHandler.
func NewSaleHandler(ss services.SaleService) *SaleHandler {
	return &SaleHandler{saleService: ss}
}

// CreateSale records a checkout; stock is decremented in the same transaction.
func (h *SaleHandler) CreateSale(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req models.SaleInput
	if !bindJSON(c, &req, "CreateSale") {
		return
	}
	id, err := h.saleService.CreateSale(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, err, "CreateSale", "Erro ao criar venda")
		return
	}
	c.JSON(http.StatusCreated, models.IDResponse{ID: id})
}

func (h *SaleHandler) GetSales(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	sales, err := h.saleService.ListSales(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err, "GetSales", "Erro ao listar")
		return
	}
	c.JSON(http.StatusOK, sales)
}

func (h *SaleHandler) GetSale(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	sale, err := h.saleService.GetSale(c.Request.Context(), userID, id)
	if err != nil {
		respondServiceError(c, err, "GetSale", "Erro ao buscar venda")
		return
	}
	c.JSON(http.StatusOK, sale)
}

// GetStats returns today's and this month's totals and the product count.
func (h *SaleHandler) GetStats(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	stats, err := h.saleService.GetStats(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err, "GetStats", "Erro ao calcular estatísticas")
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *SaleHandler) DeleteSale(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.saleService.DeleteSale(c.Request.Context(), userID, id); err != nil {
		respondServiceError(c, err, "DeleteSale", "Erro ao excluir venda")
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true})
}
