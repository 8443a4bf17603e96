package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pdv_desk/internal/models"
	"pdv_desk/internal/services"
)

// ProductHandler holds the product service.
type ProductHandler struct {
	productService services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(ps services.ProductService) *ProductHandler {
	return &ProductHandler{productService: ps}
}

// GetProducts lists the user's products ordered by name.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	products, err := h.productService.ListProducts(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err, "GetProducts", "Erro ao listar")
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req models.ProductInput
	if !bindJSON(c, &req, "CreateProduct") {
		return
	}
	id, err := h.productService.CreateProduct(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, err, "CreateProduct", "Erro ao criar produto")
		return
	}
	c.JSON(http.StatusCreated, models.IDResponse{ID: id})
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req models.ProductInput
	if !bindJSON(c, &req, "UpdateProduct") {
		return
	}
	if err := h.productService.UpdateProduct(c.Request.Context(), userID, id, req); err != nil {
		respondServiceError(c, err, "UpdateProduct", "Erro ao atualizar")
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true})
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.productService.DeleteProduct(c.Request.Context(), userID, id); err != nil {
		respondServiceError(c, err, "DeleteProduct", "Erro ao excluir")
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true})
}

// GetProductByCode looks a product up by its barcode/code.
func (h *ProductHandler) GetProductByCode(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	product, err := h.productService.GetProductByCode(c.Request.Context(), userID, c.Param("codigo"))
	if err != nil {
		respondServiceError(c, err, "GetProductByCode", "Erro ao buscar produto")
		return
	}
	c.JSON(http.StatusOK, product)
}
