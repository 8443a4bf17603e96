package router

import (
	"github.com/gin-gonic/gin"

	"pdv_desk/internal/handlers"
)

// SetupPublicAuthRoutes registers /register and /login.
func SetupPublicAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/register", authHandler.RegisterUser)
	group.POST("/login", authHandler.LoginUser)
}

func SetupAuthenticatedAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.GET("/me", authHandler.GetCurrentUser)
}

// SetupProductRoutes sets up the product routes.
func SetupProductRoutes(authenticatedGroup *gin.RouterGroup, productHandler *handlers.ProductHandler) {
	productRoutes := authenticatedGroup.Group("/produtos")
	{
		productRoutes.GET("", productHandler.GetProducts)
		productRoutes.POST("", productHandler.CreateProduct)
		productRoutes.GET("/codigo/:codigo", productHandler.GetProductByCode)
		productRoutes.PUT("/:id", productHandler.UpdateProduct)
		productRoutes.DELETE("/:id", productHandler.DeleteProduct)
	}
}

// SetupSaleRoutes sets up the sale routes.
func SetupSaleRoutes(authenticatedGroup *gin.RouterGroup, saleHandler *handlers.SaleHandler) {
	saleRoutes := authenticatedGroup.Group("/vendas")
	{
		saleRoutes.GET("", saleHandler.GetSales)
		saleRoutes.POST("", saleHandler.CreateSale)
		saleRoutes.GET("/estatisticas", saleHandler.GetStats)
		saleRoutes.GET("/:id", saleHandler.GetSale)
		saleRoutes.DELETE("/:id", saleHandler.DeleteSale)
	}
}

// SetupCustomerRoutes sets up the customer routes.
func SetupCustomerRoutes(authenticatedGroup *gin.RouterGroup, customerHandler *handlers.CustomerHandler) {
	customerRoutes := authenticatedGroup.Group("/clientes")
	{
		customerRoutes.GET("", customerHandler.GetCustomers)
		customerRoutes.POST("", customerHandler.CreateCustomer)
		customerRoutes.GET("/:id", customerHandler.GetCustomer)
		customerRoutes.PUT("/:id", customerHandler.UpdateCustomer)
		customerRoutes.DELETE("/:id", customerHandler.DeleteCustomer)
	}
}
