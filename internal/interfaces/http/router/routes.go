package router

import (
	"github.com/gin-gonic/gin"
	"github.com/retail/backoffice/internal/interfaces/http/handler"
	"github.com/retail/backoffice/internal/interfaces/http/middleware"
)

// Handlers bundles every API handler
type Handlers struct {
	Auth      *handler.AuthHandler
	Category  *handler.CategoryHandler
	Product   *handler.ProductHandler
	Stock     *handler.StockHandler
	Sales     *handler.SalesHandler
	Wholesale *handler.WholesaleHandler
	Store     *handler.StoreHandler
	Client    *handler.ClientHandler
	Supplier  *handler.SupplierHandler
	Seller    *handler.SellerHandler
	Health    *handler.HealthHandler
}

// Guards are the authentication middlewares shared by every group
type Guards struct {
	// Auth rejects requests without a valid token
	Auth gin.HandlerFunc
	// OptionalAuth reads a token when present
	OptionalAuth gin.HandlerFunc
	// Login throttles credential attempts; nil disables it
	Login gin.HandlerFunc
}

// APIGroups builds the /api/v1 resource groups
func APIGroups(h Handlers, g Guards) []*Resource {
	staff := []gin.HandlerFunc{g.Auth, middleware.RequireStaff()}
	admin := []gin.HandlerFunc{g.Auth, middleware.RequireAdmin()}
	anyUser := []gin.HandlerFunc{g.Auth, middleware.RequireRoles()}

	with := func(guards []gin.HandlerFunc, fn gin.HandlerFunc) []gin.HandlerFunc {
		out := make([]gin.HandlerFunc, 0, len(guards)+1)
		out = append(out, guards...)
		return append(out, fn)
	}

	login := []gin.HandlerFunc{h.Auth.Login}
	if g.Login != nil {
		login = []gin.HandlerFunc{g.Login, h.Auth.Login}
	}
	authGroup := NewResource("/auth").
		POST("/login", login...).
		POST("/logout", with(anyUser, h.Auth.Logout)...).
		GET("/profile", with(anyUser, h.Auth.Profile)...).
		POST("/change-password", with(anyUser, h.Auth.ChangePassword)...).
		POST("/create-seller", with(admin, h.Auth.CreateSeller)...).
		POST("/create-role", with(admin, h.Auth.CreateRole)...).
		GET("/sellers", with(staff, h.Auth.ListSellers)...).
		DELETE("/users/:id", with(admin, h.Auth.DeleteUser)...)

	categories := NewResource("/categories").
		GET("", h.Category.ListCategories).
		GET("/:id", h.Category.GetCategory).
		GET("/:id/subcategories", h.Category.ListCategorySubcategories).
		POST("", with(admin, h.Category.CreateCategory)...).
		PUT("/:id", with(admin, h.Category.UpdateCategory)...).
		DELETE("/:id", with(admin, h.Category.DeleteCategory)...).
		POST("/:id/image", with(admin, h.Category.UploadCategoryImage)...)

	subcategories := NewResource("/subcategories").
		GET("", h.Category.ListSubcategories).
		GET("/:id", h.Category.GetSubcategory).
		POST("", with(admin, h.Category.CreateSubcategory)...).
		PUT("/:id", with(admin, h.Category.UpdateSubcategory)...).
		DELETE("/:id", with(admin, h.Category.DeleteSubcategory)...).
		POST("/:id/image", with(admin, h.Category.UploadSubcategoryImage)...)

	// listings read the token when present so staff can include hidden products
	products := NewResource("/products").
		GET("", g.OptionalAuth, h.Product.List).
		GET("/on-offer", g.OptionalAuth, h.Product.ListOnOffer).
		GET("/new", g.OptionalAuth, h.Product.ListNew).
		GET("/low-stock", g.OptionalAuth, h.Product.ListLowStock).
		GET("/out-of-stock", g.OptionalAuth, h.Product.ListOutOfStock).
		GET("/by-category/:categoryId/:subcategoryId", g.OptionalAuth, h.Product.ListByCategory).
		GET("/:id", g.OptionalAuth, h.Product.Get).
		POST("", with(admin, h.Product.Create)...).
		PUT("/:id", with(admin, h.Product.Update)...).
		PATCH("/:id/visibility", with(admin, h.Product.SetHidden)...).
		DELETE("/:id", with(admin, h.Product.Delete)...).
		POST("/:id/images", with(admin, h.Product.UploadImage)...).
		DELETE("/:id/images", with(admin, h.Product.RemoveImage)...)

	stock := NewResource("/store-stock").
		GET("/transfers/history", with(staff, h.Stock.ListTransfers)...).
		GET("/:storeId", with(staff, h.Stock.GetStoreProducts)...).
		GET("/:storeId/:productId", with(staff, h.Stock.GetProductStock)...).
		PATCH("/update", with(admin, h.Stock.UpdateProductStock)...).
		POST("/transfer", with(admin, h.Stock.Transfer)...)

	sales := NewResource("/sales").
		POST("/order", g.OptionalAuth, h.Sales.CreateOrder).
		POST("/payment", with(staff, h.Sales.ProcessPayment)...).
		POST("/order/:id/create-gateway-preference", h.Sales.CreateGatewayPreference).
		POST("/gateway-webhook", h.Sales.GatewayWebhook).
		GET("/orders", with(admin, h.Sales.ListOrders)...).
		GET("/order/:id", with(admin, h.Sales.GetOrder)...).
		PATCH("/order/:id/status", with(admin, h.Sales.UpdateStatus)...)

	wholesale := NewResource("/wholesale").
		GET("/links/validate/:token", h.Wholesale.Validate).
		POST("/apply-pricing", h.Wholesale.ApplyPricing).
		POST("/save-customer", h.Wholesale.SaveCustomer).
		GET("/customer/:token", h.Wholesale.GetCustomer).
		GET("/products/:token", h.Wholesale.Products).
		POST("/links", with(admin, h.Wholesale.CreateLink)...).
		GET("/links", with(admin, h.Wholesale.ListLinks)...).
		GET("/links/:id", with(admin, h.Wholesale.GetLink)...).
		PUT("/links/:id", with(admin, h.Wholesale.UpdateLink)...).
		PUT("/links/:id/products", with(admin, h.Wholesale.SetLinkProducts)...).
		POST("/links/:id/deactivate", with(admin, h.Wholesale.DeactivateLink)...).
		DELETE("/links/:id", with(admin, h.Wholesale.DeleteLink)...)

	stores := NewResource("/stores").
		GET("", h.Store.List).
		GET("/:id", h.Store.Get).
		POST("", with(admin, h.Store.Create)...).
		PUT("/:id", with(admin, h.Store.Update)...).
		DELETE("/:id", with(admin, h.Store.Delete)...)

	suppliers := NewResource("/suppliers").
		GET("", with(staff, h.Supplier.List)...).
		GET("/:id", with(staff, h.Supplier.Get)...).
		POST("", with(admin, h.Supplier.Create)...).
		PUT("/:id", with(admin, h.Supplier.Update)...).
		DELETE("/:id", with(admin, h.Supplier.Delete)...)

	clients := NewResource("/clients").Use(staff...).
		GET("", h.Client.List).
		GET("/:id", h.Client.Get).
		POST("", h.Client.Create).
		PUT("/:id", h.Client.Update).
		DELETE("/:id", h.Client.Delete)

	sellers := NewResource("/sellers").Use(staff...).
		GET("", h.Seller.List).
		GET("/:id", h.Seller.Get).
		GET("/:id/orders", h.Sales.ListSellerOrders).
		POST("", h.Seller.Create).
		PUT("/:id", h.Seller.Update).
		DELETE("/:id", h.Seller.Delete)

	return []*Resource{
		authGroup, categories, subcategories, products, stock,
		sales, wholesale, stores, suppliers, clients, sellers,
	}
}
