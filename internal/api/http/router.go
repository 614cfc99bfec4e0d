package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/store-admin/internal/api/http/handlers"
	"github.com/spec-kit/store-admin/internal/auth"
	"github.com/spec-kit/store-admin/internal/domain"
	"github.com/spec-kit/store-admin/internal/observability"
	"github.com/spec-kit/store-admin/internal/repository"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Admin          *handlers.AdminHandler
	Stores         *handlers.StoreHandler
	Catalog        *handlers.CatalogHandler
	Products       *handlers.ProductHandler
	Orders         *handlers.OrderHandler
	Customers      *handlers.CustomerHandler
	GiftCodes      *handlers.GiftCodeHandler
	PayKeeper      *handlers.PayKeeperHandler
	AuthMiddleware *auth.AuthMiddleware
	StoreRepo      repository.StoreRepository
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes. Catalog reads are public, every write
// requires the signed-in owner of the store.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	api := app.Group("/api")
	authn := cfg.AuthMiddleware.Handle
	owner := auth.RequireStoreOwner(cfg.StoreRepo)

	admin := api.Group("/admin", cfg.Admin.Envelope)
	admin.Post("/register", cfg.Admin.Register)
	admin.Post("/login", cfg.Admin.Login)
	admin.Post("/refresh", cfg.Admin.Refresh)
	admin.Post("/logout", cfg.Admin.Logout)
	admin.Get("/me", authn, cfg.Admin.Me)
	admin.Post("/password", authn, cfg.Admin.ChangePassword)
	admin.Post("/revoke", authn, cfg.Admin.Revoke)

	stores := api.Group("/stores", authn, auth.RequireAdmin())
	stores.Post("/", cfg.Stores.Create)
	stores.Get("/", cfg.Stores.List)
	stores.Get("/:storeId", owner, cfg.Stores.Get)
	stores.Patch("/:storeId", owner, cfg.Stores.Update)
	stores.Delete("/:storeId", owner, cfg.Stores.Delete)

	store := api.Group("/:storeId")

	store.Get("/billboards", cfg.Catalog.ListBillboards)
	store.Get("/billboards/:billboardId", cfg.Catalog.GetBillboard)
	store.Post("/billboards", authn, owner, cfg.Catalog.CreateBillboard)
	store.Patch("/billboards/:billboardId", authn, owner, cfg.Catalog.UpdateBillboard)
	store.Delete("/billboards/:billboardId", authn, owner, cfg.Catalog.DeleteBillboard)

	store.Get("/categories", cfg.Catalog.ListCategories)
	store.Get("/categories/:categoryId", cfg.Catalog.GetCategory)
	store.Post("/categories", authn, owner, cfg.Catalog.CreateCategory)
	store.Patch("/categories/:categoryId", authn, owner, cfg.Catalog.UpdateCategory)
	store.Delete("/categories/:categoryId", authn, owner, cfg.Catalog.DeleteCategory)

	for _, opt := range []struct {
		path    string
		idParam string
		kind    domain.AttributeKind
	}{
		{"/sizes", "sizeId", domain.AttributeSize},
		{"/colors", "colorId", domain.AttributeColor},
	} {
		routes := cfg.Catalog.AttributeRoutes(opt.kind, opt.idParam)
		item := opt.path + "/:" + opt.idParam
		store.Get(opt.path, routes.List)
		store.Get(item, routes.Get)
		store.Post(opt.path, authn, owner, routes.Create)
		store.Patch(item, authn, owner, routes.Update)
		store.Delete(item, authn, owner, routes.Delete)
	}

	store.Get("/reviews", cfg.Catalog.ListReviews)
	store.Get("/reviews/:reviewId", cfg.Catalog.GetReview)
	store.Post("/reviews", authn, owner, cfg.Catalog.CreateReview)
	store.Patch("/reviews/:reviewId", authn, owner, cfg.Catalog.UpdateReview)
	store.Delete("/reviews/:reviewId", authn, owner, cfg.Catalog.DeleteReview)

	store.Get("/products", cfg.Products.List)
	store.Get("/products/:productId", cfg.Products.Get)
	store.Post("/products", authn, owner, cfg.Products.Create)
	store.Patch("/products/:productId", authn, owner, cfg.Products.Update)
	store.Delete("/products/:productId", authn, owner, cfg.Products.Delete)

	store.Post("/orders", cfg.Orders.Create)
	store.Get("/orders/stream", authn, owner, cfg.Orders.Stream)
	store.Get("/orders", authn, owner, cfg.Orders.List)
	store.Get("/orders/:orderId", authn, owner, cfg.Orders.Get)
	store.Delete("/orders/:orderId", authn, owner, cfg.Orders.Delete)

	customers := store.Group("/customers", authn, owner)
	customers.Post("/", cfg.Customers.Create)
	customers.Get("/", cfg.Customers.List)
	customers.Get("/:customerId", cfg.Customers.Get)
	customers.Patch("/:customerId", cfg.Customers.Update)
	customers.Patch("/:customerId/balance", cfg.Customers.Balance)
	customers.Delete("/:customerId", cfg.Customers.Delete)

	giftCodes := store.Group("/gift-codes", authn, owner)
	giftCodes.Post("/purchase", cfg.GiftCodes.Purchase)
	giftCodes.Get("/", cfg.GiftCodes.List)
	giftCodes.Delete("/:giftCodeId", cfg.GiftCodes.Delete)

	store.Post("/paykeeper/webhook", cfg.PayKeeper.Webhook)
}
