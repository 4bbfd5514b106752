package routes

import (
	"net/http"

	"github.com/shashiranjanraj/devburger/app/controllers"
	"github.com/shashiranjanraj/devburger/app/resources"
	"github.com/shashiranjanraj/devburger/pkg/ctx"
	"github.com/shashiranjanraj/devburger/pkg/router"
)

// API groups what the route table needs.
type API struct {
	Users      *controllers.UserController
	Sessions   *controllers.SessionController
	Categories *controllers.CategoryController
	Products   *controllers.ProductController
	Orders     *controllers.OrderController
	Payments   *controllers.PaymentController

	// Files serves stored images under both file prefixes.
	Files http.Handler
	// Authenticate rejects requests without a valid token.
	Authenticate router.Middleware
}

func RegisterAPI(r *router.Router, api API) {
	r.Get("/health", "health", ctx.Wrap(func(c *ctx.Context) {
		c.Success(map[string]string{"status": "ok"})
	}))

	r.Mount("/"+resources.ProductFilePrefix, "files.products", api.Files)
	r.Mount("/"+resources.CategoryFilePrefix, "files.categories", api.Files)

	r.Post("/users", "users.store", ctx.Wrap(api.Users.Store))
	r.Post("/session", "session.store", ctx.Wrap(api.Sessions.Store))

	protected := r.Group("/", api.Authenticate)

	protected.Post("/products", "products.store", ctx.Wrap(api.Products.Store))
	protected.Get("/products", "products.index", ctx.Wrap(api.Products.Index))
	protected.Put("/products/{id}", "products.update", ctx.Wrap(api.Products.Update))

	protected.Post("/categories", "categories.store", ctx.Wrap(api.Categories.Store))
	protected.Get("/categories", "categories.index", ctx.Wrap(api.Categories.Index))
	protected.Put("/categories/{id}", "categories.update", ctx.Wrap(api.Categories.Update))

	protected.Post("/orders", "orders.store", ctx.Wrap(api.Orders.Store))
	protected.Get("/orders", "orders.index", ctx.Wrap(api.Orders.Index))
	protected.Put("/orders/{id}", "orders.update", ctx.Wrap(api.Orders.Update))

	protected.Post("/create-payment-intent", "payments.intent", ctx.Wrap(api.Payments.Store))
}
