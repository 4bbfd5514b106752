// Package kernel wires controllers, middleware and routes into the HTTP
// handler served by internal/server.
package kernel

import (
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/devburger/app/controllers"
	"github.com/shashiranjanraj/devburger/app/repositories"
	"github.com/shashiranjanraj/devburger/app/routes"
	"github.com/shashiranjanraj/devburger/app/services"
	"github.com/shashiranjanraj/devburger/config"
	"github.com/shashiranjanraj/devburger/pkg/auth"
	"github.com/shashiranjanraj/devburger/pkg/ctx"
	"github.com/shashiranjanraj/devburger/pkg/events"
	"github.com/shashiranjanraj/devburger/pkg/metrics"
	"github.com/shashiranjanraj/devburger/pkg/middleware"
	"github.com/shashiranjanraj/devburger/pkg/orm"
	"github.com/shashiranjanraj/devburger/pkg/payment"
	"github.com/shashiranjanraj/devburger/pkg/rbac"
	"github.com/shashiranjanraj/devburger/pkg/reqid"
	"github.com/shashiranjanraj/devburger/pkg/router"
	"github.com/shashiranjanraj/devburger/pkg/storage"
)

// Dependencies are the connected backends the API runs on.
type Dependencies struct {
	DB       *gorm.DB
	Orders   services.OrderStore
	Disk     storage.Disk
	Cache    orm.Cacher // nil disables the catalog cache
	CacheTTL time.Duration
	Payments payment.Gateway
	Currency string
	Events   events.Publisher
	Tokens   *auth.TokenService
	BaseURL  string
}

// NewRouter builds the full route table with the global middleware stack.
func NewRouter(deps Dependencies) *router.Router {
	users := repositories.NewUserRepository(deps.DB)
	categories := repositories.NewCategoryRepository(deps.DB, deps.Cache, deps.CacheTTL)
	products := repositories.NewProductRepository(deps.DB, deps.Cache, deps.CacheTTL)
	images := storage.NewImages(deps.Disk)
	gate := rbac.NewGate(users)

	r := router.New()

	// Global middleware stack (outermost → innermost):
	//  1. Prometheus metrics, outermost for accurate total latency
	//  2. Recovery, catches panics before they kill the goroutine
	//  3. Request ID, injected before anything logs
	//  4. Logger, logs request_id from context
	//  5. CORS
	//  6. Rate limiter, rejects abusers early
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.CORSFromList(config.CORSOrigins())))
	r.Use(rateLimit())

	r.NotFound(ctx.Wrap(func(c *ctx.Context) { c.NotFound() }))
	r.MethodNotAllowed(ctx.Wrap(func(c *ctx.Context) {
		c.Error(http.StatusMethodNotAllowed, "Method not allowed")
	}))

	r.Get("/metrics", "metrics", metrics.Handler())

	routes.RegisterAPI(r, routes.API{
		Users:    controllers.NewUserController(services.NewUserService(users)),
		Sessions: controllers.NewSessionController(services.NewSessionService(users, deps.Tokens)),
		Categories: controllers.NewCategoryController(
			services.NewCategoryService(categories, images), gate, deps.BaseURL),
		Products: controllers.NewProductController(
			services.NewProductService(products, categories, images), gate, deps.BaseURL),
		Orders: controllers.NewOrderController(
			services.NewOrderService(products, deps.Orders, deps.Events, deps.BaseURL), gate),
		Payments: controllers.NewPaymentController(
			services.NewPaymentService(deps.Payments, deps.Currency)),
		Files:        images.Handler(),
		Authenticate: middleware.Auth(deps.Tokens),
	})

	return r
}

// NewHTTPKernel returns the root handler.
func NewHTTPKernel(deps Dependencies) http.Handler {
	return NewRouter(deps).Handler()
}

// rateLimit allows RATE_LIMIT_RPS requests per second per client with
// bursts of RATE_LIMIT_BURST.
func rateLimit() router.Middleware {
	rps := config.Int("RATE_LIMIT_RPS", 20)
	burst := config.Int("RATE_LIMIT_BURST", 40)
	if rps <= 0 {
		rps = 1
	}
	if burst < 1 {
		burst = 1
	}
	return middleware.RateLimit(burst, time.Duration(burst)*time.Second/time.Duration(rps))
}
