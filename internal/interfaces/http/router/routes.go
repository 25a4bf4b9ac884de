package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Yitzhakza/electic/internal/interfaces/http/handler"
	"github.com/Yitzhakza/electic/internal/interfaces/http/middleware"
)

var getOrPost = []string{http.MethodGet, http.MethodPost}

// API holds everything the service routes need
type API struct {
	Sync    *handler.SyncHandler
	Queries *handler.QueryHandler
	Catalog *handler.CatalogHandler
	System  *handler.SystemHandler
	// Metrics serves /metrics when set
	Metrics http.Handler

	CronSecret string
	AdminToken string
	// PublicLimiter throttles the storefront endpoints per client IP when set
	PublicLimiter *middleware.RateLimiter
	BodyLimit     int64
}

// Mount registers the health, metrics, cron, admin and storefront routes and
// returns the API routes it mounted under APIPrefix
func (a API) Mount(engine *gin.Engine) []string {
	engine.GET("/health", a.System.Health)
	if a.Metrics != nil {
		engine.GET("/metrics", gin.WrapH(a.Metrics))
	}

	bodyLimit := a.BodyLimit
	if bodyLimit <= 0 {
		bodyLimit = middleware.DefaultBodyLimit
	}

	cron := NewGroup("/cron", middleware.BearerAuth(a.CronSecret)).
		On("/sync", a.Sync.CronSync, getOrPost...).
		On("/coupon-sync", a.Sync.CronCouponSync, getOrPost...)

	admin := NewGroup("/admin", middleware.BearerAuth(a.AdminToken), middleware.BodyLimit(bodyLimit))
	admin.Sub("/sync").
		POST("", a.Sync.TriggerManual).
		GET("", a.Sync.ListRuns).
		GET("/:id", a.Sync.GetRun)
	admin.Sub("/queries").
		GET("", a.Queries.List).
		POST("", a.Queries.Create).
		PATCH("/:id", a.Queries.Update).
		DELETE("/:id", a.Queries.Delete)
	admin.Sub("/products").
		GET("", a.Catalog.ListAdminProducts).
		PUT("/:id/override", a.Catalog.UpsertOverride)

	storefront := NewGroup("")
	if a.PublicLimiter != nil {
		storefront.Guard(middleware.RateLimit(a.PublicLimiter))
	}
	storefront.
		GET("/products", a.Catalog.ListProducts).
		GET("/search", a.Catalog.Search).
		GET("/coupons", a.Catalog.ListCoupons)

	api := engine.Group(APIPrefix)
	var routes []string
	for _, g := range []*Group{cron, admin, storefront} {
		g.Mount(api)
		routes = append(routes, g.Routes()...)
	}
	return routes
}
