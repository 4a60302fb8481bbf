package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"appliance-manager/config"
	"appliance-manager/internal/auth"
	"appliance-manager/internal/mw"
	"appliance-manager/internal/render"
	"appliance-manager/internal/store"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Store    store.Store
	WebPush  *webpush.Options // nil disables push
	Pool     Dispatcher       // nil disables notifications
	Sessions *auth.Sessions
	Config   *config.Config
	Log      *zap.Logger
	Registry *prometheus.Registry // nil disables /metrics
}

// NewRouter creates and configures a new Gin router.
func NewRouter(d Deps) (*gin.Engine, error) {
	cfg := d.Config
	r := gin.New()
	if err := r.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		return nil, err
	}

	templates, err := render.Templates()
	if err != nil {
		return nil, err
	}
	r.SetHTMLTemplate(templates)

	r.Use(mw.RequestID(), mw.Logger(d.Log))
	if d.Registry != nil && cfg.Metrics.Enabled {
		r.Use(mw.NewMetrics(d.Registry).Handler())
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))
	}

	ttl := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	responses := cache.New(ttl, 2*ttl)
	caching := mw.Cache(responses, ttl)

	handler := NewHandler(d.Store, d.WebPush, d.Pool, d.Sessions, cfg.Auth, responses, d.Log)

	r.Static("/static", cfg.Server.StaticDir)
	r.Static("/media", cfg.Server.MediaDir)
	r.GET("/healthz", handler.Health)
	r.NoRoute(handler.notFound)

	optional := mw.OptionalUser(d.Sessions, d.Store, cfg.Auth.CookieName, d.Log)
	loginLimit := mw.RateLimiter(mw.PerMinute(cfg.Server.LoginRatePerMin), int(cfg.Server.LoginRatePerMin))
	r.GET(cfg.Auth.LoginPath, optional, handler.LoginPage)
	r.POST(cfg.Auth.LoginPath, loginLimit, handler.Login)
	r.GET("/logout/", handler.Logout)

	site := r.Group("/")
	site.Use(mw.Authenticate(d.Sessions, d.Store, cfg.Auth.CookieName, cfg.Auth.LoginPath, d.Log))
	{
		site.GET("/", handler.Home)
		site.GET("/explore/", caching, handler.Explore)
		site.GET("/profile/", handler.Profile)
		site.GET("/get-month-dates/", handler.GetMonthDates)

		properties := site.Group("/properties/:id")
		properties.GET("", handler.PropertyView)
		properties.POST("/add-appliance/", handler.AddApplianceModal)

		installations := site.Group("/installations/:propertyID/:applianceID")
		installations.GET("/", handler.ApplianceView)
		installations.POST("/modal/", handler.ReplacementModal)

		site.POST("/appliance_replacement_modal_submit/", handler.ReplacementSubmit)
		site.POST("/add-appliance-submit/", handler.AddApplianceSubmit)
		site.POST("/delete-schedule/:scheduleID/", handler.DeleteSchedule)
		site.POST("/delete-property-appliance/:id/", handler.DeletePropertyAppliance)
	}

	api := r.Group("/api")
	api.Use(
		mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst),
		mw.Authenticate(d.Sessions, d.Store, cfg.Auth.CookieName, cfg.Auth.LoginPath, d.Log),
	)
	{
		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)

		admin := api.Group("/admin", mw.RequireStaff())
		admin.GET("/appliances", handler.ListAppliances)
		admin.POST("/appliances", handler.CreateAppliance)
		admin.DELETE("/appliances/:id", handler.DeleteAppliance)
		admin.GET("/properties", handler.ListProperties)
		admin.POST("/properties", handler.CreateProperty)
		admin.DELETE("/properties/:id", handler.DeleteProperty)
		admin.POST("/assignments", handler.CreateAssignment)
	}

	return r, nil
}
