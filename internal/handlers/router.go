package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/braiinybear/backoffice-service/internal/auth"
	"github.com/braiinybear/backoffice-service/internal/config"
	"github.com/braiinybear/backoffice-service/internal/metrics"
	"github.com/braiinybear/backoffice-service/internal/models"
	"github.com/braiinybear/backoffice-service/internal/services"
	"github.com/braiinybear/backoffice-service/internal/utils"
)

// HealthChecker reports whether the service's dependencies are reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type HandlerManager struct {
	authHandler         *AuthHandler
	managementHandler   *ManagementHandler
	courseHandler       *CourseHandler
	blogHandler         *BlogHandler
	videoHandler        *VideoHandler
	registrationHandler *RegistrationHandler
	uploadHandler       *UploadHandler
	dashboardHandler    *DashboardHandler

	sessions    SessionVerifier
	gate        *auth.Gate
	landing     auth.LandingTable
	cfg         *config.Config
	metrics     *metrics.Metrics
	health      HealthChecker
	logger      utils.Logger
	loginLimits gin.HandlerFunc
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	cfg *config.Config,
	landing auth.LandingTable,
	m *metrics.Metrics,
	logger utils.Logger,
) *HandlerManager {
	gate := auth.NewGate(landing)

	return &HandlerManager{
		authHandler:         NewAuthHandler(serviceManager.Auth(), cfg.Session, logger),
		managementHandler:   NewManagementHandler(serviceManager.Management(), logger),
		courseHandler:       NewCourseHandler(serviceManager.Course(), logger),
		blogHandler:         NewBlogHandler(serviceManager.Blog(), logger),
		videoHandler:        NewVideoHandler(serviceManager.Video(), logger),
		registrationHandler: NewRegistrationHandler(serviceManager.Registration(), logger),
		uploadHandler:       NewUploadHandler(serviceManager.Media(), logger),
		dashboardHandler:    NewDashboardHandler(serviceManager.Dashboard(), gate, logger),

		sessions:    serviceManager.Auth(),
		gate:        gate,
		landing:     landing,
		cfg:         cfg,
		metrics:     m,
		health:      serviceManager,
		logger:      logger,
		loginLimits: RateLimitMiddleware(cfg.LoginRateLimit, cfg.LoginRateBurst),
	}
}

// SetupRoutes sets up the API, the role pages and the operational endpoints.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.Use(SessionMiddleware(hm.sessions, hm.cfg.Session.CookieName))
	router.Use(GateMiddleware(hm.gate))

	api := router.Group("/api")
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/login", hm.loginLimits, hm.authHandler.Login)
			authRoutes.POST("/logout", hm.authHandler.Logout)
			authRoutes.GET("/session", hm.authHandler.Session)
		}

		// Staff directory. Sign-up is public; the service checks ADMIN for the rest.
		management := api.Group("/management")
		{
			management.POST("", hm.loginLimits, hm.managementHandler.Register)
			management.GET("", RequireSession(), hm.managementHandler.List)
			management.POST("/update-role", RequireSession(), hm.managementHandler.UpdateRole)
			management.DELETE("/:id", RequireSession(), hm.managementHandler.Delete)
		}

		courses := api.Group("/courses")
		{
			courses.GET("", hm.courseHandler.List)
			courses.GET("/:id", hm.courseHandler.Get)
			courses.POST("", RequireSession(), hm.courseHandler.Create)
			courses.PATCH("/:id", RequireSession(), hm.courseHandler.Update)
			courses.DELETE("/:id", RequireSession(), hm.courseHandler.Delete)
			courses.POST("/bulk-delete", RequireSession(), hm.courseHandler.BulkDelete)
			courses.POST("/bulk-edit", RequireSession(), hm.courseHandler.BulkEdit)
		}

		blogs := api.Group("/blogs")
		{
			blogs.GET("", hm.blogHandler.List)
			blogs.GET("/slug/:slug", hm.blogHandler.GetBySlug)
			blogs.GET("/:id", hm.blogHandler.Get)
			blogs.POST("", RequireSession(), hm.blogHandler.Create)
			blogs.PATCH("/:id", RequireSession(), hm.blogHandler.Update)
			blogs.DELETE("/:id", RequireSession(), hm.blogHandler.Delete)
		}

		videos := api.Group("/videos")
		{
			videos.GET("", hm.videoHandler.List)
			videos.GET("/:id", hm.videoHandler.Get)
			videos.POST("", RequireSession(), hm.videoHandler.Create)
			videos.DELETE("/:id", RequireSession(), hm.videoHandler.Delete)
		}

		// Public intake, reachable cross-origin from the public site only.
		intake := api.Group("/online-registration")
		intake.Use(IntakeCORSMiddleware(hm.cfg.PublicSiteOrigin))
		{
			intake.OPTIONS("", func(c *gin.Context) {})
			intake.POST("", hm.registrationHandler.Intake)
		}

		users := api.Group("/users")
		users.Use(RequireSession())
		{
			users.GET("", hm.registrationHandler.List)
			users.GET("/export", RequireRole(models.RoleSales, models.RoleHR), hm.registrationHandler.Export)
			users.GET("/:id", hm.registrationHandler.Get)
			users.PATCH("/:id", hm.registrationHandler.Update)
			users.DELETE("/:id", hm.registrationHandler.Delete)
			users.POST("/bulk-delete", hm.registrationHandler.BulkDelete)
			users.POST("/bulk-edit", hm.registrationHandler.BulkEdit)
		}

		api.POST("/uploads", RequireSession(), hm.uploadHandler.Upload)

		dashboard := api.Group("/dashboard")
		dashboard.Use(RequireRole(models.RoleAdmin))
		{
			dashboard.GET("/overview", hm.dashboardHandler.Overview)
		}
	}

	// Role landing pages; the gate guards them before they are reached.
	for role, path := range hm.landing {
		router.GET(path, hm.dashboardHandler.RolePage(role))
	}

	router.GET("/", hm.dashboardHandler.Root)
	router.GET(auth.LoginPath, func(c *gin.Context) {
		c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "Sign in with POST /api/auth/login"})
	})
	router.GET("/register", func(c *gin.Context) {
		c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "Sign up with POST /api/management"})
	})

	if hm.metrics != nil {
		router.GET("/metrics", gin.WrapH(hm.metrics.Handler()))
	}

	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := hm.health.HealthCheck(ctx); err != nil {
			hm.logger.Warn("Health check failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"service": "backoffice-service",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "backoffice-service",
		})
	})
}
