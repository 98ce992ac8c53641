package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"shawedgym/internal/attendance"
	"shawedgym/internal/auth"
	"shawedgym/internal/config"
	"shawedgym/internal/email"
	"shawedgym/internal/gym"
	"shawedgym/internal/logger"
	"shawedgym/internal/member"
	"shawedgym/internal/payment"
	"shawedgym/internal/plan"
	"shawedgym/internal/quota"
	"shawedgym/internal/scope"
	"shawedgym/internal/subscription"
	"shawedgym/internal/usage"
	"shawedgym/internal/user"
)

type Deps struct {
	DB     *sqlx.DB
	Config *config.Config
	Email  *email.Service
	Tokens *auth.Provider
}

type Server struct {
	router  *gin.Engine
	httpSrv *http.Server
	limiter *RateLimiter
	ctx     context.Context
	cancel  context.CancelFunc
}

func New(deps Deps) *Server {
	if deps.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	limiter := NewRateLimiter(deps.Config.RateLimitRPS, deps.Config.RateLimitBurst, 3*time.Minute)
	ctx, cancel := context.WithCancel(context.Background())

	router := gin.New()
	router.Use(
		gin.Recovery(),
		RequestIDMiddleware(),
		RequestLoggingMiddleware(),
		MetricsMiddleware(),
		corsMiddleware(),
	)

	router.GET("/health", Health)
	router.GET("/ready", Ready(deps.DB))
	router.GET("/metrics", Metrics())

	registerRoutes(router.Group("/", limiter.Middleware()), deps)

	return &Server{
		router:  router,
		limiter: limiter,
		ctx:     ctx,
		cancel:  cancel,
		httpSrv: &http.Server{
			Addr:              ":" + deps.Config.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func registerRoutes(r *gin.RouterGroup, deps Deps) {
	gymRepo := gym.NewRepository(deps.DB)
	resolver := scope.NewResolver(gymRepo)

	planService := plan.NewService(plan.NewRepository(deps.DB))
	gymService := gym.NewService(gymRepo, deps.Email, deps.Config.DefaultPlan)
	memberService := member.NewService(member.NewRepository(deps.DB), quota.NewEnforcer(deps.DB), gymService, deps.Email)
	userService := user.NewService(user.NewRepository(deps.DB), deps.Tokens, gymService, resolver)

	userHandler := user.NewHandler(userService)
	planHandler := plan.NewHandler(planService)
	gymHandler := gym.NewHandler(gymService, resolver)
	subscriptionHandler := subscription.NewHandler(subscription.NewService(subscription.NewRepository(deps.DB)))
	usageHandler := usage.NewHandler(usage.NewReporter(deps.DB))
	memberHandler := member.NewHandler(memberService)
	paymentHandler := payment.NewHandler(deps.DB)
	attendanceHandler := attendance.NewHandler(attendance.NewService(attendance.NewRepository(deps.DB), memberService))

	public := r.Group("/auth")
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
		public.POST("/refresh", userHandler.RefreshToken)
	}

	adminOnly := auth.RequireRole(auth.RoleAdmin)

	protected := r.Group("/", auth.Middleware(deps.Tokens))
	{
		protected.GET("/me", userHandler.GetMe)

		protected.GET("/subscription-plans", planHandler.List)
		protected.GET("/subscription-plans/:id", planHandler.Get)
		protected.POST("/subscription-plans", adminOnly, planHandler.Create)
		protected.PUT("/subscription-plans/:id", adminOnly, planHandler.Update)
		protected.DELETE("/subscription-plans/:id", adminOnly, planHandler.Delete)

		protected.POST("/gyms", adminOnly, gymHandler.Create)
		protected.GET("/gyms", gymHandler.List)
		protected.GET("/gyms/current", gymHandler.Current)
	}

	tenant := protected.Group("/gyms/:id", resolver.RequireGym())
	{
		tenant.GET("", gymHandler.Get)
		tenant.PUT("", adminOnly, gymHandler.Update)
		tenant.DELETE("", adminOnly, gymHandler.Delete)

		tenant.POST("/subscribe", adminOnly, subscriptionHandler.Subscribe)
		tenant.GET("/subscription", adminOnly, subscriptionHandler.GetActive)
		tenant.GET("/subscriptions", adminOnly, subscriptionHandler.History)
		tenant.GET("/usage", usageHandler.Get)

		tenant.POST("/members", memberHandler.Create)
		tenant.GET("/members", memberHandler.List)
		tenant.GET("/members/:memberID", memberHandler.Get)
		tenant.PUT("/members/:memberID", memberHandler.Update)
		tenant.PUT("/members/:memberID/status", memberHandler.ChangeStatus)
		tenant.DELETE("/members/:memberID", adminOnly, memberHandler.Delete)

		tenant.POST("/payments", paymentHandler.Record)
		tenant.GET("/payments", paymentHandler.List)

		tenant.POST("/attendance", attendanceHandler.CheckIn)
		tenant.GET("/attendance", attendanceHandler.List)

		tenant.POST("/staff", adminOnly, userHandler.CreateStaff)
	}
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	go s.limiter.Cleanup(s.ctx)

	logger.Info("server listening", "addr", s.httpSrv.Addr)
	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.cancel()
	return s.httpSrv.Shutdown(ctx)
}
