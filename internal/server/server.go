package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"gymhub/internal/auth"
	"gymhub/internal/blog"
	"gymhub/internal/chat"
	"gymhub/internal/config"
	"gymhub/internal/email"
	"gymhub/internal/event"
	"gymhub/internal/gym"
	"gymhub/internal/notice"
	"gymhub/internal/reminder"
	"gymhub/internal/rsvp"
	"gymhub/internal/user"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *sqlx.DB
	config *config.Config
	email  *email.Service
}

func New(db *sqlx.DB, cfg *config.Config, emailService *email.Service, dispatcher *reminder.Dispatcher) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())

	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo, emailService, cfg.JWTSecret, cfg.EmailSendDelay)
	userHandler := user.NewHandler(userService, cfg.BaseURL)

	gymRepo := gym.NewRepository(db)
	gymService := gym.NewService(gymRepo)
	gymHandler := gym.NewHandler(gymService, gymRepo, cfg.JWTSecret)

	eventRepo := event.NewRepository(db)
	eventService := event.NewService(eventRepo, emailService)
	eventHandler := event.NewHandler(eventService)

	rsvpRepo := rsvp.NewRepository(db)
	rsvpService := rsvp.NewService(rsvpRepo)
	rsvpHandler := rsvp.NewHandler(rsvpService)

	reminderHandler := reminder.NewHandler(dispatcher)

	noticeHandler := notice.NewHandler(notice.NewRepository(db))
	blogHandler := blog.NewHandler(blog.NewRepository(db))

	chatHub := chat.NewHub()
	chatHandler := chat.NewHandler(chat.NewRepository(db), chatHub, cfg.JWTSecret)

	public := router.Group("/auth")
	public.Use(RateLimitMiddleware(5, 10))
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
		public.POST("/refresh", userHandler.RefreshToken)
		public.POST("/password-setup/request", userHandler.RequestPasswordSetup)
		public.POST("/password-setup/complete", userHandler.CompletePasswordSetup)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)
		protected.PATCH("/me", userHandler.UpdateMe)

		protected.POST("/gyms", gymHandler.Onboard)
		protected.GET("/gym", gymHandler.GetMine)

		protected.GET("/events", eventHandler.ListEvents)
		protected.GET("/events/:eventID", eventHandler.GetEvent)
		protected.GET("/events/:eventID/occurrences", eventHandler.ListOccurrences)

		protected.PUT("/occurrences/:occurrenceID/rsvp", rsvpHandler.SetOwn)

		protected.GET("/notices", noticeHandler.List)
		protected.GET("/notices/:id", noticeHandler.Get)
		protected.GET("/blog", blogHandler.List)
		protected.GET("/blog/:id", blogHandler.Get)

		protected.GET("/channels", chatHandler.ListChannels)
		protected.GET("/channels/:id/messages", chatHandler.History)
	}

	// Websocket handshakes carry the JWT as a query parameter, so the route
	// sits outside the header-based auth group; the handler validates itself.
	router.GET("/channels/:id/ws", chatHandler.ServeWS)

	staff := router.Group("/")
	staff.Use(authMiddleware, auth.RequireStaff())
	{
		staff.GET("/roster", userHandler.ListRoster)
		staff.POST("/invites", userHandler.InviteMembers)

		staff.POST("/events", eventHandler.CreateEvent)
		staff.PATCH("/events/:eventID", eventHandler.UpdateEvent)
		staff.DELETE("/events/:eventID", eventHandler.DeleteEvent)
		staff.POST("/events/:eventID/occurrences", eventHandler.AddOccurrence)
		staff.POST("/occurrences/:occurrenceID/cancel", eventHandler.CancelOccurrence)
		staff.POST("/occurrences/:occurrenceID/restore", eventHandler.RestoreOccurrence)
		staff.DELETE("/occurrences/:occurrenceID", eventHandler.DeleteOccurrence)

		staff.PUT("/occurrences/:occurrenceID/rsvp/override", rsvpHandler.Override)
		staff.GET("/occurrences/:occurrenceID/rsvps", rsvpHandler.ListByOccurrence)

		staff.POST("/occurrences/:occurrenceID/remind", reminderHandler.SendManual)

		staff.POST("/notices", noticeHandler.Create)
		staff.PATCH("/notices/:id", noticeHandler.Update)
		staff.DELETE("/notices/:id", noticeHandler.Delete)

		staff.POST("/blog", blogHandler.Create)
		staff.PATCH("/blog/:id", blogHandler.Update)
		staff.DELETE("/blog/:id", blogHandler.Delete)

		staff.POST("/channels", chatHandler.CreateChannel)
		staff.DELETE("/channels/:id", chatHandler.DeleteChannel)
	}

	owner := router.Group("/")
	owner.Use(authMiddleware, auth.RequireRole(auth.RoleOwner))
	{
		owner.PATCH("/gym/branding", gymHandler.UpdateBranding)
		owner.PATCH("/roster/:userID/role", userHandler.ChangeRole)
		owner.POST("/admin/reminders/run", reminderHandler.RunNow)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	router.GET("/test-email", TestEmail(emailService))
	SetupSwagger(router)

	return &Server{
		router: router,
		db:     db,
		config: cfg,
		email:  emailService,
	}
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
