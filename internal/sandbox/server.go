package sandbox

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Server bundles the REST API and the socket hub behind one gin engine.
type Server struct {
	Engine *gin.Engine
	Hub    *Hub
}

// NewServer wires the routes the dashboards call. The socket endpoint lives
// under /ws, everything else under /api.
func NewServer(store *Store, secret []byte, log zerolog.Logger) *Server {
	hub := NewHub(store, secret, log)
	h := &handlers{store: store, secret: secret}

	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/ws", func(c *gin.Context) {
		hub.ServeWS(c.Writer, c.Request)
	})

	api := engine.Group("/api")
	api.POST("/auth/login", h.login)

	authed := api.Group("", h.auth)
	authed.GET("/auth/me", h.me)
	authed.GET("/employers/my-jobs", h.myJobs)
	authed.GET("/jobs/available", h.availableJobs)
	authed.GET("/specialists/my-applications", h.myApplications)
	authed.POST("/jobs", h.createJob)
	authed.POST("/jobs/:id/apply", h.apply)
	authed.PUT("/jobs/:id/accept/:specialistId", h.accept)

	return &Server{Engine: engine, Hub: hub}
}

// Run blocks serving HTTP on addr.
func (s *Server) Run(addr string) error {
	return s.Engine.Run(addr)
}
