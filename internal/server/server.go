package server

import (
	"ctchen222/tictactoe/internal/api/controller"
	"ctchen222/tictactoe/internal/api/response"
	"ctchen222/tictactoe/internal/api/service"
	"ctchen222/tictactoe/internal/session"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("server")

// heartbeatInterval is how often idle streams are pinged.
const heartbeatInterval = 10 * time.Second

type Server struct {
	router         *gin.Engine
	sessions       *session.Manager
	tokens         service.TokenService
	upgrader       websocket.Upgrader
	allowedOrigins []string
}

// NewServer wires the HTTP routes and the session stream.
func NewServer(
	sessions *session.Manager,
	tokens service.TokenService,
	games *controller.GameController,
	history *controller.HistoryController,
	allowedOrigins []string,
) *Server {
	s := &Server{
		sessions:       sessions,
		tokens:         tokens,
		allowedOrigins: allowedOrigins,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}

	r := gin.New()
	r.Use(gin.Recovery(), traceRequests(), cors.New(s.corsConfig()))

	r.GET("/healthz", func(c *gin.Context) {
		response.SuccessResponseContent(c, "ok")
	})

	api := r.Group("/api")
	api.POST("/games", games.Create)
	api.GET("/history", history.List)

	owned := api.Group("/games/:id", s.requireSessionToken)
	owned.GET("", games.Get)
	owned.POST("/new", games.Restart)
	owned.POST("/moves", games.Move)

	r.GET("/ws/games/:id", s.requireSessionToken, s.handleStream)

	s.router = r
	return s
}

// Engine returns the handler to mount on an http.Server.
func (s *Server) Engine() *gin.Engine {
	return s.router
}

func (s *Server) allowAllOrigins() bool {
	return len(s.allowedOrigins) == 0 || slices.Contains(s.allowedOrigins, "*")
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if s.allowAllOrigins() {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = s.allowedOrigins
	}
	return cfg
}

// checkOrigin applies the CORS origin list to WebSocket upgrades. Requests
// without an Origin header are not from a browser and are let through.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || s.allowAllOrigins() {
		return true
	}
	return slices.Contains(s.allowedOrigins, origin)
}
