package server

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/scythe504/charades-backend/internal/database"
	"github.com/scythe504/charades-backend/internal/game"
	"github.com/scythe504/charades-backend/internal/websocket"
)

type Server struct {
	port       int
	publicURL  string
	corsOrigin string

	registry *game.Registry
	hub      *websocket.Hub
	ws       http.Handler
	db       database.Service
	log      *zap.Logger
}

// Options wires the server to the rest of the process. DB may be nil.
type Options struct {
	Port       int
	PublicURL  string
	CORSOrigin string

	Registry  *game.Registry
	Hub       *websocket.Hub
	WebSocket http.Handler
	DB        database.Service
	Logger    *zap.Logger
}

func NewServer(opts Options) *http.Server {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		port:       opts.Port,
		publicURL:  opts.PublicURL,
		corsOrigin: opts.CORSOrigin,
		registry:   opts.Registry,
		hub:        opts.Hub,
		ws:         opts.WebSocket,
		db:         opts.DB,
		log:        log.Named("http"),
	}

	// Declare Server config
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}
