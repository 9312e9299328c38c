package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/scythe504/charades-backend/internal"
)

const (
	qrSize           = 320
	recentGamesLimit = 20
)

func (s *Server) RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.HealthHandler).Methods(http.MethodGet)
	r.HandleFunc("/stats", s.StatsHandler).Methods(http.MethodGet)
	r.HandleFunc("/rooms/{code}", s.GetRoomHandler).Methods(http.MethodGet)
	r.HandleFunc("/rooms/{code}/qr.png", s.RoomQRHandler).Methods(http.MethodGet)
	if s.db != nil {
		r.HandleFunc("/games/recent", s.RecentGamesHandler).Methods(http.MethodGet)
	}
	if s.ws != nil {
		r.Handle("/ws", s.ws)
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{s.corsOrigin},
		AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
	})
	return c.Handler(r)
}

func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"status": "ok"}
	status := http.StatusOK
	if s.db != nil {
		dbHealth := s.db.Health(r.Context())
		resp["database"] = dbHealth
		if dbHealth["status"] != "up" {
			resp["status"] = "degraded"
			status = http.StatusServiceUnavailable
		}
	}
	s.writeJSON(w, status, resp)
}

type statsResponse struct {
	Rooms         int `json:"rooms"`
	Players       int `json:"players"`
	OnlinePlayers int `json:"online_players"`
	Connections   int `json:"connections"`
}

func (s *Server) StatsHandler(w http.ResponseWriter, r *http.Request) {
	stats := s.registry.Stats()
	resp := statsResponse{
		Rooms:         stats.Rooms,
		Players:       stats.Players,
		OnlinePlayers: stats.OnlinePlayers,
	}
	if s.hub != nil {
		resp.Connections = s.hub.Len()
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// GetRoomHandler tells a client whether a code names a live room and if it
// can still be joined.
func (s *Server) GetRoomHandler(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now().UnixMilli()
	code := mux.Vars(r)["code"]

	var resp internal.Response
	if room, ok := s.registry.Room(code); ok {
		resp = internal.Response{
			StatusCode:    http.StatusOK,
			RespStartTime: startTime,
			Data:          room.Summary(),
		}
	} else {
		resp = internal.Response{
			StatusCode:    http.StatusNotFound,
			RespStartTime: startTime,
			Data:          "Room not found",
		}
	}

	// Calculate response times
	endTime := time.Now().UnixMilli()
	resp.RespEndTime = endTime
	resp.NetRespTime = endTime - startTime

	s.writeJSON(w, resp.StatusCode, resp)
}

// RoomQRHandler renders a PNG QR code of the room's join link.
func (s *Server) RoomQRHandler(w http.ResponseWriter, r *http.Request) {
	room, ok := s.registry.Room(mux.Vars(r)["code"])
	if !ok {
		http.Error(w, "Room not found", http.StatusNotFound)
		return
	}

	png, err := qrcode.Encode(s.joinURL(room.Code()), qrcode.Medium, qrSize)
	if err != nil {
		s.log.Error("qr generation failed", zap.String("room", room.Code()), zap.Error(err))
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}

func (s *Server) joinURL(code string) string {
	return strings.TrimRight(s.publicURL, "/") + "/room/" + code
}

func (s *Server) RecentGamesHandler(w http.ResponseWriter, r *http.Request) {
	games, err := s.db.RecentGames(r.Context(), recentGamesLimit)
	if err != nil {
		s.log.Error("recent games", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, games)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("error encoding response", zap.Error(err))
	}
}
