package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/scythe504/charades-backend/internal"
	"github.com/scythe504/charades-backend/internal/database"
	"github.com/scythe504/charades-backend/internal/game"
	"github.com/scythe504/charades-backend/internal/websocket"
)

type stubDB struct {
	database.Service
	status string
	games  []database.GameRecord
}

func (s stubDB) Health(context.Context) map[string]string {
	return map[string]string{"status": s.status}
}

func (s stubDB) RecentGames(context.Context, int) ([]database.GameRecord, error) {
	return s.games, nil
}

func newTestServer(t *testing.T, db database.Service) (*Server, *game.Registry) {
	t.Helper()
	reg := game.NewRegistry(0, game.Options{Phrases: []string{"Jaws"}, Logger: zap.NewNop()})
	t.Cleanup(reg.Shutdown)
	s := &Server{
		publicURL:  "https://charades.example/",
		corsOrigin: "http://localhost:3000",
		registry:   reg,
		hub:        websocket.NewHub(zap.NewNop()),
		db:         db,
		log:        zap.NewNop(),
	}
	return s, reg
}

func do(t *testing.T, s *Server, method, path string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	s.RegisterRoutes().ServeHTTP(rec, req)
	return rec
}

func TestHealthHandler(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := do(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	s, _ = newTestServer(t, stubDB{status: "down"})
	rec = do(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"degraded"`)
}

func TestStatsHandler(t *testing.T) {
	s, reg := newTestServer(t, nil)
	reg.Connect("p1")
	_, err := reg.CreateRoom("p1", "Ann")
	require.NoError(t, err)

	rec := do(t, s, http.MethodGet, "/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got statsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, statsResponse{Rooms: 1, Players: 1, OnlinePlayers: 1}, got)
}

func TestGetRoomHandler(t *testing.T) {
	s, reg := newTestServer(t, nil)
	code, err := reg.CreateRoom("p1", "Ann")
	require.NoError(t, err)

	rec := do(t, s, http.MethodGet, "/rooms/"+strings.ToLower(code), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		StatusCode int                  `json:"status_code"`
		Data       internal.RoomSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, internal.RoomSummary{
		Code:        code,
		Phase:       internal.PhaseLobby,
		PlayerCount: 1,
		Joinable:    true,
	}, resp.Data)

	rec = do(t, s, http.MethodGet, "/rooms/NOPE", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Room not found")
}

func TestRoomQRHandler(t *testing.T) {
	s, reg := newTestServer(t, nil)
	code, err := reg.CreateRoom("p1", "Ann")
	require.NoError(t, err)

	rec := do(t, s, http.MethodGet, "/rooms/"+code+"/qr.png", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "\x89PNG"))

	rec = do(t, s, http.MethodGet, "/rooms/NOPE/qr.png", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	assert.Equal(t, "https://charades.example/room/"+code, s.joinURL(code))
}

func TestRecentGamesRoute(t *testing.T) {
	s, _ := newTestServer(t, nil)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/games/recent", nil).Code)

	s, _ = newTestServer(t, stubDB{status: "up", games: []database.GameRecord{{ID: 7, RoomCode: "ABCDE"}}})
	rec := do(t, s, http.MethodGet, "/games/recent", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"room_code":"ABCDE"`)
}

func TestCORS(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := do(t, s, http.MethodOptions, "/stats", http.Header{
		"Origin":                        {"http://localhost:3000"},
		"Access-Control-Request-Method": {"GET"},
	})
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = do(t, s, http.MethodGet, "/stats", http.Header{"Origin": {"http://evil.example"}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
