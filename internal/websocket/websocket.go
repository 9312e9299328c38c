package websocket

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/scythe504/charades-backend/internal"
	"github.com/scythe504/charades-backend/internal/game"
	"github.com/scythe504/charades-backend/internal/utils"
)

const (
	heartbeatInterval = 30 * time.Second
	heartbeatTimeout  = 45 * time.Second
	writeWait         = 10 * time.Second
	maxMessageSize    = 8 << 10
	sendBufferSize    = 64

	DefaultRateLimit = 10
	DefaultRateBurst = 10
)

var errRateLimited = errors.New("rate limited")

const (
	slowDownMessage = "Slow down"
	kickedMessage   = "You were removed from the room by the host"
)

// Config tunes the per-connection limits.
type Config struct {
	// RateLimit is the sustained number of clue updates and guesses a
	// connection may send per second.
	RateLimit float64
	RateBurst int
	// AllowedOrigins is checked against the Origin header on upgrade. Empty
	// allows every origin.
	AllowedOrigins []string
}

// Handler upgrades /ws requests and routes client frames to the registry.
type Handler struct {
	registry *game.Registry
	hub      *Hub
	upgrader websocket.Upgrader
	limit    rate.Limit
	burst    int
	log      *zap.Logger
}

func NewHandler(registry *game.Registry, hub *Hub, cfg Config, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = DefaultRateLimit
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = DefaultRateBurst
	}
	origins := cfg.AllowedOrigins
	return &Handler{
		registry: registry,
		hub:      hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return originAllowed(origins, r.Header.Get("Origin"))
			},
		},
		limit: rate.Limit(cfg.RateLimit),
		burst: cfg.RateBurst,
		log:   log.Named("ws"),
	}
}

func originAllowed(allowed []string, origin string) bool {
	if len(allowed) == 0 || origin == "" {
		return true
	}
	for _, o := range allowed {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}

// ServeHTTP runs one connection to completion. The player gets an id on
// connect and leaves their room when the connection closes.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("upgrade failed", zap.String("remote", r.RemoteAddr), zap.Error(err))
		return
	}

	id := uuid.NewString()
	client := newClient(id, conn, rate.NewLimiter(h.limit, h.burst), h.log)
	h.hub.add(client)
	h.registry.Connect(id)
	h.log.Info("client connected", zap.String("player", id), zap.String("remote", r.RemoteAddr))

	go client.writePump()
	client.sendMessage(internal.MsgConnected, internal.ConnectedData{PlayerID: id})

	defer func() {
		h.hub.remove(id)
		h.registry.Disconnect(id)
		client.close()
		h.log.Info("client disconnected", zap.String("player", id))
	}()

	client.readPump(h.dispatch)
}

// dispatch routes one decoded frame. Rejected actions are answered with an
// error-msg frame; malformed payloads are dropped.
func (h *Handler) dispatch(c *Client, msg internal.Message[json.RawMessage]) {
	h.log.Debug("received", zap.String("player", c.id), zap.String("type", msg.Type))

	var err error
	switch msg.Type {
	case internal.MsgCreateRoom:
		var data internal.CreateRoomData
		if !h.decode(c, msg, &data) {
			return
		}
		var code string
		if code, err = h.registry.CreateRoom(c.id, data.PlayerName); err == nil {
			c.sendMessage(internal.MsgAck, internal.AckData{Action: msg.Type, Code: code})
		}

	case internal.MsgJoinRoom:
		var data internal.JoinRoomData
		if !h.decode(c, msg, &data) {
			return
		}
		var code string
		if code, err = h.registry.JoinRoom(data.Code, c.id, data.PlayerName); err == nil {
			c.sendMessage(internal.MsgAck, internal.AckData{Action: msg.Type, Code: code})
		}

	case internal.MsgUpdateSettings:
		var data internal.UpdateSettingsData
		if !h.decode(c, msg, &data) {
			return
		}
		err = h.withRoom(c, func(room *game.Room) error {
			return room.UpdateSettings(c.id, data.RoundsPerPlayer, data.TurnDuration)
		})

	case internal.MsgStartGame:
		err = h.withRoom(c, func(room *game.Room) error {
			return room.HostStartGame(c.id)
		})

	case internal.MsgEmojiUpdate:
		if !c.limiter.Allow() {
			err = errRateLimited
			break
		}
		var data internal.EmojiUpdateData
		if !h.decode(c, msg, &data) {
			return
		}
		err = h.withRoom(c, func(room *game.Room) error {
			return room.UpdateClue(c.id, data.Emojis)
		})

	case internal.MsgGuess:
		if !c.limiter.Allow() {
			err = errRateLimited
			break
		}
		var data internal.GuessData
		if !h.decode(c, msg, &data) {
			return
		}
		text, ok := utils.ValidateGuess(data.Text, internal.MaxGuessLength)
		if !ok {
			return
		}
		err = h.withRoom(c, func(room *game.Room) error {
			_, err := room.SubmitGuess(c.id, text)
			return err
		})

	case internal.MsgReturnToLobby:
		err = h.withRoom(c, func(room *game.Room) error {
			return room.HostReturnToLobby(c.id)
		})

	case internal.MsgLeaveRoom:
		if err = h.registry.Leave(c.id); err == nil {
			c.sendMessage(internal.MsgLeft, nil)
		}

	case internal.MsgKick:
		var data internal.KickData
		if !h.decode(c, msg, &data) {
			return
		}
		if err = h.registry.Kick(c.id, data.TargetID); err == nil {
			h.hub.SendTo(data.TargetID, internal.MsgKicked, internal.ErrorData{Message: kickedMessage})
		}

	default:
		h.log.Debug("unknown message type", zap.String("player", c.id), zap.String("type", msg.Type))
		return
	}

	if err != nil {
		h.reject(c, msg.Type, err)
	}
}

func (h *Handler) withRoom(c *Client, fn func(*game.Room) error) error {
	room, ok := h.registry.RoomFor(c.id)
	if !ok {
		return game.ErrNotInRoom
	}
	return fn(room)
}

func (h *Handler) decode(c *Client, msg internal.Message[json.RawMessage], v any) bool {
	if len(msg.Data) == 0 {
		return true
	}
	if err := json.Unmarshal(msg.Data, v); err != nil {
		h.log.Debug("bad payload", zap.String("player", c.id), zap.String("type", msg.Type), zap.Error(err))
		return false
	}
	return true
}

func (h *Handler) reject(c *Client, action string, err error) {
	text := game.UserMessage(err)
	if errors.Is(err, errRateLimited) {
		text = slowDownMessage
	}
	h.log.Debug("action rejected",
		zap.String("player", c.id),
		zap.String("action", action),
		zap.Error(err))
	c.sendMessage(internal.MsgError, internal.ErrorData{Message: text})
}
