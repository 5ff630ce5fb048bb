package presence

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/jeffreyotan/fsdfinal/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/samber/lo"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 64 * 1024
)

// wsChannel adapts a websocket connection to Channel. gorilla connections
// allow one concurrent writer, so writes are serialised here.
type wsChannel struct {
	conn *websocket.Conn

	mu     sync.Mutex
	closed bool
}

func newWSChannel(conn *websocket.Conn) *wsChannel {
	return &wsChannel{conn: conn}
}

func (c *wsChannel) Send(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrChannelClosed
	}

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

func (c *wsChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	_ = c.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait),
	)
	return c.conn.Close()
}

type Handler struct {
	registry *Registry
	upgrader websocket.Upgrader
}

// NewHandler accepts handshakes from allowedOrigins in addition to the
// server's own origin. "*" allows any origin.
func NewHandler(registry *Registry, allowedOrigins []string) *Handler {
	return &Handler{
		registry: registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || lo.Contains(allowed, "*") || lo.Contains(allowed, origin) {
			return true
		}

		u, err := url.Parse(origin)
		return err == nil && strings.EqualFold(u.Host, r.Host)
	}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/connect", h.Connect)
	r.GET("/participants", h.Participants)
}

// Connect upgrades the request and runs the channel until either side closes.
func (h *Handler) Connect(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		logger.Warn("websocket upgrade failed", map[string]any{
			"username": username,
			"error":    err.Error(),
		})
		return
	}

	ch := newWSChannel(conn)
	h.registry.Register(username, ch)

	logger.Info("chat channel opened", map[string]any{
		"username": username,
		"ip":       c.ClientIP(),
	})

	h.serve(username, ch)
}

func (h *Handler) serve(username string, ch *wsChannel) {
	defer func() {
		_ = ch.Close()
		h.registry.Release(username, ch)

		logger.Info("chat channel closed", map[string]any{
			"username": username,
		})
	}()

	ch.conn.SetReadLimit(maxMessageSize)

	for {
		kind, payload, err := ch.conn.ReadMessage()
		if err != nil {
			var closeErr *websocket.CloseError
			if !errors.As(err, &closeErr) && !errors.Is(err, websocket.ErrCloseSent) {
				logger.Debug("chat read ended", map[string]any{
					"username": username,
					"error":    err.Error(),
				})
			}
			return
		}

		if kind != websocket.TextMessage {
			continue
		}

		if _, err := h.registry.Broadcast(username, string(payload)); err != nil {
			logger.Error("chat broadcast failed", map[string]any{
				"username": username,
				"error":    err.Error(),
			})
		}
	}
}

// Participants lists the identities that currently hold an open channel.
func (h *Handler) Participants(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.registry.Identities()})
}
