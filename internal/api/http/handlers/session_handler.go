package handlers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/placement-hub/portal/internal/api/dto"
	"github.com/placement-hub/portal/internal/session"
)

// SessionHandler exposes the client's session state and its live event stream.
type SessionHandler struct {
	logger    *zap.Logger
	heartbeat time.Duration

	stop     chan struct{}
	stopOnce sync.Once
}

// NewSessionHandler constructs handler. heartbeat is the keep-alive interval of the stream.
func NewSessionHandler(logger *zap.Logger, heartbeat time.Duration) *SessionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if heartbeat <= 0 {
		heartbeat = 15 * time.Second
	}
	return &SessionHandler{logger: logger, heartbeat: heartbeat, stop: make(chan struct{})}
}

// Close ends every open stream so the server can shut down.
func (h *SessionHandler) Close() {
	h.stopOnce.Do(func() { close(h.stop) })
}

// Snapshot handles GET /session.
func (h *SessionHandler) Snapshot(c *fiber.Ctx) error {
	client, err := ClientFrom(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSessionResponse(client.Store.Snapshot())})
}

// Events handles GET /session/events. It streams "state" events for every store change
// and ends with a "navigate" event, after which the browser replaces its location.
func (h *SessionHandler) Events(c *fiber.Ctx) error {
	client, err := ClientFrom(c)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	snaps := make(chan session.Snapshot, 8)
	dispose := client.Store.Subscribe(func(snap session.Snapshot) {
		// Keep the newest snapshots when the stream falls behind.
		for {
			select {
			case snaps <- snap:
				return
			default:
				select {
				case <-snaps:
				default:
				}
			}
		}
	})
	initial := client.Store.Snapshot()
	logger := h.logger.With(zap.String("client_id", client.ID))

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer dispose()
		select {
		case <-h.stop:
			return
		default:
		}

		if err := writeEvent(w, "state", dto.NewSessionResponse(initial)); err != nil {
			return
		}

		ticker := time.NewTicker(h.heartbeat)
		defer ticker.Stop()
		for {
			// A navigation leaves the queue only when it is written to this stream.
			if nav, ok := client.Navigator.Take(); ok {
				if err := writeEvent(w, "navigate", nav); err != nil {
					client.Navigator.Restore(nav)
					logger.Warn("navigation not delivered", zap.String("path", nav.Path), zap.Error(err))
				}
				return
			}

			select {
			case snap := <-snaps:
				if err := writeEvent(w, "state", dto.NewSessionResponse(snap)); err != nil {
					logger.Debug("session stream closed", zap.Error(err))
					return
				}
			case <-client.Navigator.Notify():
			case <-ticker.C:
				if _, err := w.WriteString(": ping\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			case <-h.stop:
				return
			}
		}
	})
	return nil
}

func writeEvent(w *bufio.Writer, name string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data); err != nil {
		return err
	}
	return w.Flush()
}
