package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/haivivi/clipgen/pkg/clip"
	"github.com/haivivi/clipgen/pkg/logging"
)

const wsWriteWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// wsConn serializes writes; progress events arrive from the video and
// narration goroutines concurrently.
type wsConn struct {
	mu sync.Mutex
	ws *websocket.Conn
}

func (c *wsConn) send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ws.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return c.ws.WriteJSON(msg)
}

// clipSocketHandler reads one clip.Request, streams progress messages while
// the clip is generated, then sends a result or error message and closes.
func clipSocketHandler(cfg Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logging.WithRequestID(cfg.Logger, RequestIDFrom(r.Context()))
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn("websocket upgrade failed", "error", err)
			return
		}
		defer ws.Close()
		conn := &wsConn{ws: ws}

		var req clip.Request
		if err := ws.ReadJSON(&req); err != nil {
			conn.send(Message{Type: MessageError, Error: &ErrorResponse{Error: "invalid request", Code: "BAD_REQUEST"}})
			return
		}

		ctx := clip.WithObserver(r.Context(), clip.ObserverFunc(func(ev clip.Event) {
			if err := conn.send(Message{Type: MessageProgress, Event: &ev}); err != nil {
				log.Debug("dropped progress message", "error", err)
			}
		}))
		job, err := cfg.Runner.Run(ctx, req, runOptions(cfg))
		if err != nil {
			_, resp := runError(job, err)
			conn.send(Message{Type: MessageError, Error: resp})
		} else {
			conn.send(Message{Type: MessageResult, Result: clipResponse(job)})
		}

		conn.mu.Lock()
		ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(wsWriteWait))
		conn.mu.Unlock()
	}
}
