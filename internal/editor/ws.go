package editor

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ziadkadry99/asciitree/internal/session"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsMessage is the incoming WebSocket message format. Hover is the only
// action carried over the socket since it fires on every pointer move.
type wsMessage struct {
	Type string `json:"type"` // "hover"
	ID   string `json:"id"`
}

// wsError is sent back when an incoming message is rejected.
type wsError struct {
	Type    string `json:"type"` // always "error"
	Message string `json:"message"`
}

// handleWebSocket streams the view to the client: once on connect, then
// after every re-render. Only the newest pending view is kept per client.
func (e *Editor) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		e.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	out := make(chan interface{}, 1)
	push := func(v interface{}) {
		for {
			select {
			case out <- v:
				return
			default:
			}
			select {
			case <-out:
			default:
			}
		}
	}

	unsubscribe := e.sess.Subscribe(func(v session.View) { push(v) })
	defer unsubscribe()

	done := make(chan struct{})
	defer close(done)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for {
			select {
			case <-done:
				return
			case v := <-out:
				if err := conn.WriteJSON(v); err != nil {
					e.log.Debug("websocket write failed", zap.Error(err))
					return
				}
			}
		}
	}()

	push(e.sess.View())

	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				e.log.Warn("websocket read failed", zap.Error(err))
			}
			return
		}

		switch msg.Type {
		case "hover":
			if err := e.sess.Hover(msg.ID); err != nil {
				push(wsError{Type: "error", Message: err.Error()})
			}
		default:
			push(wsError{Type: "error", Message: "unknown message type: " + msg.Type})
		}

		select {
		case <-writerDone:
			return
		default:
		}
	}
}
