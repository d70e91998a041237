package cartControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/MindSpaceMan/flora-site/cart"
	"github.com/MindSpaceMan/flora-site/middleware"
	"github.com/MindSpaceMan/flora-site/sessions"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// GET /cart/ws
//
// Pushes a cart snapshot on every store change, so a badge in one tab
// follows mutations made in another.
func CartFeed(m *sessions.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := middleware.SessionID(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "No session"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		store := m.Store(sessionID)
		send := make(chan cart.Snapshot, 8)
		unsubscribe := store.Subscribe(func(snap cart.Snapshot) {
			select {
			case send <- snap:
			default: // slow consumer, drop the frame
			}
		})
		defer unsubscribe()

		// Initial state so the client renders without waiting for a change.
		if err := conn.WriteJSON(store.Snapshot()); err != nil {
			return
		}

		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case snap := <-send:
				if err := conn.WriteJSON(snap); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}
}
