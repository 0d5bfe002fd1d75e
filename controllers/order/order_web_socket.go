package orderControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/BeltranHC/ecomerce-akemy-sub000/notify"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// OrderWebSocketHandler attaches a client to the push hub for real-time
// order events.
func OrderWebSocketHandler(hub *notify.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		hub.Register(conn)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				hub.Unregister(conn)
				break
			}
		}
	}
}
