package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/chronocapsule/chrono-capsule/events"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// StreamHandler -> endpoint WebSocket untuk push event
// (capsule_released, notification_created, badge_awarded)
func StreamHandler(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	events.RegisterClient(ws, userID)

	for {
		_, _, err := ws.ReadMessage()
		if err != nil {
			break
		}
	}

	events.UnregisterClient(ws)
}
