package handlers

import (
	"net/http"

	"tempo/internal/logger"
	"tempo/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// same-origin app; the JWT on the upgrade request is the real gate
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WS upgrades the connection and attaches it to the task event hub.
func (h *Handler) WS(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("ws upgrade failed", "user_id", userID, "error", err)
		return
	}

	client := ws.NewClient(userID, conn, h.Hub)
	go client.Run()
}
