package api

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins for development - customize for production
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// streamInterval matches the client poll interval so both consumption paths
// observe the task at the same cadence. A variable so tests can shorten it.
var streamInterval = 3 * time.Second

// StreamStatusHandler handles GET /ws/status/:taskId
// Upgrades to a websocket and pushes task snapshots until the task reaches a
// terminal state, then closes. A push companion to GET /status/:taskId for
// clients that prefer not to poll.
func (h *Handlers) StreamStatusHandler(c *gin.Context) {
	taskID := c.Param("taskId")
	if _, err := h.taskService.GetTask(taskID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WEBSOCKET] StreamStatus: failed to upgrade connection - %v", err)
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(streamInterval)
	defer ticker.Stop()

	for {
		task, err := h.taskService.GetTask(taskID)
		if err != nil {
			// Task retired mid-stream
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "task retired"),
				time.Now().Add(time.Second))
			return
		}

		if err := conn.WriteJSON(task); err != nil {
			log.Printf("[WEBSOCKET] StreamStatus: write failed for task %s - %v", taskID, err)
			return
		}

		if task.Status.Terminal() {
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, string(task.Status)),
				time.Now().Add(time.Second))
			return
		}

		select {
		case <-ticker.C:
		case <-c.Request.Context().Done():
			return
		}
	}
}
