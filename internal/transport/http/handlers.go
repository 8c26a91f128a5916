package http

import (
	"net/http"

	"github.com/dkeye/Poker/internal/app/orch"
	"github.com/dkeye/Poker/internal/core"
	"github.com/dkeye/Poker/internal/domain"
	"github.com/gin-gonic/gin"
)

type RoomResponse struct {
	Type     string          `json:"type"`
	Room     domain.RoomName `json:"room"`
	Exists   bool            `json:"exists"`
	Metadata any             `json:"metadata,omitempty"`
	Members  int             `json:"client_count"`
}

// Handlers is the read-only REST view over the hub.
type Handlers struct {
	Orch *orch.Orchestrator
}

func (h *Handlers) Register(r gin.IRouter) {
	r.GET("/healthz", h.health)

	api := r.Group("/api")
	api.GET("/rooms", h.listRooms)
	api.GET("/rooms/:name", h.checkRoom)
}

func (h *Handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"connections": h.Orch.Registry.Count(),
		"rooms":       h.Orch.Rooms.Count(),
	})
}

func (h *Handlers) listRooms(c *gin.Context) {
	rooms := h.Orch.Rooms.List()
	out := make([]core.RoomInfo, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, core.RoomInfo{Name: r.Name, MemberCount: h.Orch.MemberCount(r.Name)})
	}
	c.JSON(http.StatusOK, gin.H{"rooms": out})
}

// checkRoom mirrors the "check" frame. It never creates a room.
func (h *Handlers) checkRoom(c *gin.Context) {
	name := domain.RoomName(c.Param("name"))
	resp := RoomResponse{Type: "check", Room: name}
	if room, ok := h.Orch.Check(name); ok {
		resp.Exists = true
		if len(room.Metadata) > 0 {
			resp.Metadata = room.Metadata
		}
		resp.Members = h.Orch.MemberCount(name)
	}
	c.JSON(http.StatusOK, resp)
}
