// Package api exposes the read-only HTTP inspection surface. Rooms are
// created and destroyed only by the websocket join/disconnect flow;
// nothing here mutates registry state.
package api

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/praveenarya123/real-time-collaborative-canvas/internal/canvas"
	"github.com/praveenarya123/real-time-collaborative-canvas/internal/registry"
	"github.com/praveenarya123/real-time-collaborative-canvas/internal/ws"
)

type API struct {
	hub      *ws.Hub
	registry *registry.Registry
}

func New(hub *ws.Hub, reg *registry.Registry) *API {
	return &API{
		hub:      hub,
		registry: reg,
	}
}

// Register mounts all routes on the router.
func (a *API) Register(r *gin.Engine) {
	r.GET("/health", a.HealthHandler)
	r.GET("/api/stats", a.StatsHandler)
	r.GET("/api/rooms", a.ListRoomsHandler)
	r.GET("/api/rooms/:id", a.GetRoomHandler)
}

func (a *API) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (a *API) StatsHandler(c *gin.Context) {
	rooms, members, operations := a.registry.Stats()
	c.JSON(http.StatusOK, gin.H{
		"active_rooms":     rooms,
		"active_members":   members,
		"active_clients":   a.hub.ClientCount(),
		"total_operations": operations,
		"timestamp":        time.Now().UTC().Format(time.RFC3339),
	})
}

type RoomResponse struct {
	ID             string `json:"id"`
	MemberCount    int    `json:"member_count"`
	OperationCount int    `json:"operation_count"`
}

func (a *API) ListRoomsHandler(c *gin.Context) {
	summaries := a.registry.Rooms()
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].ID < summaries[j].ID
	})

	response := make([]RoomResponse, len(summaries))
	for i, s := range summaries {
		response[i] = RoomResponse{
			ID:             s.ID,
			MemberCount:    s.MemberCount,
			OperationCount: s.OperationCount,
		}
	}

	c.JSON(http.StatusOK, gin.H{"rooms": response})
}

type RoomDetailResponse struct {
	ID             string          `json:"id"`
	Members        []canvas.Member `json:"members"`
	OperationCount int             `json:"operation_count"`
}

func (a *API) GetRoomHandler(c *gin.Context) {
	roomID := c.Param("id")

	members, operationCount, ok := a.registry.RoomState(roomID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		return
	}

	c.JSON(http.StatusOK, RoomDetailResponse{
		ID:             roomID,
		Members:        members,
		OperationCount: operationCount,
	})
}
