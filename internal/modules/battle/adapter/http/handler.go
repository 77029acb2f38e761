// Package http exposes the battle room operations over HTTP+JSON.
package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Srekanthnamilakonda/Pookie/internal/modules/battle/domain"
	"github.com/Srekanthnamilakonda/Pookie/internal/modules/battle/usecase"
	"github.com/Srekanthnamilakonda/Pookie/pkg/logger"
)

// Handler handles HTTP requests for the battle module
type Handler struct {
	uc *usecase.BattleUseCase
}

// NewHandler creates a new HTTP handler
func NewHandler(uc *usecase.BattleUseCase) *Handler {
	return &Handler{uc: uc}
}

// RegisterRoutes registers all battle routes to the given router group
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/create", h.Create)
	router.POST("/join", h.Join)
	router.POST("/ready", h.Ready)
	router.POST("/click", h.Click)
	router.GET("/status/:roomId", h.Status)
	router.POST("/settle", h.Settle)
}

// DTOs
type createRequest struct {
	Player string `json:"player" binding:"required"`
	Wager  int64  `json:"wager" binding:"gte=0"`
}

type joinRequest struct {
	RoomID string `json:"room_id" binding:"required"`
	Player string `json:"player" binding:"required"`
	Wager  int64  `json:"wager" binding:"gte=0"`
}

type readyRequest struct {
	RoomID string `json:"room_id" binding:"required"`
	Player string `json:"player" binding:"required"`
	Wager  int64  `json:"wager" binding:"gte=0"`
}

type clickRequest struct {
	RoomID string `json:"room_id" binding:"required"`
	Player string `json:"player" binding:"required"`
}

type settleRequest struct {
	RoomID string `json:"room_id" binding:"required"`
}

type readyResponse struct {
	Phase     domain.Phase `json:"phase"`
	StartTime *time.Time   `json:"start_time,omitempty"`
	EndTime   *time.Time   `json:"end_time,omitempty"`
}

type statusResponse struct {
	Players   []string         `json:"players"`
	Ready     map[string]bool  `json:"ready"`
	Scores    map[string]int64 `json:"scores"`
	Wagers    map[string]int64 `json:"wagers"`
	Phase     domain.Phase     `json:"phase"`
	StartTime *time.Time       `json:"start_time,omitempty"`
	EndTime   *time.Time       `json:"end_time,omitempty"`
}

// Create handles room creation
func (h *Handler) Create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn(c.Request.Context()).Err(err).Msg("Create: invalid request body")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room, err := h.uc.CreateRoom(c.Request.Context(), req.Player, req.Wager)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"room_id": room.RoomID})
}

// Join handles a second player joining a room
func (h *Handler) Join(c *gin.Context) {
	var req joinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn(c.Request.Context()).Err(err).Msg("Join: invalid request body")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.uc.JoinRoom(c.Request.Context(), req.RoomID, req.Player, req.Wager); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Ready handles readiness with a wager
func (h *Handler) Ready(c *gin.Context) {
	var req readyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn(c.Request.Context()).Err(err).Msg("Ready: invalid request body")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room, err := h.uc.SetReady(c.Request.Context(), req.RoomID, req.Player, req.Wager)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := readyResponse{Phase: room.Phase}
	if room.Phase == domain.PhaseActive || room.Phase == domain.PhaseEnded {
		resp.StartTime = &room.StartTime
		resp.EndTime = &room.EndTime
	}
	c.JSON(http.StatusOK, resp)
}

// Click handles one click inside the active window
func (h *Handler) Click(c *gin.Context) {
	var req clickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn(c.Request.Context()).Err(err).Msg("Click: invalid request body")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	score, err := h.uc.RegisterClick(c.Request.Context(), req.RoomID, req.Player)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"score": score})
}

// Status returns the room snapshot both clients poll
func (h *Handler) Status(c *gin.Context) {
	room, err := h.uc.GetStatus(c.Request.Context(), c.Param("roomId"))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := statusResponse{
		Players: room.Players,
		Ready:   room.Ready,
		Scores:  room.Scores,
		Wagers:  room.Wagers,
		Phase:   room.Phase,
	}
	if !room.StartTime.IsZero() {
		resp.StartTime = &room.StartTime
		resp.EndTime = &room.EndTime
	}
	c.JSON(http.StatusOK, resp)
}

// Settle finishes the battle and returns the outcome
func (h *Handler) Settle(c *gin.Context) {
	var req settleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn(c.Request.Context()).Err(err).Msg("Settle: invalid request body")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.uc.Settle(c.Request.Context(), req.RoomID)
	if err != nil {
		respondError(c, err)
		return
	}

	var winner interface{}
	if !result.Tie {
		winner = result.Winner
	}
	c.JSON(http.StatusOK, gin.H{
		"winner": winner, // null on tie
		"scores": result.Scores,
		"wagers": result.Wagers,
	})
}

// respondError maps domain errors onto HTTP status codes
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrRoomNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrRoomFull),
		errors.Is(err, domain.ErrAlreadyJoined):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrPlayerNotInRoom),
		errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrNotActive),
		errors.Is(err, domain.ErrBattleOver),
		errors.Is(err, domain.ErrBattleRunning):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		logger.Error(c.Request.Context()).Err(err).Msg("Request failed")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
