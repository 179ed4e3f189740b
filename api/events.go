package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mkravets/taskboard/internal/service"
)

type eventRequest struct {
	Title          string         `json:"title"`
	Description    *string        `json:"description"`
	StartTime      time.Time      `json:"start_time"`
	EndTime        *time.Time     `json:"end_time"`
	IsRecurring    bool           `json:"is_recurring"`
	RecurrenceRule map[string]any `json:"recurrence_rule"`
}

func (r eventRequest) input() service.EventInput {
	return service.EventInput{
		Title:          r.Title,
		Description:    r.Description,
		StartTime:      r.StartTime,
		EndTime:        r.EndTime,
		IsRecurring:    r.IsRecurring,
		RecurrenceRule: r.RecurrenceRule,
	}
}

func (h *Handler) CreateEvent(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}

	event, err := h.Events.Create(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *Handler) ListEvents(c *gin.Context) {
	events, err := h.Events.List(c.Request.Context(), queryInt(c, "skip", 0), queryInt(c, "limit", 100))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *Handler) GetEvent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	event, err := h.Events.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *Handler) UpdateEvent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}

	event, err := h.Events.Update(c.Request.Context(), id, req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *Handler) DeleteEvent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Events.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c)
}
