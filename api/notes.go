package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mkravets/taskboard/internal/models"
	"github.com/mkravets/taskboard/internal/service"
)

type noteRequest struct {
	UserInput     string        `json:"user_input"`
	AttachmentURL *string       `json:"attachment_url"`
	ProjectID     uint          `json:"project_id"`
	EventID       *uint         `json:"event_id"`
	Phase         *models.Phase `json:"phase"`
}

func (r noteRequest) input() service.NoteInput {
	return service.NoteInput{
		UserInput:     r.UserInput,
		AttachmentURL: r.AttachmentURL,
		ProjectID:     r.ProjectID,
		EventID:       r.EventID,
		Phase:         r.Phase,
	}
}

func (h *Handler) CreateNote(c *gin.Context) {
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}

	note, err := h.Notes.Create(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

func (h *Handler) ListNotes(c *gin.Context) {
	filter := service.NoteListFilter{
		ProjectID: queryUintPtr(c, "project_id"),
		Offset:    queryInt(c, "skip", 0),
		Limit:     queryInt(c, "limit", 100),
	}
	notes, err := h.Notes.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, notes)
}

func (h *Handler) GetNote(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	note, err := h.Notes.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

func (h *Handler) UpdateNote(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}

	note, err := h.Notes.Update(c.Request.Context(), id, req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

func (h *Handler) DeleteNote(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Notes.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c)
}
