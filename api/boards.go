package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mkravets/taskboard/internal/service"
)

// boardRequest mirrors the board JSON body. external_id is ignored on
// create; the service always generates it.
type boardRequest struct {
	Name       string         `json:"name"`
	Settings   map[string]any `json:"settings"`
	ExternalID string         `json:"external_id"`
}

func (r boardRequest) input() service.BoardInput {
	return service.BoardInput{Name: r.Name, Settings: r.Settings, ExternalID: r.ExternalID}
}

func (h *Handler) CreateBoard(c *gin.Context) {
	var req boardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}

	board, err := h.Boards.Create(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

func (h *Handler) ListBoards(c *gin.Context) {
	boards, err := h.Boards.List(c.Request.Context(), queryInt(c, "skip", 0), queryInt(c, "limit", 100))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, boards)
}

func (h *Handler) GetBoard(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	board, err := h.Boards.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

func (h *Handler) GetBoardByCode(c *gin.Context) {
	board, err := h.Boards.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

func (h *Handler) UpdateBoard(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req boardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}

	board, err := h.Boards.Update(c.Request.Context(), id, req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

func (h *Handler) DeleteBoard(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Boards.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c)
}
