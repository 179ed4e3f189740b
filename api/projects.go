package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mkravets/taskboard/internal/service"
)

type projectRequest struct {
	Name     string         `json:"name"`
	Deadline *time.Time     `json:"deadline"`
	Settings map[string]any `json:"settings"`
	BoardID  uint           `json:"board_id"`
}

func (r projectRequest) input() service.ProjectInput {
	return service.ProjectInput{Name: r.Name, Deadline: r.Deadline, Settings: r.Settings, BoardID: r.BoardID}
}

func (h *Handler) CreateProject(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}

	project, err := h.Projects.Create(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *Handler) ListProjects(c *gin.Context) {
	filter := service.ProjectListFilter{
		BoardID: queryUintPtr(c, "board_id"),
		Offset:  queryInt(c, "skip", 0),
		Limit:   queryInt(c, "limit", 100),
	}
	projects, err := h.Projects.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (h *Handler) GetProject(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	project, err := h.Projects.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *Handler) UpdateProject(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}

	project, err := h.Projects.Update(c.Request.Context(), id, req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *Handler) DeleteProject(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Projects.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c)
}
