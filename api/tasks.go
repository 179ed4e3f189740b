package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mkravets/taskboard/internal/models"
	"github.com/mkravets/taskboard/internal/service"
)

type taskRequest struct {
	UserInput     string         `json:"user_input"`
	Deadline      *time.Time     `json:"deadline"`
	EstimatedTime *int           `json:"estimated_time"`
	Note          *string        `json:"note"`
	AttachmentURL *string        `json:"attachment_url"`
	Phase         *models.Phase  `json:"phase"`
	ProjectID     uint           `json:"project_id"`
	ParentTaskID  *uint          `json:"parent_task_id"`
	EventID       *uint          `json:"event_id"`
	OwnerIDs      []uint         `json:"owner_ids"`
	TagIDs        []uint         `json:"tag_ids"`
}

func (r taskRequest) input() service.TaskInput {
	return service.TaskInput{
		UserInput:     r.UserInput,
		Deadline:      r.Deadline,
		EstimatedTime: r.EstimatedTime,
		Note:          r.Note,
		AttachmentURL: r.AttachmentURL,
		Phase:         r.Phase,
		ProjectID:     r.ProjectID,
		ParentTaskID:  r.ParentTaskID,
		EventID:       r.EventID,
		OwnerIDs:      r.OwnerIDs,
		TagIDs:        r.TagIDs,
	}
}

func (h *Handler) CreateTask(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}

	task, err := h.Tasks.Create(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *Handler) ListTasks(c *gin.Context) {
	filter := service.TaskListFilter{
		ProjectID:   queryUintPtr(c, "project_id"),
		IsCompleted: queryBoolPtr(c, "is_completed"),
		Offset:      queryInt(c, "skip", 0),
		Limit:       queryInt(c, "limit", 100),
	}
	tasks, err := h.Tasks.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *Handler) GetTask(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	task, err := h.Tasks.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *Handler) UpdateTask(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}

	task, err := h.Tasks.Update(c.Request.Context(), id, req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *Handler) CompleteTask(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Tasks.Complete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c)
}

func (h *Handler) DeleteTask(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Tasks.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c)
}
