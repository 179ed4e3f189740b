// Package api wires the entity services to their HTTP surface.
package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mkravets/taskboard/internal/service"
)

type Handler struct {
	Boards   *service.BoardService
	Projects *service.ProjectService
	Tasks    *service.TaskService
	Notes    *service.NoteService
	Owners   *service.OwnerService
	Tags     *service.TagService
	Events   *service.EventService
}

// Register mounts every route on the given group.
func (h *Handler) Register(g *gin.RouterGroup) {
	g.GET("/health", h.HealthCheckHandler)

	g.POST("/boards/", h.CreateBoard)
	g.GET("/boards/", h.ListBoards)
	g.GET("/boards/:id", h.GetBoard)
	g.GET("/boards/by-code/:code", h.GetBoardByCode)
	g.PUT("/boards/:id", h.UpdateBoard)
	g.DELETE("/boards/:id", h.DeleteBoard)

	g.POST("/projects/", h.CreateProject)
	g.GET("/projects/", h.ListProjects)
	g.GET("/projects/:id", h.GetProject)
	g.PUT("/projects/:id", h.UpdateProject)
	g.DELETE("/projects/:id", h.DeleteProject)

	g.POST("/tasks/", h.CreateTask)
	g.GET("/tasks/", h.ListTasks)
	g.GET("/tasks/:id", h.GetTask)
	g.PUT("/tasks/:id", h.UpdateTask)
	g.PUT("/tasks/:id/complete", h.CompleteTask)
	g.DELETE("/tasks/:id", h.DeleteTask)

	g.POST("/notes/", h.CreateNote)
	g.GET("/notes/", h.ListNotes)
	g.GET("/notes/:id", h.GetNote)
	g.PUT("/notes/:id", h.UpdateNote)
	g.DELETE("/notes/:id", h.DeleteNote)

	g.POST("/owners/", h.CreateOwner)
	g.GET("/owners/", h.ListOwners)
	g.GET("/owners/:id", h.GetOwner)
	g.DELETE("/owners/:id", h.DeleteOwner)

	g.POST("/tags/", h.CreateTag)
	g.GET("/tags/", h.ListTags)
	g.GET("/tags/:id", h.GetTag)
	g.DELETE("/tags/:id", h.DeleteTag)

	g.POST("/events/", h.CreateEvent)
	g.GET("/events/", h.ListEvents)
	g.GET("/events/:id", h.GetEvent)
	g.PUT("/events/:id", h.UpdateEvent)
	g.DELETE("/events/:id", h.DeleteEvent)
}

func (h *Handler) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respondError maps the service taxonomy to HTTP statuses. Storage
// failures get a generic body; their detail was already logged.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrConflict), errors.Is(err, service.ErrAssociation):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		zap.L().Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func respondSuccess(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// pathID parses the named path parameter; on failure it writes the 400
// itself and reports false.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

func queryInt(c *gin.Context, name string, fallback int) int {
	v, err := strconv.Atoi(c.DefaultQuery(name, ""))
	if err != nil {
		return fallback
	}
	return v
}

func queryUintPtr(c *gin.Context, name string) *uint {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil
	}
	u := uint(v)
	return &u
}

func queryBoolPtr(c *gin.Context, name string) *bool {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}
