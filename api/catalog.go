package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mkravets/taskboard/internal/service"
)

type ownerRequest struct {
	Name       string  `json:"name"`
	ExternalID *string `json:"external_id"`
}

func (h *Handler) CreateOwner(c *gin.Context) {
	var req ownerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}

	owner, err := h.Owners.Create(c.Request.Context(), service.OwnerInput{Name: req.Name, ExternalID: req.ExternalID})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, owner)
}

func (h *Handler) ListOwners(c *gin.Context) {
	owners, err := h.Owners.List(c.Request.Context(), queryInt(c, "skip", 0), queryInt(c, "limit", 100))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, owners)
}

func (h *Handler) GetOwner(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	owner, err := h.Owners.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, owner)
}

func (h *Handler) DeleteOwner(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Owners.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c)
}

type tagRequest struct {
	Name string `json:"name"`
}

func (h *Handler) CreateTag(c *gin.Context) {
	var req tagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}

	tag, err := h.Tags.Create(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

func (h *Handler) ListTags(c *gin.Context) {
	tags, err := h.Tags.List(c.Request.Context(), queryInt(c, "skip", 0), queryInt(c, "limit", 100))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

func (h *Handler) GetTag(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	tag, err := h.Tags.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

func (h *Handler) DeleteTag(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Tags.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c)
}
