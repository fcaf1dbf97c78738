package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ducdang/billbook/internal/middleware"
	"github.com/ducdang/billbook/internal/service"
)

type noteHandler struct {
	notes *service.NoteService
}

type noteRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
	Pinned  bool   `json:"pinned"`
}

func (h *noteHandler) list(c *gin.Context) {
	notes, err := h.notes.List(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, notes)
}

func (h *noteHandler) get(c *gin.Context) {
	note, err := h.notes.Get(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

func (h *noteHandler) create(c *gin.Context) {
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	note, err := h.notes.Create(c.Request.Context(), middleware.GetUserID(c), service.NoteInput{
		Title:   req.Title,
		Content: req.Content,
		Pinned:  req.Pinned,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, note)
}

func (h *noteHandler) update(c *gin.Context) {
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	note, err := h.notes.Update(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), service.NoteInput{
		Title:   req.Title,
		Content: req.Content,
		Pinned:  req.Pinned,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

func (h *noteHandler) delete(c *gin.Context) {
	if err := h.notes.Delete(c.Request.Context(), middleware.GetUserID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
