package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ducdang/billbook/internal/middleware"
	"github.com/ducdang/billbook/internal/service"
)

type participantHandler struct {
	participants *service.ParticipantService
}

type createParticipantRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *participantHandler) list(c *gin.Context) {
	participants, err := h.participants.List(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, participants)
}

func (h *participantHandler) create(c *gin.Context) {
	var req createParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	p, err := h.participants.Create(c.Request.Context(), middleware.GetUserID(c), req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *participantHandler) delete(c *gin.Context) {
	if err := h.participants.Delete(c.Request.Context(), middleware.GetUserID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
