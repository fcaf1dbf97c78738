package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ducdang/billbook/internal/middleware"
	"github.com/ducdang/billbook/internal/models"
	"github.com/ducdang/billbook/internal/service"
	"github.com/ducdang/billbook/internal/storage"
)

type vocabularyHandler struct {
	vocabulary *service.VocabularyService
}

type wordRequest struct {
	Word          string `json:"word" binding:"required"`
	Meaning       string `json:"meaning" binding:"required"`
	Pronunciation string `json:"pronunciation"`
	Example       string `json:"example"`
	Level         string `json:"level"`
	Category      string `json:"category"`
}

func (h *vocabularyHandler) list(c *gin.Context) {
	words, err := h.vocabulary.ListWords(c.Request.Context(), storage.VocabularyFilter{
		Level:    models.Level(c.Query("level")),
		Category: c.Query("category"),
		Search:   c.Query("search"),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, words)
}

func (h *vocabularyHandler) get(c *gin.Context) {
	word, err := h.vocabulary.GetWord(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, word)
}

func (h *vocabularyHandler) create(c *gin.Context) {
	var req wordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	word, err := h.vocabulary.AddWord(c.Request.Context(), service.WordInput{
		Word:          req.Word,
		Meaning:       req.Meaning,
		Pronunciation: req.Pronunciation,
		Example:       req.Example,
		Level:         models.Level(req.Level),
		Category:      req.Category,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, word)
}

func (h *vocabularyHandler) learn(c *gin.Context) {
	lw, err := h.vocabulary.Learn(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, lw)
}

func (h *vocabularyHandler) review(c *gin.Context) {
	lw, err := h.vocabulary.Review(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, lw)
}

func (h *vocabularyHandler) unlearn(c *gin.Context) {
	if err := h.vocabulary.Unlearn(c.Request.Context(), middleware.GetUserID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *vocabularyHandler) listLearned(c *gin.Context) {
	learned, err := h.vocabulary.ListLearned(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, learned)
}
