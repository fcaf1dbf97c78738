package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ducdang/billbook/internal/middleware"
	"github.com/ducdang/billbook/internal/models"
	"github.com/ducdang/billbook/internal/service"
)

type billHandler struct {
	bills *service.BillService
}

type createBillRequest struct {
	Title        string    `json:"title" binding:"required"`
	Description  string    `json:"description"`
	QRImage      string    `json:"qrImage"`
	StartDate    time.Time `json:"startDate" binding:"required"`
	EndDate      time.Time `json:"endDate" binding:"required"`
	Participants []string  `json:"participants"`
}

type updateBillRequest struct {
	Title       string        `json:"title" binding:"required"`
	Description string        `json:"description"`
	QRImage     string        `json:"qrImage"`
	StartDate   time.Time     `json:"startDate" binding:"required"`
	EndDate     time.Time     `json:"endDate" binding:"required"`
	Status      models.Status `json:"status" binding:"required"`
}

type detailRequest struct {
	Date                 time.Time `json:"date" binding:"required"`
	Amount               float64   `json:"amount"`
	SplitCount           int       `json:"splitCount"`
	SelectedParticipants []string  `json:"selectedParticipants"`
	Description          string    `json:"description"`
}

type addParticipantRequest struct {
	Name          string `json:"name"`
	ParticipantID string `json:"participantId"`
}

func (h *billHandler) create(c *gin.Context) {
	var req createBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bill, err := h.bills.CreateBill(c.Request.Context(), middleware.GetUserID(c), service.CreateBillInput{
		Title:        req.Title,
		Description:  req.Description,
		QRImage:      req.QRImage,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Participants: req.Participants,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, bill)
}

func (h *billHandler) list(c *gin.Context) {
	bills, err := h.bills.ListBills(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, bills)
}

func (h *billHandler) get(c *gin.Context) {
	bill, err := h.bills.GetBill(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, bill)
}

func (h *billHandler) update(c *gin.Context) {
	var req updateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bill, err := h.bills.UpdateBill(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), service.UpdateBillInput{
		Title:       req.Title,
		Description: req.Description,
		QRImage:     req.QRImage,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      req.Status,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, bill)
}

func (h *billHandler) delete(c *gin.Context) {
	if err := h.bills.DeleteBill(c.Request.Context(), middleware.GetUserID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// summary computes the allocation summary. Participants to leave out come in
// as ?excluded=id1,id2.
func (h *billHandler) summary(c *gin.Context) {
	var excluded []string
	if raw := c.Query("excluded"); raw != "" {
		excluded = strings.Split(raw, ",")
	}

	summary, err := h.bills.ComputeSummary(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), excluded)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *billHandler) stats(c *gin.Context) {
	stats, err := h.bills.Stats(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *billHandler) enableShare(c *gin.Context) {
	key, err := h.bills.EnableShare(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shareKey": key})
}

func (h *billHandler) disableShare(c *gin.Context) {
	if err := h.bills.DisableShare(c.Request.Context(), middleware.GetUserID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// sharedBill is the unauthenticated read-only view behind a share key.
func (h *billHandler) sharedBill(c *gin.Context) {
	view, err := h.bills.GetSharedBill(c.Request.Context(), c.Param("key"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *billHandler) addParticipant(c *gin.Context) {
	var req addParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bill, err := h.bills.AddParticipant(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), service.AddParticipantInput{
		Name:          req.Name,
		ParticipantID: req.ParticipantID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, bill)
}

func (h *billHandler) removeParticipant(c *gin.Context) {
	bill, err := h.bills.RemoveParticipant(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), c.Param("pid"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, bill)
}

func (h *billHandler) addDetail(c *gin.Context) {
	var req detailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bill, err := h.bills.AddDailyDetail(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), detailInput(req))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, bill)
}

func (h *billHandler) updateDetail(c *gin.Context) {
	var req detailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bill, err := h.bills.UpdateDailyDetail(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), c.Param("did"), detailInput(req))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, bill)
}

func (h *billHandler) removeDetail(c *gin.Context) {
	bill, err := h.bills.RemoveDailyDetail(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), c.Param("did"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, bill)
}

func detailInput(req detailRequest) service.DetailInput {
	return service.DetailInput{
		Date:                 req.Date,
		Amount:               req.Amount,
		SplitCount:           req.SplitCount,
		SelectedParticipants: req.SelectedParticipants,
		Description:          req.Description,
	}
}
