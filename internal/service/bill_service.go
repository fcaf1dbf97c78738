package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ducdang/billbook/internal/calculator"
	"github.com/ducdang/billbook/internal/models"
	"github.com/ducdang/billbook/internal/report"
	"github.com/ducdang/billbook/internal/storage"
)

// BillService owns the bill lifecycle: creation, participant and daily-detail
// mutations, summaries, sharing and dashboard stats. Every mutation is a
// read-modify-write of the whole bill document, with derived fields recomputed
// before the save.
type BillService struct {
	store storage.Store
}

func NewBillService(store storage.Store) *BillService {
	return &BillService{store: store}
}

// CreateBillInput carries the caller-editable fields of a new bill.
type CreateBillInput struct {
	Title        string
	Description  string
	QRImage      string
	StartDate    time.Time
	EndDate      time.Time
	Participants []string // display names; ids are generated
}

// UpdateBillInput carries the caller-editable fields of an existing bill.
// Participants and daily details are mutated through their own operations.
type UpdateBillInput struct {
	Title       string
	Description string
	QRImage     string
	StartDate   time.Time
	EndDate     time.Time
	Status      models.Status
}

// DetailInput carries one daily expense entry. On update it replaces the
// stored entry wholesale.
type DetailInput struct {
	Date                 time.Time
	Amount               float64
	SplitCount           int
	SelectedParticipants []string
	Description          string
}

// AddParticipantInput adds a participant to a bill. When ParticipantID is set
// the entry is attached from the owner's global registry, keeping the
// registry id so stats line up across bills; otherwise Name starts a fresh
// bill-local entry.
type AddParticipantInput struct {
	Name          string
	ParticipantID string
}

// BillStats is the dashboard header aggregate.
type BillStats struct {
	TotalBills     int     `json:"totalBills"`
	ActiveBills    int     `json:"activeBills"`
	CompletedBills int     `json:"completedBills"`
	TotalAmount    float64 `json:"totalAmount"`
}

// SharedBillView is the public read-only projection of a shared bill. The
// owner identity is deliberately absent.
type SharedBillView struct {
	ID           string                   `json:"id"`
	Title        string                   `json:"title"`
	Description  string                   `json:"description,omitempty"`
	QRImage      string                   `json:"qrImage,omitempty"`
	StartDate    time.Time                `json:"startDate"`
	EndDate      time.Time                `json:"endDate"`
	Status       models.Status            `json:"status"`
	Participants []models.BillParticipant `json:"participants"`
	DailyDetails []models.DailyDetail     `json:"dailyDetails"`
	TotalAmount  float64                  `json:"totalAmount"`
	TotalDays    int                      `json:"totalDays"`
	Summary      *report.SummaryView      `json:"summary"`
}

// CreateBill validates and persists a new bill in draft status.
func (s *BillService) CreateBill(ctx context.Context, owner string, in CreateBillInput) (*models.Bill, error) {
	if err := validateBillFields(in.Title, in.StartDate, in.EndDate); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	bill := &models.Bill{
		ID:          uuid.NewString(),
		Owner:       owner,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		QRImage:     in.QRImage,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Status:      models.StatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, name := range in.Participants {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, validationErrorf("participant name must not be empty")
		}
		bill.Participants = append(bill.Participants, models.BillParticipant{
			ID:       uuid.NewString(),
			Name:     name,
			JoinedAt: now,
		})
	}
	bill.Recompute()

	if err := s.store.SaveBill(ctx, bill); err != nil {
		slog.Error("CreateBill failed", "owner", owner, "error", err)
		return nil, err
	}
	slog.Info("Bill created", "bill_id", bill.ID, "owner", owner, "participants", len(bill.Participants))
	return bill, nil
}

// ListBills returns the owner's bills, most recently updated first.
func (s *BillService) ListBills(ctx context.Context, owner string) ([]*models.Bill, error) {
	return s.store.ListBills(ctx, owner)
}

// GetBill retrieves one of the owner's bills.
func (s *BillService) GetBill(ctx context.Context, owner, id string) (*models.Bill, error) {
	return s.store.GetBill(ctx, owner, id)
}

// UpdateBill replaces the bill's editable fields. Participants and daily
// details are untouched.
func (s *BillService) UpdateBill(ctx context.Context, owner, id string, in UpdateBillInput) (*models.Bill, error) {
	if err := validateBillFields(in.Title, in.StartDate, in.EndDate); err != nil {
		return nil, err
	}
	if !models.ValidStatus(in.Status) {
		return nil, validationErrorf("unknown status %q", in.Status)
	}

	bill, err := s.store.GetBill(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	bill.Title = strings.TrimSpace(in.Title)
	bill.Description = in.Description
	bill.QRImage = in.QRImage
	bill.StartDate = in.StartDate
	bill.EndDate = in.EndDate
	bill.Status = in.Status

	if err := s.save(ctx, bill); err != nil {
		return nil, err
	}
	slog.Info("Bill updated", "bill_id", bill.ID, "status", bill.Status)
	return bill, nil
}

// DeleteBill removes one of the owner's bills.
func (s *BillService) DeleteBill(ctx context.Context, owner, id string) error {
	if err := s.store.DeleteBill(ctx, owner, id); err != nil {
		return err
	}
	slog.Info("Bill deleted", "bill_id", id, "owner", owner)
	return nil
}

// AddParticipant appends a participant to the bill's embedded list. A
// registry participant keeps its registry id; adding it twice is rejected.
func (s *BillService) AddParticipant(ctx context.Context, owner, billID string, in AddParticipantInput) (*models.Bill, error) {
	bill, err := s.store.GetBill(ctx, owner, billID)
	if err != nil {
		return nil, err
	}

	entry := models.BillParticipant{JoinedAt: time.Now().UTC()}
	if in.ParticipantID != "" {
		p, err := s.store.GetParticipant(ctx, owner, in.ParticipantID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve registry participant: %w", err)
		}
		entry.ID = p.ID
		entry.Name = p.Name
	} else {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			return nil, validationErrorf("participant name must not be empty")
		}
		entry.ID = uuid.NewString()
		entry.Name = name
	}

	if _, ok := bill.ParticipantName(entry.ID); ok {
		return nil, validationErrorf("participant %s already on bill", entry.ID)
	}

	bill.Participants = append(bill.Participants, entry)
	if err := s.save(ctx, bill); err != nil {
		return nil, err
	}
	slog.Info("Participant added", "bill_id", bill.ID, "participant_id", entry.ID)
	return bill, nil
}

// RemoveParticipant drops a participant from the bill's embedded list. Daily
// details that still select the id keep it; reports resolve such ids to the
// "Unknown" placeholder.
func (s *BillService) RemoveParticipant(ctx context.Context, owner, billID, participantID string) (*models.Bill, error) {
	bill, err := s.store.GetBill(ctx, owner, billID)
	if err != nil {
		return nil, err
	}

	kept := bill.Participants[:0]
	found := false
	for _, p := range bill.Participants {
		if p.ID == participantID {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	if !found {
		return nil, storage.ErrNotFound
	}
	bill.Participants = kept

	if err := s.save(ctx, bill); err != nil {
		return nil, err
	}
	slog.Info("Participant removed", "bill_id", bill.ID, "participant_id", participantID)
	return bill, nil
}

// AddDailyDetail appends an expense entry and recomputes the bill's derived
// fields.
func (s *BillService) AddDailyDetail(ctx context.Context, owner, billID string, in DetailInput) (*models.Bill, error) {
	if err := validateDetail(in); err != nil {
		return nil, err
	}
	bill, err := s.store.GetBill(ctx, owner, billID)
	if err != nil {
		return nil, err
	}

	detail := models.DailyDetail{
		ID:                   uuid.NewString(),
		Date:                 in.Date,
		Amount:               in.Amount,
		SplitCount:           in.SplitCount,
		SelectedParticipants: in.SelectedParticipants,
		Description:          in.Description,
	}
	if detail.SplitCount == 0 {
		detail.SplitCount = len(in.SelectedParticipants)
	}
	bill.DailyDetails = append(bill.DailyDetails, detail)

	if err := s.save(ctx, bill); err != nil {
		return nil, err
	}
	slog.Info("Daily detail added", "bill_id", bill.ID, "detail_id", detail.ID, "amount", detail.Amount)
	return bill, nil
}

// UpdateDailyDetail replaces an entry wholesale and recomputes derived fields.
func (s *BillService) UpdateDailyDetail(ctx context.Context, owner, billID, detailID string, in DetailInput) (*models.Bill, error) {
	if err := validateDetail(in); err != nil {
		return nil, err
	}
	bill, err := s.store.GetBill(ctx, owner, billID)
	if err != nil {
		return nil, err
	}

	detail := bill.Detail(detailID)
	if detail == nil {
		return nil, storage.ErrNotFound
	}
	detail.Date = in.Date
	detail.Amount = in.Amount
	detail.SplitCount = in.SplitCount
	detail.SelectedParticipants = in.SelectedParticipants
	detail.Description = in.Description
	if detail.SplitCount == 0 {
		detail.SplitCount = len(in.SelectedParticipants)
	}

	if err := s.save(ctx, bill); err != nil {
		return nil, err
	}
	slog.Info("Daily detail updated", "bill_id", bill.ID, "detail_id", detailID)
	return bill, nil
}

// RemoveDailyDetail drops an entry and recomputes derived fields.
func (s *BillService) RemoveDailyDetail(ctx context.Context, owner, billID, detailID string) (*models.Bill, error) {
	bill, err := s.store.GetBill(ctx, owner, billID)
	if err != nil {
		return nil, err
	}

	kept := bill.DailyDetails[:0]
	found := false
	for _, d := range bill.DailyDetails {
		if d.ID == detailID {
			found = true
			continue
		}
		kept = append(kept, d)
	}
	if !found {
		return nil, storage.ErrNotFound
	}
	bill.DailyDetails = kept

	if err := s.save(ctx, bill); err != nil {
		return nil, err
	}
	slog.Info("Daily detail removed", "bill_id", bill.ID, "detail_id", detailID)
	return bill, nil
}

// ComputeSummary builds the full allocation summary for one bill, optionally
// excluding participant ids. Exclusion changes the per-entry divisors, so the
// whole allocation is recomputed rather than filtered.
func (s *BillService) ComputeSummary(ctx context.Context, owner, billID string, excludedIDs []string) (*report.SummaryView, error) {
	bill, err := s.store.GetBill(ctx, owner, billID)
	if err != nil {
		return nil, err
	}
	names, err := s.globalNames(ctx, owner)
	if err != nil {
		return nil, err
	}
	return report.BuildSummary(bill, names, calculator.Exclusion(excludedIDs)), nil
}

// EnableShare assigns the bill an opaque share key, keeping an existing one.
func (s *BillService) EnableShare(ctx context.Context, owner, billID string) (string, error) {
	bill, err := s.store.GetBill(ctx, owner, billID)
	if err != nil {
		return "", err
	}
	if bill.ShareKey == "" {
		bill.ShareKey = strings.ReplaceAll(uuid.NewString(), "-", "")
		if err := s.save(ctx, bill); err != nil {
			return "", err
		}
		slog.Info("Share enabled", "bill_id", bill.ID)
	}
	return bill.ShareKey, nil
}

// DisableShare revokes the bill's share key. Existing links stop resolving.
func (s *BillService) DisableShare(ctx context.Context, owner, billID string) error {
	bill, err := s.store.GetBill(ctx, owner, billID)
	if err != nil {
		return err
	}
	if bill.ShareKey == "" {
		return nil
	}
	bill.ShareKey = ""
	if err := s.save(ctx, bill); err != nil {
		return err
	}
	slog.Info("Share disabled", "bill_id", bill.ID)
	return nil
}

// GetSharedBill resolves a public share key to the read-only view, summary
// included. Name resolution uses the bill owner's registry even though the
// caller is anonymous.
func (s *BillService) GetSharedBill(ctx context.Context, shareKey string) (*SharedBillView, error) {
	bill, err := s.store.GetBillByShareKey(ctx, shareKey)
	if err != nil {
		return nil, err
	}
	names, err := s.globalNames(ctx, bill.Owner)
	if err != nil {
		return nil, err
	}
	return &SharedBillView{
		ID:           bill.ID,
		Title:        bill.Title,
		Description:  bill.Description,
		QRImage:      bill.QRImage,
		StartDate:    bill.StartDate,
		EndDate:      bill.EndDate,
		Status:       bill.Status,
		Participants: bill.Participants,
		DailyDetails: bill.DailyDetails,
		TotalAmount:  bill.TotalAmount,
		TotalDays:    bill.TotalDays,
		Summary:      report.BuildSummary(bill, names, nil),
	}, nil
}

// Stats aggregates the owner's dashboard header numbers.
func (s *BillService) Stats(ctx context.Context, owner string) (*BillStats, error) {
	bills, err := s.store.ListBills(ctx, owner)
	if err != nil {
		return nil, err
	}
	stats := &BillStats{TotalBills: len(bills)}
	for _, b := range bills {
		switch b.Status {
		case models.StatusActive:
			stats.ActiveBills++
		case models.StatusCompleted:
			stats.CompletedBills++
		}
		stats.TotalAmount += b.TotalAmount
	}
	return stats, nil
}

// save recomputes derived fields, bumps UpdatedAt and persists the document.
func (s *BillService) save(ctx context.Context, bill *models.Bill) error {
	bill.Recompute()
	bill.UpdatedAt = time.Now().UTC()
	if err := s.store.SaveBill(ctx, bill); err != nil {
		slog.Error("SaveBill failed", "bill_id", bill.ID, "error", err)
		return err
	}
	return nil
}

func (s *BillService) globalNames(ctx context.Context, owner string) (calculator.NameIndex, error) {
	participants, err := s.store.ListParticipants(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to load participant registry: %w", err)
	}
	names := make(calculator.NameIndex, len(participants))
	for _, p := range participants {
		names[p.ID] = p.Name
	}
	return names, nil
}

func validateBillFields(title string, start, end time.Time) error {
	if strings.TrimSpace(title) == "" {
		return validationErrorf("title must not be empty")
	}
	if start.IsZero() || end.IsZero() {
		return validationErrorf("startDate and endDate are required")
	}
	if !end.After(start) {
		return validationErrorf("endDate must be after startDate")
	}
	return nil
}

func validateDetail(in DetailInput) error {
	if in.Date.IsZero() {
		return validationErrorf("date is required")
	}
	if in.Amount < 0 {
		return validationErrorf("amount must not be negative")
	}
	if in.SplitCount < 0 {
		return validationErrorf("splitCount must not be negative")
	}
	if in.SplitCount == 0 && len(in.SelectedParticipants) == 0 {
		return validationErrorf("entry needs selectedParticipants or a splitCount")
	}
	return nil
}
