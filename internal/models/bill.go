package models

import (
	"math"
	"time"
)

// Status is the lifecycle state of a bill.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// ValidStatus reports whether s is one of the known bill statuses.
func ValidStatus(s Status) bool {
	switch s {
	case StatusDraft, StatusActive, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// BillParticipant is a participant embedded in a bill's participant list.
// Duplicate names are allowed; entries are identified by id only.
type BillParticipant struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	JoinedAt time.Time `json:"joinedAt"`
}

// DailyDetail is one dated expense entry within a bill, split among a subset
// of the bill's participants.
type DailyDetail struct {
	ID     string    `json:"id"`
	Date   time.Time `json:"date"`
	Amount float64   `json:"amount"`

	// SplitCount is the legacy head-count divisor. When SelectedParticipants
	// is empty the first SplitCount entries of the bill's participant list
	// carry the split.
	SplitCount int `json:"splitCount"`

	// SelectedParticipants are the participant ids explicitly dividing this
	// amount. When non-empty it is authoritative for the split.
	SelectedParticipants []string `json:"selectedParticipants"`

	Description string `json:"description,omitempty"`

	// AmountPerPerson is the persisted display value Amount / SplitCount,
	// recomputed on every mutation. Reports divide by the live selected-set
	// size instead; the two divisors intentionally diverge (see README).
	AmountPerPerson float64 `json:"amountPerPerson"`
}

// Bill is a tracked shared-expense period: a date range, a participant list
// and an ordered sequence of daily expense entries, persisted as a single
// document.
type Bill struct {
	ID          string `json:"id"`
	Owner       string `json:"owner"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	// QRImage is an optional payment QR code as an opaque data URL.
	QRImage string `json:"qrImage,omitempty"`

	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`

	Participants []BillParticipant `json:"participants"`
	DailyDetails []DailyDetail     `json:"dailyDetails"`

	// TotalAmount and TotalDays are derived from DailyDetails and recomputed
	// before every persist; they are never edited directly.
	TotalAmount float64 `json:"totalAmount"`
	TotalDays   int     `json:"totalDays"`

	Status Status `json:"status"`

	// ShareKey, when set, grants unauthenticated read-only access to this
	// bill's summary.
	ShareKey string `json:"shareKey,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Round2 rounds to two decimal places, the precision used for all persisted
// derived money fields.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Recompute refreshes every derived field from the daily details: the bill's
// TotalAmount and TotalDays, and each detail's AmountPerPerson. Call before
// persisting any mutation that touches DailyDetails.
func (b *Bill) Recompute() {
	total := 0.0
	for i := range b.DailyDetails {
		d := &b.DailyDetails[i]
		total += d.Amount
		if d.SplitCount > 0 {
			d.AmountPerPerson = Round2(d.Amount / float64(d.SplitCount))
		}
	}
	b.TotalAmount = total
	b.TotalDays = len(b.DailyDetails)
}

// AveragePerDay is the read-time derived daily average, rounded to two
// decimals. Zero when the bill has no daily entries.
func (b *Bill) AveragePerDay() float64 {
	if b.TotalDays > 0 && b.TotalAmount > 0 {
		return Round2(b.TotalAmount / float64(b.TotalDays))
	}
	return 0
}

// TotalParticipants is the embedded participant-list length.
func (b *Bill) TotalParticipants() int {
	return len(b.Participants)
}

// ParticipantName resolves a participant id against the embedded list.
// Returns the name and true when found.
func (b *Bill) ParticipantName(id string) (string, bool) {
	for i := range b.Participants {
		if b.Participants[i].ID == id {
			return b.Participants[i].Name, true
		}
	}
	return "", false
}

// Detail returns a pointer to the daily detail with the given id, or nil.
func (b *Bill) Detail(id string) *DailyDetail {
	for i := range b.DailyDetails {
		if b.DailyDetails[i].ID == id {
			return &b.DailyDetails[i]
		}
	}
	return nil
}
