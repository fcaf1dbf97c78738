// Package report builds render-agnostic summary view models from allocation
// engine output. The same structure backs the owner's summary modal, the
// printable report and the public share page.
package report

import (
	"sort"
	"time"

	"github.com/ducdang/billbook/internal/calculator"
	"github.com/ducdang/billbook/internal/models"
)

// dateLayout keys day-level breakdowns. Two entries on the same calendar day
// land in the same block.
const dateLayout = "2006-01-02"

// Overview is the headline statistics block of a summary.
type Overview struct {
	TotalAmount       float64 `json:"totalAmount"`
	TotalDays         int     `json:"totalDays"`
	AveragePerDay     float64 `json:"averagePerDay"`
	ParticipantsCount int     `json:"participantsCount"`
}

// ParticipantLine is one row of the participant breakdown table.
type ParticipantLine struct {
	Name          string  `json:"name"`
	TotalOwed     float64 `json:"totalOwed"`
	DaysInvolved  int     `json:"daysInvolved"`
	AveragePerDay float64 `json:"averagePerDay"`
}

// EntryShare is one person's share of a single expense entry.
type EntryShare struct {
	Description string  `json:"description,omitempty"`
	Amount      float64 `json:"amount"`
}

// DayBreakdown groups one participant's entry shares for a calendar day.
type DayBreakdown struct {
	Date    string       `json:"date"`
	Total   float64      `json:"total"`
	Entries []EntryShare `json:"entries"`
}

// ParticipantDetail is one participant's itemized per-day breakdown.
type ParticipantDetail struct {
	Name  string         `json:"name"`
	Total float64        `json:"total"`
	Days  []DayBreakdown `json:"days"`
}

// SummaryView is the complete summary of one bill: headline stats, the
// per-participant totals table and the itemized breakdown, plus the bill
// fields a renderer needs. It deliberately omits the owner id so the public
// share page can serve it as-is.
type SummaryView struct {
	BillID      string        `json:"billId"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	QRImage     string        `json:"qrImage,omitempty"`
	Status      models.Status `json:"status"`
	StartDate   time.Time     `json:"startDate"`
	EndDate     time.Time     `json:"endDate"`

	Overview Overview `json:"overview"`

	// Participants and Details are sorted by display name; dates within a
	// detail are sorted ascending. Ordering is part of the contract: the same
	// bill state and exclusion set must always serialize identically.
	Participants []ParticipantLine   `json:"participants"`
	Details      []ParticipantDetail `json:"details"`

	// GeneratedAt is stamped at build time and is the only field allowed to
	// differ between two summaries of identical input.
	GeneratedAt time.Time `json:"generatedAt"`
}

// BuildSummary computes the full summary for a bill, omitting the excluded
// participant ids. It re-runs the allocation engine rather than filtering
// precomputed stats: removing a participant changes the divisor of every
// entry they were part of.
func BuildSummary(bill *models.Bill, global calculator.NameIndex, excluded map[string]bool) *SummaryView {
	stats := calculator.Allocate(bill, global, excluded)

	view := &SummaryView{
		BillID:      bill.ID,
		Title:       bill.Title,
		Description: bill.Description,
		QRImage:     bill.QRImage,
		Status:      bill.Status,
		StartDate:   bill.StartDate,
		EndDate:     bill.EndDate,
		Overview: Overview{
			TotalAmount:       stats.TotalAmount,
			TotalDays:         stats.TotalDays,
			AveragePerDay:     stats.AveragePerDay,
			ParticipantsCount: stats.ParticipantsCount,
		},
		Participants: participantLines(stats),
		Details:      participantDetails(bill, global, excluded),
		GeneratedAt:  time.Now().UTC(),
	}
	return view
}

func participantLines(stats *calculator.Stats) []ParticipantLine {
	lines := make([]ParticipantLine, 0, len(stats.UserStats))
	for name, stat := range stats.UserStats {
		lines = append(lines, ParticipantLine{
			Name:          name,
			TotalOwed:     stat.TotalSpent,
			DaysInvolved:  stat.DaysInvolved,
			AveragePerDay: stat.AveragePerDay,
		})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Name < lines[j].Name })
	return lines
}

// participantDetails walks the daily entries a second time to preserve
// per-entry descriptions, using the same entry-set rule as the engine so the
// two sections of a report can never disagree about who pays what.
func participantDetails(bill *models.Bill, global calculator.NameIndex, excluded map[string]bool) []ParticipantDetail {
	type dayAcc struct {
		total   float64
		entries []EntryShare
	}
	perName := make(map[string]map[string]*dayAcc)
	totals := make(map[string]float64)

	for i := range bill.DailyDetails {
		detail := &bill.DailyDetails[i]
		ids := calculator.EntryParticipants(bill, detail, excluded)
		if len(ids) == 0 {
			continue
		}
		perPerson := detail.Amount / float64(len(ids))
		dateKey := detail.Date.UTC().Format(dateLayout)

		for _, id := range ids {
			name := calculator.ResolveName(bill, global, id)
			days, ok := perName[name]
			if !ok {
				days = make(map[string]*dayAcc)
				perName[name] = days
			}
			acc, ok := days[dateKey]
			if !ok {
				acc = &dayAcc{}
				days[dateKey] = acc
			}
			acc.total += perPerson
			acc.entries = append(acc.entries, EntryShare{
				Description: detail.Description,
				Amount:      perPerson,
			})
			totals[name] += perPerson
		}
	}

	details := make([]ParticipantDetail, 0, len(perName))
	for name, days := range perName {
		dates := make([]string, 0, len(days))
		for date := range days {
			dates = append(dates, date)
		}
		sort.Strings(dates)

		breakdowns := make([]DayBreakdown, 0, len(dates))
		for _, date := range dates {
			acc := days[date]
			breakdowns = append(breakdowns, DayBreakdown{
				Date:    date,
				Total:   acc.total,
				Entries: acc.entries,
			})
		}
		details = append(details, ParticipantDetail{
			Name:  name,
			Total: totals[name],
			Days:  breakdowns,
		})
	}
	sort.Slice(details, func(i, j int) bool { return details[i].Name < details[j].Name })
	return details
}
