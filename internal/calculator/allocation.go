// Package calculator implements the bill cost-allocation engine: turning a
// bill's daily expense entries into per-participant totals and day-level
// involvement counts, with support for ad-hoc participant exclusion.
//
// All functions are pure and deterministic; the engine never reads or writes
// storage and is safe to run concurrently across independent bills.
package calculator

import "github.com/ducdang/billbook/internal/models"

// UnknownName is the placeholder used when a participant id referenced by a
// daily entry resolves to no name in either the bill's embedded list or the
// global registry. Resolution gaps are never errors: reports must render even
// after a referenced participant has been deleted.
const UnknownName = "Unknown"

// NameIndex maps global-registry participant ids to display names.
type NameIndex map[string]string

// UserStat accumulates one participant's share of a bill.
// Stats are keyed by resolved display name, not id: two ids resolving to the
// same name share one bucket. This mirrors the reference behavior; see the
// README note on name-keyed aggregation.
type UserStat struct {
	// TotalSpent is the participant's total obligation across all entries.
	TotalSpent float64 `json:"totalSpent"`

	// DaysInvolved counts the daily entries the participant appears in,
	// one increment per entry regardless of amount.
	DaysInvolved int `json:"daysInvolved"`

	// AveragePerDay is TotalSpent / DaysInvolved, zero when uninvolved.
	AveragePerDay float64 `json:"averagePerDay"`
}

// Stats is the allocation engine output for one bill.
type Stats struct {
	// TotalAmount, TotalDays and AveragePerDay are the bill-level derived
	// figures. They come from the bill's stored fields and are not affected
	// by exclusion: an entry whose whole participant set is excluded still
	// counts here.
	TotalAmount   float64 `json:"totalAmount"`
	TotalDays     int     `json:"totalDays"`
	AveragePerDay float64 `json:"averagePerDay"`

	// ParticipantsCount is the number of distinct participant ids touched by
	// the allocation, falling back to the bill's participant-list length when
	// no daily entry carries participant data.
	ParticipantsCount int `json:"participantsCount"`

	// UserStats maps resolved display name to that person's share.
	UserStats map[string]*UserStat `json:"userStats"`
}

// Exclusion builds an exclusion set from a list of participant ids.
// A nil or empty list yields an empty set (nothing excluded).
func Exclusion(ids []string) map[string]bool {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// EntryParticipants determines which participant ids divide a daily detail's
// amount, after applying the exclusion set.
//
// SelectedParticipants, when non-empty, is authoritative. Otherwise the first
// SplitCount entries of the bill's participant list carry the split (the
// legacy compatibility path), or nothing when the bill has no participants.
func EntryParticipants(bill *models.Bill, detail *models.DailyDetail, excluded map[string]bool) []string {
	var ids []string
	if len(detail.SelectedParticipants) > 0 {
		ids = detail.SelectedParticipants
	} else if detail.SplitCount > 0 && len(bill.Participants) > 0 {
		n := detail.SplitCount
		if n > len(bill.Participants) {
			n = len(bill.Participants)
		}
		ids = make([]string, 0, n)
		for _, p := range bill.Participants[:n] {
			ids = append(ids, p.ID)
		}
	}

	if len(excluded) == 0 {
		return ids
	}
	kept := make([]string, 0, len(ids))
	for _, id := range ids {
		if !excluded[id] {
			kept = append(kept, id)
		}
	}
	return kept
}

// ResolveName resolves a participant id to a display name: the bill's
// embedded list first, then the global registry, then UnknownName.
func ResolveName(bill *models.Bill, global NameIndex, id string) string {
	if name, ok := bill.ParticipantName(id); ok {
		return name
	}
	if name, ok := global[id]; ok {
		return name
	}
	return UnknownName
}

// Allocate computes per-participant totals for a bill, omitting the given
// participant ids from every entry's split. Excluding a participant changes
// the divisor of each entry they were part of, redistributing their share
// among that entry's remaining participants.
//
// The computation runs once per call with no caching; identical inputs yield
// identical output.
func Allocate(bill *models.Bill, global NameIndex, excluded map[string]bool) *Stats {
	stats := &Stats{
		TotalAmount:   bill.TotalAmount,
		TotalDays:     bill.TotalDays,
		AveragePerDay: bill.AveragePerDay(),
		UserStats:     make(map[string]*UserStat),
	}

	seen := make(map[string]bool)
	for i := range bill.DailyDetails {
		detail := &bill.DailyDetails[i]
		ids := EntryParticipants(bill, detail, excluded)
		if len(ids) == 0 {
			// Nobody left to charge; the amount still counts in the
			// bill-level totals above.
			continue
		}

		perPerson := detail.Amount / float64(len(ids))
		for _, id := range ids {
			seen[id] = true
			name := ResolveName(bill, global, id)
			stat, ok := stats.UserStats[name]
			if !ok {
				stat = &UserStat{}
				stats.UserStats[name] = stat
			}
			stat.TotalSpent += perPerson
			stat.DaysInvolved++
		}
	}

	for _, stat := range stats.UserStats {
		if stat.DaysInvolved > 0 {
			stat.AveragePerDay = stat.TotalSpent / float64(stat.DaysInvolved)
		}
	}

	stats.ParticipantsCount = len(seen)
	if stats.ParticipantsCount == 0 {
		stats.ParticipantsCount = len(bill.Participants)
	}

	return stats
}
