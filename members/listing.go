package members

import (
	"cmp"
	"math"
	"slices"
)

// FilterAll is the plan filter that keeps every member.
const FilterAll = "all"

// WithStatus pairs a member with its derived status.
type WithStatus struct {
	Member
	Status Status `json:"status"`
}

func Classify(list []Member) []WithStatus {
	out := make([]WithStatus, 0, len(list))
	for _, m := range list {
		out = append(out, WithStatus{Member: m, Status: m.Status()})
	}
	return out
}

// SortByDaysLeft orders members by days left ascending, members without an end date
// last. The sort is stable and works on a copy.
func SortByDaysLeft(list []Member) []Member {
	sorted := slices.Clone(list)
	slices.SortStableFunc(sorted, func(a, b Member) int {
		return cmp.Compare(sortKey(a.DaysLeft), sortKey(b.DaysLeft))
	})
	return sorted
}

func sortKey(daysLeft *int) int {
	if daysLeft == nil {
		return math.MaxInt32
	}
	return *daysLeft
}

// FilterByPlan keeps members on plan. FilterAll or "" keeps everything.
func FilterByPlan(list []Member, plan string) []Member {
	if plan == "" || plan == FilterAll {
		return slices.Clone(list)
	}
	out := make([]Member, 0, len(list))
	for _, m := range list {
		if string(m.Plan) == plan {
			out = append(out, m)
		}
	}
	return out
}

// FilterByStatus keeps members whose derived status is s.
func FilterByStatus(list []Member, s Status) []Member {
	out := make([]Member, 0, len(list))
	for _, m := range list {
		if m.Status() == s {
			out = append(out, m)
		}
	}
	return out
}

// Stats are the dashboard and subscription counters.
type Stats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Expiring int `json:"expiring"`
	Expired  int `json:"expired"`
}

func Tally(list []Member) Stats {
	stats := Stats{Total: len(list)}
	for _, m := range list {
		switch m.Status() {
		case StatusActive:
			stats.Active++
		case StatusExpiring:
			stats.Expiring++
		case StatusExpired:
			stats.Expired++
		}
	}
	return stats
}

// Upsert returns list with m replacing the member of the same id, or prepended when new.
func Upsert(list []Member, m Member) []Member {
	out := make([]Member, 0, len(list)+1)
	replaced := false
	for _, existing := range list {
		if existing.ID == m.ID {
			out = append(out, m)
			replaced = true
			continue
		}
		out = append(out, existing)
	}
	if !replaced {
		out = append([]Member{m}, out...)
	}
	return out
}

// Remove returns list without the member with id.
func Remove(list []Member, id string) []Member {
	return slices.DeleteFunc(slices.Clone(list), func(m Member) bool { return m.ID == id })
}
