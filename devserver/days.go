package devserver

import (
	"time"

	"github.com/jrsteele09/gymflow/members"
)

// daysLeft counts calendar days from today to endDate in the server's local zone.
// It is nil when endDate is empty or unparseable.
func daysLeft(endDate string, now time.Time) *int {
	if endDate == "" {
		return nil
	}
	end, err := time.Parse(members.DateLayout, endDate)
	if err != nil {
		return nil
	}
	y, m, d := now.Local().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	days := int(end.Sub(today).Hours() / 24)
	return &days
}

// served returns a copy of m with days_left filled in.
func served(m *members.Member, now time.Time) members.Member {
	out := *m
	out.DaysLeft = daysLeft(m.EndDate, now)
	return out
}
