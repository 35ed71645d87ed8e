package members

import (
	"encoding/json"
	"fmt"

	"github.com/jrsteele09/gymflow/internal/utils"
)

// DateLayout is the calendar date format used by start_date and end_date.
const DateLayout = "2006-01-02"

type Plan string

const (
	PlanMonthly Plan = "monthly"
	PlanYearly  Plan = "yearly"
)

// Valid reports whether p is a plan the API accepts.
func (p Plan) Valid() bool {
	return p == PlanMonthly || p == PlanYearly
}

// Member is owned by the server. DaysLeft is computed server side and is nil when the
// member has no end date.
type Member struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Plan        Plan   `json:"plan"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	DaysLeft    *int   `json:"days_left"`
	CourseTaken string `json:"course_taken,omitempty"`
	OfferTaken  string `json:"offer_taken,omitempty"`
}

func (m *Member) UnmarshalJSON(data []byte) error {
	type plain Member
	aux := struct {
		*plain
		ID json.RawMessage `json:"id"`
	}{plain: (*plain)(m)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	m.ID = utils.IDString(aux.ID)
	return nil
}

// Status classifies the member by days left.
func (m Member) Status() Status {
	return StatusFromDaysLeft(m.DaysLeft)
}

// DaysText renders days left the way member lists show it: "12 days" or "3 overdue".
func (m Member) DaysText() string {
	return DaysText(m.DaysLeft)
}

func DaysText(daysLeft *int) string {
	if daysLeft == nil {
		return "-"
	}
	if *daysLeft < 0 {
		return fmt.Sprintf("%d overdue", -*daysLeft)
	}
	return fmt.Sprintf("%d days", *daysLeft)
}

// Form is the create and update payload. Every field is sent, matching the member form.
type Form struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Plan        Plan   `json:"plan"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	CourseTaken string `json:"course_taken"`
	OfferTaken  string `json:"offer_taken"`
}

// NewForm returns an empty form with the default plan.
func NewForm() Form {
	return Form{Plan: PlanMonthly}
}

// FormFrom prefills a form for editing m.
func FormFrom(m Member) Form {
	f := Form{
		Name:        m.Name,
		Phone:       m.Phone,
		Plan:        m.Plan,
		StartDate:   m.StartDate,
		EndDate:     m.EndDate,
		CourseTaken: m.CourseTaken,
		OfferTaken:  m.OfferTaken,
	}
	if f.Plan == "" {
		f.Plan = PlanMonthly
	}
	return f
}
