package devserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jrsteele09/gymflow/internal/errors"
	"github.com/jrsteele09/gymflow/members"
)

func (s *Server) servedMembers(gymID string) ([]members.Member, error) {
	stored, err := s.repos.Members.ListByGym(gymID)
	if err != nil {
		return nil, err
	}
	now := NowTimeFunc()
	out := make([]members.Member, 0, len(stored))
	for _, m := range stored {
		out = append(out, served(m, now))
	}
	return out, nil
}

// handleListMembers lists newest first. ?search= matches name or phone.
func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	gym, ok := s.ownedGym(w, r)
	if !ok {
		return
	}
	list, err := s.servedMembers(gym.ID)
	if err != nil {
		s.logger.Err(err).Msg("list members")
		writeDetail(w, http.StatusInternalServerError, "A server error occurred.")
		return
	}

	search := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("search")))
	if search == "" {
		writeJSON(w, http.StatusOK, list)
		return
	}
	matched := make([]members.Member, 0, len(list))
	for _, m := range list {
		if strings.Contains(strings.ToLower(m.Name), search) || strings.Contains(m.Phone, search) {
			matched = append(matched, m)
		}
	}
	writeJSON(w, http.StatusOK, matched)
}

// handleExpiringMembers lists members whose plan ends within ?days= days (default 7),
// soonest first. Members already expired are not included.
func (s *Server) handleExpiringMembers(w http.ResponseWriter, r *http.Request) {
	gym, ok := s.ownedGym(w, r)
	if !ok {
		return
	}
	days := members.ExpiringWindowDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeFieldErrors(w, fieldErrors{"days": {"A valid non-negative integer is required."}})
			return
		}
		days = n
	}

	list, err := s.servedMembers(gym.ID)
	if err != nil {
		s.logger.Err(err).Msg("list members")
		writeDetail(w, http.StatusInternalServerError, "A server error occurred.")
		return
	}
	expiring := make([]members.Member, 0)
	for _, m := range list {
		if m.DaysLeft != nil && *m.DaysLeft >= 0 && *m.DaysLeft <= days {
			expiring = append(expiring, m)
		}
	}
	writeJSON(w, http.StatusOK, members.SortByDaysLeft(expiring))
}

func (s *Server) handleCreateMember(w http.ResponseWriter, r *http.Request) {
	gym, ok := s.ownedGym(w, r)
	if !ok {
		return
	}
	var form members.Form
	if !decodeBody(w, r, &form) {
		return
	}
	if form.Plan == "" {
		form.Plan = members.PlanMonthly
	}
	m := memberFromForm(form)
	if fe := validateMember(m); len(fe) > 0 {
		writeFieldErrors(w, fe)
		return
	}
	if err := s.repos.Members.Upsert(gym.ID, m); err != nil {
		s.logger.Err(err).Msg("store member")
		writeDetail(w, http.StatusInternalServerError, "A server error occurred.")
		return
	}
	writeJSON(w, http.StatusCreated, served(m, NowTimeFunc()))
}

// handleUpdateMember applies a partial update: only fields present in the body change.
func (s *Server) handleUpdateMember(w http.ResponseWriter, r *http.Request) {
	gym, ok := s.ownedGym(w, r)
	if !ok {
		return
	}
	m, err := s.repos.Members.Get(gym.ID, r.PathValue("memberID"))
	if err != nil {
		writeDetail(w, http.StatusNotFound, "Not found.")
		return
	}

	var patch map[string]json.RawMessage
	if !decodeBody(w, r, &patch) {
		return
	}
	fields := map[string]any{
		"name":         &m.Name,
		"phone":        &m.Phone,
		"plan":         &m.Plan,
		"start_date":   &m.StartDate,
		"end_date":     &m.EndDate,
		"course_taken": &m.CourseTaken,
		"offer_taken":  &m.OfferTaken,
	}
	fe := fieldErrors{}
	for key, raw := range patch {
		target, ok := fields[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, target); err != nil {
			fe.add(key, "Not a valid string.")
		}
	}
	if len(fe) == 0 {
		fe = validateMember(m)
	}
	if len(fe) > 0 {
		writeFieldErrors(w, fe)
		return
	}

	if err := s.repos.Members.Upsert(gym.ID, m); err != nil {
		s.logger.Err(err).Msg("store member")
		writeDetail(w, http.StatusInternalServerError, "A server error occurred.")
		return
	}
	writeJSON(w, http.StatusOK, served(m, NowTimeFunc()))
}

func (s *Server) handleDeleteMember(w http.ResponseWriter, r *http.Request) {
	gym, ok := s.ownedGym(w, r)
	if !ok {
		return
	}
	if err := s.repos.Members.Delete(gym.ID, r.PathValue("memberID")); err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			writeDetail(w, http.StatusNotFound, "Not found.")
			return
		}
		s.logger.Err(err).Msg("delete member")
		writeDetail(w, http.StatusInternalServerError, "A server error occurred.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func memberFromForm(f members.Form) *members.Member {
	return &members.Member{
		Name:        strings.TrimSpace(f.Name),
		Phone:       strings.TrimSpace(f.Phone),
		Plan:        f.Plan,
		StartDate:   f.StartDate,
		EndDate:     f.EndDate,
		CourseTaken: f.CourseTaken,
		OfferTaken:  f.OfferTaken,
	}
}

func validateMember(m *members.Member) fieldErrors {
	fe := fieldErrors{}
	if strings.TrimSpace(m.Name) == "" {
		fe.add("name", "This field may not be blank.")
	}
	if strings.TrimSpace(m.Phone) == "" {
		fe.add("phone", "This field may not be blank.")
	}
	if !m.Plan.Valid() {
		fe.add("plan", `"`+string(m.Plan)+`" is not a valid choice.`)
	}

	start, startErr := parseDate(m.StartDate)
	if startErr != nil {
		fe.add("start_date", startErr.Error())
	}
	end, endErr := parseDate(m.EndDate)
	if endErr != nil {
		fe.add("end_date", endErr.Error())
	}
	if startErr == nil && endErr == nil && !start.IsZero() && !end.IsZero() && end.Before(start) {
		fe.add("end_date", "End date must not be before start date.")
	}
	return fe
}

var errDateFormat = errors.New("Date has wrong format. Use one of these formats instead: YYYY-MM-DD.")

// parseDate accepts an empty string as "no date".
func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(members.DateLayout, raw)
	if err != nil {
		return time.Time{}, errDateFormat
	}
	return t, nil
}
