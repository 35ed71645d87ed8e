package devserver

import (
	"net/http"
	"strings"

	"github.com/jrsteele09/gymflow/tenants"
)

func (s *Server) handleListGyms(w http.ResponseWriter, r *http.Request) {
	gyms, err := s.repos.Gyms.ListByOwner(userID(r))
	if err != nil {
		s.logger.Err(err).Msg("list gyms")
		writeDetail(w, http.StatusInternalServerError, "A server error occurred.")
		return
	}
	writeJSON(w, http.StatusOK, gyms)
}

func (s *Server) handleCreateGym(w http.ResponseWriter, r *http.Request) {
	var in tenants.GymInput
	if !decodeBody(w, r, &in) {
		return
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		writeFieldErrors(w, fieldErrors{"name": {"This field is required."}})
		return
	}

	gym := in.Gym(userID(r))
	if err := s.repos.Gyms.Upsert(gym); err != nil {
		s.logger.Err(err).Msg("store gym")
		writeDetail(w, http.StatusInternalServerError, "A server error occurred.")
		return
	}
	s.logger.Info().Str("gym_id", gym.ID).Str("owner", gym.OwnerID).Msg("gym created")
	writeJSON(w, http.StatusCreated, gym)
}

// ownedGym resolves the {gymID} path value, answering 404 itself when the gym does not
// exist or belongs to someone else.
func (s *Server) ownedGym(w http.ResponseWriter, r *http.Request) (*tenants.Gym, bool) {
	gym, err := s.repos.Gyms.Get(r.PathValue("gymID"))
	if err != nil || gym.OwnerID != userID(r) {
		writeDetail(w, http.StatusNotFound, "Not found.")
		return nil, false
	}
	return gym, true
}
