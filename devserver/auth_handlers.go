package devserver

import (
	"net/http"

	"github.com/jrsteele09/gymflow/internal/errors"
	"github.com/jrsteele09/gymflow/users"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if !decodeBody(w, r, &in) {
		return
	}

	email := users.NormalizeEmail(in.Email)
	fe := fieldErrors{}
	if err := users.ValidateEmail(email); err != nil {
		fe.add("email", err.Error())
	}
	if in.Password == "" {
		fe.add("password", "This field is required.")
	} else if err := users.ValidatePasswordStrength(in.Password); err != nil {
		fe.add("password", err.Error())
	}
	if len(fe) > 0 {
		writeFieldErrors(w, fe)
		return
	}

	hash, err := users.HashPassword(in.Password)
	if err != nil {
		s.logger.Err(err).Msg("hash password")
		writeDetail(w, http.StatusInternalServerError, "A server error occurred.")
		return
	}
	user := &users.User{Email: email, PasswordHash: hash, DateJoined: NowTimeFunc()}
	if err := s.repos.Users.Upsert(user); err != nil {
		if errors.Is(err, errors.ErrUserExists) {
			writeFieldErrors(w, fieldErrors{"email": {"user with this email already exists."}})
			return
		}
		s.logger.Err(err).Msg("store user")
		writeDetail(w, http.StatusInternalServerError, "A server error occurred.")
		return
	}

	s.logger.Info().Str("user_id", user.ID).Msg("account created")
	writeJSON(w, http.StatusCreated, map[string]string{"id": user.ID, "email": user.Email})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if !decodeBody(w, r, &in) {
		return
	}
	fe := fieldErrors{}
	if in.Email == "" {
		fe.add("email", "This field is required.")
	}
	if in.Password == "" {
		fe.add("password", "This field is required.")
	}
	if len(fe) > 0 {
		writeFieldErrors(w, fe)
		return
	}

	user, err := s.repos.Users.GetByEmail(users.NormalizeEmail(in.Email))
	if err != nil || !user.CheckPassword(in.Password) {
		writeDetail(w, http.StatusUnauthorized, "No active account found with the given credentials")
		return
	}

	access, err := s.creator.CreateAccessToken(user)
	if err != nil {
		s.logger.Err(err).Msg("create access token")
		writeDetail(w, http.StatusInternalServerError, "A server error occurred.")
		return
	}
	refreshToken, err := s.refresh.Create(user.ID)
	if err != nil {
		s.logger.Err(err).Msg("create refresh token")
		writeDetail(w, http.StatusInternalServerError, "A server error occurred.")
		return
	}

	updated := *user
	updated.LastLogin = NowTimeFunc()
	if err := s.repos.Users.Upsert(&updated); err != nil {
		s.logger.Warn().Err(err).Msg("record last login")
	}
	writeJSON(w, http.StatusOK, tokenResponse{Access: access, Refresh: refreshToken})
}

// handleRefresh issues a new access token. The refresh token is not rotated.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Refresh string `json:"refresh"`
	}
	if !decodeBody(w, r, &in) {
		return
	}
	if in.Refresh == "" {
		writeFieldErrors(w, fieldErrors{"refresh": {"This field is required."}})
		return
	}

	stored, err := s.refresh.Validate(in.Refresh)
	if err != nil {
		writeTokenInvalid(w, "Token is invalid or expired")
		return
	}
	user, err := s.repos.Users.GetByID(stored.UserID)
	if err != nil {
		writeTokenInvalid(w, "Token is invalid or expired")
		return
	}
	access, err := s.creator.CreateAccessToken(user)
	if err != nil {
		s.logger.Err(err).Msg("create access token")
		writeDetail(w, http.StatusInternalServerError, "A server error occurred.")
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Access: access})
}
