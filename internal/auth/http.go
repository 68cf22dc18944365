package auth

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"CampusStore/pkg/kit"
)

// SessionCookie carries the opaque session token. The name is a legacy of the
// storefront's first release; the value is never the literal username.
const SessionCookie = "username"

const maxFormBytes = 16 << 10

type Server struct {
	Log     *zap.Logger
	Gateway *Gateway
}

// LoginPage stands in for the login form; template rendering lives outside
// this service.
func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	kit.WriteJSON(w, http.StatusOK, map[string]string{"page": "login"})
}

func (s *Server) CreateAccountPage(w http.ResponseWriter, r *http.Request) {
	kit.WriteJSON(w, http.StatusOK, map[string]string{"page": "create_account"})
}

func (s *Server) HandleLogin(w http.ResponseWriter, r *http.Request) {
	username, password, ok := credentials(w, r)
	if !ok {
		return
	}

	tok, err := s.Gateway.Login(r.Context(), username, password)
	if err != nil {
		s.writeAuthError(w, r, err)
		return
	}

	setSessionCookie(w, tok)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) HandleCreateAccount(w http.ResponseWriter, r *http.Request) {
	username, password, ok := credentials(w, r)
	if !ok {
		return
	}

	tok, err := s.Gateway.Register(r.Context(), username, password)
	if err != nil {
		s.writeAuthError(w, r, err)
		return
	}

	s.Log.Info("account created", zap.String("username", username))
	setSessionCookie(w, tok)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if err := s.Gateway.Logout(r.Context(), c.Value); err != nil {
			s.Log.Warn("revoke session", zap.Error(err))
		}
	}

	clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusFound)
}

func credentials(w http.ResponseWriter, r *http.Request) (username, password string, ok bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)

	if err := r.ParseForm(); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "malformed form body", nil)
		return "", "", false
	}

	if !r.PostForm.Has("username") || !r.PostForm.Has("password") {
		kit.WriteError(w, r, http.StatusBadRequest, "username and password are both required", nil)
		return "", "", false
	}

	username = strings.TrimSpace(r.PostForm.Get("username"))
	password = r.PostForm.Get("password")
	if username == "" || password == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "username and password are both required", nil)
		return "", "", false
	}

	return username, password, true
}

func (s *Server) writeAuthError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrUserNotFound):
		kit.WriteError(w, r, http.StatusUnauthorized, ErrUserNotFound.Error(), nil)
	case errors.Is(err, ErrInvalidCredentials):
		kit.WriteError(w, r, http.StatusUnauthorized, ErrInvalidCredentials.Error(), nil)
	case errors.Is(err, ErrDuplicateUser):
		kit.WriteError(w, r, http.StatusConflict, "a user with that username already exists", nil)
	default:
		s.Log.Error("auth failure", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
	}
}

func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}
