package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rs/xid"

	"github.com/SmitChaudhari26/VoxDesk/internal/auth"
	"github.com/SmitChaudhari26/VoxDesk/internal/model"
	"github.com/SmitChaudhari26/VoxDesk/internal/service"
)

// SignInRecorder counts successful sign-ins. The metrics collector
// satisfies this; a nil recorder disables counting.
type SignInRecorder interface {
	RecordSignIn(method string)
}

// AuthHandler exposes registration, login, and the two Google sign-in
// flows: the desktop client posts a Google ID token directly, while
// browsers can use the redirect-based authorization-code flow.
type AuthHandler struct {
	auths   *service.AuthService
	google  *auth.GoogleProvider
	signIns SignInRecorder
	logger  *slog.Logger
}

func NewAuthHandler(auths *service.AuthService, google *auth.GoogleProvider, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auths: auths, google: google, logger: logger}
}

// WithSignInRecorder attaches a sign-in counter to the handler.
func (h *AuthHandler) WithSignInRecorder(rec SignInRecorder) *AuthHandler {
	h.signIns = rec
	return h
}

func (h *AuthHandler) recordSignIn(method string) {
	if h.signIns != nil {
		h.signIns.RecordSignIn(method)
	}
}

// AuthResponse is returned by every endpoint that signs a user in.
type AuthResponse struct {
	Token string           `json:"token"`
	User  model.PublicUser `json:"user"`
}

// HandleRegister creates a local account.
//
// HTTP: POST /api/auth/register
// Body: {"email": "...", "password": "...", "name": "..."}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}

	result, err := h.auths.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		Token: result.Token,
		User:  result.User.Public(),
	})
}

// HandleLogin verifies an email/password pair.
//
// HTTP: POST /api/auth/login
// Body: {"email": "...", "password": "..."}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}

	result, err := h.auths.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	h.recordSignIn("password")
	writeJSON(w, http.StatusOK, AuthResponse{
		Token: result.Token,
		User:  result.User.Public(),
	})
}

// HandleGoogleSignIn verifies a Google ID token posted by the client and
// signs the matching account in, creating or linking it as needed.
//
// HTTP: POST /api/auth/google
// Body: {"idToken": "..."}
func (h *AuthHandler) HandleGoogleSignIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDToken string `json:"idToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}
	if req.IDToken == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "idToken is required"})
		return
	}

	gu, err := h.google.VerifyIDToken(r.Context(), req.IDToken)
	if err != nil {
		h.logger.Warn("google sign-in: token verification failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "invalid Google token"})
		return
	}

	result, err := h.auths.LoginOrRegisterGoogle(r.Context(), gu)
	if err != nil {
		writeError(w, err)
		return
	}

	h.recordSignIn("google")
	writeJSON(w, http.StatusOK, AuthResponse{
		Token: result.Token,
		User:  result.User.Public(),
	})
}

// HandleGoogleLogin starts the browser-redirect flow.
//
// HTTP: GET /api/auth/google/login
//
// A random state value goes into a short-lived HttpOnly cookie and is
// checked again on callback so the callback cannot be forged.
func (h *AuthHandler) HandleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	state := xid.New().String()

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.google.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleGoogleCallback completes the redirect flow.
//
// HTTP: GET /api/auth/google/callback?code=xxx&state=yyy
func (h *AuthHandler) HandleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value == "" {
		h.logger.Warn("google callback: missing state cookie")
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid OAuth state"})
		return
	}
	if r.URL.Query().Get("state") != stateCookie.Value {
		h.logger.Warn("google callback: state mismatch")
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid OAuth state"})
		return
	}

	// The state cookie is single-use.
	http.SetCookie(w, &http.Cookie{
		Name:   "oauth_state",
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Info("google callback: user denied authorization", slog.String("error", errParam))
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "authorization denied"})
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "missing OAuth code"})
		return
	}

	gu, err := h.google.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("google callback: code exchange failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal_error", Message: "authentication failed"})
		return
	}

	result, err := h.auths.LoginOrRegisterGoogle(r.Context(), gu)
	if err != nil {
		writeError(w, err)
		return
	}

	h.recordSignIn("google")
	writeJSON(w, http.StatusOK, AuthResponse{
		Token: result.Token,
		User:  result.User.Public(),
	})
}

// HandleProfile returns the authenticated user's public profile.
//
// HTTP: GET /api/profile
// Auth: required
func (h *AuthHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		// Unreachable on a protected route.
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "authentication required"})
		return
	}

	writeJSON(w, http.StatusOK, user.Public())
}
