// Package devserver is a self-contained auth backend for local
// development and integration tests. It serves the /auth REST API the
// httpclient package speaks, keeps accounts and one-time codes in
// redis, and carries sessions as signed tokens in a cookie backed by a
// revocable redis record.
//
// It cuts every corner a real backend must not: passwords are salted
// sha256, the authenticator code is a fixed development value, passkey
// ceremonies are simulated, OAuth providers auto-provision an account.
// Never expose it beyond localhost.
package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/strategiz-io/authflow"
)

const (
	sessionCookie = "authflow_dev_session"

	// devTOTPCode is accepted for every account.
	devTOTPCode = "123456"

	passkeyUserKey = "du:passkey"
)

// Server implements the /auth API.
type Server struct {
	cfg      Config
	redis    redis.UniversalClient
	users    *userStore
	codes    *codeStore
	sessions *sessionStore
	tokens   *tokenIssuer
	mux      *http.ServeMux
}

// New assembles a server on top of the given redis client.
func New(cfg Config, rdb redis.UniversalClient) *Server {
	s := &Server{
		cfg:      cfg,
		redis:    rdb,
		users:    newUserStore(rdb),
		codes:    newCodeStore(rdb, cfg.SMSCodeTTL),
		sessions: newSessionStore(rdb, cfg.SessionTTL),
		tokens:   newTokenIssuer(cfg.JWTSecret, cfg.SessionTTL),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.HandleFunc("POST /auth/logout", s.handleLogout)
	mux.HandleFunc("GET /auth/me", s.handleMe)
	mux.HandleFunc("POST /auth/oauth/{provider}", s.handleOAuth)
	mux.HandleFunc("POST /auth/passkey/login", s.handlePasskeyLogin)
	mux.HandleFunc("POST /auth/passkey/register", s.handlePasskeyRegister)
	mux.HandleFunc("GET /auth/passkey/supported", s.handlePasskeySupported)
	mux.HandleFunc("POST /auth/sms/send", s.handleSMSSend)
	mux.HandleFunc("POST /auth/sms/verify", s.handleSMSVerify)
	mux.HandleFunc("POST /auth/totp/verify", s.handleTOTPVerify)
	mux.HandleFunc("GET /auth/methods", s.handleMethods)
	s.mux = mux

	return s
}

// Handler returns the HTTP handler serving the /auth API.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       string `json:"name"`
		Email      string `json:"email"`
		AuthMethod string `json:"auth_method"`
		Password   string `json:"password"`
		Phone      string `json:"phone"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.Name == "" || req.Email == "" {
		writeFail[authflow.User](w, http.StatusBadRequest, "invalid request", "Name and email are required")
		return
	}

	rec := &userRecord{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	}
	if req.AuthMethod == "password" {
		// Password-method accounts without a password get a throwaway
		// one; the dev UI does not always collect it at sign-up.
		password := req.Password
		if password == "" {
			password = "devpass"
		}
		hash, err := hashPassword(password)
		if err != nil {
			writeFail[authflow.User](w, http.StatusInternalServerError, err.Error(), "Could not create account")
			return
		}
		rec.PasswordHash = hash
	}

	if err := s.users.Create(r.Context(), rec); err != nil {
		if errors.Is(err, errUserExists) {
			writeFail[authflow.User](w, http.StatusConflict, "account exists", "An account with this email already exists")
			return
		}
		writeFail[authflow.User](w, http.StatusInternalServerError, err.Error(), "Could not create account")
		return
	}

	s.establishSession(r.Context(), w, rec)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decode(w, r, &req) {
		return
	}

	rec, err := s.users.ByEmail(r.Context(), req.Email)
	if err != nil || rec.PasswordHash == "" || !checkPassword(rec.PasswordHash, req.Password) {
		writeFail[authflow.User](w, http.StatusUnauthorized, errBadCredentials.Error(), "Invalid email or password")
		return
	}

	s.establishSession(r.Context(), w, rec)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	_, sessionID, ok := s.authenticate(r)
	if ok {
		if err := s.sessions.Revoke(r.Context(), sessionID); err != nil {
			writeFail[authflow.Void](w, http.StatusInternalServerError, err.Error(), "Could not sign out")
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	writeOK(w, authflow.Void{})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := s.authenticate(r)
	if !ok {
		writeFail[authflow.User](w, http.StatusUnauthorized, "no session", "Not signed in")
		return
	}

	rec, err := s.users.ByID(r.Context(), userID)
	if err != nil {
		writeFail[authflow.User](w, http.StatusUnauthorized, "no session", "Not signed in")
		return
	}

	writeOK(w, toUser(rec))
}

func (s *Server) handleOAuth(w http.ResponseWriter, r *http.Request) {
	provider := authflow.OAuthProvider(r.PathValue("provider"))
	if !provider.Valid() {
		writeFail[authflow.User](w, http.StatusNotFound, "unknown provider", "Unknown sign-in provider")
		return
	}

	// Dev shortcut: the provider "ceremony" is a fixed identity that is
	// provisioned on first use.
	email := string(provider) + "@dev.local"
	rec, err := s.users.ByEmail(r.Context(), email)
	if errors.Is(err, errUserNotFound) {
		rec = &userRecord{
			Name:  provider.Title() + " Dev User",
			Email: email,
		}
		err = s.users.Create(r.Context(), rec)
	}
	if err != nil {
		writeFail[authflow.User](w, http.StatusInternalServerError, err.Error(), "Failed to sign in with "+provider.Title())
		return
	}

	s.establishSession(r.Context(), w, rec)
}

func (s *Server) handlePasskeyLogin(w http.ResponseWriter, r *http.Request) {
	email, err := s.redis.Get(r.Context(), passkeyUserKey).Result()
	if err != nil {
		writeFail[authflow.User](w, http.StatusUnauthorized, "no passkey enrolled", "No passkey is enrolled on this device")
		return
	}

	rec, err := s.users.ByEmail(r.Context(), email)
	if err != nil {
		writeFail[authflow.User](w, http.StatusUnauthorized, "no passkey enrolled", "No passkey is enrolled on this device")
		return
	}

	s.establishSession(r.Context(), w, rec)
}

func (s *Server) handlePasskeyRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
	}
	if !decode(w, r, &req) {
		return
	}

	rec, err := s.users.ByID(r.Context(), req.UserID)
	if err != nil {
		writeFail[bool](w, http.StatusNotFound, "unknown user", "Passkey registration failed")
		return
	}

	rec.Passkey = true
	if err := s.users.Update(r.Context(), rec); err != nil {
		writeFail[bool](w, http.StatusInternalServerError, err.Error(), "Passkey registration failed")
		return
	}
	if err := s.redis.Set(r.Context(), passkeyUserKey, rec.Email, 0).Err(); err != nil {
		writeFail[bool](w, http.StatusInternalServerError, err.Error(), "Passkey registration failed")
		return
	}

	writeOK(w, true)
}

func (s *Server) handlePasskeySupported(w http.ResponseWriter, r *http.Request) {
	writeOK(w, true)
}

func (s *Server) handleSMSSend(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Phone string `json:"phone"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.Phone == "" {
		writeFail[bool](w, http.StatusBadRequest, "invalid request", "Phone number is required")
		return
	}

	code, err := s.codes.Issue(r.Context(), req.Phone)
	if err != nil {
		writeFail[bool](w, http.StatusInternalServerError, err.Error(), "Failed to send SMS code")
		return
	}

	// There is no SMS gateway here; the code comes back in a header so
	// tests and curl sessions can complete the flow.
	w.Header().Set("X-Dev-SMS-Code", code)
	writeOK(w, true)
}

func (s *Server) handleSMSVerify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if !decode(w, r, &req) {
		return
	}

	phone, err := s.codes.Consume(r.Context(), req.Code)
	if err != nil {
		writeFail[authflow.User](w, http.StatusUnauthorized, "invalid code", "The code is invalid or expired")
		return
	}

	rec, err := s.users.ByPhone(r.Context(), phone)
	if errors.Is(err, errUserNotFound) {
		rec = &userRecord{
			Name:  "SMS User " + phone,
			Email: phone + "@sms.dev.local",
			Phone: phone,
		}
		err = s.users.Create(r.Context(), rec)
	}
	if err != nil {
		writeFail[authflow.User](w, http.StatusInternalServerError, err.Error(), "Failed to verify SMS code")
		return
	}

	s.establishSession(r.Context(), w, rec)
}

func (s *Server) handleTOTPVerify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if !decode(w, r, &req) {
		return
	}

	rec, err := s.users.ByEmail(r.Context(), req.Email)
	if err != nil || req.Code != devTOTPCode {
		writeFail[authflow.User](w, http.StatusUnauthorized, "invalid code", "Invalid authenticator code")
		return
	}

	s.establishSession(r.Context(), w, rec)
}

func (s *Server) handleMethods(w http.ResponseWriter, r *http.Request) {
	writeOK(w, authflow.AuthMethods{
		Passkey: true,
		SMS:     true,
		TOTP:    true,
		OAuth: authflow.OAuthMethods{
			Google:   true,
			Facebook: true,
			Twitter:  true,
			Github:   true,
		},
	})
}

func (s *Server) establishSession(ctx context.Context, w http.ResponseWriter, rec *userRecord) {
	token, sessionID, err := s.tokens.issue(rec.ID)
	if err != nil {
		writeFail[authflow.User](w, http.StatusInternalServerError, err.Error(), "Could not establish session")
		return
	}
	if err := s.sessions.Save(ctx, sessionID, rec.ID); err != nil {
		writeFail[authflow.User](w, http.StatusInternalServerError, err.Error(), "Could not establish session")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeOK(w, toUser(rec))
}

// authenticate resolves the session cookie to a live session.
func (s *Server) authenticate(r *http.Request) (userID, sessionID string, ok bool) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil || cookie.Value == "" {
		return "", "", false
	}

	userID, sessionID, err = s.tokens.verify(cookie.Value)
	if err != nil {
		return "", "", false
	}

	alive, err := s.sessions.Alive(r.Context(), sessionID)
	if err != nil || !alive {
		return "", "", false
	}

	return userID, sessionID, true
}

func toUser(rec *userRecord) authflow.User {
	return authflow.User{
		ID:        rec.ID,
		Name:      rec.Name,
		Email:     rec.Email,
		CreatedAt: rec.CreatedAt,
	}
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	data, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil || len(strings.TrimSpace(string(data))) == 0 {
		writeFail[authflow.Void](w, http.StatusBadRequest, "invalid request", "Malformed request body")
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		writeFail[authflow.Void](w, http.StatusBadRequest, "invalid request", "Malformed request body")
		return false
	}
	return true
}

func writeOK[T any](w http.ResponseWriter, data T) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(authflow.OK(data))
}

func writeFail[T any](w http.ResponseWriter, status int, errText, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(authflow.Failure[T](errText, message))
}
