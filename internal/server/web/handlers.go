package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/synogpt/synogpt/internal/common"
	"github.com/synogpt/synogpt/internal/server/auth"
	"github.com/synogpt/synogpt/internal/server/chat"
)

// qrSize is the pixel size of the rendered enrollment QR code.
const qrSize = 200

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) issueCookie(w http.ResponseWriter, sess *chat.Session, otpVerified bool) error {
	cfg := s.creds.Cookie()
	validity := time.Duration(cfg.ExpiryDays) * 24 * time.Hour

	token, err := auth.GenerateToken(auth.SessionClaims{
		Username:    sess.Username,
		Name:        sess.Name,
		Role:        sess.Role,
		SessionID:   sess.ID,
		OTPVerified: otpVerified,
	}, []byte(cfg.Key), validity)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cfg.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(validity.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (s *Server) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.creds.Cookie().Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = fmt.Fprint(w, indexPage)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.creds.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			writeError(w, http.StatusUnauthorized, "Username/password is incorrect")
			return
		}
		s.logger.Error(r.Context(), "login failed", "error", err)
		writeError(w, http.StatusInternalServerError, "login is unavailable")
		return
	}

	sess, err := s.sessions.Create(req.Username, user.Name, user.Email, user.Role)
	if err != nil {
		s.logger.Error(r.Context(), "session create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "login is unavailable")
		return
	}

	_, created, err := s.creds.EnsureOTPSecret(r.Context(), req.Username)
	if err != nil {
		s.logger.Error(r.Context(), "otp provisioning failed", "user", req.Username, "error", err)
		s.sessions.Delete(sess.ID)
		writeError(w, http.StatusInternalServerError, "second factor is unavailable")
		return
	}
	sess.SetEnrollmentPending(created)

	if err := s.issueCookie(w, sess, false); err != nil {
		s.logger.Error(r.Context(), "cookie issue failed", "error", err)
		s.sessions.Delete(sess.ID)
		writeError(w, http.StatusInternalServerError, "login is unavailable")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"name":               user.Name,
		"enrollment_pending": created,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sess, _, ok := s.sessionFromRequest(r); ok {
		s.sessions.Delete(sess.ID)
	}
	s.clearCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request, sess *chat.Session, claims *auth.SessionClaims) {
	verified := claims.OTPVerified && sess.OTPVerified()

	resp := map[string]any{
		"username":           sess.Username,
		"name":               sess.Name,
		"role":               sess.Role,
		"otp_verified":       verified,
		"enrollment_pending": sess.EnrollmentPending(),
	}
	if verified {
		resp["show_welcome"] = sess.ConsumeWelcome()
		resp["turns"] = sess.Turns()
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleOTPQR(w http.ResponseWriter, r *http.Request, sess *chat.Session, claims *auth.SessionClaims) {
	if !sess.EnrollmentPending() {
		writeError(w, http.StatusNotFound, "no enrollment in progress")
		return
	}

	secret, _, err := s.creds.EnsureOTPSecret(r.Context(), sess.Username)
	if err != nil {
		s.logger.Error(r.Context(), "otp secret lookup failed", "user", sess.Username, "error", err)
		writeError(w, http.StatusInternalServerError, "second factor is unavailable")
		return
	}

	img, err := auth.EnrollmentQR(secret, sess.Email, qrSize)
	if err != nil {
		s.logger.Error(r.Context(), "qr render failed", "user", sess.Username, "error", err)
		writeError(w, http.StatusInternalServerError, "second factor is unavailable")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(img)
}

type otpVerifyRequest struct {
	Code string `json:"code"`
}

func (s *Server) handleOTPVerify(w http.ResponseWriter, r *http.Request, sess *chat.Session, claims *auth.SessionClaims) {
	var req otpVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	secret, _, err := s.creds.EnsureOTPSecret(r.Context(), sess.Username)
	if err != nil {
		s.logger.Error(r.Context(), "otp secret lookup failed", "user", sess.Username, "error", err)
		writeError(w, http.StatusInternalServerError, "second factor is unavailable")
		return
	}

	if err := auth.VerifyCode(req.Code, secret); err != nil {
		s.logger.Warn(r.Context(), "invalid otp attempt", "user", sess.Username)
		writeError(w, http.StatusUnauthorized, "Invalid OTP. Please try again.")
		return
	}

	sess.MarkOTPVerified()
	if err := s.issueCookie(w, sess, true); err != nil {
		s.logger.Error(r.Context(), "cookie issue failed", "error", err)
		writeError(w, http.StatusInternalServerError, "login is unavailable")
		return
	}

	s.logger.Info(r.Context(), "user authenticated with second factor", "user", sess.Username)
	writeJSON(w, http.StatusOK, map[string]any{"verified": true, "name": sess.Name})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request, sess *chat.Session, claims *auth.SessionClaims) {
	writeJSON(w, http.StatusOK, map[string]any{"groups": s.chat.History(r.Context())})
}

type selectRequest struct {
	Index int `json:"index"`
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request, sess *chat.Session, claims *auth.SessionClaims) {
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.chat.Select(r.Context(), sess, req.Index); err != nil {
		writeError(w, http.StatusBadRequest, "unknown conversation")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"turns": sess.Turns()})
}

func (s *Server) handleNewChat(w http.ResponseWriter, r *http.Request, sess *chat.Session, claims *auth.SessionClaims) {
	s.chat.Reset(sess)
	w.WriteHeader(http.StatusNoContent)
}

type chatRequest struct {
	Prompt string `json:"prompt"`
}

// sseSink forwards display updates as server-sent events.
type sseSink struct {
	w http.ResponseWriter
	f http.Flusher
}

func (s *sseSink) event(name, text string) {
	payload, _ := json.Marshal(map[string]string{"text": text})
	fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", name, payload)
	s.f.Flush()
}

func (s *sseSink) Delta(token string)  { s.event("delta", token) }
func (s *sseSink) Replace(text string) { s.event("replace", text) }

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request, sess *chat.Session, claims *auth.SessionClaims) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		writeError(w, http.StatusBadRequest, "empty prompt")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	sink := &sseSink{w: w, f: flusher}

	if _, err := s.chat.Ask(r.Context(), sess, prompt, sink); err != nil {
		// reply already streamed; only the save failed
		sink.event("notice", "Failed to save conversation.")
	}

	sink.event("done", "")
}
