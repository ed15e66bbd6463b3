package web

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/synogpt/synogpt/internal/server/auth"
	"github.com/synogpt/synogpt/internal/server/chat"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// withRequestLog tags every request with an ID and logs method, path,
// status and duration.
func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := uuid.NewString()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		s.logger.Info(r.Context(), "request",
			"req_id", reqID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

// sessionFromRequest resolves the session cookie to live session state.
// Both parts must agree: a valid signed token and a server-side session.
func (s *Server) sessionFromRequest(r *http.Request) (*chat.Session, *auth.SessionClaims, bool) {
	cookieCfg := s.creds.Cookie()

	c, err := r.Cookie(cookieCfg.Name)
	if err != nil {
		return nil, nil, false
	}

	claims, err := auth.GetClaimsFromToken(c.Value, []byte(cookieCfg.Key))
	if err != nil {
		return nil, nil, false
	}

	sess, ok := s.sessions.Get(claims.SessionID)
	if !ok {
		return nil, nil, false
	}

	return sess, claims, true
}

type sessionHandler func(w http.ResponseWriter, r *http.Request, sess *chat.Session, claims *auth.SessionClaims)

// requireLogin admits any request with a valid session cookie, verified
// second factor or not. Used by the OTP challenge endpoints themselves.
func (s *Server) requireLogin(next sessionHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, claims, ok := s.sessionFromRequest(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "not logged in")
			return
		}
		next(w, r, sess, claims)
	})
}

// requireOTP admits only fully authenticated requests: the cookie and the
// server-side session must both carry the verified flag.
func (s *Server) requireOTP(next sessionHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, claims, ok := s.sessionFromRequest(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "not logged in")
			return
		}
		if !claims.OTPVerified || !sess.OTPVerified() {
			writeError(w, http.StatusUnauthorized, "otp verification required")
			return
		}
		next(w, r, sess, claims)
	})
}
