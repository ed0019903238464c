package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/nkiryanov/vollmed/internal/apperrors"
	"github.com/nkiryanov/vollmed/internal/handlers/identityctx"
	"github.com/nkiryanov/vollmed/internal/handlers/render"
	"github.com/nkiryanov/vollmed/internal/metrics"
	"github.com/nkiryanov/vollmed/internal/models"
)

var errTokenMissing = errors.New("bearer token is missing")

type tokenVerifier interface {
	// Return token subject or error wrapping one of apperrors.ErrToken*
	Verify(token string) (subject string, err error)
}

type routeClassifier interface {
	IsPublic(path string) bool
}

type GateObserver interface {
	ObserveGate(decision string, reason string)
}

type debugLogger interface {
	Debug(msg string, args ...any)
}

type AuthMiddleware struct {
	verifier tokenVerifier
	routes   routeClassifier
	observer GateObserver
	logger   debugLogger
}

// NewAuth builds authentication gate
// observer may be nil
func NewAuth(verifier tokenVerifier, routes routeClassifier, observer GateObserver, l debugLogger) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		routes:   routes,
		observer: observer,
		logger:   l,
	}
}

// Auth evaluates every request exactly once:
//   - token extracted from 'Authorization: Bearer ...'; missing header gives empty token
//   - verified token attaches identity to the request context, on any route
//   - public route passes without identity when token is empty or invalid
//   - protected route without valid token is rejected with 401 before next runs
//
// Rejection reason is never sent to the client.
func (m *AuthMiddleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := BearerToken(r.Header.Get("Authorization"))

		subject, err := m.verify(token)
		switch {
		case err == nil:
			m.decide(r, metrics.DecisionVerified, "", subject)
			ctx := identityctx.New(r.Context(), models.Identity{Subject: subject})
			next.ServeHTTP(w, r.WithContext(ctx))

		case m.routes.IsPublic(r.URL.Path):
			m.decide(r, metrics.DecisionPublic, reason(err), "")
			next.ServeHTTP(w, r)

		default:
			m.decide(r, metrics.DecisionRejected, reason(err), "")
			m.logger.Debug("request is not authenticated", "method", r.Method, "path", r.URL.Path, "reason", err.Error())

			render.Unauthorized(w)
		}
	})
}

func (m *AuthMiddleware) verify(token string) (string, error) {
	if token == "" {
		return "", errTokenMissing
	}
	return m.verifier.Verify(token)
}

// decide reports gate outcome to metrics and to the access log
func (m *AuthMiddleware) decide(r *http.Request, decision string, reason string, subject string) {
	if m.observer != nil {
		m.observer.ObserveGate(decision, reason)
	}
	recordAccess(r.Context(), decision, reason, subject)
}

// BearerToken returns token from authorization header value
// Empty string if header is empty or uses another scheme
func BearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, errTokenMissing):
		return "missing"
	case errors.Is(err, apperrors.ErrTokenExpired):
		return "expired"
	case errors.Is(err, apperrors.ErrTokenBadSignature):
		return "bad_signature"
	case errors.Is(err, apperrors.ErrTokenMalformed):
		return "malformed"
	default:
		return "unknown"
	}
}
