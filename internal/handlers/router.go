package handlers

import (
	"net/http"

	"github.com/nkiryanov/vollmed/internal/handlers/middleware"
	"github.com/nkiryanov/vollmed/internal/logger"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

type tokenVerifier interface {
	Verify(token string) (subject string, err error)
}

type routeClassifier interface {
	IsPublic(path string) bool
}

type observer interface {
	ObserveGate(decision string, reason string)
	ObserveLogin(result string)
}

// NewRouter builds the API handler.
// Every request passes the gate before reaching any handler; routes not
// mounted here are still gated and answer 404 only to authenticated callers.
func NewRouter(
	authService authService,
	tokens tokenVerifier,
	routes routeClassifier,
	obs observer,
	logger logger.Logger,
) http.Handler {
	var (
		gateObs  middleware.GateObserver
		loginObs loginObserver
	)
	if obs != nil {
		gateObs, loginObs = obs, obs
	}

	gate := middleware.NewAuth(tokens, routes, gateObs, logger)
	auth := NewAuth(authService, loginObs, logger)

	root := http.NewServeMux()
	root.Handle("POST /login", auth.Handler())
	root.Handle("GET /me", handleMe())

	return chain(root,
		middleware.LoggerMiddleware(logger),
		middleware.Stateless,
		gate.Auth,
	)
}
