package handlers

import (
	"net/http"

	"github.com/nkiryanov/vollmed/internal/handlers/identityctx"
	"github.com/nkiryanov/vollmed/internal/handlers/render"
)

func handleMe() http.Handler {
	type response struct {
		Subject string `json:"subject"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := identityctx.FromContext(r.Context())
		if !ok {
			// Gate lets only authenticated requests reach here
			render.Unauthorized(w)
			return
		}
		render.JSON(w, response{Subject: id.Subject})
	})
}
