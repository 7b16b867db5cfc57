package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/dmoralesv/floreria-backend/pkg/logger"
)

const cartTokenHeader = "X-Cart-Token"

// CartToken resolves the caller's cart token, minting a fresh one when the
// header is absent or not a uuid. The resolved token is echoed back so the
// client can persist it.
func CartToken(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(cartTokenHeader)
			if _, err := uuid.Parse(token); err != nil {
				token = uuid.NewString()
			}

			w.Header().Set(cartTokenHeader, token)

			ctx := WithCartToken(r.Context(), token)
			if logg != nil {
				ctx = logg.WithCartToken(ctx, token)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
