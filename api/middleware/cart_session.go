package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront/pkg/logger"
)

// CartIDHeader carries the buyer's durable cart id. Every tab of one buyer sends
// the same value, so they share a single stored cart.
const CartIDHeader = "X-Cart-Id"

// CartSession resolves the cart id from the request, minting one when absent, and
// echoes it back so the client can keep it.
func CartSession(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cartID := strings.TrimSpace(r.Header.Get(CartIDHeader))
			if _, err := uuid.Parse(cartID); err != nil {
				cartID = uuid.NewString()
			}
			w.Header().Set(CartIDHeader, cartID)

			ctx := WithCartID(r.Context(), cartID)
			if logg != nil {
				ctx = logg.WithCartID(ctx, cartID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
