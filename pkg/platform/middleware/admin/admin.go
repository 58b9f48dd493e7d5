package admin

import (
	"log/slog"
	"net/http"
	"strings"

	"votedesk/pkg/domain"
	"votedesk/pkg/requestcontext"
)

// HeaderWalletAddress names the caller's asserted wallet address. No signature is
// checked: the header is trusted as sent.
const HeaderWalletAddress = "X-Wallet-Address"

// RequireWallet admits requests whose X-Wallet-Address matches admin case-insensitively.
// A missing or malformed header is 401, a different address is 403.
func RequireWallet(admin domain.Address, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			raw := strings.TrimSpace(r.Header.Get(HeaderWalletAddress))
			if raw == "" {
				reject(w, http.StatusUnauthorized, `{"error":"unauthorized","error_description":"wallet address header required"}`)
				return
			}
			caller, err := domain.ParseAddress(raw)
			if err != nil {
				reject(w, http.StatusUnauthorized, `{"error":"unauthorized","error_description":"wallet address header is not a valid address"}`)
				return
			}
			if !caller.Equal(admin) {
				logger.WarnContext(ctx, "admin wallet mismatch",
					"request_id", requestcontext.RequestID(ctx),
					"wallet", caller.String(),
				)
				reject(w, http.StatusForbidden, `{"error":"forbidden","error_description":"wallet is not the administrator"}`)
				return
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithWallet(ctx, caller)))
		})
	}
}

func reject(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
