// Package requestcontext carries per-request values set by the HTTP middleware.
package requestcontext

import (
	"context"

	"votedesk/pkg/domain"
)

type (
	requestIDKey struct{}
	clientIPKey  struct{}
	userAgentKey struct{}
	walletKey    struct{}
)

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the request id, or empty outside a request.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func WithClientMetadata(ctx context.Context, ip, userAgent string) context.Context {
	ctx = context.WithValue(ctx, clientIPKey{}, ip)
	return context.WithValue(ctx, userAgentKey{}, userAgent)
}

func ClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}

func UserAgent(ctx context.Context) string {
	ua, _ := ctx.Value(userAgentKey{}).(string)
	return ua
}

// WithWallet records the wallet address asserted by the caller.
func WithWallet(ctx context.Context, addr domain.Address) context.Context {
	return context.WithValue(ctx, walletKey{}, addr)
}

func Wallet(ctx context.Context) domain.Address {
	addr, _ := ctx.Value(walletKey{}).(domain.Address)
	return addr
}
