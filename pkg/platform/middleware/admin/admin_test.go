package admin

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"

	"votedesk/pkg/domain"
	"votedesk/pkg/requestcontext"
)

// AdminMiddlewareSuite: a non-admin wallet never reaches the handler.
type AdminMiddlewareSuite struct {
	suite.Suite
	logger *slog.Logger
	admin  domain.Address
}

func TestAdminMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(AdminMiddlewareSuite))
}

func (s *AdminMiddlewareSuite) SetupTest() {
	s.logger = slog.New(slog.DiscardHandler)
	s.admin = domain.MustAddress("0xABC0000000000000000000000000000000000123")
}

func (s *AdminMiddlewareSuite) serve(header string) (int, bool, domain.Address) {
	called := false
	var wallet domain.Address
	handler := RequireWallet(s.admin, s.logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		wallet = requestcontext.Wallet(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	if header != "" {
		req.Header.Set(HeaderWalletAddress, header)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w.Code, called, wallet
}

func (s *AdminMiddlewareSuite) TestWalletHeader() {
	s.Run("matching wallet in different case passes", func() {
		code, called, wallet := s.serve("0xabc0000000000000000000000000000000000123")

		s.Equal(http.StatusOK, code)
		s.True(called)
		s.Equal(s.admin, wallet)
	})

	s.Run("missing header is 401", func() {
		code, called, _ := s.serve("")

		s.Equal(http.StatusUnauthorized, code)
		s.False(called)
	})

	s.Run("malformed header is 401", func() {
		code, called, _ := s.serve("not-a-wallet")

		s.Equal(http.StatusUnauthorized, code)
		s.False(called)
	})

	s.Run("other wallet is 403", func() {
		code, called, _ := s.serve("0xDEF0000000000000000000000000000000000456")

		s.Equal(http.StatusForbidden, code)
		s.False(called)
	})
}
