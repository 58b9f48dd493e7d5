package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"votedesk/pkg/domain"
	dErrors "votedesk/pkg/domain-errors"
)

type failingProvider struct{ err error }

func (p failingProvider) Accounts(context.Context) ([]string, error) { return nil, p.err }

type ResolverSuite struct {
	suite.Suite
	ctx   context.Context
	admin domain.Address
}

func TestResolverSuite(t *testing.T) {
	suite.Run(t, new(ResolverSuite))
}

func (s *ResolverSuite) SetupTest() {
	s.ctx = context.Background()
	s.admin = domain.MustAddress("0xABC0000000000000000000000000000000000123")
}

func (s *ResolverSuite) TestConnect() {
	s.Run("missing provider is provider unavailable", func() {
		r := NewResolver(nil, s.admin, false)

		_, err := r.Connect(s.ctx)

		s.Require().Error(err)
		s.True(errors.Is(err, ErrProviderUnavailable))
		s.False(r.IsAdmin())
	})

	s.Run("provider without accounts is provider unavailable", func() {
		r := NewResolver(NewStaticProvider(), s.admin, false)

		_, err := r.Connect(s.ctx)

		s.True(dErrors.HasCode(err, dErrors.CodeProviderUnavailable))
	})

	s.Run("provider error keeps provider unavailable code", func() {
		cause := errors.New("user rejected request")
		r := NewResolver(failingProvider{err: cause}, s.admin, false)

		_, err := r.Connect(s.ctx)

		s.True(dErrors.HasCode(err, dErrors.CodeProviderUnavailable))
		s.ErrorIs(err, cause)
		s.EqualError(err, "wallet provider request failed: user rejected request")
	})

	s.Run("invalid account is rejected", func() {
		r := NewResolver(NewStaticProvider("not-an-address"), s.admin, false)

		_, err := r.Connect(s.ctx)

		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
		_, ok := r.Current()
		s.False(ok)
	})

	s.Run("first account is retained lowercase", func() {
		r := NewResolver(NewStaticProvider(
			"0xABC0000000000000000000000000000000000123",
			"0xdef0000000000000000000000000000000000456",
		), s.admin, false)

		addr, err := r.Connect(s.ctx)

		s.Require().NoError(err)
		s.Equal(domain.Address("0xabc0000000000000000000000000000000000123"), addr)
		current, ok := r.Current()
		s.True(ok)
		s.Equal(addr, current)
	})
}

func (s *ResolverSuite) TestIsAdmin() {
	s.Run("same address different case is admin", func() {
		r := NewResolver(NewStaticProvider("0xabc0000000000000000000000000000000000123"), s.admin, false)
		_, err := r.Connect(s.ctx)
		s.Require().NoError(err)

		s.True(r.IsAdmin())
	})

	s.Run("other address is not admin", func() {
		r := NewResolver(NewStaticProvider("0xdef0000000000000000000000000000000000456"), s.admin, false)
		_, err := r.Connect(s.ctx)
		s.Require().NoError(err)

		s.False(r.IsAdmin())
	})

	s.Run("dev mode promotes any connected address", func() {
		r := NewResolver(NewStaticProvider("0xdef0000000000000000000000000000000000456"), s.admin, true)
		s.False(r.IsAdmin())

		_, err := r.Connect(s.ctx)
		s.Require().NoError(err)

		s.True(r.IsAdmin())
		s.True(r.DevMode())
	})

	s.Run("disconnect clears identity", func() {
		r := NewResolver(NewStaticProvider("0xabc0000000000000000000000000000000000123"), s.admin, false)
		_, err := r.Connect(s.ctx)
		s.Require().NoError(err)

		r.Disconnect()

		_, ok := r.Current()
		s.False(ok)
		s.False(r.IsAdmin())
		s.Equal(s.admin, r.AdminAddress())
	})
}
