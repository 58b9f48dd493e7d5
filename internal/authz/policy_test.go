package authz

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"votedesk/pkg/domain"
)

type PolicySuite struct {
	suite.Suite
	admin domain.Address
}

func TestPolicySuite(t *testing.T) {
	suite.Run(t, new(PolicySuite))
}

func (s *PolicySuite) SetupTest() {
	s.admin = domain.Address("0xABC0000000000000000000000000000000000123")
}

func (s *PolicySuite) TestDevMode() {
	addresses := []domain.Address{
		"0xabc0000000000000000000000000000000000123",
		"0xdef0000000000000000000000000000000000456",
		"0x0000000000000000000000000000000000000000",
	}
	for _, addr := range addresses {
		s.Run("any connected address is admin: "+addr.String(), func() {
			s.True(IsAdmin(addr, s.admin, true))
		})
	}

	s.Run("nil address is not admin even in dev mode", func() {
		s.False(IsAdmin("", s.admin, true))
	})

	s.Run("dev mode works without a configured admin", func() {
		s.True(IsAdmin("0xdef0000000000000000000000000000000000456", "", true))
	})
}

func (s *PolicySuite) TestStrictMode() {
	s.Run("same address different case is admin", func() {
		s.True(IsAdmin("0xabc0000000000000000000000000000000000123", s.admin, false))
	})

	s.Run("different address is not admin", func() {
		s.False(IsAdmin("0xdef0000000000000000000000000000000000456", s.admin, false))
	})

	s.Run("nil address is not admin", func() {
		s.False(IsAdmin("", s.admin, false))
	})

	s.Run("empty admin never matches", func() {
		s.False(IsAdmin("0xabc0000000000000000000000000000000000123", "", false))
	})
}
