package backend

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"votedesk/internal/offchain"
	dErrors "votedesk/pkg/domain-errors"
	"votedesk/pkg/testutil"
)

type StoreSuite struct {
	suite.Suite
	ctx   context.Context
	now   time.Time
	store *Store
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	s.store = NewStore(WithClock(func() time.Time { return s.now }))
}

func (s *StoreSuite) TestUnverifiedPagination() {
	s.Require().NoError(SeedVoters(s.ctx, s.store, 25))
	unverified := false

	s.Run("third page of 25 holds 5", func() {
		page := s.store.ListVoters(s.ctx, offchain.VoterFilter{Verified: &unverified, Page: 3, Limit: 10})

		s.Len(page.Voters, 5)
		s.Equal(offchain.Pagination{Total: 25, Page: 3, Limit: 10, Pages: 3}, page.Pagination)
	})

	s.Run("page beyond range is clamped", func() {
		page := s.store.ListVoters(s.ctx, offchain.VoterFilter{Verified: &unverified, Page: 9, Limit: 10})

		s.Equal(3, page.Pagination.Page)
		s.Len(page.Voters, 5)
	})

	s.Run("page below range is clamped", func() {
		page := s.store.ListVoters(s.ctx, offchain.VoterFilter{Page: -2, Limit: 10})

		s.Equal(1, page.Pagination.Page)
		s.Equal(SeedAddress(1), page.Voters[0].Address)
	})

	s.Run("verified filter excludes unverified", func() {
		_, err := s.store.VerifyVoter(s.ctx, SeedAddress(2))
		s.Require().NoError(err)
		verified := true

		page := s.store.ListVoters(s.ctx, offchain.VoterFilter{Verified: &verified, Page: 1, Limit: 10})
		s.Len(page.Voters, 1)

		rest := s.store.ListVoters(s.ctx, offchain.VoterFilter{Verified: &unverified, Page: 1, Limit: 10})
		s.Equal(24, rest.Pagination.Total)
	})
}

func (s *StoreSuite) TestEmptyListingHasOnePage() {
	page := s.store.ListVoters(s.ctx, offchain.VoterFilter{Page: 1, Limit: 10})

	s.Empty(page.Voters)
	s.NotNil(page.Voters)
	s.Equal(offchain.Pagination{Total: 0, Page: 1, Limit: 10, Pages: 1}, page.Pagination)
}

func (s *StoreSuite) TestVerifyVoter() {
	s.Require().NoError(SeedVoters(s.ctx, s.store, 1))

	v, err := s.store.VerifyVoter(s.ctx, SeedAddress(1))
	s.Require().NoError(err)
	s.True(v.Verified)
	s.Equal(s.now, *v.VerifiedAt)

	_, err = s.store.VerifyVoter(s.ctx, SeedAddress(1))
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))

	_, err = s.store.VerifyVoter(s.ctx, SeedAddress(2))
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *StoreSuite) TestLogFilters() {
	add := func(action offchain.Action, status offchain.Status, target string) {
		s.store.AppendLog(s.ctx, offchain.LogEntry{Action: action, Status: status, Target: target})
	}
	add(offchain.ActionVerifyVoter, offchain.StatusSuccess, "a")
	add(offchain.ActionVerifyVoter, offchain.StatusFailure, "b")
	add(offchain.ActionScheduleElection, offchain.StatusFailure, "c")
	add(offchain.ActionVerifyVoter, offchain.StatusFailure, "d")
	add(offchain.ActionAddCandidate, offchain.StatusSuccess, "e")

	s.Run("both filters combine with AND", func() {
		page := s.store.Logs(s.ctx, offchain.LogFilter{Action: offchain.ActionVerifyVoter, Status: offchain.StatusFailure, Page: 1, Limit: 10})

		s.Require().Len(page.Logs, 2)
		for _, e := range page.Logs {
			s.Equal(offchain.ActionVerifyVoter, e.Action)
			s.Equal(offchain.StatusFailure, e.Status)
		}
		s.Equal("d", page.Logs[0].Target, "newest first")
	})

	s.Run("cleared filter returns unfiltered first page", func() {
		filtered := offchain.LogFilter{Action: offchain.ActionVerifyVoter, Status: offchain.StatusFailure, Page: 2, Limit: 2}

		page := s.store.Logs(s.ctx, filtered.Cleared())

		s.Equal(5, page.Pagination.Total)
		s.Equal(1, page.Pagination.Page)
		s.Equal([]string{"e", "d"}, []string{page.Logs[0].Target, page.Logs[1].Target})
	})

	s.Run("entries get ids and timestamps", func() {
		page := s.store.Logs(s.ctx, offchain.LogFilter{Page: 1, Limit: 1})
		s.NotEmpty(page.Logs[0].ID)
		s.Equal(s.now, page.Logs[0].Timestamp)
	})
}

func (s *StoreSuite) TestRecordElectionAcceptsStartAfterEnd() {
	id, err := s.store.RecordElection(s.ctx, offchain.ScheduleElectionCommand{Name: "Backwards", StartTime: 2000, EndTime: 1000})

	s.Require().NoError(err)
	s.EqualValues(1, id)

	_, err = s.store.RecordElection(s.ctx, offchain.ScheduleElectionCommand{ID: 1, Name: "Dup"})
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *StoreSuite) TestRecordCandidateRejectsDuplicates() {
	cmd := offchain.AddCandidateCommand{ElectionID: 1, Name: "Ada"}
	s.Require().NoError(s.store.RecordCandidate(s.ctx, cmd))

	cmd.Name = "ada"
	s.True(dErrors.HasCode(s.store.RecordCandidate(s.ctx, cmd), dErrors.CodeConflict))
}

func (s *StoreSuite) TestStatsAndHistory() {
	s.Require().NoError(SeedVoters(s.ctx, s.store, 3))
	_, err := s.store.VerifyVoter(s.ctx, SeedAddress(1))
	s.Require().NoError(err)
	s.store.AppendLog(s.ctx, offchain.LogEntry{Action: offchain.ActionVerifyVoter, Status: offchain.StatusSuccess})
	s.store.AppendLog(s.ctx, offchain.LogEntry{Action: offchain.ActionVerifyVoter, Status: offchain.StatusFailure})

	st := s.store.Stats(s.ctx)
	s.Equal(3, st.TotalVoters)
	s.Equal(1, st.VerifiedVoters)
	s.Equal(2, st.UnverifiedVoters)
	s.Equal(1, st.SuccessfulActions)
	s.Equal(1, st.FailedActions)

	history := s.store.History(s.ctx, 3)
	s.Require().Len(history, 3)
	s.Equal("2026-10-12", history[0].Date)
	s.Equal("2026-10-14", history[2].Date)
	s.Equal(3, history[2].Registrations)
	s.Equal(1, history[2].Verifications)
	s.Zero(history[0].Registrations)
}

func (s *StoreSuite) TestVoterStatus() {
	s.False(s.store.VoterStatus(s.ctx, SeedAddress(1)).Registered)

	s.Require().NoError(SeedVoters(s.ctx, s.store, 1))
	st := s.store.VoterStatus(s.ctx, SeedAddress(1))
	s.True(st.Registered)
	s.False(st.Verified)
}

func (s *StoreSuite) TestConcurrentVerifyHasOneWinner() {
	s.Require().NoError(SeedVoters(s.ctx, s.store, 1))
	addr := SeedAddress(1)

	res := testutil.RunConcurrent(20, func(int) error {
		_, err := s.store.VerifyVoter(s.ctx, addr)
		return err
	})

	s.Equal(int32(1), res.Successes)
	s.Equal(int32(19), res.Conflicts)
	s.Zero(res.Errors)
}

func (s *StoreSuite) TestConcurrentRegistrationOfSameAddress() {
	reg := offchain.VoterRegistration{Address: SeedAddress(7), Name: "Same", NationalID: "N-7"}

	res := testutil.RunConcurrent(10, func(int) error {
		_, err := s.store.RegisterVoter(s.ctx, reg)
		return err
	})

	s.Equal(int32(1), res.Successes)
	s.Equal(int32(9), res.Conflicts)
	s.Equal(1, s.store.Stats(s.ctx).TotalVoters)
}
