package e2e

import (
	"context"
	"fmt"
	"strings"

	"github.com/cucumber/godog"

	"votedesk/internal/ledger"
	"votedesk/internal/offchain"
	"votedesk/internal/offchain/backend"
	"votedesk/pkg/domain"
	dErrors "votedesk/pkg/domain-errors"
)

// RegisterSteps registers all step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Background steps
	ctx.Step(`^the off-chain backend is running with admin "([^"]*)"$`, tc.backendIsRunning)
	ctx.Step(`^(\d+) unverified voters are registered$`, tc.votersAreSeeded)
	ctx.Step(`^voter "([^"]*)" is registered$`, tc.voterIsRegistered)

	// Session steps
	ctx.Step(`^dev mode is (on|off)$`, tc.devMode)
	ctx.Step(`^the ledger rejects every transaction$`, tc.ledgerRejects)
	ctx.Step(`^no ledger is configured$`, tc.noLedger)
	ctx.Step(`^I connect wallet "([^"]*)"$`, tc.connectWallet)
	ctx.Step(`^the session should be admin$`, tc.shouldBeAdmin)
	ctx.Step(`^the session should not be admin$`, tc.shouldNotBeAdmin)

	// Write steps
	ctx.Step(`^I verify voter "([^"]*)"$`, tc.verifyVoter)
	ctx.Step(`^I schedule election (\d+) "([^"]*)" from (\d+) to (\d+)$`, tc.scheduleElection)

	// Read steps
	ctx.Step(`^I list unverified voters page (\d+) with limit (\d+)$`, tc.listUnverified)
	ctx.Step(`^I filter logs by action "([^"]*)" and status "([^"]*)"$`, tc.filterLogs)
	ctx.Step(`^I clear the log filters$`, tc.clearLogFilters)

	// Assertion steps
	ctx.Step(`^the operation outcome should be "([^"]*)"$`, tc.outcomeShouldBe)
	ctx.Step(`^the ledger status should be "([^"]*)"$`, tc.ledgerStatusShouldBe)
	ctx.Step(`^the message should be "([^"]*)"$`, tc.messageShouldBe)
	ctx.Step(`^the operation should be refused with "([^"]*)"$`, tc.refusedWith)
	ctx.Step(`^I should see (\d+) voters with total (\d+), page (\d+) of (\d+)$`, tc.shouldSeeVoters)
	ctx.Step(`^there should be (\d+) log entr(?:y|ies)$`, tc.logCountShouldBe)
	ctx.Step(`^every log entry should have action "([^"]*)" and status "([^"]*)"$`, tc.everyLogShouldMatch)
}

func (tc *TestContext) backendIsRunning(_ context.Context, admin string) error {
	return tc.startBackend(admin)
}

func (tc *TestContext) votersAreSeeded(ctx context.Context, n int) error {
	return backend.SeedVoters(ctx, tc.store, n)
}

func (tc *TestContext) voterIsRegistered(ctx context.Context, addr string) error {
	parsed, err := domain.ParseAddress(addr)
	if err != nil {
		return err
	}
	_, err = tc.store.RegisterVoter(ctx, offchain.VoterRegistration{Address: parsed, Name: "Scenario Voter", NationalID: "SCN-1"})
	return err
}

func (tc *TestContext) devMode(_ context.Context, state string) error {
	tc.cfg.DevMode = state == "on"
	return nil
}

func (tc *TestContext) ledgerRejects(context.Context) error {
	tc.failingLedger()
	return nil
}

func (tc *TestContext) noLedger(context.Context) error {
	tc.cfg.DummyLedger = false
	return nil
}

func (tc *TestContext) connectWallet(ctx context.Context, wallet string) error {
	return tc.connect(ctx, wallet)
}

func (tc *TestContext) shouldBeAdmin(context.Context) error {
	s, err := tc.currentSession()
	if err != nil {
		return err
	}
	if !s.IsAdmin() {
		return fmt.Errorf("expected %s to be admin", s.Resolver.AdminAddress())
	}
	return nil
}

func (tc *TestContext) shouldNotBeAdmin(context.Context) error {
	s, err := tc.currentSession()
	if err != nil {
		return err
	}
	if s.IsAdmin() {
		return fmt.Errorf("expected connected wallet not to be admin")
	}
	return nil
}

func (tc *TestContext) verifyVoter(ctx context.Context, addr string) error {
	s, err := tc.currentSession()
	if err != nil {
		return err
	}
	parsed, err := domain.ParseAddress(addr)
	if err != nil {
		return err
	}
	tc.result, tc.err = s.Coordinator.VerifyVoter(ctx, parsed)
	return nil
}

func (tc *TestContext) scheduleElection(ctx context.Context, id int, name string, start, end int) error {
	s, err := tc.currentSession()
	if err != nil {
		return err
	}
	tc.result, tc.err = s.Coordinator.ScheduleElection(ctx, ledger.ElectionSpec{
		ID:        domain.ElectionID(id),
		Name:      name,
		StartTime: int64(start),
		EndTime:   int64(end),
	})
	return nil
}

func (tc *TestContext) listUnverified(ctx context.Context, page, limit int) error {
	s, err := tc.currentSession()
	if err != nil {
		return err
	}
	tc.voters, err = s.Facade.ListUnverifiedVoters(ctx, page, limit)
	return err
}

func (tc *TestContext) filterLogs(ctx context.Context, action, status string) error {
	tc.filter = offchain.LogFilter{Action: offchain.Action(action), Status: offchain.Status(status)}
	return tc.fetchLogs(ctx)
}

func (tc *TestContext) clearLogFilters(ctx context.Context) error {
	tc.filter = tc.filter.Cleared()
	return tc.fetchLogs(ctx)
}

func (tc *TestContext) fetchLogs(ctx context.Context) error {
	s, err := tc.currentSession()
	if err != nil {
		return err
	}
	tc.logs, err = s.Facade.Logs(ctx, tc.filter)
	return err
}

func (tc *TestContext) outcomeShouldBe(_ context.Context, want string) error {
	if tc.err != nil {
		return fmt.Errorf("operation was refused: %w", tc.err)
	}
	if got := string(tc.result.Outcome); got != want {
		return fmt.Errorf("expected outcome %q, got %q (message %q)", want, got, tc.result.Message)
	}
	return nil
}

func (tc *TestContext) ledgerStatusShouldBe(_ context.Context, want string) error {
	if got := string(tc.result.Ledger); got != want {
		return fmt.Errorf("expected ledger status %q, got %q", want, got)
	}
	return nil
}

func (tc *TestContext) messageShouldBe(_ context.Context, want string) error {
	if tc.result.Message != want {
		return fmt.Errorf("expected message %q, got %q", want, tc.result.Message)
	}
	return nil
}

func (tc *TestContext) refusedWith(_ context.Context, want string) error {
	if tc.err == nil {
		return fmt.Errorf("expected the operation to be refused, got outcome %q", tc.result.Outcome)
	}
	if !strings.Contains(dErrors.Message(tc.err), want) {
		return fmt.Errorf("expected refusal containing %q, got %q", want, dErrors.Message(tc.err))
	}
	if tc.result.Outcome != "" {
		return fmt.Errorf("refused operation must not produce an outcome")
	}
	return nil
}

func (tc *TestContext) shouldSeeVoters(_ context.Context, n, total, page, pages int) error {
	if tc.voters == nil {
		return fmt.Errorf("no voter page fetched")
	}
	want := offchain.Pagination{Total: total, Page: page, Limit: tc.voters.Pagination.Limit, Pages: pages}
	if len(tc.voters.Voters) != n || tc.voters.Pagination != want {
		return fmt.Errorf("expected %d voters with %+v, got %d with %+v", n, want, len(tc.voters.Voters), tc.voters.Pagination)
	}
	return nil
}

// logCountShouldBe refetches with the current filter so writes since the last
// read are visible.
func (tc *TestContext) logCountShouldBe(ctx context.Context, n int) error {
	if err := tc.fetchLogs(ctx); err != nil {
		return err
	}
	if len(tc.logs.Logs) != n {
		return fmt.Errorf("expected %d log entries, got %d", n, len(tc.logs.Logs))
	}
	return nil
}

func (tc *TestContext) everyLogShouldMatch(_ context.Context, action, status string) error {
	for _, e := range tc.logs.Logs {
		if string(e.Action) != action || string(e.Status) != status {
			return fmt.Errorf("log %s has %s/%s", e.ID, e.Action, e.Status)
		}
	}
	return nil
}
