package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"votedesk/internal/coordinator"
	"votedesk/internal/diagnostics"
	"votedesk/internal/ledger"
	"votedesk/internal/offchain"
	"votedesk/internal/session"
	"votedesk/pkg/domain"
	dErrors "votedesk/pkg/domain-errors"
)

func commandTable() []command {
	return []command{
		{name: "dashboard", summary: "stats, 7-day history and backend health", wallet: true, admin: true, run: runDashboard},
		{name: "stats", summary: "voter and activity counters", wallet: true, admin: true, run: runStats},
		{name: "voters", summary: "list voters [-verified true|false] [-page N] [-limit N]", wallet: true, admin: true, run: runVoters},
		{name: "voter", summary: "show one voter: voter <address>", run: runVoter},
		{name: "verify", summary: "verify a voter on the ledger and off-chain: verify <address>", wallet: true, admin: true, run: runVerify},
		{name: "elections", summary: "list elections from the ledger", run: runElections},
		{name: "schedule", summary: "schedule an election -id N -name S -start T -end T", wallet: true, admin: true, run: runSchedule},
		{name: "candidates", summary: "list candidates: candidates <election-id>", run: runCandidates},
		{name: "add-candidate", summary: "add a candidate -election N -name S [-info S]", wallet: true, admin: true, run: runAddCandidate},
		{name: "logs", summary: "admin activity log [-action A] [-status S] [-page N] [-limit N]", wallet: true, admin: true, run: runLogs},
		{name: "history", summary: "daily registrations and verifications [-days N]", wallet: true, admin: true, run: runHistory},
		{name: "diagnostics", summary: "backend health, wallet and environment report", wallet: true, run: runDiagnostics},
		{name: "register", summary: "register a voter -address A -name S -national-id S ...", run: runRegister},
		{name: "upload", summary: "upload an identity document -address A -file PATH", run: runUpload},
	}
}

func runDashboard(ctx context.Context, a *App, s *session.Session, args []string) error {
	fs := a.flags("dashboard")
	asJSON := fs.Bool("json", false, "print JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	d, err := s.Facade.Dashboard(ctx)
	if err != nil {
		return err
	}
	if *asJSON {
		return a.printJSON(d)
	}
	a.renderHealth(d.Health)
	a.renderStats(d.Stats)
	a.renderHistory(d.History)
	return nil
}

func runStats(ctx context.Context, a *App, s *session.Session, args []string) error {
	fs := a.flags("stats")
	asJSON := fs.Bool("json", false, "print JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	stats, err := s.Facade.Stats(ctx)
	if err != nil {
		return err
	}
	if *asJSON {
		return a.printJSON(stats)
	}
	a.renderStats(*stats)
	return nil
}

func runVoters(ctx context.Context, a *App, s *session.Session, args []string) error {
	fs := a.flags("voters")
	verified := fs.String("verified", "", "filter by verification: true or false")
	page := fs.Int("page", offchain.DefaultPage, "page number")
	limit := fs.Int("limit", offchain.DefaultLimit, "page size")
	asJSON := fs.Bool("json", false, "print JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	v, err := offchain.ParseVerified(*verified)
	if err != nil {
		return err
	}
	result, err := s.Facade.ListVoters(ctx, offchain.VoterFilter{Verified: v, Page: *page, Limit: *limit})
	if err != nil {
		return err
	}
	if *asJSON {
		return a.printJSON(result)
	}
	a.renderVoters(result)
	return nil
}

func runVoter(ctx context.Context, a *App, s *session.Session, args []string) error {
	fs := a.flags("voter")
	asJSON := fs.Bool("json", false, "print JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	addr, err := addressArg(fs.Arg(0))
	if err != nil {
		return err
	}
	voter, err := s.Facade.Voter(ctx, addr)
	if err != nil {
		return err
	}
	if *asJSON {
		return a.printJSON(voter)
	}
	a.renderVoter(voter)
	return nil
}

func runVerify(ctx context.Context, a *App, s *session.Session, args []string) error {
	fs := a.flags("verify")
	asJSON := fs.Bool("json", false, "print JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	addr, err := addressArg(fs.Arg(0))
	if err != nil {
		return err
	}
	res, err := s.Coordinator.VerifyVoter(ctx, addr)
	if err != nil {
		return err
	}
	return a.renderResult(res, *asJSON)
}

func runElections(ctx context.Context, a *App, s *session.Session, args []string) error {
	fs := a.flags("elections")
	asJSON := fs.Bool("json", false, "print JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	elections, err := s.Facade.Elections(ctx)
	if err != nil {
		return err
	}
	if *asJSON {
		return a.printJSON(elections)
	}
	a.renderElections(elections)
	return nil
}

func runSchedule(ctx context.Context, a *App, s *session.Session, args []string) error {
	fs := a.flags("schedule")
	id := fs.Uint64("id", 0, "election id")
	name := fs.String("name", "", "election name")
	start := fs.String("start", "", "start time: RFC 3339 or epoch seconds")
	end := fs.String("end", "", "end time: RFC 3339 or epoch seconds")
	asJSON := fs.Bool("json", false, "print JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	startAt, err := parseTime("start", *start)
	if err != nil {
		return err
	}
	endAt, err := parseTime("end", *end)
	if err != nil {
		return err
	}
	res, err := s.Coordinator.ScheduleElection(ctx, ledger.ElectionSpec{
		ID:        domain.ElectionID(*id),
		Name:      strings.TrimSpace(*name),
		StartTime: startAt,
		EndTime:   endAt,
	})
	if err != nil {
		return err
	}
	return a.renderResult(res, *asJSON)
}

func runCandidates(ctx context.Context, a *App, s *session.Session, args []string) error {
	fs := a.flags("candidates")
	asJSON := fs.Bool("json", false, "print JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := domain.ParseElectionID(fs.Arg(0))
	if err != nil {
		return err
	}
	candidates, err := s.Facade.Candidates(ctx, id)
	if err != nil {
		return err
	}
	if *asJSON {
		return a.printJSON(candidates)
	}
	a.renderCandidates(candidates)
	return nil
}

func runAddCandidate(ctx context.Context, a *App, s *session.Session, args []string) error {
	fs := a.flags("add-candidate")
	election := fs.Uint64("election", 0, "election id")
	name := fs.String("name", "", "candidate name")
	info := fs.String("info", "", "party or description")
	asJSON := fs.Bool("json", false, "print JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	res, err := s.Coordinator.AddCandidate(ctx, ledger.CandidateSpec{
		ElectionID: domain.ElectionID(*election),
		Name:       strings.TrimSpace(*name),
		Info:       strings.TrimSpace(*info),
	})
	if err != nil {
		return err
	}
	return a.renderResult(res, *asJSON)
}

func runLogs(ctx context.Context, a *App, s *session.Session, args []string) error {
	fs := a.flags("logs")
	action := fs.String("action", "", "VERIFY_VOTER, SCHEDULE_ELECTION or ADD_CANDIDATE")
	status := fs.String("status", "", "SUCCESS or FAILURE")
	page := fs.Int("page", offchain.DefaultPage, "page number")
	limit := fs.Int("limit", offchain.DefaultLimit, "page size")
	asJSON := fs.Bool("json", false, "print JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	result, err := s.Facade.Logs(ctx, offchain.LogFilter{
		Action: offchain.Action(*action),
		Status: offchain.Status(*status),
		Page:   *page,
		Limit:  *limit,
	})
	if err != nil {
		return err
	}
	if *asJSON {
		return a.printJSON(result)
	}
	a.renderLogs(result)
	return nil
}

func runHistory(ctx context.Context, a *App, s *session.Session, args []string) error {
	fs := a.flags("history")
	days := fs.Int("days", 7, "number of days")
	asJSON := fs.Bool("json", false, "print JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	history, err := s.Facade.History(ctx, *days)
	if err != nil {
		return err
	}
	if *asJSON {
		return a.printJSON(history)
	}
	a.renderHistory(history)
	return nil
}

func runDiagnostics(ctx context.Context, a *App, s *session.Session, args []string) error {
	fs := a.flags("diagnostics")
	asJSON := fs.Bool("json", false, "print JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	report := diagnostics.Collect(ctx, s)
	if *asJSON {
		return a.printJSON(report)
	}
	a.renderReport(report)
	return nil
}

func runRegister(ctx context.Context, a *App, s *session.Session, args []string) error {
	fs := a.flags("register")
	var reg offchain.VoterRegistration
	address := fs.String("address", "", "wallet address")
	fs.StringVar(&reg.Name, "name", "", "full name")
	fs.StringVar(&reg.Gender, "gender", "", "gender")
	fs.StringVar(&reg.DateOfBirth, "dob", "", "date of birth, YYYY-MM-DD")
	fs.StringVar(&reg.City, "city", "", "city")
	fs.StringVar(&reg.State, "state", "", "state")
	fs.StringVar(&reg.NationalID, "national-id", "", "national id number")
	fs.StringVar(&reg.Phone, "phone", "", "phone number")
	fs.StringVar(&reg.Email, "email", "", "email address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	addr, err := addressArg(*address)
	if err != nil {
		return err
	}
	reg.Address = addr
	ack, err := s.Facade.RegisterVoter(ctx, reg)
	if err != nil {
		return err
	}
	a.success(ack.Message)
	return nil
}

func runUpload(ctx context.Context, a *App, s *session.Session, args []string) error {
	fs := a.flags("upload")
	address := fs.String("address", "", "wallet address")
	path := fs.String("file", "", "document to upload")
	if err := fs.Parse(args); err != nil {
		return err
	}
	addr, err := addressArg(*address)
	if err != nil {
		return err
	}
	if *path == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "-file is required")
	}
	f, err := os.Open(*path)
	if err != nil {
		return err
	}
	defer f.Close()

	doc, err := s.Facade.UploadDocument(ctx, addr, filepath.Base(*path), f)
	if err != nil {
		return err
	}
	a.success("Document " + doc.Filename + " uploaded (" + doc.ID + ")")
	return nil
}

func addressArg(raw string) (domain.Address, error) {
	if raw == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "wallet address is required")
	}
	return domain.ParseAddress(raw)
}

// parseTime accepts epoch seconds or RFC 3339.
func parseTime(label, raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "-"+label+" is required")
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "-"+label+" must be RFC 3339 or epoch seconds")
	}
	return t.Unix(), nil
}

func resultError(res coordinator.Result) error {
	if res.Err != nil {
		return res.Err
	}
	return errors.New(res.Message)
}
