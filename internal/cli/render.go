package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"votedesk/internal/coordinator"
	"votedesk/internal/diagnostics"
	"votedesk/internal/ledger"
	"votedesk/internal/offchain"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed)
	cyan   = color.New(color.FgCyan, color.Bold)
)

func (a *App) printJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *App) success(msg string) {
	green.Fprintf(a.stdout, "✓ %s\n", msg)
}

func (a *App) heading(title string) {
	cyan.Fprintln(a.stdout, title)
}

func (a *App) table() *tabwriter.Writer {
	return tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
}

// renderResult prints a write outcome. A rejected write is returned as an error so the
// process exits non-zero.
func (a *App) renderResult(res coordinator.Result, asJSON bool) error {
	if asJSON {
		if err := a.printJSON(resultView(res)); err != nil {
			return err
		}
		if !res.OK() {
			return resultError(res)
		}
		return nil
	}
	switch res.Outcome {
	case coordinator.OutcomeRejected:
		return resultError(res)
	case coordinator.OutcomePartialLedgerFailure:
		a.success(res.Message)
		yellow.Fprintf(a.stdout, "! ledger write failed, recorded off-chain only: %v\n", res.LedgerErr)
	default:
		a.success(res.Message)
		if res.Ledger == coordinator.LedgerSkipped {
			yellow.Fprintln(a.stdout, "  ledger skipped")
		}
	}
	if res.TxHash != "" {
		fmt.Fprintf(a.stdout, "  tx %s\n", res.TxHash)
	}
	return nil
}

type resultJSON struct {
	Operation string `json:"operation"`
	Outcome   string `json:"outcome"`
	Ledger    string `json:"ledger_status"`
	TxHash    string `json:"tx_hash,omitempty"`
	Message   string `json:"message"`
	LogID     string `json:"log_id,omitempty"`
	LedgerErr string `json:"ledger_error,omitempty"`
}

func resultView(res coordinator.Result) resultJSON {
	v := resultJSON{
		Operation: res.Operation,
		Outcome:   string(res.Outcome),
		Ledger:    string(res.Ledger),
		TxHash:    res.TxHash,
		Message:   res.Message,
		LogID:     res.LogID,
	}
	if res.LedgerErr != nil {
		v.LedgerErr = res.LedgerErr.Error()
	}
	return v
}

func (a *App) renderHealth(h offchain.HealthStatus) {
	state := green.Sprint(h.Status)
	if h.Status != "ok" {
		state = red.Sprint(h.Status)
	}
	fmt.Fprintf(a.stdout, "%s %s (version %s, up %ds)\n", h.Service, state, h.Version, h.UptimeSeconds)
}

func (a *App) renderStats(s offchain.Stats) {
	a.heading("Stats")
	tw := a.table()
	fmt.Fprintf(tw, "voters\t%d\n", s.TotalVoters)
	fmt.Fprintf(tw, "verified\t%d\n", s.VerifiedVoters)
	fmt.Fprintf(tw, "pending verification\t%d\n", s.UnverifiedVoters)
	fmt.Fprintf(tw, "elections\t%d\n", s.TotalElections)
	fmt.Fprintf(tw, "candidates\t%d\n", s.TotalCandidates)
	fmt.Fprintf(tw, "admin actions\t%d (%d ok, %d failed)\n", s.TotalLogs, s.SuccessfulActions, s.FailedActions)
	tw.Flush()
}

func (a *App) renderHistory(days []offchain.DailyStat) {
	a.heading("History")
	tw := a.table()
	fmt.Fprintln(tw, "DATE\tREGISTERED\tVERIFIED")
	for _, d := range days {
		fmt.Fprintf(tw, "%s\t%d\t%d\n", d.Date, d.Registrations, d.Verifications)
	}
	tw.Flush()
}

func (a *App) renderVoters(p *offchain.VoterPage) {
	tw := a.table()
	fmt.Fprintln(tw, "ADDRESS\tNAME\tCITY\tVERIFIED\tREGISTERED")
	for _, v := range p.Voters {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", v.Address, v.Name, v.City, yesNo(v.Verified), v.RegisteredAt.Format(time.DateOnly))
	}
	tw.Flush()
	a.renderPagination(p.Pagination)
}

func (a *App) renderVoter(v *offchain.Voter) {
	a.heading(v.Name)
	tw := a.table()
	fmt.Fprintf(tw, "address\t%s\n", v.Address)
	fmt.Fprintf(tw, "national id\t%s\n", v.NationalID)
	fmt.Fprintf(tw, "date of birth\t%s\n", v.DateOfBirth)
	fmt.Fprintf(tw, "location\t%s\n", strings.Trim(v.City+", "+v.State, ", "))
	fmt.Fprintf(tw, "email\t%s\n", v.Email)
	fmt.Fprintf(tw, "verified\t%s\n", yesNo(v.Verified))
	if v.DocumentID != "" {
		fmt.Fprintf(tw, "document\t%s\n", v.DocumentID)
	}
	tw.Flush()
}

func (a *App) renderElections(elections []ledger.Election) {
	tw := a.table()
	fmt.Fprintln(tw, "ID\tNAME\tSTART\tEND")
	for _, e := range elections {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", e.ID, e.Name, epoch(e.StartTime), epoch(e.EndTime))
	}
	tw.Flush()
}

func (a *App) renderCandidates(candidates []ledger.Candidate) {
	tw := a.table()
	fmt.Fprintln(tw, "ID\tNAME\tINFO")
	for _, c := range candidates {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", c.ID, c.Name, c.Info)
	}
	tw.Flush()
}

func (a *App) renderLogs(p *offchain.LogPage) {
	tw := a.table()
	fmt.Fprintln(tw, "TIME\tACTION\tSTATUS\tACTOR\tDESCRIPTION")
	for _, e := range p.Logs {
		status := green.Sprint(e.Status)
		if e.Status == offchain.StatusFailure {
			status = red.Sprint(e.Status)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.Timestamp.Format(time.DateTime), e.Action, status, e.Actor.Short(), e.Description)
	}
	tw.Flush()
	a.renderPagination(p.Pagination)
}

func (a *App) renderPagination(p offchain.Pagination) {
	fmt.Fprintf(a.stdout, "page %d of %d, %d total\n", p.Page, p.Pages, p.Total)
}

func (a *App) renderReport(r diagnostics.Report) {
	a.heading("Diagnostics")
	tw := a.table()
	fmt.Fprintf(tw, "api\t%s\n", checkLine(r.API))
	wallet := "not connected"
	if r.WalletConnected {
		wallet = r.WalletAddress.String()
	}
	fmt.Fprintf(tw, "wallet\t%s\n", wallet)
	fmt.Fprintf(tw, "admin\t%s\n", yesNo(r.IsAdmin))
	mode := r.LedgerMode
	if mode == "" {
		mode = "none"
	}
	fmt.Fprintf(tw, "ledger\t%s: %s\n", mode, checkLine(r.Ledger))
	fmt.Fprintf(tw, "api url\t%s\n", r.Environment.APIBaseURL)
	fmt.Fprintf(tw, "admin address\t%s\n", r.Environment.AdminAddress)
	fmt.Fprintf(tw, "dev mode\t%s\n", yesNo(r.Environment.DevMode))
	fmt.Fprintf(tw, "dummy ledger\t%s\n", yesNo(r.Environment.DummyLedger))
	fmt.Fprintf(tw, "verbose api logging\t%s\n", yesNo(r.Environment.VerboseLogging))
	fmt.Fprintf(tw, "production build\t%s\n", yesNo(r.Environment.ProductionBuild))
	for _, w := range r.Environment.ConfigWarnings {
		fmt.Fprintf(tw, "config warning\t%s\n", yellow.Sprint(w))
	}
	tw.Flush()
}

func checkLine(c diagnostics.Check) string {
	if c.OK {
		return green.Sprintf("ok %s (%dms)", c.Detail, c.LatencyMS)
	}
	if c.Error == "" {
		return c.Detail
	}
	return red.Sprintf("%s (%s)", c.Error, c.ErrorCode)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func epoch(sec int64) string {
	return time.Unix(sec, 0).UTC().Format(time.DateTime)
}
