package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"votedesk/internal/offchain"
	dErrors "votedesk/pkg/domain-errors"
	"votedesk/pkg/platform/httputil"
	"votedesk/pkg/platform/middleware/metadata"
	"votedesk/pkg/requestcontext"
)

// pendingEntry accumulates one admin log entry for the current request. Every
// admin write commits exactly one entry, SUCCESS or FAILURE.
type pendingEntry struct {
	offchain.LogEntry
}

func (h *Handler) newEntry(ctx context.Context, action offchain.Action, target string) *pendingEntry {
	return &pendingEntry{LogEntry: offchain.LogEntry{
		Actor:     requestcontext.Wallet(ctx),
		Action:    action,
		Target:    target,
		IPAddress: requestcontext.ClientIP(ctx),
		Metadata: map[string]string{
			"request_id":    requestcontext.RequestID(ctx),
			"user_agent":    metadata.Summarize(requestcontext.UserAgent(ctx)),
			"ledger_status": offchain.LedgerSkipped,
		},
	}}
}

func (e *pendingEntry) withLedger(status, txHash string) {
	e.Metadata["ledger_status"] = status
	e.TxHash = txHash
}

// commit records a successful action and returns the log id.
func (h *Handler) commit(ctx context.Context, e *pendingEntry, description string) string {
	e.Status = offchain.StatusSuccess
	e.Description = description
	saved := h.store.AppendLog(ctx, e.LogEntry)
	h.metrics.observeAction(string(saved.Action), string(saved.Status), saved.Metadata["ledger_status"])
	h.logger.InfoContext(ctx, "admin action recorded",
		"action", saved.Action,
		"target", saved.Target,
		"ledger_status", saved.Metadata["ledger_status"],
		"log_id", saved.ID,
		"request_id", requestcontext.RequestID(ctx),
	)
	return saved.ID
}

// writeLogged records a failed action and writes err as the response.
func (h *Handler) writeLogged(ctx context.Context, w http.ResponseWriter, e *pendingEntry, description string, err error) {
	e.Status = offchain.StatusFailure
	e.Description = description + ": " + dErrors.Message(err)
	e.Metadata["error"] = string(dErrors.CodeOf(err))
	saved := h.store.AppendLog(ctx, e.LogEntry)
	h.metrics.observeAction(string(saved.Action), string(saved.Status), saved.Metadata["ledger_status"])
	h.logger.WarnContext(ctx, "admin action failed",
		"action", saved.Action,
		"target", saved.Target,
		"error", err,
		"log_id", saved.ID,
		"request_id", requestcontext.RequestID(ctx),
	)
	httputil.WriteError(w, err)
}

// decodeAdmin decodes an optional JSON body into T and prepares it.
func decodeAdmin[T any](r *http.Request) (*T, error) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "invalid request body")
	}
	if err := httputil.PrepareRequest(&req); err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			return nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return nil, err
	}
	return &req, nil
}
