package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/netip"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"votedesk/internal/offchain"
	"votedesk/internal/platform/health"
	"votedesk/pkg/domain"
	dErrors "votedesk/pkg/domain-errors"
	"votedesk/pkg/platform/httputil"
	"votedesk/pkg/platform/middleware/admin"
	"votedesk/pkg/platform/middleware/metadata"
	request "votedesk/pkg/platform/middleware/request"
	"votedesk/pkg/platform/validation"
	"votedesk/pkg/requestcontext"
)

// Handler serves the off-chain REST API under /api.
type Handler struct {
	store          *Store
	admin          domain.Address
	logger         *slog.Logger
	metrics        *Metrics
	httpMetrics    *request.Metrics
	gatherer       prometheus.Gatherer
	health         *health.Handler
	trustedProxies []netip.Prefix
}

type Option func(*Handler)

func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithRegistry registers metrics on reg and serves them at /metrics.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(h *Handler) {
		h.metrics = NewMetrics(reg)
		h.httpMetrics = request.NewMetrics(reg)
		h.gatherer = reg
	}
}

// WithTrustedProxies lets these peers set X-Forwarded-For.
func WithTrustedProxies(prefixes ...netip.Prefix) Option {
	return func(h *Handler) {
		h.trustedProxies = prefixes
	}
}

func New(store *Store, adminAddress domain.Address, opts ...Option) (*Handler, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	if adminAddress.IsNil() {
		return nil, errors.New("admin address is required")
	}
	h := &Handler{
		store:  store,
		admin:  adminAddress,
		logger: slog.Default(),
		health: health.New("offchain"),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.health.RegisterCheck("store", func(context.Context) error { return nil })
	return h, nil
}

// Router wires middleware and routes.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(request.Recovery(h.logger))
	r.Use(request.RequestID)
	r.Use(metadata.NewMiddleware(h.trustedProxies...).Handler)
	r.Use(request.Logger(h.logger))
	r.Use(request.Latency(h.httpMetrics))

	if h.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
	}
	r.Route("/api", func(api chi.Router) {
		h.Register(api)
	})
	return r
}

func (h *Handler) Register(r chi.Router) {
	h.health.Register(r)

	r.Group(func(pub chi.Router) {
		pub.Use(request.BodyLimit(validation.MaxDocumentSize + validation.MaxMultipartOverhead))
		pub.Post("/voters/register", h.HandleRegister)
		pub.Post("/voters/{address}/documents", h.HandleUploadDocument)
		pub.Get("/voters/{address}", h.HandleGetVoter)
		pub.Get("/voters/{address}/status", h.HandleVoterStatus)
	})

	r.Route("/admin", func(ar chi.Router) {
		ar.Use(admin.RequireWallet(h.admin, h.logger))
		ar.Use(request.BodyLimit(validation.MaxBodySize))
		ar.Get("/voters", h.HandleListVoters)
		ar.Post("/voters/{address}/verify", h.HandleVerifyVoter)
		ar.Get("/stats", h.HandleStats)
		ar.Get("/stats/history", h.HandleHistory)
		ar.Get("/logs", h.HandleLogs)
		ar.Post("/elections", h.HandleRecordElection)
		ar.Post("/elections/{id}/candidates", h.HandleRecordCandidate)
	})
}

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[registerRequest](w, r, h.logger)
	if !ok {
		return
	}
	voter, err := h.store.RegisterVoter(ctx, req.registration())
	if err != nil {
		h.writeFailure(ctx, w, "register voter failed", err)
		return
	}
	h.metrics.setVoters(h.store.Stats(ctx).TotalVoters)
	h.logger.InfoContext(ctx, "voter registered",
		"voter", voter.Address.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	httputil.WriteJSON(w, http.StatusCreated, offchain.Ack{Success: true, Message: "Voter registered successfully"})
}

func (h *Handler) HandleUploadDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	addr, ok := h.addressParam(w, r)
	if !ok {
		return
	}
	if err := r.ParseMultipartForm(validation.MaxDocumentSize); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "document upload must be multipart/form-data"))
		return
	}
	file, header, err := r.FormFile("document")
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "document field is required"))
		return
	}
	defer file.Close()
	if err := validation.CheckStringLength("filename", header.Filename, validation.MaxFilenameLength); err != nil {
		httputil.WriteError(w, err)
		return
	}

	sniff := make([]byte, 512)
	n, err := io.ReadFull(file, sniff)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInvalidInput, "failed to read document"))
		return
	}
	contentType := http.DetectContentType(sniff[:n])

	doc, err := h.store.AttachDocument(ctx, addr, header.Filename, contentType, header.Size)
	if err != nil {
		h.writeFailure(ctx, w, "attach document failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, doc)
}

func (h *Handler) HandleGetVoter(w http.ResponseWriter, r *http.Request) {
	addr, ok := h.addressParam(w, r)
	if !ok {
		return
	}
	voter, err := h.store.Voter(r.Context(), addr)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, voter)
}

func (h *Handler) HandleVoterStatus(w http.ResponseWriter, r *http.Request) {
	addr, ok := h.addressParam(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.store.VoterStatus(r.Context(), addr))
}

func (h *Handler) HandleListVoters(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	verified, err := offchain.ParseVerified(q.Get("verified"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	page, limit, err := pagingParams(q.Get("page"), q.Get("limit"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	filter := offchain.VoterFilter{Verified: verified, Page: page, Limit: limit}
	filter.Normalize()
	httputil.WriteJSON(w, http.StatusOK, h.store.ListVoters(r.Context(), filter))
}

func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.store.Stats(r.Context()))
}

func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	n, err := optionalInt(r.URL.Query().Get("days"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "days must be a positive integer"))
		return
	}
	days, err := validation.ClampDays(n)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"days":    days,
		"history": h.store.History(r.Context(), days),
	})
}

func (h *Handler) HandleLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, limit, err := pagingParams(q.Get("page"), q.Get("limit"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	filter := offchain.LogFilter{
		Action: offchain.Action(q.Get("action")),
		Status: offchain.Status(q.Get("status")),
		Page:   page,
		Limit:  limit,
	}
	filter.Normalize()
	if (filter.Action != "" && !filter.Action.IsValid()) || (filter.Status != "" && !filter.Status.IsValid()) {
		httputil.WriteError(w, filter.Validate())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.store.Logs(r.Context(), filter))
}

func (h *Handler) HandleVerifyVoter(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	target := chi.URLParam(r, "address")
	entry := h.newEntry(ctx, offchain.ActionVerifyVoter, target)

	addr, err := domain.ParseAddress(target)
	if err != nil {
		h.writeLogged(ctx, w, entry, "Verify voter "+target, err)
		return
	}
	req, err := decodeAdmin[verifyRequest](r)
	if err != nil {
		h.writeLogged(ctx, w, entry, "Verify voter "+addr.Short(), err)
		return
	}
	entry.withLedger(req.LedgerStatus, req.TxHash)

	if _, err := h.store.VerifyVoter(ctx, addr); err != nil {
		h.writeLogged(ctx, w, entry, "Verify voter "+addr.Short(), err)
		return
	}
	logID := h.commit(ctx, entry, "Verified voter "+addr.Short())
	httputil.WriteJSON(w, http.StatusOK, offchain.Ack{Success: true, Message: "Voter verified successfully", LogID: logID})
}

func (h *Handler) HandleRecordElection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entry := h.newEntry(ctx, offchain.ActionScheduleElection, "")

	req, err := decodeAdmin[electionRequest](r)
	if err != nil {
		h.writeLogged(ctx, w, entry, "Schedule election", err)
		return
	}
	entry.withLedger(req.LedgerStatus, req.TxHash)
	if req.ID != 0 {
		entry.Target = req.ID.String()
	}

	id, err := h.store.RecordElection(ctx, req.command())
	if err != nil {
		h.writeLogged(ctx, w, entry, fmt.Sprintf("Schedule election %q", req.Name), err)
		return
	}
	entry.Target = id.String()
	logID := h.commit(ctx, entry, fmt.Sprintf("Scheduled election #%d %q", id, req.Name))
	httputil.WriteJSON(w, http.StatusCreated, offchain.Ack{Success: true, Message: "Election scheduled successfully", LogID: logID})
}

func (h *Handler) HandleRecordCandidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rawID := chi.URLParam(r, "id")
	entry := h.newEntry(ctx, offchain.ActionAddCandidate, rawID)

	electionID, err := domain.ParseElectionID(rawID)
	if err != nil {
		h.writeLogged(ctx, w, entry, "Add candidate to election "+rawID, err)
		return
	}
	req, err := decodeAdmin[candidateRequest](r)
	if err != nil {
		h.writeLogged(ctx, w, entry, "Add candidate to election "+rawID, err)
		return
	}
	entry.withLedger(req.LedgerStatus, req.TxHash)

	cmd := offchain.AddCandidateCommand{
		ElectionID:   electionID,
		Name:         req.Name,
		Info:         req.Info,
		LedgerStatus: req.LedgerStatus,
		TxHash:       req.TxHash,
	}
	if err := h.store.RecordCandidate(ctx, cmd); err != nil {
		h.writeLogged(ctx, w, entry, fmt.Sprintf("Add candidate %q to election #%d", req.Name, electionID), err)
		return
	}
	logID := h.commit(ctx, entry, fmt.Sprintf("Added candidate %q to election #%d", req.Name, electionID))
	httputil.WriteJSON(w, http.StatusCreated, offchain.Ack{Success: true, Message: "Candidate added successfully", LogID: logID})
}

func (h *Handler) addressParam(w http.ResponseWriter, r *http.Request) (domain.Address, bool) {
	addr, err := domain.ParseAddress(chi.URLParam(r, "address"))
	if err != nil {
		httputil.WriteError(w, err)
		return "", false
	}
	return addr, true
}

func (h *Handler) writeFailure(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	h.logger.WarnContext(ctx, msg,
		"error", err,
		"request_id", requestcontext.RequestID(ctx),
	)
	httputil.WriteError(w, err)
}

func pagingParams(rawPage, rawLimit string) (int, int, error) {
	page, err := optionalInt(rawPage)
	if err != nil {
		return 0, 0, dErrors.New(dErrors.CodeValidation, "page must be an integer")
	}
	limit, err := optionalInt(rawLimit)
	if err != nil {
		return 0, 0, dErrors.New(dErrors.CodeValidation, "limit must be an integer")
	}
	// Out-of-range values are clamped by the store rather than rejected.
	return page, limit, nil
}

func optionalInt(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
