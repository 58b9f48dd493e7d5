package backend

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"votedesk/internal/offchain"
	"votedesk/pkg/domain"
	dErrors "votedesk/pkg/domain-errors"
)

type election struct {
	ID        domain.ElectionID
	Name      string
	StartTime int64
	EndTime   int64
	TxHash    string
	CreatedAt time.Time
}

type candidate struct {
	ElectionID domain.ElectionID
	Name       string
	Info       string
	TxHash     string
	CreatedAt  time.Time
}

// Store is the in-memory off-chain store. Logs are append-only.
type Store struct {
	mu         sync.RWMutex
	now        func() time.Time
	voters     map[domain.Address]*offchain.Voter
	order      []domain.Address
	documents  map[string]*offchain.Document
	elections  map[domain.ElectionID]*election
	candidates []candidate
	logs       []offchain.LogEntry
}

type StoreOption func(*Store)

// WithClock overrides time.Now (for tests).
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		now:       time.Now,
		voters:    make(map[domain.Address]*offchain.Voter),
		documents: make(map[string]*offchain.Document),
		elections: make(map[domain.ElectionID]*election),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) RegisterVoter(_ context.Context, reg offchain.VoterRegistration) (*offchain.Voter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.voters[reg.Address]; exists {
		return nil, dErrors.New(dErrors.CodeConflict, "voter already registered")
	}
	v := &offchain.Voter{
		Address:      reg.Address,
		Name:         reg.Name,
		Gender:       reg.Gender,
		DateOfBirth:  reg.DateOfBirth,
		City:         reg.City,
		State:        reg.State,
		NationalID:   reg.NationalID,
		Phone:        reg.Phone,
		Email:        reg.Email,
		RegisteredAt: s.now().UTC(),
	}
	s.voters[reg.Address] = v
	s.order = append(s.order, reg.Address)
	out := *v
	return &out, nil
}

func (s *Store) AttachDocument(_ context.Context, addr domain.Address, filename, contentType string, size int64) (*offchain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.voters[addr]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "voter not found")
	}
	doc := &offchain.Document{
		ID:          uuid.NewString(),
		Voter:       addr,
		Filename:    filename,
		ContentType: contentType,
		Size:        size,
		UploadedAt:  s.now().UTC(),
	}
	s.documents[doc.ID] = doc
	v.DocumentID = doc.ID
	out := *doc
	return &out, nil
}

func (s *Store) Voter(_ context.Context, addr domain.Address) (*offchain.Voter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.voters[addr]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "voter not found")
	}
	out := *v
	return &out, nil
}

// VoterStatus reports Registered=false for unknown addresses instead of failing.
func (s *Store) VoterStatus(_ context.Context, addr domain.Address) offchain.VoterStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.voters[addr]
	if !ok {
		return offchain.VoterStatus{Address: addr}
	}
	return offchain.VoterStatus{Address: addr, Registered: true, Verified: v.Verified, VerifiedAt: v.VerifiedAt}
}

func (s *Store) VerifyVoter(_ context.Context, addr domain.Address) (*offchain.Voter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.voters[addr]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "voter not found")
	}
	if v.Verified {
		return nil, dErrors.New(dErrors.CodeConflict, "voter already verified")
	}
	at := s.now().UTC()
	v.Verified = true
	v.VerifiedAt = &at
	out := *v
	return &out, nil
}

// ListVoters returns voters in registration order.
func (s *Store) ListVoters(_ context.Context, filter offchain.VoterFilter) offchain.VoterPage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matched := make([]offchain.Voter, 0, len(s.order))
	for _, addr := range s.order {
		v := s.voters[addr]
		if filter.Verified != nil && v.Verified != *filter.Verified {
			continue
		}
		matched = append(matched, *v)
	}
	items, p := paginate(matched, filter.Page, filter.Limit)
	return offchain.VoterPage{Voters: items, Pagination: p}
}

// RecordElection stores an election. ID 0 takes the next free id. Start and end
// times are stored as given.
func (s *Store) RecordElection(_ context.Context, cmd offchain.ScheduleElectionCommand) (domain.ElectionID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := cmd.ID
	if id == 0 {
		id = domain.ElectionID(len(s.elections) + 1)
		for s.elections[id] != nil {
			id++
		}
	}
	if _, exists := s.elections[id]; exists {
		return 0, dErrors.New(dErrors.CodeConflict, fmt.Sprintf("election %d already exists", id))
	}
	s.elections[id] = &election{
		ID:        id,
		Name:      cmd.Name,
		StartTime: cmd.StartTime,
		EndTime:   cmd.EndTime,
		TxHash:    cmd.TxHash,
		CreatedAt: s.now().UTC(),
	}
	return id, nil
}

// RecordCandidate stores a candidate. The election may live only on the ledger,
// so it is not required to exist here.
func (s *Store) RecordCandidate(_ context.Context, cmd offchain.AddCandidateCommand) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.candidates {
		if c.ElectionID == cmd.ElectionID && strings.EqualFold(c.Name, cmd.Name) {
			return dErrors.New(dErrors.CodeConflict, "candidate already added to election")
		}
	}
	s.candidates = append(s.candidates, candidate{
		ElectionID: cmd.ElectionID,
		Name:       cmd.Name,
		Info:       cmd.Info,
		TxHash:     cmd.TxHash,
		CreatedAt:  s.now().UTC(),
	})
	return nil
}

// AppendLog assigns id and timestamp and appends the entry.
func (s *Store) AppendLog(_ context.Context, entry offchain.LogEntry) offchain.LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry.ID = uuid.NewString()
	entry.Timestamp = s.now().UTC()
	s.logs = append(s.logs, entry)
	return entry
}

// Logs returns entries newest first. Action and Status combine with AND.
func (s *Store) Logs(_ context.Context, filter offchain.LogFilter) offchain.LogPage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matched := make([]offchain.LogEntry, 0, len(s.logs))
	for i := len(s.logs) - 1; i >= 0; i-- {
		e := s.logs[i]
		if filter.Action != "" && e.Action != filter.Action {
			continue
		}
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		matched = append(matched, e)
	}
	items, p := paginate(matched, filter.Page, filter.Limit)
	return offchain.LogPage{Logs: items, Pagination: p}
}

func (s *Store) Stats(_ context.Context) offchain.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := offchain.Stats{
		TotalVoters:     len(s.voters),
		TotalElections:  len(s.elections),
		TotalCandidates: len(s.candidates),
		TotalLogs:       len(s.logs),
		GeneratedAt:     s.now().UTC(),
	}
	for _, v := range s.voters {
		if v.Verified {
			st.VerifiedVoters++
		}
	}
	st.UnverifiedVoters = st.TotalVoters - st.VerifiedVoters
	for _, e := range s.logs {
		if e.Status == offchain.StatusSuccess {
			st.SuccessfulActions++
		} else {
			st.FailedActions++
		}
	}
	return st
}

// History buckets registrations and verifications per UTC day, oldest first,
// ending today.
func (s *Store) History(_ context.Context, days int) []offchain.DailyStat {
	s.mu.RLock()
	defer s.mu.RUnlock()
	today := s.now().UTC().Truncate(24 * time.Hour)
	out := make([]offchain.DailyStat, days)
	index := make(map[string]int, days)
	for i := range days {
		date := today.AddDate(0, 0, i-days+1).Format(time.DateOnly)
		out[i] = offchain.DailyStat{Date: date}
		index[date] = i
	}
	for _, v := range s.voters {
		if i, ok := index[v.RegisteredAt.UTC().Format(time.DateOnly)]; ok {
			out[i].Registrations++
		}
		if v.VerifiedAt != nil {
			if i, ok := index[v.VerifiedAt.UTC().Format(time.DateOnly)]; ok {
				out[i].Verifications++
			}
		}
	}
	return out
}

// paginate clamps page into [1, pages]. An empty set has one empty page.
func paginate[T any](items []T, page, limit int) ([]T, offchain.Pagination) {
	if limit < 1 {
		limit = offchain.DefaultLimit
	}
	if limit > offchain.MaxLimit {
		limit = offchain.MaxLimit
	}
	total := len(items)
	pages := (total + limit - 1) / limit
	if pages < 1 {
		pages = 1
	}
	page = min(max(page, 1), pages)
	start := min((page-1)*limit, total)
	end := min(start+limit, total)
	return items[start:end], offchain.Pagination{Total: total, Page: page, Limit: limit, Pages: pages}
}
