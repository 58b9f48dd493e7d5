package offchain

import (
	"net/url"
	"strconv"
	"strings"

	dErrors "votedesk/pkg/domain-errors"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// VoterFilter enumerates every recognized voter listing key.
// Verified nil lists all voters.
type VoterFilter struct {
	Verified *bool
	Page     int
	Limit    int
}

// Normalize applies paging defaults.
func (f *VoterFilter) Normalize() {
	f.Page, f.Limit = normalizePaging(f.Page, f.Limit)
}

func (f *VoterFilter) Validate() error {
	return validatePaging(f.Page, f.Limit)
}

func (f VoterFilter) Query() url.Values {
	q := pagingQuery(f.Page, f.Limit)
	if f.Verified != nil {
		q.Set("verified", strconv.FormatBool(*f.Verified))
	}
	return q
}

// LogFilter enumerates every recognized admin log key. Empty Action or Status means
// no filtering on that dimension; both filters combine with AND.
type LogFilter struct {
	Action Action
	Status Status
	Page   int
	Limit  int
}

func (f *LogFilter) Normalize() {
	f.Action = Action(strings.ToUpper(strings.TrimSpace(string(f.Action))))
	f.Status = Status(strings.ToUpper(strings.TrimSpace(string(f.Status))))
	f.Page, f.Limit = normalizePaging(f.Page, f.Limit)
}

func (f *LogFilter) Validate() error {
	if f.Action != "" && !f.Action.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "unknown log action: "+string(f.Action))
	}
	if f.Status != "" && !f.Status.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "unknown log status: "+string(f.Status))
	}
	return validatePaging(f.Page, f.Limit)
}

func (f LogFilter) Query() url.Values {
	q := pagingQuery(f.Page, f.Limit)
	if f.Action != "" {
		q.Set("action", string(f.Action))
	}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	return q
}

// Cleared drops the filter dimensions and returns to the first page.
func (f LogFilter) Cleared() LogFilter {
	return LogFilter{Page: DefaultPage, Limit: f.Limit}
}

// ParseVerified reads the verified flag of a voter listing query. Empty means unset.
func ParseVerified(raw string) (*bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, "verified must be true or false")
	}
	return &v, nil
}

func normalizePaging(page, limit int) (int, int) {
	if page == 0 {
		page = DefaultPage
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	return page, limit
}

func validatePaging(page, limit int) error {
	if page < 1 {
		return dErrors.New(dErrors.CodeValidation, "page must be at least 1")
	}
	if limit < 1 || limit > MaxLimit {
		return dErrors.New(dErrors.CodeValidation, "limit must be between 1 and "+strconv.Itoa(MaxLimit))
	}
	return nil
}

func pagingQuery(page, limit int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	return q
}
