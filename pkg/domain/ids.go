// Package domain provides type-safe identifiers so wallet addresses, election ids and
// candidate ids cannot be mixed up at compile time.
package domain

import (
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	dErrors "votedesk/pkg/domain-errors"
)

// Address is a lowercase-normalized 0x-prefixed wallet address.
// The zero value means "no address".
type Address string

// Distinct numeric ID types.
type (
	ElectionID  uint64
	CandidateID uint64
)

// Parse functions - use at trust boundaries (flags, HTTP paths, wallet providers).

// ParseAddress validates a hex wallet address and returns it lowercase-normalized.
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "address cannot be empty")
	}
	if !common.IsHexAddress(s) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid wallet address: "+s)
	}
	return Address(strings.ToLower(common.HexToAddress(s).Hex())), nil
}

// MustAddress is ParseAddress for constants and tests; it panics on invalid input.
func MustAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

func ParseElectionID(s string) (ElectionID, error) {
	n, err := parseUint(s, "election ID")
	return ElectionID(n), err
}

func ParseCandidateID(s string) (CandidateID, error) {
	n, err := parseUint(s, "candidate ID")
	return CandidateID(n), err
}

// String methods - for logging and wire encoding.

func (a Address) String() string      { return string(a) }
func (id ElectionID) String() string  { return strconv.FormatUint(uint64(id), 10) }
func (id CandidateID) String() string { return strconv.FormatUint(uint64(id), 10) }

func (a Address) IsNil() bool { return a == "" }

// Equal compares two addresses case-insensitively. Nil addresses never match.
func (a Address) Equal(other Address) bool {
	if a.IsNil() || other.IsNil() {
		return false
	}
	return strings.EqualFold(string(a), string(other))
}

// Common converts the address for go-ethereum APIs.
func (a Address) Common() common.Address {
	return common.HexToAddress(string(a))
}

// Short renders 0xabcd…1234 for human-facing output.
func (a Address) Short() string {
	if len(a) < 12 {
		return string(a)
	}
	return string(a[:6]) + "…" + string(a[len(a)-4:])
}

func parseUint(s, label string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label+" format")
	}
	return n, nil
}
