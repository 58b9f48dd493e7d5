package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"votedesk/internal/offchain"
	dErrors "votedesk/pkg/domain-errors"
	"votedesk/pkg/platform/httputil"
)

func TestRegisterRequest(t *testing.T) {
	req := &registerRequest{
		Address:     "  0xDEF0000000000000000000000000000000000456 ",
		Name:        " Ada ",
		NationalID:  "N-1",
		DateOfBirth: "1815-12-10",
		Email:       " ADA@Example.org ",
	}
	require.NoError(t, httputil.PrepareRequest(req))

	reg := req.registration()
	assert.Equal(t, "0xdef0000000000000000000000000000000000456", reg.Address.String())
	assert.Equal(t, "Ada", reg.Name)
	assert.Equal(t, "ada@example.org", reg.Email)

	bad := &registerRequest{Address: SeedAddress(1).String(), Name: "Ada", NationalID: "N-1", DateOfBirth: "10/12/1815"}
	err := httputil.PrepareRequest(bad)
	assert.Equal(t, "date_of_birth must be YYYY-MM-DD", dErrors.Message(err))
}

func TestLedgerFieldsDefaultToSkipped(t *testing.T) {
	req := &verifyRequest{}
	require.NoError(t, httputil.PrepareRequest(req))
	assert.Equal(t, offchain.LedgerSkipped, req.LedgerStatus)

	req = &verifyRequest{ledgerFields{LedgerStatus: " Succeeded ", TxHash: "0xaa"}}
	require.NoError(t, httputil.PrepareRequest(req))
	assert.Equal(t, offchain.LedgerSucceeded, req.LedgerStatus)

	req = &verifyRequest{ledgerFields{LedgerStatus: "pending"}}
	err := httputil.PrepareRequest(req)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestElectionRequestAllowsStartAfterEnd(t *testing.T) {
	req := &electionRequest{Name: "Backwards", StartTime: 200, EndTime: 100}
	require.NoError(t, httputil.PrepareRequest(req))

	cmd := req.command()
	assert.Equal(t, int64(200), cmd.StartTime)
	assert.Equal(t, offchain.LedgerSkipped, cmd.LedgerStatus)

	err := httputil.PrepareRequest(&electionRequest{Name: "  "})
	assert.Equal(t, "name is required", dErrors.Message(err))
}
