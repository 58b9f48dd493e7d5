package offchain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "votedesk/pkg/domain-errors"
)

func TestVoterFilter(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		f := VoterFilter{}
		f.Normalize()

		require.NoError(t, f.Validate())
		assert.Equal(t, DefaultPage, f.Page)
		assert.Equal(t, DefaultLimit, f.Limit)
		assert.Equal(t, "limit=10&page=1", f.Query().Encode())
	})

	t.Run("limit above max is rejected", func(t *testing.T) {
		f := VoterFilter{Limit: MaxLimit + 1}
		f.Normalize()

		assert.True(t, dErrors.HasCode(f.Validate(), dErrors.CodeValidation))
	})

	t.Run("negative page is rejected", func(t *testing.T) {
		f := VoterFilter{Page: -1}
		f.Normalize()

		assert.Error(t, f.Validate())
	})
}

func TestLogFilter(t *testing.T) {
	t.Run("unknown status is rejected", func(t *testing.T) {
		f := LogFilter{Status: "PENDING"}
		f.Normalize()

		assert.True(t, dErrors.HasCode(f.Validate(), dErrors.CodeValidation))
	})

	t.Run("cleared drops filters and returns to first page", func(t *testing.T) {
		f := LogFilter{Action: ActionVerifyVoter, Status: StatusFailure, Page: 4, Limit: 20}

		cleared := f.Cleared()

		assert.Equal(t, LogFilter{Page: 1, Limit: 20}, cleared)
		assert.Equal(t, "limit=20&page=1", cleared.Query().Encode())
	})
}

func TestParseVerified(t *testing.T) {
	v, err := ParseVerified("")
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = ParseVerified("false")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.False(t, *v)

	_, err = ParseVerified("maybe")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}
