package testutil

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	dErrors "votedesk/pkg/domain-errors"
)

func TestRunConcurrentBucketsByCode(t *testing.T) {
	res := RunConcurrent(8, func(idx int) error {
		switch idx % 4 {
		case 0:
			return nil
		case 1:
			return dErrors.New(dErrors.CodeConflict, "taken")
		case 2:
			return dErrors.Wrap(dErrors.New(dErrors.CodeNotFound, "missing"), dErrors.CodeInternal, "lookup")
		default:
			return errors.New("boom")
		}
	})

	assert.Equal(t, int32(2), res.Successes)
	assert.Equal(t, int32(2), res.Conflicts)
	assert.Equal(t, int32(2), res.NotFounds)
	assert.Equal(t, int32(2), res.Errors)
	assert.Equal(t, int32(8), res.Total())
}
