package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "votedesk/pkg/domain-errors"
)

func TestCheckStringLength(t *testing.T) {
	assert.NoError(t, CheckStringLength("filename", "id.pdf", MaxFilenameLength))

	err := CheckStringLength("filename", strings.Repeat("a", MaxFilenameLength+1), MaxFilenameLength)

	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	assert.Equal(t, "filename exceeds max length of 255", dErrors.Message(err))
}

func TestClampDays(t *testing.T) {
	tests := []struct {
		in      int
		want    int
		wantErr bool
	}{
		{in: 0, want: DefaultHistoryDays},
		{in: 1, want: 1},
		{in: 30, want: 30},
		{in: 365, want: MaxHistoryDays},
		{in: -1, wantErr: true},
	}
	for _, tt := range tests {
		got, err := ClampDays(tt.in)
		if tt.wantErr {
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
			continue
		}
		assert.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
