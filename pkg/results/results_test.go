package results

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperationResult(t *testing.T) {
	tests := []struct {
		name        string
		result      OperationResult[int, error]
		wantSuccess bool
		wantFailure bool
	}{
		{
			name:        "success",
			result:      SuccessResult[int, error](3),
			wantSuccess: true,
		},
		{
			name:        "failure",
			result:      FailureResult[int, error](errors.New("boom")),
			wantFailure: true,
		},
		{
			name:   "zero value",
			result: OperationResult[int, error]{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantSuccess, tt.result.IsSuccess())
			assert.Equal(t, tt.wantFailure, tt.result.IsFailure())
		})
	}
}

func TestSuccessResult_ZeroPayloadIsStillSuccess(t *testing.T) {
	r := SuccessResult[int, error](0)
	assert.True(t, r.IsSuccess())
	assert.Equal(t, 0, *r.Success)
}
