package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCronExpr(t *testing.T) {
	tests := []struct {
		name  string
		expr  string
		valid bool
	}{
		{"every_30_minutes", "*/30 * * * *", true},
		{"nightly", "0 3 * * *", true},
		{"empty", "", false},
		{"six_fields", "0 */30 * * * *", false},
		{"garbage", "every half hour", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCronExpr(tt.expr)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestNextCronTime(t *testing.T) {
	from := time.Date(2026, 3, 1, 10, 5, 0, 0, time.UTC)

	next, err := NextCronTime("*/30 * * * *", from)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC), next)

	_, err = NextCronTime("nope", from)
	assert.Error(t, err)
}
