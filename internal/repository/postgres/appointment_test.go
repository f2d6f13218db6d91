package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeReason(t *testing.T) {
	assert.Nil(t, normalizeReason(nil))

	empty := ""
	assert.Nil(t, normalizeReason(&empty))

	blank := "   "
	assert.Nil(t, normalizeReason(&blank))

	reason := "  annual checkup "
	got := normalizeReason(&reason)
	require.NotNil(t, got)
	assert.Equal(t, "annual checkup", *got)
}
