package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSpinnerFrames tests that frames are distinct so each redraw is visible.
func TestSpinnerFrames(t *testing.T) {
	seen := make(map[string]bool)
	for _, frame := range SpinnerFrames {
		assert.False(t, seen[frame], frame)
		seen[frame] = true
	}
	assert.Len(t, SpinnerFrames, 10)
}

// TestMessages tests the fixed CLI messages.
func TestMessages(t *testing.T) {
	assert.Equal(t, "Run turbo-ncu --upgrade to update your package.json", MessageUpgradeHint)
	assert.Equal(t, "All dependencies match the latest package versions :)", MessageNoUpdates)
}
