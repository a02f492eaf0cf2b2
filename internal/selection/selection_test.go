package selection

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipewright/pipewright/internal/config"
)

func intPtr(v int) *int { return &v }

func TestValidateModeSingle(t *testing.T) {
	stage := config.StageDecl{ID: "output", Mode: config.ModeSingle}

	assert.Empty(t, ValidateMode(stage, 0))
	assert.Empty(t, ValidateMode(stage, 1))

	issues := ValidateMode(stage, 2)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "auto-selected")
}

func TestValidateModeExclusive(t *testing.T) {
	stage := config.StageDecl{ID: "normalization", Mode: config.ModeExclusive}

	for _, count := range []int{0, 2, 3, 7} {
		t.Run(fmt.Sprintf("count_%d", count), func(t *testing.T) {
			issues := ValidateMode(stage, count)
			require.Len(t, issues, 1, "any count != 1 must produce exactly one mode issue")
			assert.Contains(t, issues[0].Message, "exactly 1")
			assert.Contains(t, issues[0].Message, fmt.Sprintf("got %d", count))
		})
	}

	assert.Empty(t, ValidateMode(stage, 1))
}

func TestValidateModeMultiple(t *testing.T) {
	t.Run("zero selections always errors", func(t *testing.T) {
		stage := config.StageDecl{ID: "features", Mode: config.ModeMultiple}
		issues := ValidateMode(stage, 0)
		require.Len(t, issues, 1)
		assert.Contains(t, issues[0].Message, "at least 1")
	})

	t.Run("unbounded without max_select", func(t *testing.T) {
		stage := config.StageDecl{ID: "features", Mode: config.ModeMultiple}
		assert.Empty(t, ValidateMode(stage, 12))
	})

	t.Run("count over max_select errors", func(t *testing.T) {
		stage := config.StageDecl{ID: "features", Mode: config.ModeMultiple, MaxSelect: intPtr(2)}
		issues := ValidateMode(stage, 3)
		require.Len(t, issues, 1)
		assert.Contains(t, issues[0].Message, "at most 2")
		assert.Contains(t, issues[0].Message, "got 3")
	})

	t.Run("count at max_select passes", func(t *testing.T) {
		stage := config.StageDecl{ID: "features", Mode: config.ModeMultiple, MaxSelect: intPtr(2)}
		assert.Empty(t, ValidateMode(stage, 2))
	})
}

func TestValidateModeUnknown(t *testing.T) {
	stage := config.StageDecl{ID: "broken", Mode: "sometimes"}

	issues := ValidateMode(stage, 1)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "unsupported selection_mode 'sometimes'")
}
