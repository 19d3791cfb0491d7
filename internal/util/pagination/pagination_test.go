package pagination

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTotalPages(t *testing.T) {
	require.Equal(t, 1, TotalPages(0))
	require.Equal(t, 1, TotalPages(-3))
	require.Equal(t, 7, TotalPages(7))
}

func TestClamp(t *testing.T) {
	require.Equal(t, 1, Clamp(0, 5))
	require.Equal(t, 5, Clamp(9, 5))
	require.Equal(t, 3, Clamp(3, 5))
	require.Equal(t, 1, Clamp(4, 0))
}

func TestStep(t *testing.T) {
	next, moved := Step(1, 3, -1)
	require.Equal(t, 1, next)
	require.False(t, moved)

	next, moved = Step(3, 3, 1)
	require.Equal(t, 3, next)
	require.False(t, moved)

	next, moved = Step(2, 3, 1)
	require.Equal(t, 3, next)
	require.True(t, moved)
}

func TestLabel(t *testing.T) {
	require.Equal(t, "Page 2 of 4", Label(2, 4))
	require.Equal(t, "Page 1 of 1", Label(5, 0))
}
