package normalizers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLongDescDedents(t *testing.T) {
	got := LongDesc(`
	  List users.

	    Indented detail stays relative.
	`)
	require.Equal(t, "List users.\n\n  Indented detail stays relative.", got)
}

func TestExamplesSubstitutesCLIName(t *testing.T) {
	got := Examples(`
		# list users
		%[1]s get users
	`)
	require.Equal(t, "  # list users\n  castlectl get users", got)
	require.Empty(t, Examples("   "))
}
