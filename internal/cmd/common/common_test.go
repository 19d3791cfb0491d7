package common

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOutputFormatRoundTrip(t *testing.T) {
	for _, name := range OutputFormats() {
		of, err := OutputFormatStringToIota(name)
		require.NoError(t, err)
		require.Equal(t, name, of.String())
	}

	of, err := OutputFormatStringToIota("xml")
	require.Error(t, err)
	require.Equal(t, TEXT, of)
}

func TestColorModeParsing(t *testing.T) {
	mode, err := ColorModeStringToIota("")
	require.NoError(t, err)
	require.Equal(t, ColorModeAuto, mode)

	mode, err = ColorModeStringToIota("never")
	require.NoError(t, err)
	require.Equal(t, "never", mode.String())

	_, err = ColorModeStringToIota("sometimes")
	require.Error(t, err)
}

func TestValidateLogLevel(t *testing.T) {
	require.NoError(t, ValidateLogLevel("trace"))
	require.Error(t, ValidateLogLevel("loud"))
}
