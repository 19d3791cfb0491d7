package version

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/castlekeep/castlectl/internal/build"
	"github.com/castlekeep/castlectl/internal/cmd/common"
	"github.com/castlekeep/castlectl/internal/config"
	"github.com/castlekeep/castlectl/internal/iostreams"
	"github.com/castlekeep/castlectl/test/cmd"
	testConfig "github.com/castlekeep/castlectl/test/config"
)

func newHelper(format common.OutputFormat, showCommit bool) (*cmd.MockHelper, *bytes.Buffer) {
	streams, _, out, _ := iostreams.NewTestIOStreams()
	return &cmd.MockHelper{
		GetOutputFormatMock: func() (common.OutputFormat, error) {
			return format, nil
		},
		GetConfigMock: func() (config.Hook, error) {
			return &testConfig.MockConfigHook{
				GetBoolMock: func(key string) bool {
					return key == ShowCommitConfigPath && showCommit
				},
			}, nil
		},
		GetStreamsMock: func() *iostreams.IOStreams {
			return streams
		},
		GetLoggerMock: func() (*slog.Logger, error) {
			return slog.New(slog.NewTextHandler(io.Discard, nil)), nil
		},
		GetBuildInfoMock: func() (*build.Info, error) {
			return &build.Info{
				Version: "1.4.0",
				Commit:  "5e1f0ab",
				Date:    "2026-10-01",
			}, nil
		},
	}, out
}

func Test_VersionCmd(t *testing.T) {
	helper, out := newHelper(common.TEXT, false)

	require.NoError(t, run(helper))
	require.Equal(t, "1.4.0\n", out.String())
}

func Test_VersionCmdShowCommit(t *testing.T) {
	helper, out := newHelper(common.TEXT, true)

	require.NoError(t, run(helper))
	require.Equal(t, "1.4.0 (5e1f0ab)\n", out.String())
}

func Test_VersionCmdJSONOutput(t *testing.T) {
	helper, out := newHelper(common.JSON, true)

	require.NoError(t, run(helper))

	var actual map[string]any
	require.NoError(t, json.Unmarshal([]byte(out.String()), &actual))
	require.Equal(t, map[string]any{"version": "1.4.0", "commit": "5e1f0ab", "date": "2026-10-01"}, actual)
}
