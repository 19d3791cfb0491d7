package jq

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	cmdcommon "github.com/castlekeep/castlectl/internal/cmd/common"
	"github.com/castlekeep/castlectl/internal/config"
)

type stubConfig struct {
	values     map[string]string
	boolValues map[string]bool
}

func (s stubConfig) Save() error                           { return nil }
func (s stubConfig) GetString(key string) string           { return s.values[key] }
func (s stubConfig) GetBool(key string) bool               { return s.boolValues[key] }
func (s stubConfig) GetInt(string) int                     { return 0 }
func (s stubConfig) GetIntOrElse(_ string, orElse int) int { return orElse }
func (s stubConfig) GetDuration(string) time.Duration      { return 0 }
func (s stubConfig) GetStringSlice(string) []string        { return nil }
func (s stubConfig) SetString(string, string)              {}
func (s stubConfig) Set(string, any)                       {}
func (s stubConfig) Get(string) any                        { return nil }
func (s stubConfig) BindFlag(string, *pflag.Flag) error    { return nil }
func (s stubConfig) GetProfile() string                    { return "default" }
func (s stubConfig) GetPath() string                       { return "" }

func newCommand() *cobra.Command {
	c := &cobra.Command{Use: "users"}
	AddFlags(c.Flags())
	return c
}

var page = map[string]any{
	"page":  1,
	"pages": 2,
	"records": []any{
		map[string]any{"_id": "u1", "name": "Arthur", "email": "arthur@camelot.test"},
		map[string]any{"_id": "u2", "name": "Gawain", "email": "gawain@camelot.test"},
	},
}

func TestResolveSettingsDefaults(t *testing.T) {
	settings, err := ResolveSettings(newCommand(), nil)
	require.NoError(t, err)
	require.False(t, settings.HasFilter())
	require.Equal(t, cmdcommon.ColorModeAuto, settings.ColorMode)
	require.Equal(t, DefaultTheme, settings.Theme)
}

func TestResolveSettingsEmptyFilterIsIdentity(t *testing.T) {
	c := newCommand()
	require.NoError(t, c.Flags().Set(FlagName, " "))

	settings, err := ResolveSettings(c, stubConfig{values: map[string]string{DefaultExpressionConfigPath: ".records"}})
	require.NoError(t, err)
	require.Equal(t, ".", settings.Filter)
}

func TestResolveSettingsRawOutputShortFlag(t *testing.T) {
	c := newCommand()
	require.NoError(t, c.Flags().Parse([]string{"-r"}))

	settings, err := ResolveSettings(c, nil)
	require.NoError(t, err)
	require.True(t, settings.RawOutput)
}

func TestResolveSettingsFromConfig(t *testing.T) {
	settings, err := ResolveSettings(newCommand(), stubConfig{
		values: map[string]string{
			DefaultExpressionConfigPath: ".records[].name",
			ColorEnabledConfigPath:      "always",
			ColorThemeConfigPath:        "monokai",
		},
		boolValues: map[string]bool{RawOutputConfigPath: true},
	})
	require.NoError(t, err)
	require.Equal(t, ".records[].name", settings.Filter)
	require.Equal(t, cmdcommon.ColorModeAlways, settings.ColorMode)
	require.Equal(t, "monokai", settings.Theme)
	require.True(t, settings.RawOutput)
}

func TestResolveSettingsFallsBackToGlobalColor(t *testing.T) {
	settings, err := ResolveSettings(newCommand(), stubConfig{
		values: map[string]string{config.ColorConfigPath: "never"},
	})
	require.NoError(t, err)
	require.Equal(t, cmdcommon.ColorModeNever, settings.ColorMode)
}

func TestResolveSettingsRejectsUnknownColorMode(t *testing.T) {
	_, err := ResolveSettings(newCommand(), stubConfig{
		values: map[string]string{ColorEnabledConfigPath: "sometimes"},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid color mode")
}

func TestResolveSettingsWithoutJQFlag(t *testing.T) {
	settings, err := ResolveSettings(&cobra.Command{Use: "version"}, stubConfig{
		values: map[string]string{DefaultExpressionConfigPath: ".records"},
	})
	require.NoError(t, err)
	require.False(t, settings.HasFilter())
}

func TestValidateOutputFormat(t *testing.T) {
	err := ValidateOutputFormat(cmdcommon.TEXT, Settings{Filter: "."})
	require.ErrorContains(t, err, "only supported with --output json or --output yaml")

	err = ValidateOutputFormat(cmdcommon.JSON, Settings{RawOutput: true})
	require.ErrorContains(t, err, "requires --jq")

	err = ValidateOutputFormat(cmdcommon.YAML, Settings{Filter: ".", RawOutput: true})
	require.ErrorContains(t, err, "only supported with --output json")

	require.NoError(t, ValidateOutputFormat(cmdcommon.TEXT, Settings{}))
	require.NoError(t, ValidateOutputFormat(cmdcommon.YAML, Settings{Filter: ".page"}))
}

func TestApplyToRawReturnsFilteredValue(t *testing.T) {
	settings := Settings{Filter: ".records[0].name", ColorMode: cmdcommon.ColorModeNever}

	result, handled, err := ApplyToRaw(page, cmdcommon.JSON, settings, &bytes.Buffer{})
	require.NoError(t, err)
	require.False(t, handled)
	require.Equal(t, "Arthur", result)
}

func TestApplyToRawCollectsMultipleResults(t *testing.T) {
	settings := Settings{Filter: ".records[]._id", ColorMode: cmdcommon.ColorModeNever}

	result, _, err := ApplyToRaw(page, cmdcommon.YAML, settings, &bytes.Buffer{})
	require.NoError(t, err)
	require.Equal(t, []any{"u1", "u2"}, result)
}

func TestApplyToRawWithoutFilterPassesThrough(t *testing.T) {
	result, handled, err := ApplyToRaw(page, cmdcommon.TEXT, Settings{}, &bytes.Buffer{})
	require.NoError(t, err)
	require.False(t, handled)
	require.Equal(t, page, result)
}

func TestApplyToRawRawOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	settings := Settings{Filter: ".records[] | .name, .email", RawOutput: true}

	result, handled, err := ApplyToRaw(page, cmdcommon.JSON, settings, buf)
	require.NoError(t, err)
	require.True(t, handled)
	require.Nil(t, result)
	require.Equal(t, "Arthur\narthur@camelot.test\nGawain\ngawain@camelot.test\n", buf.String())
}

func TestApplyToRawColorizedJSONWritesDirectly(t *testing.T) {
	buf := &bytes.Buffer{}
	settings := Settings{Filter: ".records[0]", ColorMode: cmdcommon.ColorModeAlways, Theme: DefaultTheme}

	result, handled, err := ApplyToRaw(page, cmdcommon.JSON, settings, buf)
	require.NoError(t, err)
	require.True(t, handled)
	require.Nil(t, result)
	require.Contains(t, buf.String(), "\x1b[")
	require.Contains(t, buf.String(), "Arthur")
}

func TestEvaluateRejectsInvalidExpression(t *testing.T) {
	_, err := Evaluate([]byte(`{"page":1}`), ".records[")
	require.ErrorContains(t, err, "invalid jq expression")
}

func TestEvaluateReportsRuntimeErrors(t *testing.T) {
	_, err := Evaluate([]byte(`{"page":1}`), ".page[0]")
	require.ErrorContains(t, err, "jq filter failed")
}

func TestShouldUseColor(t *testing.T) {
	buf := &bytes.Buffer{}
	require.True(t, ShouldUseColor(cmdcommon.ColorModeAlways, buf))
	require.False(t, ShouldUseColor(cmdcommon.ColorModeNever, buf))
	require.False(t, ShouldUseColor(cmdcommon.ColorModeAuto, buf))
}
