// Package jq applies --jq filters to command output before it is printed.
package jq

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/itchyny/gojq"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	cmdpkg "github.com/castlekeep/castlectl/internal/cmd"
	cmdcommon "github.com/castlekeep/castlectl/internal/cmd/common"
	"github.com/castlekeep/castlectl/internal/config"
)

const (
	FlagName                    = "jq"
	ColorFlagName               = "jq-color"
	ColorThemeFlagName          = "jq-color-theme"
	RawOutputFlagName           = "jq-raw-output"
	RawOutputFlagShort          = "r"
	DefaultExpressionConfigPath = "jq.default-expression"
	ColorEnabledConfigPath      = "jq.color.enabled"
	ColorThemeConfigPath        = "jq.color.theme"
	RawOutputConfigPath         = "jq.raw-output"
	DefaultTheme                = "friendly"
)

var compiled sync.Map

// Settings is the resolved jq configuration for one command run.
type Settings struct {
	Filter    string
	ColorMode cmdcommon.ColorMode
	Theme     string
	RawOutput bool
}

func (s Settings) HasFilter() bool {
	return strings.TrimSpace(s.Filter) != ""
}

// AddFlags registers the jq flags on a command that prints records.
func AddFlags(flags *pflag.FlagSet) {
	flags.String(FlagName, "",
		"Filter the json or yaml output with a jq expression.")

	flags.Var(cmdpkg.NewEnum(cmdcommon.ColorModes(), cmdcommon.DefaultColorMode), ColorFlagName,
		fmt.Sprintf(`Colorize filtered json output.
- Config path: [ %s ]
- Allowed    : [ %s ]`, ColorEnabledConfigPath, strings.Join(cmdcommon.ColorModes(), "|")))

	flags.String(ColorThemeFlagName, DefaultTheme,
		fmt.Sprintf(`Chroma style used for colorized output.
- Config path: [ %s ]
- Examples   : [ friendly, monokai, dracula ]`, ColorThemeConfigPath))

	flags.BoolP(RawOutputFlagName, RawOutputFlagShort, false,
		fmt.Sprintf(`Print string results without quotes, like jq -r.
- Config path: [ %s ]`, RawOutputConfigPath))
}

// BindFlags makes the jq flags override their config paths.
func BindFlags(cfg config.Hook, flags *pflag.FlagSet) error {
	if cfg == nil || flags == nil {
		return nil
	}
	bindings := map[string]string{
		ColorFlagName:      ColorEnabledConfigPath,
		ColorThemeFlagName: ColorThemeConfigPath,
		RawOutputFlagName:  RawOutputConfigPath,
	}
	for flag, path := range bindings {
		f := flags.Lookup(flag)
		if f == nil {
			continue
		}
		if err := cfg.BindFlag(path, f); err != nil {
			return err
		}
	}
	return nil
}

// ResolveSettings reads the jq flags of command, falling back to cfg. A
// command without a --jq flag never filters.
func ResolveSettings(command *cobra.Command, cfg config.Hook) (Settings, error) {
	settings := Settings{Theme: DefaultTheme, ColorMode: cmdcommon.ColorModeAuto}
	if command == nil || command.Flags().Lookup(FlagName) == nil {
		return settings, nil
	}
	flags := command.Flags()

	filter, err := flags.GetString(FlagName)
	if err != nil {
		return Settings{}, err
	}
	settings.Filter = strings.TrimSpace(filter)
	if flags.Changed(FlagName) && settings.Filter == "" {
		settings.Filter = "."
	}

	if cfg == nil {
		if flags.Lookup(RawOutputFlagName) != nil {
			settings.RawOutput, err = flags.GetBool(RawOutputFlagName)
		}
		return settings, err
	}

	if !flags.Changed(FlagName) {
		if expr := strings.TrimSpace(cfg.GetString(DefaultExpressionConfigPath)); expr != "" {
			settings.Filter = expr
		}
	}

	mode := strings.ToLower(strings.TrimSpace(cfg.GetString(ColorEnabledConfigPath)))
	if mode == "" {
		mode = strings.ToLower(strings.TrimSpace(cfg.GetString(config.ColorConfigPath)))
	}
	if settings.ColorMode, err = cmdcommon.ColorModeStringToIota(mode); err != nil {
		return Settings{}, &cmdpkg.ConfigurationError{Err: err}
	}
	if theme := strings.TrimSpace(cfg.GetString(ColorThemeConfigPath)); theme != "" {
		settings.Theme = theme
	}
	settings.RawOutput = cfg.GetBool(RawOutputConfigPath)
	return settings, nil
}

// ValidateOutputFormat rejects filters combined with text output.
func ValidateOutputFormat(outType cmdcommon.OutputFormat, settings Settings) error {
	if settings.RawOutput {
		if !settings.HasFilter() {
			return &cmdpkg.ConfigurationError{
				Err: fmt.Errorf("--%s requires --%s", RawOutputFlagName, FlagName),
			}
		}
		if outType != cmdcommon.JSON {
			return &cmdpkg.ConfigurationError{
				Err: fmt.Errorf("--%s is only supported with --output json", RawOutputFlagName),
			}
		}
		return nil
	}
	if !settings.HasFilter() || outType == cmdcommon.JSON || outType == cmdcommon.YAML {
		return nil
	}
	return &cmdpkg.ConfigurationError{
		Err: fmt.Errorf("--%s is only supported with --output json or --output yaml", FlagName),
	}
}

// ApplyToRaw runs the filter over raw. When handled is true the result was
// already written to out; otherwise the filtered value is returned for the
// regular printer.
func ApplyToRaw(raw any, outType cmdcommon.OutputFormat, settings Settings, out io.Writer) (any, bool, error) {
	if !settings.HasFilter() {
		return raw, false, nil
	}
	if err := ValidateOutputFormat(outType, settings); err != nil {
		return nil, false, err
	}

	body, err := json.Marshal(raw)
	if err != nil {
		return nil, false, fmt.Errorf("encoding output for jq: %w", err)
	}
	results, err := Evaluate(body, settings.Filter)
	if err != nil {
		return nil, false, err
	}

	if settings.RawOutput {
		return nil, true, writeRaw(results, out)
	}

	value := collapse(results)
	if outType == cmdcommon.JSON && ShouldUseColor(settings.ColorMode, out) {
		pretty, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			return nil, false, fmt.Errorf("encoding jq result: %w", err)
		}
		_, err = fmt.Fprintln(out, strings.TrimRight(Colorize(string(pretty), settings.Theme), "\n"))
		return nil, true, err
	}
	return value, false, nil
}

// Evaluate runs filter against a json document and returns every emitted value.
func Evaluate(body []byte, filter string) ([]any, error) {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		filter = "."
	}
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("output is not valid JSON: %w", err)
	}

	code, err := compile(filter)
	if err != nil {
		return nil, err
	}

	var results []any
	iter := code.Run(payload)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			return nil, fmt.Errorf("jq filter failed: %w", err)
		}
		results = append(results, v)
	}
	return results, nil
}

func compile(filter string) (*gojq.Code, error) {
	if code, ok := compiled.Load(filter); ok {
		return code.(*gojq.Code), nil
	}
	query, err := gojq.Parse(filter)
	if err != nil {
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("compiling jq expression: %w", err)
	}
	compiled.Store(filter, code)
	return code, nil
}

// collapse returns nil for no results, the value for one result and the
// list otherwise.
func collapse(results []any) any {
	switch len(results) {
	case 0:
		return nil
	case 1:
		return results[0]
	default:
		return results
	}
}

func writeRaw(results []any, out io.Writer) error {
	for _, r := range results {
		line, ok := r.(string)
		if !ok {
			b, err := json.Marshal(r)
			if err != nil {
				return fmt.Errorf("encoding jq result: %w", err)
			}
			line = string(b)
		}
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}
	return nil
}

var terminalDetector = func(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ShouldUseColor resolves mode against out. Auto colors terminals unless
// NO_COLOR is set.
func ShouldUseColor(mode cmdcommon.ColorMode, out io.Writer) bool {
	switch mode {
	case cmdcommon.ColorModeAlways:
		return true
	case cmdcommon.ColorModeNever:
		return false
	}
	if _, disabled := os.LookupEnv("NO_COLOR"); disabled {
		return false
	}
	f, ok := out.(interface{ Fd() uintptr })
	return ok && terminalDetector(f.Fd())
}

// Colorize highlights formatted json with the named chroma style. Anything it
// cannot tokenise is returned unchanged.
func Colorize(formatted, theme string) string {
	lexer := lexers.Get("json")
	formatter := formatters.Get("terminal256")
	if lexer == nil || formatter == nil {
		return formatted
	}
	iterator, err := lexer.Tokenise(nil, formatted)
	if err != nil {
		return formatted
	}
	style := styles.Get(theme)
	if style == nil {
		style = styles.Fallback
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return formatted
	}
	return buf.String()
}
