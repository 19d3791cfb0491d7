// Package output prints command results in the format selected with --output.
package output

import (
	"fmt"
	"io"

	"github.com/segmentio/cli"
	"golang.org/x/term"

	cmdpkg "github.com/castlekeep/castlectl/internal/cmd"
	cmdcommon "github.com/castlekeep/castlectl/internal/cmd/common"
	jqoutput "github.com/castlekeep/castlectl/internal/cmd/output/jq"
	"github.com/castlekeep/castlectl/internal/console/datatable"
)

const defaultWidth = 120

// Result pairs the text rendering of a command result with the raw value
// printed for json and yaml.
type Result struct {
	// Lines are "label: value" pairs printed before the table.
	Lines [][2]string
	Table *datatable.Projection
	// Footer is printed after the table.
	Footer string
	Raw    any
}

// RenderForFormat applies --jq and prints res to the helper's output stream.
func RenderForFormat(helper cmdpkg.Helper, outType cmdcommon.OutputFormat, res Result) error {
	out := helper.GetStreams().Out
	raw := res.Raw

	cfg, err := helper.GetConfig()
	if err != nil {
		return err
	}
	settings, err := jqoutput.ResolveSettings(helper.GetCmd(), cfg)
	if err != nil {
		return err
	}
	if err := jqoutput.ValidateOutputFormat(outType, settings); err != nil {
		return err
	}
	if settings.HasFilter() {
		filtered, handled, err := jqoutput.ApplyToRaw(raw, outType, settings, out)
		if err != nil {
			return cmdpkg.PrepareExecutionErrorWithHelper(helper, "jq filter failed", err)
		}
		if handled {
			return nil
		}
		raw = filtered
	}

	switch outType {
	case cmdcommon.TEXT:
		return writeText(out, res)
	case cmdcommon.JSON, cmdcommon.YAML:
		printer, err := cli.Format(outType.String(), out)
		if err != nil {
			return err
		}
		defer printer.Flush()
		printer.Print(raw)
		return nil
	default:
		return fmt.Errorf("unsupported output format %s", outType.String())
	}
}

func writeText(out io.Writer, res Result) error {
	if err := writeLines(out, res.Lines); err != nil {
		return err
	}
	if res.Table != nil {
		if len(res.Lines) > 0 {
			if _, err := fmt.Fprintln(out); err != nil {
				return err
			}
		}
		if err := datatable.WriteStatic(out, *res.Table, TerminalWidth(out)); err != nil {
			return err
		}
	}
	if res.Footer != "" {
		_, err := fmt.Fprintln(out, res.Footer)
		return err
	}
	return nil
}

func writeLines(out io.Writer, lines [][2]string) error {
	width := 0
	for _, kv := range lines {
		width = max(width, len(kv[0]))
	}
	for _, kv := range lines {
		if _, err := fmt.Fprintf(out, "%-*s  %s\n", width+1, kv[0]+":", kv[1]); err != nil {
			return err
		}
	}
	return nil
}

// TerminalWidth returns the width of out when it is a terminal. Other
// writers are not fitted.
func TerminalWidth(out io.Writer) int {
	f, ok := out.(interface{ Fd() uintptr })
	if !ok {
		return 0
	}
	fd := f.Fd()
	if fd == ^uintptr(0) || !term.IsTerminal(int(fd)) {
		return 0
	}
	if w, _, err := term.GetSize(int(fd)); err == nil && w > 0 {
		return w
	}
	return defaultWidth
}
