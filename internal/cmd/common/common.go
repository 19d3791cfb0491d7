package common

import (
	"fmt"
	"slices"
)

// OutputFormat is the format selected with --output.
type OutputFormat int

type ColorMode int

const (
	JSON OutputFormat = iota
	YAML
	TEXT
)

const (
	ColorModeAuto ColorMode = iota
	ColorModeAlways
	ColorModeNever
)

var (
	outputFormats = []string{"json", "yaml", "text"}
	logLevels     = []string{"trace", "debug", "info", "warn", "error"}
	colorModes    = []string{"auto", "always", "never"}
)

const (
	DefaultOutputFormat = "text"
	OutputFlagName      = "output"
	OutputFlagShort     = "o"

	ColorFlagName    = "color"
	DefaultColorMode = "auto"

	ProfileFlagName  = "profile"
	ProfileFlagShort = "p"

	ConfigFilePathFlagName = "config-file"

	LogLevelFlagName = "log-level"
	DefaultLogLevel  = "info"

	BaseURLFlagName  = "base-url"
	TokenFlagName    = "token"
	PageSizeFlagName = "page-size"
	PageFlagName     = "page"
)

func OutputFormats() []string { return slices.Clone(outputFormats) }

func LogLevels() []string { return slices.Clone(logLevels) }

func ColorModes() []string { return slices.Clone(colorModes) }

func (of OutputFormat) String() string {
	return outputFormats[of]
}

func OutputFormatStringToIota(format string) (OutputFormat, error) {
	idx := slices.Index(outputFormats, format)
	if idx < 0 {
		return TEXT, fmt.Errorf("invalid output format %q, must be one of %v", format, outputFormats)
	}
	return OutputFormat(idx), nil
}

func ValidateLogLevel(level string) error {
	if !slices.Contains(logLevels, level) {
		return fmt.Errorf("invalid log level %q, must be one of %v", level, logLevels)
	}
	return nil
}

func (cm ColorMode) String() string {
	if cm < 0 || int(cm) >= len(colorModes) {
		return DefaultColorMode
	}
	return colorModes[cm]
}

func ColorModeStringToIota(mode string) (ColorMode, error) {
	if mode == "" {
		return ColorModeAuto, nil
	}
	idx := slices.Index(colorModes, mode)
	if idx < 0 {
		return ColorModeAuto, fmt.Errorf("invalid color mode %q, must be one of %v", mode, colorModes)
	}
	return ColorMode(idx), nil
}
