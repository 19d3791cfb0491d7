package root

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/segmentio/cli"
	"github.com/spf13/cobra"

	"github.com/castlekeep/castlectl/internal/admin/helpers"
	"github.com/castlekeep/castlectl/internal/build"
	"github.com/castlekeep/castlectl/internal/cmd"
	"github.com/castlekeep/castlectl/internal/cmd/common"
	"github.com/castlekeep/castlectl/internal/cmd/root/verbs/del"
	"github.com/castlekeep/castlectl/internal/cmd/root/verbs/get"
	"github.com/castlekeep/castlectl/internal/cmd/root/verbs/patch"
	"github.com/castlekeep/castlectl/internal/cmd/root/verbs/view"
	"github.com/castlekeep/castlectl/internal/cmd/root/version"
	"github.com/castlekeep/castlectl/internal/config"
	"github.com/castlekeep/castlectl/internal/iostreams"
	"github.com/castlekeep/castlectl/internal/log"
	"github.com/castlekeep/castlectl/internal/meta"
	"github.com/castlekeep/castlectl/internal/profile"
	"github.com/castlekeep/castlectl/internal/theme"
	"github.com/castlekeep/castlectl/internal/util/i18n"
	"github.com/castlekeep/castlectl/internal/util/normalizers"
)

var (
	rootLong = normalizers.LongDesc(i18n.T("root.rootLong", `
  castlectl administers a focus session game: its users, their focus
  sessions and the castle grounds they build.

  Run "castlectl view" for the interactive dashboard or use the get, patch
  and delete verbs from scripts.`))

	rootShort = i18n.T("root.rootShort", fmt.Sprintf("%s manages the castle admin API", meta.CLIName))
)

// rootState holds the values bound to the persistent flags of one command tree.
type rootState struct {
	streams   *iostreams.IOStreams
	buildInfo *build.Info

	configFilePath string
	profile        string
	outputFormat   *cmd.FlagEnum
	logLevel       *cmd.FlagEnum
	colorMode      *cmd.FlagEnum

	logCloser io.Closer
}

func newRootCmd(s *iostreams.IOStreams, bi *build.Info) *cobra.Command {
	// parent persistent hooks run before the verb's own
	cobra.EnableTraverseRunHooks = true

	defaultConfigFile, err := config.GetDefaultConfigFilePath()
	if err != nil {
		defaultConfigFile = ""
	}
	st := &rootState{
		streams:        s,
		buildInfo:      bi,
		configFilePath: defaultConfigFile,
		profile:        profile.DefaultProfile,
		outputFormat:   cmd.NewEnum(common.OutputFormats(), common.DefaultOutputFormat),
		logLevel:       cmd.NewEnum(common.LogLevels(), common.DefaultLogLevel),
		colorMode:      cmd.NewEnum(common.ColorModes(), common.DefaultColorMode),
	}

	rootCmd := &cobra.Command{
		Use:           meta.CLIName,
		Short:         rootShort,
		Long:          rootLong,
		SilenceErrors: true,
		PersistentPreRunE: func(c *cobra.Command, _ []string) error {
			// flags parsed, later failures are not usage errors
			c.SilenceUsage = true
			return st.prepare(c, defaultConfigFile)
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if st.logCloser != nil {
				return st.logCloser.Close()
			}
			return nil
		},
	}
	rootCmd.SetIn(s.In)
	rootCmd.SetOut(s.Out)
	rootCmd.SetErr(s.ErrOut)

	// parses all flags not just the target command
	rootCmd.TraverseChildren = true

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&st.configFilePath, common.ConfigFilePathFlagName, defaultConfigFile,
		i18n.T("root."+common.ConfigFilePathFlagName, "Path to the configuration file to load."))
	pf.StringVarP(&st.profile, common.ProfileFlagName, common.ProfileFlagShort, profile.DefaultProfile,
		fmt.Sprintf(`Specify the profile to use for this command.
- Environment: [ %s_PROFILE ]`, meta.EnvPrefix))

	pf.VarP(st.outputFormat, common.OutputFlagName, common.OutputFlagShort,
		fmt.Sprintf(`Configures the output format.
- Config path: [ %s ]
- Allowed    : [ %s ]`, config.OutputConfigPath, strings.Join(st.outputFormat.Allowed, "|")))
	pf.Var(st.logLevel, common.LogLevelFlagName,
		fmt.Sprintf(`Configures the logging level. Logs are written to the log file.
- Config path: [ %s ]
- Allowed    : [ %s ]`, config.LogLevelConfigPath, strings.Join(st.logLevel.Allowed, "|")))
	pf.Var(st.colorMode, common.ColorFlagName,
		fmt.Sprintf(`Controls colored output.
- Config path: [ %s ]
- Allowed    : [ %s ]`, config.ColorConfigPath, strings.Join(st.colorMode.Allowed, "|")))

	pf.String(common.BaseURLFlagName, meta.DefaultAdminBaseURL,
		fmt.Sprintf(`Base URL of the admin API.
- Config path: [ %s ]`, config.AdminBaseURLConfigPath))
	pf.String(common.TokenFlagName, "",
		fmt.Sprintf(`Bearer token sent to the admin API.
- Config path: [ %s ]`, config.AdminTokenConfigPath))
	pf.Int(common.PageSizeFlagName, config.DefaultPageSize,
		fmt.Sprintf(`Number of records requested per page.
- Config path: [ %s ]`, config.AdminPageSizeConfigPath))

	rootCmd.AddCommand(
		version.NewVersionCmd(),
		get.NewGetCmd(),
		patch.NewPatchCmd(),
		del.NewDeleteCmd(),
		view.NewViewCmd(),
	)
	return rootCmd
}

// prepare loads the profile configuration, binds the global flags and
// stores everything verbs need on the command context.
func (st *rootState) prepare(c *cobra.Command, defaultConfigFile string) error {
	// Because the profile is not part of the configuration, viper cannot apply
	// its priorities to it. The environment variable is used unless the flag
	// was given.
	if !c.Flags().Changed(common.ProfileFlagName) {
		if p, found := os.LookupEnv(meta.EnvPrefix + "_PROFILE"); found && strings.TrimSpace(p) != "" {
			st.profile = strings.TrimSpace(p)
		}
	}

	cfg, err := config.GetConfig(st.configFilePath, st.profile, defaultConfigFile)
	if err != nil {
		return &cmd.ConfigurationError{Err: err}
	}

	bindings := map[string]string{
		common.OutputFlagName:   config.OutputConfigPath,
		common.LogLevelFlagName: config.LogLevelConfigPath,
		common.ColorFlagName:    config.ColorConfigPath,
		common.BaseURLFlagName:  config.AdminBaseURLConfigPath,
		common.TokenFlagName:    config.AdminTokenConfigPath,
		common.PageSizeFlagName: config.AdminPageSizeConfigPath,
	}
	for flag, path := range bindings {
		if err := cfg.BindFlag(path, c.Flags().Lookup(flag)); err != nil {
			return &cmd.ConfigurationError{Err: err}
		}
	}

	level := cfg.GetString(config.LogLevelConfigPath)
	if err := common.ValidateLogLevel(level); err != nil {
		return &cmd.ConfigurationError{Err: err}
	}
	if err := applyColor(cfg); err != nil {
		return &cmd.ConfigurationError{Err: err}
	}

	logger, closer, err := log.New(log.Options{
		Level:    log.ConfigLevelStringToSlogLevel(level),
		FilePath: cfg.GetString(config.LogFileConfigPath),
		Fallback: io.Discard,
		Console:  st.streams.ErrOut,
	})
	if err != nil {
		// the logger still works without its file
		fmt.Fprintf(st.streams.ErrOut, "warning: %v\n", err)
	}
	st.logCloser = closer

	ctx := c.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, config.ConfigKey, config.Hook(cfg))
	ctx = context.WithValue(ctx, iostreams.StreamsKey, st.streams)
	ctx = context.WithValue(ctx, profile.ProfileManagerKey, profile.NewManager(cfg.Viper))
	ctx = context.WithValue(ctx, build.InfoKey, st.buildInfo)
	ctx = context.WithValue(ctx, log.LoggerKey, logger)
	if _, ok := ctx.Value(helpers.AdminAPIFactoryKey).(helpers.AdminAPIFactory); !ok {
		factory := helpers.NewAdminAPIFactory(st.buildInfo.UserAgent(meta.CLIName))
		ctx = context.WithValue(ctx, helpers.AdminAPIFactoryKey, factory)
	}
	ctx = log.WithHTTPLogContext(ctx, log.HTTPLogContext{
		CommandPath: c.CommandPath(),
		Surface:     "cli",
	})
	c.SetContext(ctx)
	return nil
}

// applyColor selects the lipgloss color profile and the console theme.
func applyColor(cfg config.Hook) error {
	mode, err := common.ColorModeStringToIota(strings.ToLower(cfg.GetString(config.ColorConfigPath)))
	if err != nil {
		return err
	}
	switch {
	case mode == common.ColorModeNever:
		lipgloss.SetColorProfile(termenv.Ascii)
	case mode == common.ColorModeAlways:
		lipgloss.SetColorProfile(termenv.ANSI256)
	default:
		if _, disabled := os.LookupEnv("NO_COLOR"); disabled {
			lipgloss.SetColorProfile(termenv.Ascii)
		}
	}
	return theme.SetCurrent(cfg.GetString(config.ColorThemeConfigPath))
}

// run executes args and reports execution errors through the output printer.
func run(ctx context.Context, s *iostreams.IOStreams, bi *build.Info, args []string) error {
	rootCmd := newRootCmd(s, bi)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return nil
	}

	var executionError *cmd.ExecutionError
	if !errors.As(err, &executionError) {
		fmt.Fprintf(s.ErrOut, "Error: %v\n", err)
		return err
	}

	format := rootCmd.PersistentFlags().Lookup(common.OutputFlagName).Value.String()
	if format == common.DefaultOutputFormat {
		fmt.Fprintf(s.ErrOut, "Error: %s\n", executionError.Msg)
		return err
	}
	report := map[string]any{"error": executionError.Msg}
	if executionError.Err != nil && executionError.Err.Error() != executionError.Msg {
		report["cause"] = executionError.Err.Error()
	}
	for i := 0; i+1 < len(executionError.Attrs); i += 2 {
		report[fmt.Sprint(executionError.Attrs[i])] = executionError.Attrs[i+1]
	}
	printer, perr := cli.Format(format, s.ErrOut)
	if perr != nil {
		fmt.Fprintf(s.ErrOut, "Error: %s\n", executionError.Msg)
		return err
	}
	printer.Print(report)
	printer.Flush()
	return err
}

func Execute(ctx context.Context, s *iostreams.IOStreams, bi *build.Info) {
	if err := run(ctx, s, bi, os.Args[1:]); err != nil {
		os.Exit(1)
	}
}
