package view

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	cmdpkg "github.com/castlekeep/castlectl/internal/cmd"
	"github.com/castlekeep/castlectl/internal/cmd/root/verbs"
	"github.com/castlekeep/castlectl/internal/console"
	"github.com/castlekeep/castlectl/internal/log"
	"github.com/castlekeep/castlectl/internal/meta"
	"github.com/castlekeep/castlectl/internal/util/i18n"
	"github.com/castlekeep/castlectl/internal/util/normalizers"
)

const (
	Verb = verbs.View
)

var (
	viewUse = Verb.String() + " [page]"

	viewShort = i18n.T("root.verbs.view.viewShort", "Open the interactive admin dashboard")

	viewLong = normalizers.LongDesc(i18n.T("root.verbs.view.viewLong",
		fmt.Sprintf(`Open the interactive admin console. It starts on the dashboard unless a
page is named. Pages: %s.`, strings.Join(console.PageNames(), ", "))))

	viewExamples = normalizers.Examples(i18n.T("root.verbs.view.viewExamples",
		fmt.Sprintf(`
		# Open the dashboard
		%[1]s view
		# Open straight on the castle grounds page
		%[1]s view castle-grounds
		`, meta.CLIName)))
)

// terminalCheck is replaced in tests.
var terminalCheck = func(helper cmdpkg.Helper) bool {
	s := helper.GetStreams()
	return s.IsInputTTY() && s.IsOutputTTY()
}

// runConsole is replaced in tests.
var runConsole = console.Run

// NewViewCmd creates the view command which launches the console.
func NewViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:       viewUse,
		Short:     viewShort,
		Long:      viewLong,
		Example:   viewExamples,
		Aliases:   []string{"v", "V", "ui"},
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: console.PageNames(),
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(context.WithValue(cmd.Context(), verbs.Verb, Verb))
		},
		RunE: func(c *cobra.Command, args []string) error {
			return run(cmdpkg.BuildHelper(c, args))
		},
	}
}

func run(helper cmdpkg.Helper) error {
	start := ""
	if args := helper.GetArgs(); len(args) > 0 {
		start = args[0]
	}
	if err := console.ValidateStart(start); err != nil {
		return &cmdpkg.ConfigurationError{Err: err}
	}
	if !terminalCheck(helper) {
		return &cmdpkg.ConfigurationError{
			Err: fmt.Errorf("%s needs an interactive terminal, use get for scripted output", Verb),
		}
	}

	session, err := cmdpkg.PrepareAdmin(helper)
	if err != nil {
		return err
	}
	size, err := session.PageSize()
	if err != nil {
		return err
	}

	// the console owns the terminal, errors are shown in its own dialogs
	log.DisableErrorMirroring()
	defer log.EnableErrorMirroring()

	ctx := log.WithHTTPLogContext(helper.GetContext(), log.HTTPLogContext{CommandVerb: Verb.String()})
	err = runConsole(ctx, helper.GetStreams(), console.Options{
		Admin:    session.Admin,
		Logger:   session.Logger,
		PageSize: size,
		Start:    start,
	})
	if err != nil {
		return cmdpkg.PrepareExecutionErrorFromErr(helper, err)
	}
	return nil
}
