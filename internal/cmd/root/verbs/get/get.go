package get

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/castlekeep/castlectl/internal/cmd/root/verbs"
	"github.com/castlekeep/castlectl/internal/meta"
	"github.com/castlekeep/castlectl/internal/resources"
	"github.com/castlekeep/castlectl/internal/util/i18n"
	"github.com/castlekeep/castlectl/internal/util/normalizers"
)

const (
	Verb = verbs.Get
)

var (
	getUse = Verb.String()

	getShort = i18n.T("root.verbs.get.getShort", "Retrieve admin records")

	getLong = normalizers.LongDesc(i18n.T("root.verbs.get.getLong",
		`Use get to retrieve one page of users, focus sessions or castle grounds,
or the dashboard summary.

Output can be formatted as text, json or yaml, and json or yaml output can be
filtered with a jq expression.`))

	getExamples = normalizers.Examples(i18n.T("root.verbs.get.getExamples",
		fmt.Sprintf(`
		# List the first page of users
		%[1]s get users
		# List the third page of focus sessions, 50 per page
		%[1]s get focus-sessions --page 3 --page-size 50
		# Print castle ids and levels as json
		%[1]s get castle-grounds -o json --jq '.records[] | {id: ._id, level}'
		# Show the dashboard numbers and recent activity
		%[1]s get dashboard
		`, meta.CLIName)))
)

func NewGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     getUse,
		Short:   getShort,
		Long:    getLong,
		Example: getExamples,
		Aliases: []string{"g", "G"},
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(context.WithValue(cmd.Context(), verbs.Verb, Verb))
		},
	}

	for _, res := range resources.All() {
		cmd.AddCommand(newResourceCmd(res))
	}
	cmd.AddCommand(newDashboardCmd(), newProfilesCmd())
	return cmd
}
