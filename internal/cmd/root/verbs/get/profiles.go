package get

import (
	"fmt"

	"github.com/spf13/cobra"

	cmdpkg "github.com/castlekeep/castlectl/internal/cmd"
	"github.com/castlekeep/castlectl/internal/cmd/output"
	"github.com/castlekeep/castlectl/internal/console/datatable"
	"github.com/castlekeep/castlectl/internal/profile"
)

func newProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "profiles",
		Short:   "List the profiles in the configuration file",
		Aliases: []string{"profile"},
		Args:    cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return listProfiles(cmdpkg.BuildHelper(c, args))
		},
	}
}

func listProfiles(helper cmdpkg.Helper) error {
	mgr, ok := helper.GetContext().Value(profile.ProfileManagerKey).(profile.Manager)
	if !ok {
		return cmdpkg.PrepareExecutionErrorMsg(helper, "no profile manager found in context")
	}
	cfg, err := helper.GetConfig()
	if err != nil {
		return err
	}
	outType, err := helper.GetOutputFormat()
	if err != nil {
		return err
	}

	names := mgr.GetProfiles()
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		active := ""
		if name == cfg.GetProfile() {
			active = "*"
		}
		rows = append(rows, []string{active, name})
	}
	table := datatable.Projection{
		Headers: []string{"Active", "Name"},
		Rows:    rows,
		Empty:   fmt.Sprintf("No profiles found in %s.", cfg.GetPath()),
	}
	return output.RenderForFormat(helper, outType, output.Result{Table: &table, Raw: names})
}
