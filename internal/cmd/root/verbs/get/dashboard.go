package get

import (
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/castlekeep/castlectl/internal/admin/api"
	cmdpkg "github.com/castlekeep/castlectl/internal/cmd"
	"github.com/castlekeep/castlectl/internal/cmd/output"
	jqoutput "github.com/castlekeep/castlectl/internal/cmd/output/jq"
	"github.com/castlekeep/castlectl/internal/log"
	"github.com/castlekeep/castlectl/internal/resources"
)

// dashboardView is the json and yaml shape of get dashboard.
type dashboardView struct {
	Stats    api.Record   `json:"stats" yaml:"stats"`
	Activity []api.Record `json:"activity" yaml:"activity"`
}

func newDashboardCmd() *cobra.Command {
	c := &cobra.Command{
		Use:     "dashboard",
		Short:   "Show the dashboard numbers and recent activity",
		Aliases: []string{"dash", "stats"},
		Args:    cobra.NoArgs,
		PreRunE: bindJQFlags,
		RunE: func(c *cobra.Command, args []string) error {
			return showDashboard(cmdpkg.BuildHelper(c, args))
		},
	}
	jqoutput.AddFlags(c.Flags())
	return c
}

func showDashboard(helper cmdpkg.Helper) error {
	outType, err := helper.GetOutputFormat()
	if err != nil {
		return err
	}
	session, err := cmdpkg.PrepareAdmin(helper)
	if err != nil {
		return err
	}

	ctx := log.WithHTTPLogContext(helper.GetContext(), log.HTTPLogContext{
		CommandVerb: Verb.String(),
		Resource:    "dashboard",
	})
	dash := session.Admin.GetDashboardAPI()

	var view dashboardView
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		view.Stats, err = dash.Stats(log.WithHTTPLogContext(gctx, log.HTTPLogContext{Operation: "stats"}))
		return err
	})
	g.Go(func() error {
		var err error
		view.Activity, err = dash.RecentActivity(log.WithHTTPLogContext(gctx, log.HTTPLogContext{Operation: "activity"}))
		return err
	})
	if err := g.Wait(); err != nil {
		return cmdpkg.PrepareExecutionErrorWithHelper(helper, "Failed to load dashboard: "+err.Error(), err)
	}

	table := resources.ProjectActivity(view.Activity, false)
	return output.RenderForFormat(helper, outType, output.Result{
		Lines: resources.DescribeStats(view.Stats),
		Table: &table,
		Raw:   view,
	})
}
