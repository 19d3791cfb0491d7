package get

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	cmdpkg "github.com/castlekeep/castlectl/internal/cmd"
	"github.com/castlekeep/castlectl/internal/cmd/common"
	"github.com/castlekeep/castlectl/internal/cmd/output"
	jqoutput "github.com/castlekeep/castlectl/internal/cmd/output/jq"
	"github.com/castlekeep/castlectl/internal/log"
	"github.com/castlekeep/castlectl/internal/resources"
	"github.com/castlekeep/castlectl/internal/util/pagination"
)

func newResourceCmd(res resources.Resource) *cobra.Command {
	c := &cobra.Command{
		Use:     res.Name,
		Short:   fmt.Sprintf("List %s", strings.ToLower(res.Title)),
		Aliases: res.Aliases,
		Args:    cobra.NoArgs,
		PreRunE: bindJQFlags,
		RunE: func(c *cobra.Command, args []string) error {
			return listResource(cmdpkg.BuildHelper(c, args), res)
		},
	}
	c.Flags().Int(common.PageFlagName, 1, "Page of results to retrieve, starting at 1.")
	jqoutput.AddFlags(c.Flags())
	return c
}

func bindJQFlags(c *cobra.Command, args []string) error {
	cfg, err := cmdpkg.BuildHelper(c, args).GetConfig()
	if err != nil {
		return err
	}
	return jqoutput.BindFlags(cfg, c.Flags())
}

func listResource(helper cmdpkg.Helper, res resources.Resource) error {
	page, err := helper.GetCmd().Flags().GetInt(common.PageFlagName)
	if err != nil {
		return err
	}
	if page < 1 {
		return &cmdpkg.ConfigurationError{Err: fmt.Errorf("--%s must be at least 1, got %d", common.PageFlagName, page)}
	}
	outType, err := helper.GetOutputFormat()
	if err != nil {
		return err
	}
	session, err := cmdpkg.PrepareAdmin(helper)
	if err != nil {
		return err
	}
	size, err := session.PageSize()
	if err != nil {
		return err
	}

	ctx := log.WithHTTPLogContext(helper.GetContext(), log.HTTPLogContext{
		CommandVerb: Verb.String(),
		Resource:    res.Name,
		Operation:   "list",
		Page:        page,
	})
	result, err := res.Binding(session.Admin).List(ctx, page, size)
	if err != nil {
		session.Logger.Debug("list failed", "resource", res.Name, "page", page, "error", err)
		return cmdpkg.PrepareExecutionErrorWithHelper(helper,
			fmt.Sprintf("Failed to load %s: %v", strings.ToLower(res.Title), err), err)
	}

	table := res.Project(result.Records, false)
	return output.RenderForFormat(helper, outType, output.Result{
		Table:  &table,
		Footer: pagination.Label(page, result.Pages),
		Raw:    result,
	})
}
