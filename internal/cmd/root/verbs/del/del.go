package del

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	cmdpkg "github.com/castlekeep/castlectl/internal/cmd"
	"github.com/castlekeep/castlectl/internal/cmd/output"
	"github.com/castlekeep/castlectl/internal/cmd/root/verbs"
	"github.com/castlekeep/castlectl/internal/log"
	"github.com/castlekeep/castlectl/internal/meta"
	"github.com/castlekeep/castlectl/internal/resources"
	"github.com/castlekeep/castlectl/internal/util/i18n"
	"github.com/castlekeep/castlectl/internal/util/normalizers"
)

const (
	Verb = verbs.Delete

	ApproveFlagName = "approve"
)

var (
	deleteUse = Verb.String()

	deleteShort = i18n.T("root.verbs.delete.deleteShort", "Delete an admin record")

	deleteLong = normalizers.LongDesc(i18n.T("root.verbs.delete.deleteLong",
		`Use delete to remove a user or a focus session by id.

The command asks you to type 'yes' before anything is removed unless
--approve is given. Castle grounds cannot be deleted.`))

	deleteExamples = normalizers.Examples(i18n.T("root.verbs.delete.deleteExamples",
		fmt.Sprintf(`
		# Delete a user after confirming
		%[1]s delete users 64f1c2
		# Delete a focus session without a prompt
		%[1]s delete focus-sessions fs-99 --approve
		`, meta.CLIName)))
)

func NewDeleteCmd() *cobra.Command {
	var approve bool

	cmd := &cobra.Command{
		Use:     deleteUse,
		Short:   deleteShort,
		Long:    deleteLong,
		Example: deleteExamples,
		Aliases: []string{"d", "D", "del", "rm", "DEL", "RM"},
		PersistentPreRun: func(c *cobra.Command, _ []string) {
			c.SetContext(context.WithValue(c.Context(), verbs.Verb, Verb))
			cmdpkg.SetDeleteApprove(c, approve)
		},
	}
	cmd.PersistentFlags().BoolVar(&approve, ApproveFlagName, false,
		"Skip the confirmation prompt (not configurable)")

	for _, res := range resources.All() {
		cmd.AddCommand(newResourceCmd(res))
	}
	return cmd
}

func newResourceCmd(res resources.Resource) *cobra.Command {
	return &cobra.Command{
		Use:     res.Name + " <id>",
		Short:   fmt.Sprintf("Delete a %s", res.Noun),
		Aliases: res.Aliases,
		Args:    verbs.ExactlyOneID,
		RunE: func(c *cobra.Command, args []string) error {
			return deleteRecord(cmdpkg.BuildHelper(c, args), res.Name)
		},
	}
}

func deleteRecord(helper cmdpkg.Helper, name string) error {
	res, err := cmdpkg.RequireResource(name, resources.ActionDelete)
	if err != nil {
		return err
	}
	id := strings.TrimSpace(helper.GetArgs()[0])

	outType, err := helper.GetOutputFormat()
	if err != nil {
		return err
	}
	session, err := cmdpkg.PrepareAdmin(helper)
	if err != nil {
		return err
	}

	if err := cmdpkg.ConfirmDelete(helper, fmt.Sprintf("%s %s", res.Noun, id),
		"This cannot be undone."); err != nil {
		return err
	}

	ctx := log.WithHTTPLogContext(helper.GetContext(), log.HTTPLogContext{
		CommandVerb: Verb.String(),
		Resource:    res.Name,
		Operation:   "delete",
	})
	if err := res.Binding(session.Admin).Delete(ctx, id); err != nil {
		return cmdpkg.PrepareExecutionErrorWithHelper(helper,
			fmt.Sprintf("Failed to delete %s: %v", res.Noun, err), err, "id", id)
	}
	session.Logger.Info("record deleted", "resource", res.Name, "id", id)

	return output.RenderForFormat(helper, outType, output.Result{
		Footer: fmt.Sprintf("%s %s deleted", res.TitleNoun(), id),
		Raw:    map[string]any{"id": id, "deleted": true},
	})
}
