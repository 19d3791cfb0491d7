package patch

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
	Verb = verbs.Patch
)

var (
	patchUse = Verb.String()

	patchShort = i18n.T("root.verbs.patch.patchShort", "Update fields of an admin record")

	patchLong = normalizers.LongDesc(i18n.T("root.verbs.patch.patchLong",
		`Update the editable fields of a user or a castle ground. Only the fields
given with --set or in the --file draft are sent. Values are validated the
same way as in the interactive editor.`))

	patchExamples = normalizers.Examples(i18n.T("root.verbs.patch.patchExamples",
		fmt.Sprintf(`
		# Rename a user
		%[1]s patch users 64f1c2 --set name="Sir Kay"
		# Raise a castle to level 5 and grant coins
		%[1]s patch castle-grounds c42 --set level=5 --set coins=1200
		# Apply a yaml draft
		%[1]s patch users 64f1c2 --file draft.yaml
		`, meta.CLIName)))
)

func NewPatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     patchUse,
		Short:   patchShort,
		Long:    patchLong,
		Example: patchExamples,
		Aliases: []string{"p", "update"},
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(context.WithValue(cmd.Context(), verbs.Verb, Verb))
		},
	}

	for _, res := range resources.All() {
		cmd.AddCommand(newResourceCmd(res))
	}
	return cmd
}
