package patch

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	cmdpkg "github.com/castlekeep/castlectl/internal/cmd"
	"github.com/castlekeep/castlectl/internal/cmd/output"
	"github.com/castlekeep/castlectl/internal/cmd/root/verbs"
	"github.com/castlekeep/castlectl/internal/console/pagectl"
	"github.com/castlekeep/castlectl/internal/log"
	"github.com/castlekeep/castlectl/internal/resources"
)

const (
	SetFlagName   = "set"
	FileFlagName  = "file"
	FileFlagShort = "f"
)

func newResourceCmd(res resources.Resource) *cobra.Command {
	c := &cobra.Command{
		Use:     res.Name + " <id>",
		Short:   fmt.Sprintf("Update a %s", res.Noun),
		Aliases: res.Aliases,
		Args:    verbs.ExactlyOneID,
		RunE: func(c *cobra.Command, args []string) error {
			return patchRecord(cmdpkg.BuildHelper(c, args), res.Name)
		},
	}
	keys := make([]string, 0, len(res.EditFields))
	for _, f := range res.EditFields {
		keys = append(keys, f.Key)
	}
	allowed := "none"
	if len(keys) > 0 {
		allowed = strings.Join(keys, "|")
	}
	c.Flags().StringArray(SetFlagName, nil,
		fmt.Sprintf(`Field to update as key=value. May be repeated.
- Fields: [ %s ]`, allowed))
	c.Flags().StringP(FileFlagName, FileFlagShort, "",
		"YAML file of field values to update, or - for stdin. --set takes precedence.")
	return c
}

func patchRecord(helper cmdpkg.Helper, name string) error {
	res, err := cmdpkg.RequireResource(name, resources.ActionEdit)
	if err != nil {
		return err
	}
	id := strings.TrimSpace(helper.GetArgs()[0])

	values, err := collectValues(helper)
	if err != nil {
		return &cmdpkg.ConfigurationError{Err: err}
	}
	if len(values) == 0 {
		return &cmdpkg.ConfigurationError{
			Err: fmt.Errorf("nothing to update, use --%s or --%s", SetFlagName, FileFlagName),
		}
	}
	draft, err := pagectl.PartialDraft(res.EditFields, values)
	if err != nil {
		return &cmdpkg.ConfigurationError{Err: err}
	}
	payload, err := draft.Payload()
	if err != nil {
		return &cmdpkg.ConfigurationError{Err: fmt.Errorf("invalid %s: %w", res.Noun, err)}
	}
	if len(payload) == 0 {
		return &cmdpkg.ConfigurationError{
			Err: fmt.Errorf("nothing to update, use --%s or --%s", SetFlagName, FileFlagName),
		}
	}

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
		Resource:    res.Name,
		Operation:   "update",
	})
	if err := res.Binding(session.Admin).Update(ctx, id, payload); err != nil {
		return cmdpkg.PrepareExecutionErrorWithHelper(helper,
			fmt.Sprintf("Failed to update %s: %v", res.Noun, err), err, "id", id)
	}
	session.Logger.Info("record updated", "resource", res.Name, "id", id)

	return output.RenderForFormat(helper, outType, output.Result{
		Footer: fmt.Sprintf("%s %s updated", res.TitleNoun(), id),
		Raw:    map[string]any{"id": id, "updated": payload},
	})
}

// collectValues merges the --file draft with the --set pairs.
func collectValues(helper cmdpkg.Helper) (map[string]string, error) {
	flags := helper.GetCmd().Flags()
	values := map[string]string{}

	path, err := flags.GetString(FileFlagName)
	if err != nil {
		return nil, err
	}
	if path != "" {
		fromFile, err := readDraftFile(path, helper.GetStreams().In)
		if err != nil {
			return nil, err
		}
		for k, v := range fromFile {
			values[k] = v
		}
	}

	pairs, err := flags.GetStringArray(SetFlagName)
	if err != nil {
		return nil, err
	}
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --%s value %q, expected key=value", SetFlagName, pair)
		}
		values[k] = v
	}
	return values, nil
}

func readDraftFile(path string, stdin io.Reader) (map[string]string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading draft %s: %w", path, err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing draft %s: %w", path, err)
	}
	out := make(map[string]string, len(doc))
	for k, v := range doc {
		switch v := v.(type) {
		case nil:
			out[k] = ""
		case map[string]any, []any:
			return nil, fmt.Errorf("draft field %q must be a single value", k)
		default:
			out[k] = fmt.Sprint(v)
		}
	}
	return out, nil
}
