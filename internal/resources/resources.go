// Package resources describes the admin resources shown by the console and
// the CLI: their columns, detail fields, edit fields and allowed actions.
package resources

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/castlekeep/castlectl/internal/admin/api"
	"github.com/castlekeep/castlectl/internal/admin/helpers"
	"github.com/castlekeep/castlectl/internal/console/datatable"
	"github.com/castlekeep/castlectl/internal/console/pagectl"
	"github.com/castlekeep/castlectl/internal/util"
)

type Action string

const (
	ActionView   Action = "view"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

// DetailField is one labelled line of the view modal.
type DetailField struct {
	Label  string
	Render func(rec api.Record) string
}

// Binding selects the resource's endpoint group from an AdminAPI.
type Binding func(helpers.AdminAPI) api.ResourceAPI

type Resource struct {
	Name    string
	Aliases []string
	Title   string
	Noun    string

	Columns    []datatable.Column
	Details    []DetailField
	EditFields []pagectl.EditField
	Actions    []Action
	Binding    Binding
	// Placeholder replaces nil cells in columns without a renderer.
	Placeholder string
}

// TitleNoun is Noun in title case, e.g. "Focus Session".
func (r Resource) TitleNoun() string {
	return cases.Title(language.English).String(r.Noun)
}

func (r Resource) Allows(a Action) bool {
	return slices.Contains(r.Actions, a)
}

// Project renders records with this resource's columns.
func (r Resource) Project(records []api.Record, loading bool, opts ...datatable.Option) datatable.Projection {
	base := []datatable.Option{
		datatable.WithPlaceholder(r.Placeholder),
		datatable.WithEmptyMessage(fmt.Sprintf("No %s found.", strings.ToLower(r.Title))),
	}
	return datatable.Project(r.Columns, records, loading, append(base, opts...)...)
}

// Describe returns the label and value pairs shown when viewing rec.
func (r Resource) Describe(rec api.Record) [][2]string {
	out := make([][2]string, 0, len(r.Details))
	for _, d := range r.Details {
		out = append(out, [2]string{d.Label, d.Render(rec)})
	}
	return out
}

// Controller builds the page controller for this resource.
func (r Resource) Controller(admin helpers.AdminAPI, opts pagectl.Options) *pagectl.Controller {
	opts.Name = r.Name
	opts.Noun = r.Noun
	opts.EditFields = r.EditFields
	return pagectl.New(r.Binding(admin), opts)
}

// ActionError is returned when an action is requested on a resource that
// does not support it.
type ActionError struct {
	Resource string
	Action   Action
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s does not support %s", e.Resource, e.Action)
}

// Require returns an *ActionError when a is not allowed.
func (r Resource) Require(a Action) error {
	if r.Allows(a) {
		return nil
	}
	return &ActionError{Resource: r.Name, Action: a}
}

// All returns the paginated resources in navigation order.
func All() []Resource {
	return []Resource{Users(), FocusSessions(), CastleGrounds()}
}

// Names returns the canonical resource names.
func Names() []string {
	all := All()
	names := make([]string, 0, len(all))
	for _, r := range all {
		names = append(names, r.Name)
	}
	return names
}

// Lookup finds a resource by name or alias. Input is normalised, so
// "focusSessions", "Focus Sessions" and "focus_sessions" all match.
func Lookup(name string) (Resource, bool) {
	slug := util.Slugify(name)
	for _, r := range All() {
		if r.Name == slug || slices.Contains(r.Aliases, slug) {
			return r, true
		}
	}
	return Resource{}, false
}
