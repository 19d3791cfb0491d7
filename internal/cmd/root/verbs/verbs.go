package verbs

import (
	"fmt"

	"github.com/spf13/cobra"
)

const (
	Get     = VerbValue("get")
	Patch   = VerbValue("patch")
	Delete  = VerbValue("delete")
	View    = VerbValue("view")
	Version = VerbValue("version")
)

// Empty type to represent the _type_ Verb. Genesis is to support a key in a Context
type VerbKey struct{}

// Verb is a global instance of the VerbKey type
var Verb = VerbKey{}

// Will represent a specific Verb (get, patch, delete, etc)
type VerbValue string

func (v VerbValue) String() string {
	return string(v)
}

// ExactlyOneID validates that a resource command received a single record id.
func ExactlyOneID(_ *cobra.Command, args []string) error {
	switch len(args) {
	case 0:
		return fmt.Errorf("a record id is required")
	case 1:
		return nil
	default:
		return fmt.Errorf("expected a single record id, got %d arguments", len(args))
	}
}
