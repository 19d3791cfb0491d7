// Package meta holds identifiers shared by every part of the CLI.
package meta

const (
	CLIName = "castlectl"

	// EnvPrefix is prepended to every environment variable read by the CLI.
	EnvPrefix = "CASTLECTL"

	// DefaultAdminBaseURL is where a locally running admin API listens.
	DefaultAdminBaseURL = "http://localhost:3000/api/admin"
)
