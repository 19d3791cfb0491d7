package build

import "fmt"

type Key struct{}

// InfoKey stores the *Info for the running binary in a command context.
var InfoKey = Key{}

type Info struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
	Date    string `json:"date" yaml:"date"`
}

// UserAgent returns the value sent in the User-Agent header of admin API calls.
func (i *Info) UserAgent(cliName string) string {
	if i == nil || i.Version == "" {
		return cliName + "/dev"
	}
	return fmt.Sprintf("%s/%s", cliName, i.Version)
}
