package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
)

type deleteContextKey string

const deleteApproveContextKey deleteContextKey = "castlectl-delete-approve"

// ErrDeleteCancelled is the message returned when the prompt is not answered with yes.
const ErrDeleteCancelled = "delete cancelled"

// SetDeleteApprove stores the --approve flag state on the command context.
func SetDeleteApprove(cmd *cobra.Command, approved bool) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, deleteApproveContextKey, approved))
}

// DeleteApproved reports whether the user opted to skip the confirmation prompt.
func DeleteApproved(helper Helper) bool {
	if helper == nil || helper.GetCmd() == nil {
		return false
	}
	approved, _ := helper.GetContext().Value(deleteApproveContextKey).(bool)
	return approved
}

// ConfirmDelete asks the user to type "yes" before a record is removed. It
// returns an ExecutionError for any other answer, a closed input, an
// interrupt or a cancelled context.
func ConfirmDelete(helper Helper, description string, warnings ...string) error {
	if DeleteApproved(helper) {
		return nil
	}

	streams := helper.GetStreams()
	fmt.Fprintf(streams.Out, "\nYou are about to delete %s\n", description)
	for _, warning := range warnings {
		if strings.TrimSpace(warning) != "" {
			fmt.Fprintln(streams.Out, warning)
		}
	}
	fmt.Fprint(streams.Out, "\nDo you want to continue? Type 'yes' to confirm: ")

	input := streams.In
	if f, ok := input.(*os.File); ok && f.Fd() == os.Stdin.Fd() {
		if tty, err := os.OpenFile("/dev/tty", os.O_RDONLY, 0); err == nil {
			defer tty.Close()
			input = tty
		}
	}

	answers := make(chan string, 1)
	go func(r io.Reader) {
		line, err := bufio.NewReader(r).ReadString('\n')
		if err != nil && line == "" {
			close(answers)
			return
		}
		answers <- line
	}(input)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)

	select {
	case <-helper.GetContext().Done():
	case <-sigCh:
	case line, ok := <-answers:
		if ok && strings.EqualFold(strings.TrimSpace(line), "yes") {
			return nil
		}
	}
	return PrepareExecutionErrorMsg(helper, ErrDeleteCancelled)
}
