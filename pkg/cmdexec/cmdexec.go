// Package cmdexec runs external programs such as the npm CLI with a timeout
// and captured output.
package cmdexec

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/ajxudir/turboncu/pkg/verbose"
)

// ExecuteFunc is the function signature for command execution.
//
// Parameters:
//   - ctx: Context for cancellation
//   - dir: Working directory, empty for the current one
//   - timeout: Maximum run time, 0 for none
//   - name: Program to run (looked up in PATH)
//   - args: Program arguments
//
// Returns:
//   - []byte: Captured stdout
//   - error: Start failure, non-zero exit (with stderr text) or timeout
type ExecuteFunc func(ctx context.Context, dir string, timeout time.Duration, name string, args ...string) ([]byte, error)

// Execute is the command runner used throughout the application. Tests replace
// it with a fake.
var Execute ExecuteFunc = executeCommand

func executeCommand(ctx context.Context, dir string, timeout time.Duration, name string, args ...string) ([]byte, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("empty command")
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmdline := strings.TrimSpace(name + " " + strings.Join(args, " "))
	verbose.CommandExec(cmdline, dir)

	cmd := exec.CommandContext(ctx, name, args...)
	if dir != "" {
		cmd.Dir = dir
	}

	// Own process group so children die with the command on timeout.
	setProcGroup(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	verbose.CommandResult(cmdline, exitCode(cmd), stdout.String())
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded && timeout > 0 {
			if killErr := killProcGroup(cmd); killErr != nil {
				verbose.Warnf("failed to kill process group on timeout: %v", killErr)
			}
			return stdout.Bytes(), fmt.Errorf("%s timed out after %s: %w", name, timeout, err)
		}

		errMsg := strings.TrimSpace(stderr.String())
		if errMsg != "" {
			return stdout.Bytes(), fmt.Errorf("%w: %s", err, errMsg)
		}
		return stdout.Bytes(), err
	}

	return stdout.Bytes(), nil
}

func exitCode(cmd *exec.Cmd) int {
	if cmd.ProcessState == nil {
		return -1
	}
	return cmd.ProcessState.ExitCode()
}
