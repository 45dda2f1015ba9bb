package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"

	"github.com/matzehuels/jigsaw/pkg/errors"
)

// Exit codes returned by [ExitCode].
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitUnsolved = 2
	ExitMismatch = 3
	ExitCanceled = 130
)

// Execute runs the jigsaw CLI with os.Args and returns the first error.
//
// Logging goes to stderr at info level; --verbose switches to debug and
// the config file may add a rotating log file.
//
// Example:
//
//	func main() {
//	    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
//	    defer stop()
//	    if err := cli.Execute(ctx); err != nil {
//	        cli.PrintError(err)
//	        os.Exit(cli.ExitCode(err))
//	    }
//	}
func Execute(ctx context.Context) error {
	c := New(os.Stderr, LogInfo)
	defer c.Close()
	return c.RootCommand().ExecuteContext(ctx)
}

// ExitCode maps an error returned by [Execute] to a process exit code:
// 2 for puzzles that cannot be solved, 3 when a result differs from an
// expected value, 130 on interrupt and 1 for everything else.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case stderrors.Is(err, context.Canceled):
		return ExitCanceled
	case errors.Is(err, errors.ErrCodeResultMismatch):
		return ExitMismatch
	case errors.IsSolverError(err):
		return ExitUnsolved
	default:
		return ExitFailure
	}
}

// PrintError writes err to stderr with the error icon.
func PrintError(err error) {
	fmt.Fprintln(os.Stderr, styleIconError.Render(iconError)+" "+err.Error())
}
