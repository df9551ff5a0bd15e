package cmd

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

// Version information set at build time via ldflags.
// Example: go build -ldflags="-X github.com/ajxudir/turboncu/cmd.Version=1.0.0"
var (
	// Version is the semantic version of the build.
	Version = "dev"
	// BuildTime is the timestamp of the build.
	BuildTime = ""
	// GitCommit is the git commit hash of the build.
	GitCommit = ""
	// BuildOS is the target OS the binary was built for.
	BuildOS = ""
	// BuildArch is the target architecture the binary was built for.
	BuildArch = ""
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version and build information",
		Long:  `Show version, build date, and system information.`,
		Args:  cobra.NoArgs,
		Run:   runVersion,
	}
}

// runVersion prints the build target, runtime platform (if different), Go
// version, build date, git commit and version.
func runVersion(cmd *cobra.Command, args []string) {
	var w io.Writer = os.Stdout
	if cmd != nil {
		w = cmd.OutOrStdout()
	}

	buildOS, buildArch := getBuildTarget()
	_, _ = fmt.Fprintf(w, "  Build:   %s/%s\n", buildOS, buildArch)

	if buildOS != runtime.GOOS || buildArch != runtime.GOARCH {
		_, _ = fmt.Fprintf(w, "  Runtime: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	}

	_, _ = fmt.Fprintf(w, "  Go:      %s\n", runtime.Version())
	if BuildTime != "" {
		_, _ = fmt.Fprintf(w, "  Date:    %s\n", BuildTime)
	}
	if GitCommit != "" {
		_, _ = fmt.Fprintf(w, "  Git:     %s\n", GitCommit)
	}
	_, _ = fmt.Fprintf(w, "  Version: %s\n", Version)
}

// getBuildTarget returns the OS and architecture the binary was built for,
// falling back to runtime values for dev builds where ldflags weren't set.
//
// Returns:
//   - string: Target operating system (e.g., "linux", "darwin", "windows")
//   - string: Target architecture (e.g., "amd64", "arm64")
func getBuildTarget() (string, string) {
	buildOS := BuildOS
	buildArch := BuildArch

	if buildOS == "" {
		buildOS = runtime.GOOS
	}
	if buildArch == "" {
		buildArch = runtime.GOARCH
	}

	return buildOS, buildArch
}
