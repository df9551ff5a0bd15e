// Package constants provides centralized string constants used throughout the application.
// This eliminates magic strings and provides a single source of truth for CLI text.
package constants

// AppName is the command name shown in the header and hints.
const AppName = "turbo-ncu"

// Icon constants for progress and table output.
const (
	// IconSuccess marks a finished step.
	IconSuccess = "✔"

	// IconFailure marks a failed step.
	IconFailure = "✖"

	// IconArrow separates the declared range from the new range.
	IconArrow = "→"
)

// SpinnerFrames are drawn in order while a step is running.
var SpinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Messages printed by the root command.
const (
	// MessageNoUpdates is printed when every checked dependency is current.
	MessageNoUpdates = "All dependencies match the latest package versions :)"

	// MessageUpgradeHint follows a report that found updates without --upgrade.
	MessageUpgradeHint = "Run " + AppName + " --upgrade to update your package.json"

	// MessageResolving is the spinner text while targets are resolved.
	MessageResolving = "Resolving packages..."
)
