package output

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/iancoleman/orderedmap"

	"github.com/ajxudir/turboncu/pkg/check"
	"github.com/ajxudir/turboncu/pkg/constants"
	"github.com/ajxudir/turboncu/pkg/utils"
)

// FormatHeader returns the banner printed before a run on a terminal.
func FormatHeader(version string) string {
	return Bold.Render(constants.AppName) + Dim.Render(" v"+version)
}

// FormatJSON returns a JSON object mapping each package name to its new
// range, in first-seen order. A name updated in several sections keeps its
// first position and the last range.
//
// Parameters:
//   - updates: Updates across all targets
//
// Returns:
//   - string: Two-space indented JSON object
//   - error: Encoding failure
func FormatJSON(updates []check.Update) (string, error) {
	doc := orderedmap.New()
	doc.SetEscapeHTML(false)
	for _, u := range updates {
		doc.Set(u.Name, u.NewRange)
	}
	return encodeJSON(doc)
}

// FormatJSONAll returns the full update records as a JSON array.
func FormatJSONAll(updates []check.Update) (string, error) {
	if updates == nil {
		updates = []check.Update{}
	}
	return encodeJSON(updates)
}

func encodeJSON(v interface{}) (string, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// FormatSummary returns the closing line of a run.
//
// Parameters:
//   - totalChecked: Dependencies sent to the checker
//   - updatesCount: Updates found across all targets
//   - timeMs: Engine time summed across targets
//   - cacheHits: Packages answered from the cache
//   - cacheMisses: Packages fetched from the registry
//
// Returns:
//   - string: e.g. "3 updates found (2 fetched, 5 from cache) in 1.20s"
func FormatSummary(totalChecked, updatesCount int, timeMs int64, cacheHits, cacheMisses int) string {
	elapsed := Bold.Render(fmt.Sprintf("%.2fs", float64(timeMs)/1000))
	cacheInfo := fmt.Sprintf(" (%s, %s)",
		Success.Render(fmt.Sprintf("%d fetched", cacheMisses)),
		Info.Render(fmt.Sprintf("%d from cache", cacheHits)))

	lead := fmt.Sprintf("%d %s found", updatesCount, utils.Plural(updatesCount, "update", "updates"))
	if updatesCount == 0 {
		lead = fmt.Sprintf("Checked %d packages", totalChecked)
	}
	return Dim.Render(lead) + cacheInfo + Dim.Render(" in ") + elapsed
}

// FormatCheckedTarget is the spinner success text after one engine call.
func FormatCheckedTarget(count, fetched, fromCache int) string {
	return fmt.Sprintf("Checked %d packages (%d fetched, %d from cache)", count, fetched, fromCache)
}

// FormatInstallHint tells the user how to install rewritten ranges.
func FormatInstallHint(packageManager string) string {
	return Info.Render("Run " + Bold.Render(packageManager+" install") + " to install new versions")
}
