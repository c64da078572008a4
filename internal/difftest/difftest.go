// Package difftest renders a unified diff between an expected and actual string, for use in test
// failure messages where a line-by-line comparison is more readable than a quoted string dump.
package difftest

import (
	"fmt"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

// Diff returns a unified diff between want and got, or "" if they're equal.
func Diff(want, got string) string {
	if want == got {
		return ""
	}
	edits := myers.ComputeEdits(span.URIFromPath("want"), want, got)
	return fmt.Sprint(gotextdiff.ToUnified("want", "got", want, edits))
}
