// Package completion derives checklist progress figures. Percentages are
// computed here and only here, so list, detail, and stats views can never
// disagree about the same checklist. Nothing in this package is persisted.
package completion

import "math"

// Percentage returns round(completed/total*100), or 0 for an empty checklist.
func Percentage(total, completed int64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}
