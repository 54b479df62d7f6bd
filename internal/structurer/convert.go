package structurer

import (
	"strconv"
	"strings"
)

// ConvertNum coerces a raw cell to its typed value. The decimal comma is
// replaced by a dot and grouping spaces are stripped, so "1 200,50" becomes
// 1200.5. A dot selects float, otherwise int; values that still fail to
// parse come back as the trimmed string. Empty cells are nil.
func ConvertNum(value string) any {
	if value == "" {
		return nil
	}

	v := strings.ReplaceAll(value, ",", ".")
	v = strings.ReplaceAll(v, " ", "")

	if strings.Contains(v, ".") {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	} else {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return strings.TrimSpace(value)
}
