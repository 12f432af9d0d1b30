package utils

import (
	"strconv"
	"strings"
)

// FormatIDR formats a whole-rupiah amount as a string like "Rp 5.000.000".
// Uses dot as thousands separator (Indonesian convention).
func FormatIDR(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	s := strconv.FormatInt(amount, 10)
	if len(s) <= 3 {
		if neg {
			return "-Rp " + s
		}
		return "Rp " + s
	}

	var b strings.Builder
	// Pre-allocate: digits + separators + prefix
	b.Grow(len(s) + len(s)/3 + 4)
	if neg {
		b.WriteString("-Rp ")
	} else {
		b.WriteString("Rp ")
	}

	// Insert separators from the left.
	rem := len(s) % 3
	if rem == 0 {
		rem = 3
	}
	b.WriteString(s[:rem])
	for i := rem; i < len(s); i += 3 {
		b.WriteByte('.')
		b.WriteString(s[i : i+3])
	}

	return b.String()
}
