package id

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// FormatRecordID returns a payslip record ID like "2025-01-001".
func FormatRecordID(year, month, seq int) string {
	return fmt.Sprintf("%04d-%02d-%03d", year, month, seq)
}

// ParseRecordID parses "2025-01-001" into year, month, seq.
func ParseRecordID(id string) (year, month, seq int, err error) {
	parts := strings.SplitN(id, "-", 3)
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("invalid record ID format: %q", id)
	}

	year, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid year in record ID %q: %w", id, err)
	}

	month, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid month in record ID %q: %w", id, err)
	}
	if month < 1 || month > 12 {
		return 0, 0, 0, fmt.Errorf("month %d out of range in record ID %q", month, id)
	}

	seq, err = strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid sequence in record ID %q: %w", id, err)
	}

	return year, month, seq, nil
}

var (
	monthFirst = regexp.MustCompile(`^(\d{1,2})[/.\-](\d{4})$`)
	yearFirst  = regexp.MustCompile(`^(\d{4})[/.\-](\d{1,2})$`)
)

// ParsePeriod reads a pay period as printed on payslips: "01/2025",
// "1.2025", "2025-01" or "2025/01".
func ParsePeriod(s string) (year, month int, err error) {
	s = strings.TrimSpace(s)
	var ys, ms string
	if m := monthFirst.FindStringSubmatch(s); m != nil {
		ms, ys = m[1], m[2]
	} else if m := yearFirst.FindStringSubmatch(s); m != nil {
		ys, ms = m[1], m[2]
	} else {
		return 0, 0, fmt.Errorf("invalid pay period %q", s)
	}

	year, _ = strconv.Atoi(ys)
	month, _ = strconv.Atoi(ms)
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("month %d out of range in pay period %q", month, s)
	}
	return year, month, nil
}

// FormatPeriod returns the canonical "YYYY-MM" form.
func FormatPeriod(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}
