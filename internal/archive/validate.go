package archive

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/holerite-dev/holerite/internal/id"
)

// ValidationError describes a single rule a month file breaks.
type ValidationError struct {
	RecordID    string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s]: %s", e.RecordID, e.Description)
}

// ValidateLines checks the rows of one month file: known kinds, one gross and
// one net row per record, IDs and periods inside the month, amounts in cents,
// and record sequences contiguous from 1.
func ValidateLines(lines []Line, year, month int) []ValidationError {
	var errs []ValidationError
	period := id.FormatPeriod(year, month)
	hundred := decimal.NewFromInt(100)

	type totals struct{ gross, net int }
	counts := make(map[string]*totals)
	var order []string
	seqSeen := make(map[int]bool)

	for _, l := range lines {
		c, ok := counts[l.RecordID]
		if !ok {
			c = &totals{}
			counts[l.RecordID] = c
			order = append(order, l.RecordID)

			y, m, seq, err := id.ParseRecordID(l.RecordID)
			switch {
			case err != nil:
				errs = append(errs, ValidationError{l.RecordID, fmt.Sprintf("invalid record ID: %v", err)})
			case y != year || m != month:
				errs = append(errs, ValidationError{l.RecordID, fmt.Sprintf("record ID not in %s", period)})
			default:
				seqSeen[seq] = true
			}
		}

		switch l.Kind {
		case KindGross:
			c.gross++
		case KindNet:
			c.net++
		}

		if !l.Kind.Valid() {
			errs = append(errs, ValidationError{l.RecordID, fmt.Sprintf("unknown line kind %q", l.Kind)})
		}
		if l.Period != period {
			errs = append(errs, ValidationError{l.RecordID, fmt.Sprintf("period %q not %s", l.Period, period)})
		}
		if scaled := l.Amount.Mul(hundred); !scaled.Equal(scaled.Floor()) {
			errs = append(errs, ValidationError{l.RecordID, fmt.Sprintf("%s amount %s has more than 2 decimal places", l.Kind, l.Amount)})
		}
	}

	for _, rid := range order {
		c := counts[rid]
		if c.gross != 1 {
			errs = append(errs, ValidationError{rid, fmt.Sprintf("expected 1 gross line, got %d", c.gross)})
		}
		if c.net != 1 {
			errs = append(errs, ValidationError{rid, fmt.Sprintf("expected 1 net line, got %d", c.net)})
		}
	}

	for i := 1; i <= len(seqSeen); i++ {
		if !seqSeen[i] {
			errs = append(errs, ValidationError{fmt.Sprintf("seq %d", i), fmt.Sprintf("missing sequence %d in 1..%d", i, len(seqSeen))})
		}
	}

	return errs
}
