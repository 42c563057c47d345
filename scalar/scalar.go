/*
Package scalar implements the two wire scalars spec §6 names: fuzzy-date
(three precisions: year, year-month, year-month-day) and timestamp (RFC3339
plus the teacher's relative-duration shortcuts). Both round-trip losslessly:
parse(serialize(x)) == x for every accepted precision.

Grounded on util.FineTimeSecs for the relative-shortcut grammar and
reflectutil.Coerce's int/string coercion conventions.
*/
package scalar

import (
	"fmt"
	"time"

	"github.com/Jakan-Kink/stash-graphql-client/util"
)

// Precision names the granularity a FuzzyDate was parsed at, so that
// re-serializing emits exactly the form it was read in.
type Precision uint8

const (
	Year Precision = iota
	YearMonth
	YearMonthDay
)

// FuzzyDate is a date accepted at one of three precisions. The zero value is
// not a valid FuzzyDate; always obtain one through ParseFuzzyDate.
type FuzzyDate struct {
	Year      int
	Month     int // 1-12, 0 if Precision == Year
	Day       int // 1-31, 0 if Precision < YearMonthDay
	Precision Precision
}

// ParseFuzzyDate accepts "YYYY", "YYYY-MM", or "YYYY-MM-DD".
func ParseFuzzyDate(s string) (FuzzyDate, error) {
	var y, m, d int
	switch len(s) {
	case 4:
		if _, err := fmt.Sscanf(s, "%04d", &y); err != nil {
			return FuzzyDate{}, fmt.Errorf("scalar: invalid fuzzy-date %q: %w", s, err)
		}
		return FuzzyDate{Year: y, Precision: Year}, nil
	case 7:
		if _, err := fmt.Sscanf(s, "%04d-%02d", &y, &m); err != nil {
			return FuzzyDate{}, fmt.Errorf("scalar: invalid fuzzy-date %q: %w", s, err)
		}
		if m < 1 || m > 12 {
			return FuzzyDate{}, fmt.Errorf("scalar: invalid fuzzy-date %q: month out of range", s)
		}
		return FuzzyDate{Year: y, Month: m, Precision: YearMonth}, nil
	case 10:
		if _, err := fmt.Sscanf(s, "%04d-%02d-%02d", &y, &m, &d); err != nil {
			return FuzzyDate{}, fmt.Errorf("scalar: invalid fuzzy-date %q: %w", s, err)
		}
		if m < 1 || m > 12 || d < 1 || d > 31 {
			return FuzzyDate{}, fmt.Errorf("scalar: invalid fuzzy-date %q: month/day out of range", s)
		}
		return FuzzyDate{Year: y, Month: m, Day: d, Precision: YearMonthDay}, nil
	default:
		return FuzzyDate{}, fmt.Errorf("scalar: invalid fuzzy-date %q: unrecognized precision", s)
	}
}

// String serializes d back to the precision it was parsed at.
func (d FuzzyDate) String() string {
	switch d.Precision {
	case Year:
		return fmt.Sprintf("%04d", d.Year)
	case YearMonth:
		return fmt.Sprintf("%04d-%02d", d.Year, d.Month)
	default:
		return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
	}
}

// Timestamp is a wire scalar accepting RFC3339 or a relative shortcut
// ("2h, 30m" meaning 2h30m before now, per util.FineTimeSecs' grammar).
// Relative inputs are resolved to an absolute time.Time at parse time
// against the supplied reference instant, so a round-trip of the
// serialized RFC3339 form always reproduces the same instant.
type Timestamp struct {
	time.Time
}

// ParseTimestamp accepts an RFC3339 string, or a relative shortcut resolved
// against now.
func ParseTimestamp(s string, now time.Time) (Timestamp, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return Timestamp{t}, nil
	}
	secs, err := util.FineTimeSecs(s)
	if err != nil {
		return Timestamp{}, fmt.Errorf("scalar: invalid timestamp %q: not RFC3339 and not a relative shortcut: %w", s, err)
	}
	return Timestamp{now.Add(-time.Duration(secs) * time.Second)}, nil
}

// String always serializes to RFC3339, regardless of how the Timestamp was
// parsed, since a relative shortcut has no stable textual round-trip of its
// own — only the resolved instant does.
func (t Timestamp) String() string {
	return t.Time.Format(time.RFC3339Nano)
}
