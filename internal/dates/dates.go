// Package dates parses free-text festival date strings into concrete ranges.
//
// Catalog dates are Spanish-language free text ("3-7 Junio 2026",
// "17-19 & 24-26 Julio 2026", "Mayo 2026"). Parsing is an ordered list of
// pattern strategies; the first one that produces ranges wins, and a string
// no pattern understands yields zero ranges. The parser is presentation-only:
// it feeds the calendar view and never touches match scoring or the catalog.
package dates

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Range is one contiguous span of festival days, inclusive on both ends.
type Range struct {
	Start time.Time `json:"startDate"`
	End   time.Time `json:"endDate"`
}

// Contains reports whether day falls inside the range (date precision).
func (r Range) Contains(day time.Time) bool {
	return !day.Before(r.Start) && !day.After(r.End)
}

var months = map[string]time.Month{
	"enero":      time.January,
	"febrero":    time.February,
	"marzo":      time.March,
	"abril":      time.April,
	"mayo":       time.May,
	"junio":      time.June,
	"julio":      time.July,
	"agosto":     time.August,
	"septiembre": time.September,
	"octubre":    time.October,
	"noviembre":  time.November,
	"diciembre":  time.December,
}

func monthIndex(token string) (time.Month, bool) {
	m, ok := months[strings.ToLower(token)]
	return m, ok
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// pattern tries to extract ranges from a dates string; nil means no match
// and the next pattern gets a turn.
type pattern func(s string) []Range

// Patterns in priority order. Each festival string is run through the chain
// independently; the first non-nil result is final.
var patterns = []pattern{
	parseWholeMonth,
	parseCrossMonth,
	parseAmpersandRanges,
	parseDayRange,
}

// Parse extracts zero or more date ranges from a festival's dates string.
func Parse(dates string) []Range {
	s := strings.TrimSpace(dates)
	if s == "" {
		return nil
	}

	for _, p := range patterns {
		if ranges := p(s); ranges != nil {
			return ranges
		}
	}

	return nil
}

var wholeMonthRe = regexp.MustCompile(`^(\pL+)\s+(\d{4})$`)

// parseWholeMonth handles "Mayo 2026": the whole month.
func parseWholeMonth(s string) []Range {
	m := wholeMonthRe.FindStringSubmatch(s)
	if m == nil {
		return nil
	}

	month, ok := monthIndex(m[1])
	if !ok {
		return nil
	}
	year, _ := strconv.Atoi(m[2])

	first := date(year, month, 1)
	last := first.AddDate(0, 1, -1)
	return []Range{{Start: first, End: last}}
}

var crossMonthRe = regexp.MustCompile(`(\d+)\s+(\pL+)\s*-\s*(\d+)\s+(\pL+)\s+(\d{4})`)

// parseCrossMonth handles "27 Junio - 4 Julio 2026".
func parseCrossMonth(s string) []Range {
	m := crossMonthRe.FindStringSubmatch(s)
	if m == nil {
		return nil
	}

	startMonth, okStart := monthIndex(m[2])
	endMonth, okEnd := monthIndex(m[4])
	if !okStart || !okEnd {
		return nil
	}

	startDay, _ := strconv.Atoi(m[1])
	endDay, _ := strconv.Atoi(m[3])
	year, _ := strconv.Atoi(m[5])

	return []Range{{
		Start: date(year, startMonth, startDay),
		End:   date(year, endMonth, endDay),
	}}
}

var (
	yearRe      = regexp.MustCompile(`(\d{4})`)
	monthYearRe = regexp.MustCompile(`(\pL+)\s+\d{4}`)
	dayPairRe   = regexp.MustCompile(`(\d+)-(\d+)`)
)

// parseAmpersandRanges handles "17-19 & 24-26 Julio 2026": disjoint day
// ranges sharing one month and year parsed from the whole string.
func parseAmpersandRanges(s string) []Range {
	if !strings.Contains(s, "&") {
		return nil
	}

	yearMatch := yearRe.FindStringSubmatch(s)
	monthMatch := monthYearRe.FindStringSubmatch(s)
	if yearMatch == nil || monthMatch == nil {
		return nil
	}

	month, ok := monthIndex(monthMatch[1])
	if !ok {
		return nil
	}
	year, _ := strconv.Atoi(yearMatch[1])

	var ranges []Range
	for _, part := range strings.Split(s, "&") {
		pair := dayPairRe.FindStringSubmatch(strings.TrimSpace(part))
		if pair == nil {
			continue
		}
		startDay, _ := strconv.Atoi(pair[1])
		endDay, _ := strconv.Atoi(pair[2])
		ranges = append(ranges, Range{
			Start: date(year, month, startDay),
			End:   date(year, month, endDay),
		})
	}

	return ranges
}

var dayRangeRe = regexp.MustCompile(`(\d+)-(\d+)\s+(\pL+)\s+(\d{4})`)

// parseDayRange handles "3-7 Junio 2026": a day range within one month.
func parseDayRange(s string) []Range {
	m := dayRangeRe.FindStringSubmatch(s)
	if m == nil {
		return nil
	}

	month, ok := monthIndex(m[3])
	if !ok {
		return nil
	}

	startDay, _ := strconv.Atoi(m[1])
	endDay, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[4])

	return []Range{{
		Start: date(year, month, startDay),
		End:   date(year, month, endDay),
	}}
}
