// Package dateparse turns free-text CV dates into normalized month/year pairs.
//
// Months are always two digits and years four digits. Nothing here returns an
// error: input that matches no known pattern yields an empty Range.
package dateparse

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Range is a normalized date range. Nil fields were not found in the input.
// When IsCurrent is set the end fields are always nil.
type Range struct {
	StartMonth *string `json:"start_month"`
	StartYear  *string `json:"start_year"`
	EndMonth   *string `json:"end_month"`
	EndYear    *string `json:"end_year"`
	IsCurrent  bool    `json:"is_current"`
}

var (
	presentRe   = regexp.MustCompile(`(?i)present|current|aujourd['’]hui|maintenant`)
	monthYearRe = regexp.MustCompile(`(\d{4})|(\d{1,2})/(\d{4})`)
	durationRe  = regexp.MustCompile(`(?i)(\d{4})\s*[-–]\s*(\d{4}|present|current)`)
	yearRe      = regexp.MustCompile(`(\d{4})`)

	ongoingRe   = regexp.MustCompile(`(?i)present|current|\bnow\b|aujourd['’]hui|maintenant|actuel|ongoing`)
	isoRe       = regexp.MustCompile(`(\d{4})[-/](\d{1,2})`)
	reversedRe  = regexp.MustCompile(`(\d{1,2})[-/](\d{4})`)
	bareYearRe  = regexp.MustCompile(`\b((?:19|20)\d{2})\b`)
	monthNameRe = buildMonthNameRe()
)

// ParseRange parses separate start and end texts. Each side may be a bare
// year or M/YYYY. An end text saying present, current, aujourd'hui or
// maintenant marks the range as current.
func ParseRange(start, end string) Range {
	var r Range
	if strings.TrimSpace(start) != "" {
		r.StartMonth, r.StartYear = parseMonthYear(start)
	}
	if strings.TrimSpace(end) != "" {
		if presentRe.MatchString(end) {
			r.IsCurrent = true
		} else {
			r.EndMonth, r.EndYear = parseMonthYear(end)
		}
	}
	return r
}

func parseMonthYear(s string) (*string, *string) {
	m := monthYearRe.FindStringSubmatch(s)
	if m == nil {
		return nil, nil
	}
	if m[1] != "" {
		return nil, ptr(m[1])
	}
	return ptr(pad2(m[2])), ptr(m[3])
}

// ParseDuration parses a single combined range such as "2018 - 2022" or
// "2020 – present". A lone year is used for both ends.
func ParseDuration(duration string) Range {
	var r Range
	if strings.TrimSpace(duration) == "" {
		return r
	}
	r.IsCurrent = presentRe.MatchString(duration)

	if m := durationRe.FindStringSubmatch(duration); m != nil {
		r.StartYear = ptr(m[1])
		if !r.IsCurrent && yearRe.MatchString(m[2]) {
			r.EndYear = ptr(m[2])
		}
		return r
	}

	if m := yearRe.FindStringSubmatch(duration); m != nil {
		r.StartYear = ptr(m[1])
		if !r.IsCurrent {
			r.EndYear = ptr(m[1])
		}
	}
	return r
}

// ParseAdvanced accepts YYYY-MM, MM-YYYY, "<month name> YYYY" in French or
// English, and bare years. Without a start nothing is parsed; without an end
// the range is current.
func ParseAdvanced(start, end string) Range {
	var r Range
	if strings.TrimSpace(start) == "" {
		return r
	}

	s := parseFlexible(start)
	r.StartMonth, r.StartYear = s.month, s.year

	var e flexible
	if strings.TrimSpace(end) != "" {
		e = parseFlexible(end)
	}
	r.IsCurrent = e.current || strings.TrimSpace(end) == ""
	if !r.IsCurrent {
		r.EndMonth, r.EndYear = e.month, e.year
	}
	return r
}

type flexible struct {
	month   *string
	year    *string
	current bool
}

func parseFlexible(s string) flexible {
	s = strings.TrimSpace(s)
	if ongoingRe.MatchString(s) {
		return flexible{current: true}
	}

	if m := isoRe.FindStringSubmatch(s); m != nil && validMonth(m[2]) {
		return flexible{month: ptr(pad2(m[2])), year: ptr(m[1])}
	}
	if m := reversedRe.FindStringSubmatch(s); m != nil && validMonth(m[1]) {
		return flexible{month: ptr(pad2(m[1])), year: ptr(m[2])}
	}
	// Month names before bare years, otherwise "janvier 2020" loses its month.
	if m := monthNameRe.FindStringSubmatch(s); m != nil {
		if month, ok := monthNumbers[strings.ToLower(m[1])]; ok {
			return flexible{month: ptr(month), year: ptr(m[2])}
		}
	}
	if m := bareYearRe.FindStringSubmatch(s); m != nil {
		return flexible{year: ptr(m[1])}
	}
	return flexible{}
}

var monthNumbers = map[string]string{
	"janvier": "01", "january": "01", "janv": "01", "jan": "01",
	"février": "02", "fevrier": "02", "february": "02", "févr": "02", "fevr": "02", "fév": "02", "fev": "02", "feb": "02",
	"mars": "03", "march": "03", "mar": "03",
	"avril": "04", "april": "04", "avr": "04", "apr": "04",
	"mai": "05", "may": "05",
	"juin": "06", "june": "06", "jun": "06",
	"juillet": "07", "july": "07", "juil": "07", "jul": "07",
	"août": "08", "aout": "08", "august": "08", "aug": "08",
	"septembre": "09", "september": "09", "sept": "09", "sep": "09",
	"octobre": "10", "october": "10", "oct": "10",
	"novembre": "11", "november": "11", "nov": "11",
	"décembre": "12", "decembre": "12", "december": "12", "déc": "12", "dec": "12",
}

func buildMonthNameRe() *regexp.Regexp {
	names := make([]string, 0, len(monthNumbers))
	for name := range monthNumbers {
		names = append(names, regexp.QuoteMeta(name))
	}
	// longest first so "juillet" wins over "juil"
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	return regexp.MustCompile(`(?i)(?:^|[^\p{L}])(` + strings.Join(names, "|") + `)\.?\s+(\d{4})`)
}

var frenchMonths = [12]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// MonthName returns the French name of a 1-12 month, or "" when invalid.
func MonthName(month string) string {
	n, err := strconv.Atoi(strings.TrimSpace(month))
	if err != nil || n < 1 || n > 12 {
		return ""
	}
	return frenchMonths[n-1]
}

// FormatMonthYear renders "janvier 2020", or just the year when the month is
// unknown.
func FormatMonthYear(month, year string) string {
	year = strings.TrimSpace(year)
	name := MonthName(month)
	switch {
	case year == "":
		return ""
	case name == "":
		return year
	default:
		return name + " " + year
	}
}

func validMonth(s string) bool {
	n, err := strconv.Atoi(s)
	return err == nil && n >= 1 && n <= 12
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

func ptr(s string) *string {
	return &s
}
