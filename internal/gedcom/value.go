package gedcom

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Calendars recognised by the date parser.
const (
	CalendarGregorian = "GREGORIAN"
	CalendarJulian    = "JULIAN"
	CalendarFrench    = "FRENCH_R"
	CalendarHebrew    = "HEBREW"
)

// DateKind classifies a DateValue.
type DateKind int

const (
	// DateEmpty is a DATE with no payload.
	DateEmpty DateKind = iota
	// DateExact is a plain date.
	DateExact
	// DateApprox is ABT, CAL or EST followed by a date.
	DateApprox
	// DateRange is BEF, AFT or BET ... AND ....
	DateRange
	// DatePeriod is FROM ..., TO ... or FROM ... TO ....
	DatePeriod
)

// Date is a single calendar date. Month and Day are 0 when omitted.
type Date struct {
	Calendar string
	Year     int
	Month    int
	Day      int
	BCE      bool
}

// IsZero reports whether no year was given.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// String renders the date in GEDCOM form without the calendar keyword for
// Gregorian dates.
func (d Date) String() string {
	var parts []string
	if d.Calendar != "" && d.Calendar != CalendarGregorian {
		parts = append(parts, d.Calendar)
	}
	if d.Day > 0 {
		parts = append(parts, strconv.Itoa(d.Day))
	}
	if d.Month > 0 {
		months := monthNames(d.Calendar)
		if d.Month <= len(months) {
			parts = append(parts, months[d.Month-1])
		}
	}
	parts = append(parts, strconv.Itoa(d.Year))
	if d.BCE {
		parts = append(parts, "BCE")
	}
	return strings.Join(parts, " ")
}

// DateValue is the typed payload of a DATE structure.
type DateValue struct {
	Kind DateKind
	// Qualifier is ABT, CAL, EST, BEF, AFT, BET, FROM or TO, or "" for an
	// exact date. A period written "FROM a TO b" has Qualifier FROM and End.
	Qualifier string
	Date      Date
	// End is the second date of BET/AND and FROM/TO.
	End    Date
	HasEnd bool
}

// String renders the value back into GEDCOM form.
func (v DateValue) String() string {
	switch v.Kind {
	case DateEmpty:
		return ""
	case DateExact:
		return v.Date.String()
	}
	s := v.Qualifier + " " + v.Date.String()
	if v.HasEnd {
		sep := "AND"
		if v.Qualifier == "FROM" {
			sep = "TO"
		}
		s += " " + sep + " " + v.End.String()
	}
	return s
}

var (
	gregorianMonths = []string{"JAN", "FEB", "MAR", "APR", "MAY", "JUN", "JUL", "AUG", "SEP", "OCT", "NOV", "DEC"}
	frenchMonths    = []string{"VEND", "BRUM", "FRIM", "NIVO", "PLUV", "VENT", "GERM", "FLOR", "PRAI", "MESS", "THER", "FRUC", "COMP"}
	hebrewMonths    = []string{"TSH", "CSH", "KSL", "TVT", "SHV", "ADR", "ADS", "NSN", "IYR", "SVN", "TMZ", "AAV", "ELL"}
)

func monthNames(calendar string) []string {
	switch calendar {
	case CalendarFrench:
		return frenchMonths
	case CalendarHebrew:
		return hebrewMonths
	default:
		return gregorianMonths
	}
}

// ParseDateValue parses a DATE payload. An empty string yields a DateEmpty
// value.
func ParseDateValue(s string) (DateValue, error) {
	fields := strings.Fields(strings.ToUpper(s))
	if len(fields) == 0 {
		return DateValue{Kind: DateEmpty}, nil
	}

	switch fields[0] {
	case "ABT", "CAL", "EST":
		d, err := parseDate(fields[1:])
		if err != nil {
			return DateValue{}, err
		}
		return DateValue{Kind: DateApprox, Qualifier: fields[0], Date: d}, nil
	case "BEF", "AFT":
		d, err := parseDate(fields[1:])
		if err != nil {
			return DateValue{}, err
		}
		return DateValue{Kind: DateRange, Qualifier: fields[0], Date: d}, nil
	case "BET":
		first, second, ok := splitOn(fields[1:], "AND")
		if !ok {
			return DateValue{}, fmt.Errorf("BET without AND in %q", s)
		}
		d1, err := parseDate(first)
		if err != nil {
			return DateValue{}, err
		}
		d2, err := parseDate(second)
		if err != nil {
			return DateValue{}, err
		}
		return DateValue{Kind: DateRange, Qualifier: "BET", Date: d1, End: d2, HasEnd: true}, nil
	case "FROM":
		first, second, hasTo := splitOn(fields[1:], "TO")
		d1, err := parseDate(first)
		if err != nil {
			return DateValue{}, err
		}
		v := DateValue{Kind: DatePeriod, Qualifier: "FROM", Date: d1}
		if hasTo {
			d2, err := parseDate(second)
			if err != nil {
				return DateValue{}, err
			}
			v.End = d2
			v.HasEnd = true
		}
		return v, nil
	case "TO":
		d, err := parseDate(fields[1:])
		if err != nil {
			return DateValue{}, err
		}
		return DateValue{Kind: DatePeriod, Qualifier: "TO", Date: d}, nil
	}

	d, err := parseDate(fields)
	if err != nil {
		return DateValue{}, err
	}
	return DateValue{Kind: DateExact, Date: d}, nil
}

func splitOn(fields []string, sep string) ([]string, []string, bool) {
	for i, f := range fields {
		if f == sep {
			return fields[:i], fields[i+1:], true
		}
	}
	return fields, nil, false
}

// parseDate parses [calendar] [[day] month] year [BCE].
func parseDate(fields []string) (Date, error) {
	if len(fields) == 0 {
		return Date{}, fmt.Errorf("missing date")
	}
	d := Date{Calendar: CalendarGregorian}
	switch fields[0] {
	case CalendarGregorian, CalendarJulian, CalendarFrench, CalendarHebrew:
		d.Calendar = fields[0]
		fields = fields[1:]
	default:
		if strings.HasPrefix(fields[0], "_") {
			d.Calendar = fields[0]
			fields = fields[1:]
		}
	}
	if n := len(fields); n > 0 && fields[n-1] == "BCE" {
		d.BCE = true
		fields = fields[:n-1]
	}

	switch len(fields) {
	case 1:
	case 2:
		m, err := monthIndex(d.Calendar, fields[0])
		if err != nil {
			return Date{}, err
		}
		d.Month = m
	case 3:
		day, err := strconv.Atoi(fields[0])
		if err != nil || day < 1 || day > 36 {
			return Date{}, fmt.Errorf("invalid day %q", fields[0])
		}
		m, err := monthIndex(d.Calendar, fields[1])
		if err != nil {
			return Date{}, err
		}
		d.Day = day
		d.Month = m
	default:
		return Date{}, fmt.Errorf("invalid date %q", strings.Join(fields, " "))
	}

	year, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil || year < 0 {
		return Date{}, fmt.Errorf("invalid year %q", fields[len(fields)-1])
	}
	d.Year = year
	return d, nil
}

func monthIndex(calendar, name string) (int, error) {
	for i, m := range monthNames(calendar) {
		if m == name {
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("invalid month %q for calendar %s", name, calendar)
}

// Time is the typed payload of a TIME structure.
type Time struct {
	Hour     int
	Minute   int
	Second   int
	Fraction string
	HasSec   bool
	UTC      bool
}

// String renders the time as HH:MM:SS with the fraction and a trailing Z
// when present. Seconds are always rendered.
func (t Time) String() string {
	s := fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
	if t.Fraction != "" {
		s += "." + t.Fraction
	}
	if t.UTC {
		s += "Z"
	}
	return s
}

var timePattern = regexp.MustCompile(`^([0-9]{1,2}):([0-9]{2})(?::([0-9]{2})(?:\.([0-9]+))?)?(Z)?$`)

// ParseTime parses a TIME payload such as 09:15, 23:59:59.250 or 12:00:00Z.
func ParseTime(s string) (Time, error) {
	m := timePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Time{}, fmt.Errorf("invalid time %q", s)
	}
	t := Time{Fraction: m[4], UTC: m[5] == "Z"}
	t.Hour, _ = strconv.Atoi(m[1])
	t.Minute, _ = strconv.Atoi(m[2])
	if m[3] != "" {
		t.Second, _ = strconv.Atoi(m[3])
		t.HasSec = true
	}
	if t.Hour > 23 || t.Minute > 59 || t.Second > 60 {
		return Time{}, fmt.Errorf("time out of range %q", s)
	}
	return t, nil
}

// Age is the typed payload of an AGE structure. Raw keeps the written form
// since the import stores ages as text.
type Age struct {
	Raw    string
	Bound  string
	Years  int
	Months int
	Weeks  int
	Days   int
}

var agePart = regexp.MustCompile(`^([0-9]+)([ymwd])$`)

// ParseAge parses an AGE payload like "> 35y 3m" or "4w". Unknown parts are
// kept only in Raw.
func ParseAge(s string) Age {
	a := Age{Raw: strings.TrimSpace(s)}
	for _, f := range strings.Fields(a.Raw) {
		if f == "<" || f == ">" {
			a.Bound = f
			continue
		}
		m := agePart.FindStringSubmatch(f)
		if m == nil {
			continue
		}
		n, _ := strconv.Atoi(m[1])
		switch m[2] {
		case "y":
			a.Years = n
		case "m":
			a.Months = n
		case "w":
			a.Weeks = n
		case "d":
			a.Days = n
		}
	}
	return a
}
