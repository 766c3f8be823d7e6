package mapper

import (
	"strings"

	"github.com/nao1215/gedcom7import/internal/gedcom"
	"github.com/nao1215/gedcom7import/internal/model"
)

var calendars = map[string]string{
	gedcom.CalendarGregorian: "",
	gedcom.CalendarJulian:    "julian",
	gedcom.CalendarHebrew:    "hebrew",
	gedcom.CalendarFrench:    "french",
}

// dateOf converts a DATE structure. A DATE without payload yields nil
// unless it has a PHRASE, which becomes a text-only date. A payload the
// reader could not parse is a malformed value.
func dateOf(n *gedcom.Node) (*model.Date, error) {
	text, err := phrase(n)
	if err != nil {
		return nil, err
	}

	switch v := n.Value.(type) {
	case nil:
		if text == "" {
			return nil, nil
		}
		return &model.Date{Modifier: model.DateTextOnly, Text: text}, nil
	case gedcom.DateValue:
		d := convertDateValue(v)
		d.Text = text
		return d, nil
	default:
		return nil, gedcom.NewError(gedcom.ErrMalformedValue, n, "invalid date %q", n.String())
	}
}

func convertDateValue(v gedcom.DateValue) *model.Date {
	d := &model.Date{
		Calendar: calendarName(v.Date.Calendar),
		Year:     v.Date.Year,
		Month:    v.Date.Month,
		Day:      v.Date.Day,
		BCE:      v.Date.BCE,
	}
	switch v.Qualifier {
	case "ABT":
		d.Modifier = model.DateAbout
	case "EST":
		d.Quality = model.DateEstimated
	case "CAL":
		d.Quality = model.DateCalculated
	case "BEF":
		d.Modifier = model.DateBefore
	case "AFT":
		d.Modifier = model.DateAfter
	case "BET":
		d.Modifier = model.DateRange
	case "FROM":
		d.Modifier = model.DateFrom
		if v.HasEnd {
			d.Modifier = model.DateSpan
		}
	case "TO":
		d.Modifier = model.DateTo
	}
	if v.HasEnd {
		d.EndYear = v.End.Year
		d.EndMonth = v.End.Month
		d.EndDay = v.End.Day
	}
	return d
}

// calendarName returns the stored calendar name. Gregorian is the default
// and stored as "". Extension calendars keep their tag in lower case.
func calendarName(c string) string {
	if name, ok := calendars[c]; ok {
		return name
	}
	return strings.ToLower(c)
}
