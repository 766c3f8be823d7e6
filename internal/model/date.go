package model

// DateModifier describes how a date value relates to its dates.
type DateModifier string

const (
	DateNone     DateModifier = ""
	DateBefore   DateModifier = "before"
	DateAfter    DateModifier = "after"
	DateAbout    DateModifier = "about"
	DateRange    DateModifier = "range"
	DateSpan     DateModifier = "span"
	DateFrom     DateModifier = "from"
	DateTo       DateModifier = "to"
	DateTextOnly DateModifier = "textonly"
)

// DateQuality qualifies how the date was obtained.
type DateQuality string

const (
	DateRegular    DateQuality = ""
	DateEstimated  DateQuality = "estimated"
	DateCalculated DateQuality = "calculated"
)

// Date is a possibly compound calendar date. A span or range uses the End
// fields. Text holds a phrase or the raw date when nothing else parsed.
type Date struct {
	Calendar string       `json:"calendar,omitempty"`
	Modifier DateModifier `json:"modifier,omitempty"`
	Quality  DateQuality  `json:"quality,omitempty"`
	Year     int          `json:"year,omitempty"`
	Month    int          `json:"month,omitempty"`
	Day      int          `json:"day,omitempty"`
	BCE      bool         `json:"bce,omitempty"`
	EndYear  int          `json:"end_year,omitempty"`
	EndMonth int          `json:"end_month,omitempty"`
	EndDay   int          `json:"end_day,omitempty"`
	Text     string       `json:"text,omitempty"`
}

// IsCompound reports whether the date has an end.
func (d Date) IsCompound() bool {
	return d.Modifier == DateRange || d.Modifier == DateSpan
}
