package llm

import (
	"regexp"
	"time"
)

var isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Layouts tried, in order, when the model returns a non-ISO date.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"02 Jan 2006",
	"01/02/2006",
	"2006/01/02",
	"Jan 2 2006",
}

// Normalize applies the defaulting rules to a raw candidate and returns the
// result. It is pure and idempotent: normalizing an already-normalized
// candidate yields an identical value.
//
// Rules: a non-ISO date is reparsed and reformatted to YYYY-MM-DD, or left
// untouched if unparseable; missing recordType becomes "medical"; missing
// title becomes "Medical Report"; missing date becomes today.
func Normalize(c Candidate) Candidate {
	return NormalizeAt(c, time.Now())
}

// NormalizeAt is Normalize with an injectable clock for the date default.
func NormalizeAt(c Candidate, now time.Time) Candidate {
	if c.Date != "" && !isoDate.MatchString(c.Date) {
		if iso, ok := reformatDate(c.Date); ok {
			c.Date = iso
		}
	}
	if c.StartDate != "" && !isoDate.MatchString(c.StartDate) {
		if iso, ok := reformatDate(c.StartDate); ok {
			c.StartDate = iso
		}
	}
	if c.EndDate != "" && !isoDate.MatchString(c.EndDate) {
		if iso, ok := reformatDate(c.EndDate); ok {
			c.EndDate = iso
		}
	}
	if c.RecordType == "" {
		c.RecordType = "medical"
	}
	if c.Title == "" {
		c.Title = "Medical Report"
	}
	if c.Date == "" {
		c.Date = now.Format("2006-01-02")
	}
	return c
}

func reformatDate(s string) (string, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return s, false
}
