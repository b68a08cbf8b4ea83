// Package calendar derives dated occurrences from clergy records and custom
// calendar events.
package calendar

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"diocese/pkg/domain"
)

// DateLayout is the stored format of full dates.
const DateLayout = "2006-01-02"

// Kind classifies an occurrence.
type Kind string

// Occurrence kinds.
const (
	KindBirthday    Kind = "birthday"
	KindPatronSaint Kind = "patron_saint_day"
	KindOrdination  Kind = "ordination_anniversary"
	KindEvent       Kind = "event"
)

// Occurrence is one dated entry on the calendar.
type Occurrence struct {
	Date     time.Time `json:"date" yaml:"date"`
	Kind     Kind      `json:"kind" yaml:"kind"`
	Title    string    `json:"title" yaml:"title"`
	ClergyID string    `json:"clergyId,omitempty" yaml:"clergyId,omitempty"`
	EventID  string    `json:"eventId,omitempty" yaml:"eventId,omitempty"`
	// Years is the anniversary count for ordinations and birthdays with a
	// known year.
	Years int `json:"years,omitempty" yaml:"years,omitempty"`
}

// ParseDate parses a YYYY-MM-DD date in UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// ParseMonthDay accepts MM-DD or YYYY-MM-DD and returns the month and day.
func ParseMonthDay(s string) (time.Month, int, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(DateLayout, s, time.UTC); err == nil {
		return t.Month(), t.Day(), nil
	}
	// 2000 is a leap year, so 02-29 parses.
	t, err := time.ParseInLocation(DateLayout, "2000-"+s, time.UTC)
	if err != nil {
		return 0, 0, fmt.Errorf("parse month-day %q: expected MM-DD or YYYY-MM-DD", s)
	}
	return t.Month(), t.Day(), nil
}

func midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// inYear places month/day in year. February 29 falls on the 28th in common
// years.
func inYear(year int, month time.Month, day int) time.Time {
	if month == time.February && day == 29 && !isLeap(year) {
		day = 28
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// window is the inclusive day range [start, end].
type window struct {
	start, end time.Time
}

func newWindow(from time.Time, days int) window {
	start := midnight(from)
	if days < 0 {
		days = 0
	}
	return window{start: start, end: start.AddDate(0, 0, days)}
}

func (w window) contains(t time.Time) bool {
	return !t.Before(w.start) && !t.After(w.end)
}

// annual returns every date in w falling on month/day.
func (w window) annual(month time.Month, day int) []time.Time {
	var out []time.Time
	for year := w.start.Year(); year <= w.end.Year(); year++ {
		if t := inYear(year, month, day); w.contains(t) {
			out = append(out, t)
		}
	}
	return out
}

// Upcoming lists occurrences between from and from+days inclusive, sorted by
// date then title. Retired clergy contribute no derived occurrences.
func Upcoming(clergy []domain.Clergy, events []domain.CalendarEvent, from time.Time, days int) []Occurrence {
	w := newWindow(from, days)
	var out []Occurrence

	for _, c := range clergy {
		if c.Status == domain.ClergyStatusRetired {
			continue
		}
		name := c.DisplayName()
		if full, err := ParseDate(c.Birthday); err == nil {
			for _, t := range w.annual(full.Month(), full.Day()) {
				out = append(out, Occurrence{Date: t, Kind: KindBirthday, Title: name + " birthday", ClergyID: c.ID, Years: t.Year() - full.Year()})
			}
		} else if month, day, err := ParseMonthDay(c.Birthday); c.Birthday != "" && err == nil {
			for _, t := range w.annual(month, day) {
				out = append(out, Occurrence{Date: t, Kind: KindBirthday, Title: name + " birthday", ClergyID: c.ID})
			}
		}
		if c.PatronSaintDay != nil && c.PatronSaintDay.Date != "" {
			if month, day, err := ParseMonthDay(c.PatronSaintDay.Date); err == nil {
				title := name + " patron saint day"
				if saint := strings.TrimSpace(c.PatronSaintDay.Saint); saint != "" {
					title = fmt.Sprintf("%s patron saint day (%s)", name, saint)
				}
				for _, t := range w.annual(month, day) {
					out = append(out, Occurrence{Date: t, Kind: KindPatronSaint, Title: title, ClergyID: c.ID})
				}
			}
		}
		if ordained, err := ParseDate(c.OrdinationDate); err == nil {
			for _, t := range w.annual(ordained.Month(), ordained.Day()) {
				if years := t.Year() - ordained.Year(); years > 0 {
					out = append(out, Occurrence{Date: t, Kind: KindOrdination, Title: name + " ordination anniversary", ClergyID: c.ID, Years: years})
				}
			}
		}
	}

	for _, e := range events {
		for _, t := range eventDates(e, w) {
			out = append(out, Occurrence{Date: t, Kind: KindEvent, Title: e.Title, ClergyID: e.ClergyID, EventID: e.ID})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Title < out[j].Title
	})
	return out
}

func eventDates(e domain.CalendarEvent, w window) []time.Time {
	date, err := ParseDate(e.Date)
	if err != nil {
		return nil
	}
	if !e.Annual {
		if w.contains(date) {
			return []time.Time{date}
		}
		return nil
	}
	var out []time.Time
	for _, t := range w.annual(date.Month(), date.Day()) {
		if !t.Before(date) {
			out = append(out, t)
		}
	}
	return out
}

// NextOccurrence returns the first date on or after from that e falls on.
func NextOccurrence(e domain.CalendarEvent, from time.Time) (time.Time, bool) {
	date, err := ParseDate(e.Date)
	if err != nil {
		return time.Time{}, false
	}
	from = midnight(from)
	if !e.Annual {
		return date, !date.Before(from)
	}
	if !date.Before(from) {
		return date, true
	}
	next := inYear(from.Year(), date.Month(), date.Day())
	if next.Before(from) {
		next = inYear(from.Year()+1, date.Month(), date.Day())
	}
	return next, true
}

// DueReminders returns the events whose reminder window contains now: the
// next occurrence is at most RemindDaysBefore days away. Events without a
// reminder are never due.
func DueReminders(events []domain.CalendarEvent, now time.Time) []domain.CalendarEvent {
	today := midnight(now)
	var due []domain.CalendarEvent
	for _, e := range events {
		if e.RemindDaysBefore <= 0 {
			continue
		}
		next, ok := NextOccurrence(e, today)
		if !ok {
			continue
		}
		if !next.After(today.AddDate(0, 0, e.RemindDaysBefore)) {
			due = append(due, e)
		}
	}
	return due
}
