package calendar

import (
	"testing"
	"time"

	"diocese/pkg/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseMonthDay(t *testing.T) {
	cases := []struct {
		in    string
		month time.Month
		day   int
		ok    bool
	}{
		{"06-29", time.June, 29, true},
		{"1970-12-06", time.December, 6, true},
		{"02-29", time.February, 29, true},
		{"13-01", 0, 0, false},
		{"June 29", 0, 0, false},
		{"", 0, 0, false},
	}
	for _, tc := range cases {
		m, d, err := ParseMonthDay(tc.in)
		if (err == nil) != tc.ok {
			t.Fatalf("ParseMonthDay(%q) err = %v, want ok=%v", tc.in, err, tc.ok)
		}
		if tc.ok && (m != tc.month || d != tc.day) {
			t.Fatalf("ParseMonthDay(%q) = %v %d", tc.in, m, d)
		}
	}
}

func TestUpcomingDerivesClergyDates(t *testing.T) {
	clergy := []domain.Clergy{
		{
			Base:           domain.Base{ID: "c1"},
			Name:           "Fr. John Smith",
			Status:         domain.ClergyStatusActive,
			Birthday:       "1970-03-05",
			OrdinationDate: "2000-03-10",
			PatronSaintDay: &domain.PatronSaintDay{Date: "03-19", Saint: "St. Joseph"},
		},
		{
			Base:     domain.Base{ID: "c2"},
			Name:     "Fr. Retired",
			Status:   domain.ClergyStatusRetired,
			Birthday: "1940-03-06",
		},
	}

	got := Upcoming(clergy, nil, day(2025, time.March, 1), 30)
	if len(got) != 3 {
		t.Fatalf("expected 3 occurrences, got %d: %+v", len(got), got)
	}
	if got[0].Kind != KindBirthday || !got[0].Date.Equal(day(2025, time.March, 5)) || got[0].Years != 55 {
		t.Fatalf("unexpected birthday occurrence: %+v", got[0])
	}
	if got[1].Kind != KindOrdination || got[1].Years != 25 {
		t.Fatalf("unexpected ordination occurrence: %+v", got[1])
	}
	if got[2].Kind != KindPatronSaint || got[2].Title != "Fr. John Smith patron saint day (St. Joseph)" {
		t.Fatalf("unexpected patron saint occurrence: %+v", got[2])
	}
}

func TestUpcomingSkipsOrdinationDayItself(t *testing.T) {
	clergy := []domain.Clergy{{Base: domain.Base{ID: "c1"}, Name: "New", OrdinationDate: "2025-06-01"}}
	if got := Upcoming(clergy, nil, day(2025, time.May, 30), 5); len(got) != 0 {
		t.Fatalf("expected no anniversary in the ordination year, got %+v", got)
	}
}

func TestUpcomingEventsAcrossYearBoundary(t *testing.T) {
	events := []domain.CalendarEvent{
		{ID: "e1", Title: "Chrism Mass", Date: "2024-01-02", Annual: true},
		{ID: "e2", Title: "Synod", Date: "2025-12-30"},
		{ID: "e3", Title: "Past", Date: "2024-12-30"},
		{ID: "e4", Title: "Broken", Date: "soon"},
	}
	got := Upcoming(nil, events, day(2025, time.December, 28), 7)
	if len(got) != 2 {
		t.Fatalf("expected 2 occurrences, got %+v", got)
	}
	if got[0].EventID != "e2" || got[1].EventID != "e1" {
		t.Fatalf("unexpected order: %+v", got)
	}
	if !got[1].Date.Equal(day(2026, time.January, 2)) {
		t.Fatalf("annual event should land in the next year, got %v", got[1].Date)
	}
}

func TestLeapDayFallsOnFebruary28(t *testing.T) {
	clergy := []domain.Clergy{{Base: domain.Base{ID: "c1"}, Name: "Leap", Birthday: "1980-02-29"}}
	got := Upcoming(clergy, nil, day(2025, time.February, 27), 3)
	if len(got) != 1 || !got[0].Date.Equal(day(2025, time.February, 28)) {
		t.Fatalf("expected Feb 28 occurrence, got %+v", got)
	}
}

func TestNextOccurrence(t *testing.T) {
	annual := domain.CalendarEvent{Date: "2020-05-01", Annual: true}
	next, ok := NextOccurrence(annual, day(2025, time.May, 2))
	if !ok || !next.Equal(day(2026, time.May, 1)) {
		t.Fatalf("unexpected next occurrence %v %v", next, ok)
	}
	once := domain.CalendarEvent{Date: "2020-05-01"}
	if _, ok := NextOccurrence(once, day(2025, time.May, 2)); ok {
		t.Fatalf("past one-off event should have no next occurrence")
	}
}

func TestDueReminders(t *testing.T) {
	events := []domain.CalendarEvent{
		{ID: "soon", Date: "2025-04-10", RemindDaysBefore: 7},
		{ID: "later", Date: "2025-04-30", RemindDaysBefore: 7},
		{ID: "silent", Date: "2025-04-09"},
		{ID: "annual", Date: "1999-04-05", Annual: true, RemindDaysBefore: 3},
		{ID: "past", Date: "2025-04-01", RemindDaysBefore: 30},
	}
	due := DueReminders(events, day(2025, time.April, 4).Add(15*time.Hour))
	ids := make([]string, 0, len(due))
	for _, e := range due {
		ids = append(ids, e.ID)
	}
	if len(ids) != 2 || ids[0] != "soon" || ids[1] != "annual" {
		t.Fatalf("unexpected due reminders %v", ids)
	}
}
