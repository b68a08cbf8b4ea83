package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"diocese/internal/calendar"
	"diocese/pkg/domain"
)

func TestCalendarEventLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	c, err := svc.SaveClergy(ctx, domain.Clergy{Name: "Fr. Feast", Birthday: "1970-03-05", PatronSaintDay: &domain.PatronSaintDay{Date: "03-19", Saint: "Joseph"}})
	require.NoError(t, err)

	jubilee, err := svc.SaveCalendarEvent(ctx, domain.CalendarEvent{Title: " Parish jubilee ", Date: "2025-03-10", ClergyID: c.ID, RemindDaysBefore: 14})
	require.NoError(t, err)
	require.NotEmpty(t, jubilee.ID)
	require.Equal(t, "Parish jubilee", jubilee.Title)
	require.Equal(t, domain.CollectionCalendarEvents, store.Writes()[len(store.Writes())-1])

	_, err = svc.SaveCalendarEvent(ctx, domain.CalendarEvent{Title: "Synod", Date: "2025-02-30"})
	require.True(t, domain.IsValidation(err))
	_, err = svc.SaveCalendarEvent(ctx, domain.CalendarEvent{Title: "Synod", Date: "2025-04-01", RemindDaysBefore: -1})
	require.True(t, domain.IsValidation(err))
	_, err = svc.SaveCalendarEvent(ctx, domain.CalendarEvent{Title: "Visit", Date: "2025-04-01", ClergyID: "ghost"})
	require.True(t, domain.IsNotFound(err))

	upcoming, err := svc.UpcomingEvents(ctx, fixedNow, 30)
	require.NoError(t, err)
	kinds := make([]calendar.Kind, 0, len(upcoming))
	for _, o := range upcoming {
		kinds = append(kinds, o.Kind)
	}
	require.Equal(t, []calendar.Kind{calendar.KindBirthday, calendar.KindEvent, calendar.KindPatronSaint}, kinds)
	require.Equal(t, 55, upcoming[0].Years)

	due, err := svc.DueReminders(ctx, fixedNow)
	require.NoError(t, err)
	require.Len(t, due, 1)
	require.Equal(t, jubilee.ID, due[0].ID)

	due, err = svc.DueReminders(ctx, fixedNow.AddDate(0, 0, 30))
	require.NoError(t, err)
	require.Empty(t, due)

	jubilee.Date = "2025-06-01"
	_, err = svc.SaveCalendarEvent(ctx, jubilee)
	require.NoError(t, err)
	events, err := svc.ListCalendarEvents(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, "2025-06-01", events[0].Date)

	require.NoError(t, svc.DeleteCalendarEvent(ctx, jubilee.ID))
	require.NoError(t, svc.DeleteCalendarEvent(ctx, jubilee.ID))
	events, err = svc.ListCalendarEvents(ctx)
	require.NoError(t, err)
	require.Empty(t, events)
}

func TestUpcomingSkipsRetiredClergy(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	_, err := svc.SaveClergy(ctx, domain.Clergy{Name: "Fr. Emeritus", Status: domain.ClergyStatusRetired, Birthday: "1940-03-02"})
	require.NoError(t, err)

	upcoming, err := svc.UpcomingEvents(ctx, fixedNow, 7)
	require.NoError(t, err)
	require.Empty(t, upcoming)

	from := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	upcoming, err = svc.UpcomingEvents(ctx, from, -5)
	require.NoError(t, err)
	require.Empty(t, upcoming)
}
