package core

import (
	"context"
	"strings"
	"time"

	"diocese/internal/calendar"
	"diocese/pkg/domain"
)

func validateCalendarEvent(e *domain.CalendarEvent) error {
	e.Title = strings.TrimSpace(e.Title)
	if err := domain.RequireField("title", e.Title); err != nil {
		return err
	}
	if err := domain.RequireField("date", e.Date); err != nil {
		return err
	}
	if err := validateDate("date", e.Date); err != nil {
		return err
	}
	if e.RemindDaysBefore < 0 {
		return &domain.ValidationError{Field: "remindDaysBefore", Reason: "must not be negative"}
	}
	return nil
}

// SaveCalendarEvent creates or replaces a custom calendar event. A linked
// clergy id must exist.
func (s *Service) SaveCalendarEvent(ctx context.Context, event domain.CalendarEvent) (domain.CalendarEvent, error) {
	err := s.run(ctx, opSaveCalendarEvent, func(ctx context.Context) (string, error) {
		if err := validateCalendarEvent(&event); err != nil {
			return event.ID, err
		}
		if event.ID == "" {
			event.ID = s.newID()
		}
		_, _, err := s.mutate(ctx, func(st *state) ([]domain.Change, error) {
			if event.ClergyID != "" && st.snap.ClergyIndex(event.ClergyID) < 0 {
				return nil, &domain.ReferenceNotFoundError{Entity: domain.EntityClergy, ID: event.ClergyID}
			}
			change := domain.Change{Entity: domain.EntityCalendarEvent, Action: domain.ActionCreate, ID: event.ID, After: event}
			if idx := st.snap.CalendarEventIndex(event.ID); idx >= 0 {
				change.Action = domain.ActionUpdate
				change.Before = st.snap.CalendarEvents[idx]
				st.snap.CalendarEvents[idx] = event
			} else {
				st.snap.CalendarEvents = append(st.snap.CalendarEvents, event)
			}
			return []domain.Change{change}, nil
		})
		return event.ID, err
	})
	if err != nil {
		return domain.CalendarEvent{}, err
	}
	return event, nil
}

// DeleteCalendarEvent removes a custom event. Deleting a missing id is a no-op.
func (s *Service) DeleteCalendarEvent(ctx context.Context, id string) error {
	return s.run(ctx, opDeleteCalendarEvent, func(ctx context.Context) (string, error) {
		_, _, err := s.mutate(ctx, func(st *state) ([]domain.Change, error) {
			idx := st.snap.CalendarEventIndex(id)
			if idx < 0 {
				return nil, nil
			}
			before := st.snap.CalendarEvents[idx]
			st.snap.CalendarEvents = append(st.snap.CalendarEvents[:idx], st.snap.CalendarEvents[idx+1:]...)
			return []domain.Change{{Entity: domain.EntityCalendarEvent, Action: domain.ActionDelete, ID: id, Before: before}}, nil
		})
		return id, err
	})
}

// ListCalendarEvents returns the custom events in stored order.
func (s *Service) ListCalendarEvents(ctx context.Context) ([]domain.CalendarEvent, error) {
	st, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	return nonNil(st.snap.CalendarEvents), nil
}

// UpcomingEvents merges custom events with clergy birthdays, patron saint
// days and ordination anniversaries falling within days of from.
func (s *Service) UpcomingEvents(ctx context.Context, from time.Time, days int) ([]calendar.Occurrence, error) {
	var out []calendar.Occurrence
	err := s.run(ctx, opUpcomingEvents, func(ctx context.Context) (string, error) {
		st, err := s.read(ctx)
		if err != nil {
			return "", err
		}
		out = calendar.Upcoming(st.snap.Clergy, st.snap.CalendarEvents, from, days)
		return "", nil
	})
	return out, err
}

// DueReminders returns the custom events whose reminder window contains now.
func (s *Service) DueReminders(ctx context.Context, now time.Time) ([]domain.CalendarEvent, error) {
	var due []domain.CalendarEvent
	err := s.run(ctx, opDueReminders, func(ctx context.Context) (string, error) {
		st, err := s.read(ctx)
		if err != nil {
			return "", err
		}
		due = calendar.DueReminders(st.snap.CalendarEvents, now)
		return "", nil
	})
	return due, err
}
