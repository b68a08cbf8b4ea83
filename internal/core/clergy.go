package core

import (
	"context"
	"errors"
	"strings"

	"diocese/internal/calendar"
	"diocese/pkg/domain"
)

func validateClergy(c *domain.Clergy) error {
	var errs []error
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		c.Name = c.DisplayName()
	}
	errs = append(errs, domain.RequireField("name", c.Name))
	errs = append(errs, domain.ValidateEmail(c.Email), domain.ValidatePhone(c.Phone))

	if c.Type == "" {
		c.Type = domain.ClergyTypePriest
	} else if t, ok := domain.ParseClergyType(string(c.Type)); ok {
		c.Type = t
	} else {
		errs = append(errs, &domain.ValidationError{Field: "type", Value: string(c.Type), Reason: "must be Priest, Deacon or Bishop"})
	}
	if c.Status == "" {
		c.Status = domain.ClergyStatusActive
	} else if st, ok := domain.ParseClergyStatus(string(c.Status)); ok {
		c.Status = st
	} else {
		errs = append(errs, &domain.ValidationError{Field: "status", Value: string(c.Status), Reason: "must be Active, Inactive or Retired"})
	}

	errs = append(errs, validateDate("birthday", c.Birthday), validateDate("ordinationDate", c.OrdinationDate))
	if c.PatronSaintDay != nil && c.PatronSaintDay.Date != "" {
		if _, _, err := calendar.ParseMonthDay(c.PatronSaintDay.Date); err != nil {
			errs = append(errs, &domain.ValidationError{Field: "patronSaintDay.date", Value: c.PatronSaintDay.Date, Reason: "must be MM-DD or YYYY-MM-DD"})
		}
	}
	if c.Spouse != nil {
		errs = append(errs, domain.ValidateEmail(c.Spouse.Email), domain.ValidatePhone(c.Spouse.Phone))
	}
	return errors.Join(errs...)
}

func validateDate(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	if _, err := calendar.ParseDate(value); err != nil {
		return &domain.ValidationError{Field: field, Value: value, Reason: "must be YYYY-MM-DD"}
	}
	return nil
}

// putClergy upserts c into the snapshot. The stored profile image key is
// kept; portraits change only through the profile image operations.
func (s *Service) putClergy(st *state, c domain.Clergy) domain.Change {
	idx := st.snap.ClergyIndex(c.ID)
	if idx < 0 {
		c.ProfileImage = ""
		s.stamp(&c.Base, nil)
		st.snap.Clergy = append(st.snap.Clergy, c)
		return domain.Change{Entity: domain.EntityClergy, Action: domain.ActionCreate, ID: c.ID, After: c}
	}
	before := st.snap.Clergy[idx]
	c.ProfileImage = before.ProfileImage
	s.stamp(&c.Base, &before.Base)
	st.snap.Clergy[idx] = c
	return domain.Change{Entity: domain.EntityClergy, Action: domain.ActionUpdate, ID: c.ID, Before: before, After: c}
}

// SaveClergy creates or replaces a clergy record and refreshes the copies of
// it held by parishes and deaneries. It does not change which parishes list
// the clergy member; parish assignment lists are edited through SaveParish.
func (s *Service) SaveClergy(ctx context.Context, clergy domain.Clergy) (domain.Clergy, error) {
	var saved domain.Clergy
	err := s.run(ctx, opSaveClergy, func(ctx context.Context) (string, error) {
		if err := validateClergy(&clergy); err != nil {
			return clergy.ID, err
		}
		if clergy.ID == "" {
			clergy.ID = s.newID()
		}
		st, _, err := s.mutate(ctx, func(st *state) ([]domain.Change, error) {
			return []domain.Change{s.putClergy(st, clergy)}, nil
		})
		if err != nil {
			return clergy.ID, err
		}
		saved, _ = st.snap.FindClergy(clergy.ID)
		return clergy.ID, nil
	})
	return saved, err
}

// UpdateClergy applies mutator to an existing clergy record and saves it as
// SaveClergy does.
func (s *Service) UpdateClergy(ctx context.Context, id string, mutator func(*domain.Clergy) error) (domain.Clergy, error) {
	var saved domain.Clergy
	err := s.run(ctx, opUpdateClergy, func(ctx context.Context) (string, error) {
		st, _, err := s.mutate(ctx, func(st *state) ([]domain.Change, error) {
			current, ok := st.snap.FindClergy(id)
			if !ok {
				return nil, &domain.ReferenceNotFoundError{Entity: domain.EntityClergy, ID: id}
			}
			if err := mutator(&current); err != nil {
				return nil, err
			}
			current.ID = id
			if err := validateClergy(&current); err != nil {
				return nil, err
			}
			return []domain.Change{s.putClergy(st, current)}, nil
		})
		if err != nil {
			return id, err
		}
		saved, _ = st.snap.FindClergy(id)
		return id, nil
	})
	return saved, err
}

// DeleteClergy removes a clergy record and its portrait. Parish assignment
// lists and deanery dean references naming the record are left in place and
// reported by Check; RepairAll prunes them. Deleting a missing id is a no-op.
func (s *Service) DeleteClergy(ctx context.Context, id string) error {
	return s.run(ctx, opDeleteClergy, func(ctx context.Context) (string, error) {
		var image string
		_, _, err := s.mutate(ctx, func(st *state) ([]domain.Change, error) {
			idx := st.snap.ClergyIndex(id)
			if idx < 0 {
				return nil, nil
			}
			before := st.snap.Clergy[idx]
			image = before.ProfileImage
			st.snap.Clergy = append(st.snap.Clergy[:idx], st.snap.Clergy[idx+1:]...)
			if stale := staleClergyReferences(&st.snap, id); stale > 0 {
				s.logger.Warn("deleted clergy is still referenced", "clergy_id", id, "references", stale)
			}
			return []domain.Change{{Entity: domain.EntityClergy, Action: domain.ActionDelete, ID: id, Before: before}}, nil
		})
		if err != nil {
			return id, err
		}
		s.discardImage(ctx, image)
		return id, nil
	})
}
