package core

import (
	"context"
	"errors"
	"strings"

	"diocese/pkg/domain"
)

func validateRecordStatus(status *domain.RecordStatus) error {
	switch {
	case *status == "":
		*status = domain.StatusActive
	case strings.EqualFold(string(*status), string(domain.StatusActive)):
		*status = domain.StatusActive
	case strings.EqualFold(string(*status), string(domain.StatusInactive)):
		*status = domain.StatusInactive
	default:
		return &domain.ValidationError{Field: "status", Value: string(*status), Reason: "must be Active or Inactive"}
	}
	return nil
}

func validateParish(p *domain.Parish) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Address.State = strings.ToUpper(strings.TrimSpace(p.Address.State))
	return errors.Join(
		domain.RequireField("name", p.Name),
		domain.ValidateAddress(p.Address),
		domain.ValidateEmail(p.Email),
		domain.ValidatePhone(p.Phone),
		validateRecordStatus(&p.Status),
	)
}

// SaveParish creates or replaces a parish together with its assigned clergy
// list. Each listed clergy member that exists is assigned to the parish and
// takes the parish's deaneryId, except a sitting dean, who keeps the deaneryId
// of the deanery they head. Unknown ids are dropped. Clergy removed from the
// list lose the assignment when it still names this parish. A deaneryId
// naming a missing deanery is rejected before anything is written.
func (s *Service) SaveParish(ctx context.Context, parish domain.Parish, assignedClergyIDs []string) (domain.Parish, error) {
	var saved domain.Parish
	err := s.run(ctx, opSaveParish, func(ctx context.Context) (string, error) {
		if err := validateParish(&parish); err != nil {
			return parish.ID, err
		}
		if parish.ID == "" {
			parish.ID = s.newID()
		}
		st, _, err := s.mutate(ctx, func(st *state) ([]domain.Change, error) {
			if parish.DeaneryID != "" && st.snap.DeaneryIndex(parish.DeaneryID) < 0 {
				return nil, &domain.ReferenceNotFoundError{Entity: domain.EntityDeanery, ID: parish.DeaneryID}
			}
			return []domain.Change{s.putParish(st, parish, assignedClergyIDs)}, nil
		})
		if err != nil {
			return parish.ID, err
		}
		saved, _ = st.snap.FindParish(parish.ID)
		return parish.ID, nil
	})
	return saved, err
}

func (s *Service) putParish(st *state, p domain.Parish, clergyIDs []string) domain.Change {
	snap := &st.snap

	assigned := make([]domain.ClergySummary, 0, len(clergyIDs))
	keep := make(map[string]struct{}, len(clergyIDs))
	for _, id := range clergyIDs {
		if _, dup := keep[id]; dup {
			continue
		}
		c, ok := snap.FindClergy(id)
		if !ok {
			continue
		}
		keep[id] = struct{}{}
		assigned = append(assigned, c.Summary())
	}
	p.AssignedClergy = assigned

	var previous *domain.Parish
	change := domain.Change{Entity: domain.EntityParish, Action: domain.ActionCreate, ID: p.ID}
	if idx := snap.ParishIndex(p.ID); idx >= 0 {
		before := snap.Parishes[idx]
		previous = &before
		s.stamp(&p.Base, &before.Base)
		snap.Parishes[idx] = p
		change.Action = domain.ActionUpdate
		change.Before = before
	} else {
		s.stamp(&p.Base, nil)
		snap.Parishes = append(snap.Parishes, p)
	}
	change.After = p

	for _, summary := range assigned {
		c := &snap.Clergy[snap.ClergyIndex(summary.ID)]
		c.CurrentAssignment = p.Name
		if !isDean(snap, c.ID) {
			c.DeaneryID = p.DeaneryID
		}
	}

	if previous != nil {
		for _, summary := range previous.AssignedClergy {
			if _, still := keep[summary.ID]; still {
				continue
			}
			ci := snap.ClergyIndex(summary.ID)
			if ci < 0 {
				continue
			}
			c := &snap.Clergy[ci]
			if c.CurrentAssignment != previous.Name && c.CurrentAssignment != p.Name {
				continue
			}
			c.CurrentAssignment = ""
			if !isDean(snap, c.ID) && c.DeaneryID == previous.DeaneryID {
				c.DeaneryID = ""
			}
		}
	}
	return change
}

// DeleteParish removes a parish, drops it from its deanery and clears the
// assignment of clergy it listed. Deleting a missing id is a no-op.
func (s *Service) DeleteParish(ctx context.Context, id string) error {
	return s.run(ctx, opDeleteParish, func(ctx context.Context) (string, error) {
		_, _, err := s.mutate(ctx, func(st *state) ([]domain.Change, error) {
			snap := &st.snap
			idx := snap.ParishIndex(id)
			if idx < 0 {
				return nil, nil
			}
			before := snap.Parishes[idx]
			snap.Parishes = append(snap.Parishes[:idx], snap.Parishes[idx+1:]...)
			for _, summary := range before.AssignedClergy {
				ci := snap.ClergyIndex(summary.ID)
				if ci < 0 || snap.Clergy[ci].CurrentAssignment != before.Name {
					continue
				}
				c := &snap.Clergy[ci]
				c.CurrentAssignment = ""
				if !isDean(snap, c.ID) && c.DeaneryID == before.DeaneryID {
					c.DeaneryID = ""
				}
			}
			return []domain.Change{{Entity: domain.EntityParish, Action: domain.ActionDelete, ID: id, Before: before}}, nil
		})
		return id, err
	})
}
