package core

import (
	"context"
	"errors"
	"strings"

	"diocese/pkg/domain"
)

func validateDeanery(d *domain.Deanery) error {
	d.Name = strings.TrimSpace(d.Name)
	return errors.Join(
		domain.RequireField("name", d.Name),
		domain.ValidateEmail(d.Email),
		domain.ValidatePhone(d.Phone),
		validateRecordStatus(&d.Status),
	)
}

// SaveDeanery creates or replaces a deanery, makes selectedParishIDs its
// member parishes and selectedDeanID its dean. Unknown parish or clergy ids
// are ignored; an empty or unknown dean id leaves the deanery without a dean.
// Parishes previously in the deanery but not selected are released, the
// previous dean is demoted, and a dean who headed another deanery leaves it.
func (s *Service) SaveDeanery(ctx context.Context, deanery domain.Deanery, selectedParishIDs []string, selectedDeanID string) (domain.Deanery, error) {
	var saved domain.Deanery
	err := s.run(ctx, opSaveDeanery, func(ctx context.Context) (string, error) {
		if err := validateDeanery(&deanery); err != nil {
			return deanery.ID, err
		}
		if deanery.ID == "" {
			deanery.ID = s.newID()
		}
		st, _, err := s.mutate(ctx, func(st *state) ([]domain.Change, error) {
			return []domain.Change{s.putDeanery(st, deanery, selectedParishIDs, selectedDeanID)}, nil
		})
		if err != nil {
			return deanery.ID, err
		}
		saved, _ = st.snap.FindDeanery(deanery.ID)
		return deanery.ID, nil
	})
	return saved, err
}

func (s *Service) putDeanery(st *state, d domain.Deanery, parishIDs []string, deanID string) domain.Change {
	snap := &st.snap

	selected := make(map[string]struct{}, len(parishIDs))
	for _, id := range parishIDs {
		selected[id] = struct{}{}
	}
	for i := range snap.Parishes {
		p := &snap.Parishes[i]
		if _, ok := selected[p.ID]; ok {
			p.DeaneryID = d.ID
		} else if p.DeaneryID == d.ID {
			p.DeaneryID = ""
		}
	}

	d.Parishes = nil
	d.DeanID = ""
	d.DeanName = ""
	if deanID != "" && snap.ClergyIndex(deanID) >= 0 {
		for i := range snap.Deaneries {
			if other := &snap.Deaneries[i]; other.ID != d.ID && other.DeanID == deanID {
				other.DeanID = ""
				other.DeanName = ""
			}
		}
		d.DeanID = deanID
	}

	change := domain.Change{Entity: domain.EntityDeanery, Action: domain.ActionCreate, ID: d.ID}
	if idx := snap.DeaneryIndex(d.ID); idx >= 0 {
		before := snap.Deaneries[idx]
		s.stamp(&d.Base, &before.Base)
		snap.Deaneries[idx] = d
		change.Action = domain.ActionUpdate
		change.Before = before
	} else {
		s.stamp(&d.Base, nil)
		snap.Deaneries = append(snap.Deaneries, d)
	}
	change.After = d
	return change
}

// DeleteDeanery removes a deanery, releases its parishes and demotes its
// dean. Deleting a missing id is a no-op.
func (s *Service) DeleteDeanery(ctx context.Context, id string) error {
	return s.run(ctx, opDeleteDeanery, func(ctx context.Context) (string, error) {
		_, _, err := s.mutate(ctx, func(st *state) ([]domain.Change, error) {
			idx := st.snap.DeaneryIndex(id)
			if idx < 0 {
				return nil, nil
			}
			before := st.snap.Deaneries[idx]
			st.snap.Deaneries = append(st.snap.Deaneries[:idx], st.snap.Deaneries[idx+1:]...)
			return []domain.Change{{Entity: domain.EntityDeanery, Action: domain.ActionDelete, ID: id, Before: before}}, nil
		})
		return id, err
	})
}
