package core

import (
	"context"

	"diocese/pkg/domain"
)

// Check evaluates the integrity rules against the stored collections without
// repairing or writing anything.
func (s *Service) Check(ctx context.Context) (domain.Result, error) {
	var res domain.Result
	err := s.run(ctx, opCheck, func(ctx context.Context) (string, error) {
		st, err := s.read(ctx)
		if err != nil {
			return "", err
		}
		res, err = s.engine.Evaluate(ctx, &st.snap, nil)
		return "", err
	})
	return res, err
}

// Snapshot returns every directory collection as stored. Login credentials
// are omitted.
func (s *Service) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	var snap domain.Snapshot
	err := s.run(ctx, opSnapshot, func(ctx context.Context) (string, error) {
		st, err := s.read(ctx)
		if err != nil {
			return "", err
		}
		snap = st.snap
		snap.Credentials = nil
		return "", nil
	})
	return snap, err
}

// ListClergy returns the clergy collection in stored order.
func (s *Service) ListClergy(ctx context.Context) ([]domain.Clergy, error) {
	st, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	return nonNil(st.snap.Clergy), nil
}

// ListParishes returns the parish collection in stored order.
func (s *Service) ListParishes(ctx context.Context) ([]domain.Parish, error) {
	st, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	return nonNil(st.snap.Parishes), nil
}

// ListDeaneries returns the deanery collection in stored order.
func (s *Service) ListDeaneries(ctx context.Context) ([]domain.Deanery, error) {
	st, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	return nonNil(st.snap.Deaneries), nil
}

// ListUserAccounts returns the account collection in stored order.
func (s *Service) ListUserAccounts(ctx context.Context) ([]domain.UserAccount, error) {
	st, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	return nonNil(st.snap.Users), nil
}

// GetClergy fetches a clergy record by id.
func (s *Service) GetClergy(ctx context.Context, id string) (domain.Clergy, bool, error) {
	st, err := s.read(ctx)
	if err != nil {
		return domain.Clergy{}, false, err
	}
	c, ok := st.snap.FindClergy(id)
	return c, ok, nil
}

// GetParish fetches a parish by id.
func (s *Service) GetParish(ctx context.Context, id string) (domain.Parish, bool, error) {
	st, err := s.read(ctx)
	if err != nil {
		return domain.Parish{}, false, err
	}
	p, ok := st.snap.FindParish(id)
	return p, ok, nil
}

// GetDeanery fetches a deanery by id.
func (s *Service) GetDeanery(ctx context.Context, id string) (domain.Deanery, bool, error) {
	st, err := s.read(ctx)
	if err != nil {
		return domain.Deanery{}, false, err
	}
	d, ok := st.snap.FindDeanery(id)
	return d, ok, nil
}
