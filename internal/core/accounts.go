package core

import (
	"context"
	"errors"
	"strings"

	"diocese/internal/platform/secrets"
	"diocese/pkg/domain"
)

// MinPasswordLength is the shortest password CreateUserAccount accepts.
const MinPasswordLength = 8

// NewUserAccount carries the fields of the user-management create form.
type NewUserAccount struct {
	Email    string
	Password string
	Name     string
	Role     domain.UserRole
	Status   domain.UserStatus
	// ClergyID links the account to a clergy record. For role user it
	// defaults to the new account id.
	ClergyID string
}

func validateAccount(u *domain.UserAccount) error {
	u.Email = strings.TrimSpace(u.Email)
	var errs []error
	if err := domain.RequireField("email", u.Email); err != nil {
		errs = append(errs, err)
	} else {
		errs = append(errs, domain.ValidateEmail(u.Email))
	}
	if u.Role == "" {
		u.Role = domain.RoleUser
	}
	if !u.Role.Valid() {
		errs = append(errs, &domain.ValidationError{Field: "role", Value: string(u.Role), Reason: "must be admin, staff or user"})
	}
	if u.Status == "" {
		u.Status = domain.UserStatusActive
	}
	if !u.Status.Valid() {
		errs = append(errs, &domain.ValidationError{Field: "status", Value: string(u.Status), Reason: "must be active, pending or inactive"})
	}
	return errors.Join(errs...)
}

func validatePassword(password string) error {
	if password == "" {
		return &domain.ValidationError{Field: "password", Reason: "is required"}
	}
	if len(password) < MinPasswordLength {
		return &domain.ValidationError{Field: "password", Reason: "must be at least 8 characters"}
	}
	return nil
}

func emailTaken(snap *domain.Snapshot, email, exceptID string) error {
	for _, u := range snap.Users {
		if u.ID != exceptID && strings.EqualFold(u.Email, email) {
			return &domain.ValidationError{Field: "email", Value: email, Reason: "is already registered"}
		}
	}
	return nil
}

// CreateUserAccount adds an account and its login credential. For role user
// it also creates a clergy stub under the linked clergy id, unless a clergy
// record with that id already exists; existing clergy data is never touched.
func (s *Service) CreateUserAccount(ctx context.Context, in NewUserAccount) (domain.UserAccount, error) {
	account := domain.UserAccount{
		Email:    in.Email,
		Name:     strings.TrimSpace(in.Name),
		Role:     in.Role,
		Status:   in.Status,
		ClergyID: strings.TrimSpace(in.ClergyID),
	}
	err := s.run(ctx, opCreateUserAccount, func(ctx context.Context) (string, error) {
		if err := errors.Join(validateAccount(&account), validatePassword(in.Password)); err != nil {
			return "", err
		}
		hash, err := secrets.Hash(in.Password)
		if err != nil {
			return "", err
		}
		account.ID = s.newID()
		account.CreatedAt = s.now()
		if account.Role == domain.RoleUser && account.ClergyID == "" {
			account.ClergyID = account.ID
		}
		first, last := domain.DeriveNameFromEmail(account.Email)
		if account.Name == "" {
			account.Name = first + " " + last
		}

		_, _, err = s.mutate(ctx, func(st *state) ([]domain.Change, error) {
			if err := emailTaken(&st.snap, account.Email, ""); err != nil {
				return nil, err
			}
			changes := []domain.Change{{Entity: domain.EntityUserAccount, Action: domain.ActionCreate, ID: account.ID, After: account}}
			st.snap.Users = append(st.snap.Users, account)
			st.snap.Credentials = append(st.snap.Credentials, domain.LoginCredential{
				UserID:       account.ID,
				Email:        strings.ToLower(account.Email),
				PasswordHash: hash,
			})

			if account.Role == domain.RoleUser && st.snap.ClergyIndex(account.ClergyID) < 0 {
				stub := domain.Clergy{
					Base:      domain.Base{ID: account.ClergyID},
					FirstName: first,
					LastName:  last,
					Name:      account.Name,
					Type:      domain.ClergyTypePriest,
					Status:    domain.ClergyStatusActive,
					Email:     account.Email,
				}
				changes = append(changes, s.putClergy(st, stub))
			}
			return changes, nil
		})
		return account.ID, err
	})
	if err != nil {
		return domain.UserAccount{}, err
	}
	return account, nil
}

// UpdateUserAccount applies mutator to an account. The id and creation time
// are immutable; an email change is mirrored onto the login credential.
func (s *Service) UpdateUserAccount(ctx context.Context, id string, mutator func(*domain.UserAccount) error) (domain.UserAccount, error) {
	var saved domain.UserAccount
	err := s.run(ctx, opUpdateUserAccount, func(ctx context.Context) (string, error) {
		_, _, err := s.mutate(ctx, func(st *state) ([]domain.Change, error) {
			idx := st.snap.UserIndex(id)
			if idx < 0 {
				return nil, &domain.ReferenceNotFoundError{Entity: domain.EntityUserAccount, ID: id}
			}
			before := st.snap.Users[idx]
			updated := before
			if err := mutator(&updated); err != nil {
				return nil, err
			}
			updated.ID = before.ID
			updated.CreatedAt = before.CreatedAt
			if err := validateAccount(&updated); err != nil {
				return nil, err
			}
			if err := emailTaken(&st.snap, updated.Email, id); err != nil {
				return nil, err
			}
			st.snap.Users[idx] = updated
			if !strings.EqualFold(before.Email, updated.Email) {
				for i := range st.snap.Credentials {
					if st.snap.Credentials[i].UserID == id {
						st.snap.Credentials[i].Email = strings.ToLower(updated.Email)
					}
				}
			}
			saved = updated
			return []domain.Change{{Entity: domain.EntityUserAccount, Action: domain.ActionUpdate, ID: id, Before: before, After: updated}}, nil
		})
		return id, err
	})
	if err != nil {
		return domain.UserAccount{}, err
	}
	return saved, nil
}

// DeleteUserAccount removes an account and its credentials. A linked clergy
// record is left untouched. Deleting a missing id is a no-op.
func (s *Service) DeleteUserAccount(ctx context.Context, id string) error {
	return s.run(ctx, opDeleteUserAccount, func(ctx context.Context) (string, error) {
		_, _, err := s.mutate(ctx, func(st *state) ([]domain.Change, error) {
			var changes []domain.Change
			if idx := st.snap.UserIndex(id); idx >= 0 {
				before := st.snap.Users[idx]
				st.snap.Users = append(st.snap.Users[:idx], st.snap.Users[idx+1:]...)
				changes = append(changes, domain.Change{Entity: domain.EntityUserAccount, Action: domain.ActionDelete, ID: id, Before: before})
			}
			kept := st.snap.Credentials[:0]
			for _, cred := range st.snap.Credentials {
				if cred.UserID != id {
					kept = append(kept, cred)
				}
			}
			st.snap.Credentials = kept
			return changes, nil
		})
		return id, err
	})
}
