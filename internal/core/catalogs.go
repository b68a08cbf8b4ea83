package core

import (
	"context"
	"encoding/json"
	"strings"

	"diocese/pkg/domain"
)

// DefaultClergyRoles seeds the role catalog until one is saved.
var DefaultClergyRoles = []string{"Pastor", "Parochial Vicar", "Administrator", "Chaplain", "Deacon", domain.DeanQualifier}

func (s *Service) getJSON(ctx context.Context, key string, target any) (bool, error) {
	raw, ok, err := s.store.Get(ctx, key)
	if err != nil {
		return false, &domain.StorageError{Op: "get", Key: key, Err: err}
	}
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return false, nil
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return false, &domain.StorageError{Op: "decode", Key: key, Err: err}
	}
	return true, nil
}

func (s *Service) setJSON(ctx context.Context, key string, value any) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return &domain.StorageError{Op: "encode", Key: key, Err: err}
	}
	if err := s.store.Set(ctx, key, encoded); err != nil {
		return &domain.StorageError{Op: "set", Key: key, Err: err}
	}
	return nil
}

// ClergyRoles returns the catalog of role labels offered for clergy records.
func (s *Service) ClergyRoles(ctx context.Context) ([]string, error) {
	var roles []string
	ok, err := s.getJSON(ctx, domain.CollectionClergyRoles, &roles)
	if err != nil {
		return nil, err
	}
	if !ok {
		return append([]string(nil), DefaultClergyRoles...), nil
	}
	return nonNil(roles), nil
}

// SaveClergyRoles replaces the role catalog. Labels are trimmed and
// de-duplicated case-insensitively; blanks are dropped.
func (s *Service) SaveClergyRoles(ctx context.Context, roles []string) ([]string, error) {
	cleaned := make([]string, 0, len(roles))
	seen := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		role = strings.TrimSpace(role)
		key := strings.ToLower(role)
		if role == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		cleaned = append(cleaned, role)
	}
	err := s.run(ctx, opSaveClergyRoles, func(ctx context.Context) (string, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		return domain.CollectionClergyRoles, s.setJSON(ctx, domain.CollectionClergyRoles, cleaned)
	})
	if err != nil {
		return nil, err
	}
	return cleaned, nil
}

// Settings returns the free-form settings object. A missing key yields an
// empty map.
func (s *Service) Settings(ctx context.Context) (map[string]any, error) {
	settings := make(map[string]any)
	if _, err := s.getJSON(ctx, domain.CollectionSettings, &settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// SaveSettings replaces the settings object.
func (s *Service) SaveSettings(ctx context.Context, settings map[string]any) error {
	if settings == nil {
		settings = map[string]any{}
	}
	return s.run(ctx, opSaveSettings, func(ctx context.Context) (string, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		return domain.CollectionSettings, s.setJSON(ctx, domain.CollectionSettings, settings)
	})
}
