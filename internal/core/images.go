package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"diocese/internal/blob"
	"diocese/pkg/domain"
)

// ErrImagesDisabled is returned by the portrait operations when the service
// was built without WithProfileImages.
var ErrImagesDisabled = errors.New("profile images are not configured")

// SetClergyProfileImage stores a new portrait for a clergy member and points
// the record at it. The previous portrait is deleted once the record is
// saved.
func (s *Service) SetClergyProfileImage(ctx context.Context, clergyID string, r io.Reader, contentType string) (domain.Clergy, error) {
	var saved domain.Clergy
	err := s.run(ctx, opSetProfileImage, func(ctx context.Context) (string, error) {
		if s.images == nil {
			return clergyID, ErrImagesDisabled
		}
		if !blob.IsImageContentType(contentType) {
			return clergyID, &domain.ValidationError{Field: "profileImage", Value: contentType, Reason: "must be a jpeg, png, gif or webp image"}
		}
		if _, ok, err := s.GetClergy(ctx, clergyID); err != nil {
			return clergyID, err
		} else if !ok {
			return clergyID, &domain.ReferenceNotFoundError{Entity: domain.EntityClergy, ID: clergyID}
		}

		key := blob.ProfileImageKey(clergyID)
		if _, err := s.images.Put(ctx, key, r, blob.PutOptions{
			ContentType: contentType,
			Metadata:    map[string]string{"clergy-id": clergyID},
		}); err != nil {
			return clergyID, fmt.Errorf("store profile image: %w", err)
		}

		var previous string
		st, _, err := s.mutate(ctx, func(st *state) ([]domain.Change, error) {
			idx := st.snap.ClergyIndex(clergyID)
			if idx < 0 {
				return nil, &domain.ReferenceNotFoundError{Entity: domain.EntityClergy, ID: clergyID}
			}
			before := st.snap.Clergy[idx]
			previous = before.ProfileImage
			st.snap.Clergy[idx].ProfileImage = key
			st.snap.Clergy[idx].UpdatedAt = s.now()
			return []domain.Change{{Entity: domain.EntityClergy, Action: domain.ActionUpdate, ID: clergyID, Before: before, After: st.snap.Clergy[idx]}}, nil
		})
		if err != nil {
			s.discardImage(ctx, key)
			return clergyID, err
		}
		s.discardImage(ctx, previous)
		saved, _ = st.snap.FindClergy(clergyID)
		return clergyID, nil
	})
	return saved, err
}

// RemoveClergyProfileImage clears a clergy member's portrait.
func (s *Service) RemoveClergyProfileImage(ctx context.Context, clergyID string) error {
	return s.run(ctx, opRemoveProfileImage, func(ctx context.Context) (string, error) {
		var previous string
		_, _, err := s.mutate(ctx, func(st *state) ([]domain.Change, error) {
			idx := st.snap.ClergyIndex(clergyID)
			if idx < 0 {
				return nil, &domain.ReferenceNotFoundError{Entity: domain.EntityClergy, ID: clergyID}
			}
			previous = st.snap.Clergy[idx].ProfileImage
			if previous == "" {
				return nil, nil
			}
			st.snap.Clergy[idx].ProfileImage = ""
			st.snap.Clergy[idx].UpdatedAt = s.now()
			return []domain.Change{{Entity: domain.EntityClergy, Action: domain.ActionUpdate, ID: clergyID}}, nil
		})
		if err != nil {
			return clergyID, err
		}
		s.discardImage(ctx, previous)
		return clergyID, nil
	})
}

// ProfileImageURL returns a time-limited URL for a clergy member's portrait.
// An expiry of zero uses the store default.
func (s *Service) ProfileImageURL(ctx context.Context, clergyID string, expiry time.Duration) (string, error) {
	var url string
	err := s.run(ctx, opProfileImageURL, func(ctx context.Context) (string, error) {
		if s.images == nil {
			return clergyID, ErrImagesDisabled
		}
		c, ok, err := s.GetClergy(ctx, clergyID)
		if err != nil {
			return clergyID, err
		}
		if !ok {
			return clergyID, &domain.ReferenceNotFoundError{Entity: domain.EntityClergy, ID: clergyID}
		}
		if c.ProfileImage == "" {
			return clergyID, blob.ErrNotFound
		}
		url, err = s.images.PresignURL(ctx, c.ProfileImage, blob.SignedURLOptions{Method: "GET", Expiry: expiry})
		return clergyID, err
	})
	return url, err
}

// discardImage deletes a portrait best-effort. Leftovers are removed by
// RepairAll.
func (s *Service) discardImage(ctx context.Context, key string) {
	if s.images == nil || key == "" {
		return
	}
	if _, err := s.images.Delete(ctx, key); err != nil {
		s.logger.Warn("delete profile image", "key", key, "error", err)
	}
}
