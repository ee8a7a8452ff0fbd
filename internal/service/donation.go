package service

import (
	"context"
	"fmt"

	"github.com/givebridge/givebridge/internal/domain"
)

// DonationServiceImpl implements domain.DonationService
type DonationServiceImpl struct {
	repository domain.DonationRepository
	files      domain.FileRepository
}

// NewDonationService creates a new donation service
func NewDonationService(repository domain.DonationRepository, files domain.FileRepository) *DonationServiceImpl {
	return &DonationServiceImpl{
		repository: repository,
		files:      files,
	}
}

// Create runs the create pipeline: validate, store the optional image, insert.
// Validation failure persists nothing and saves no image; an image-save
// failure aborts before the insert, so no record ever references a missing
// file.
func (s *DonationServiceImpl) Create(ctx context.Context, draft domain.DonationDraft, image *domain.ImageUpload) (*domain.Donation, error) {
	draft.Normalize()
	if ve := draft.Validate(); ve != nil {
		return nil, ve
	}

	var imagePath *string
	if image != nil && len(image.Data) > 0 {
		path, err := s.files.Save(ctx, image.Data, image.Filename, image.ContentType)
		if err != nil {
			return nil, fmt.Errorf("failed to store image: %w", err)
		}
		imagePath = &path
	}

	donation := &domain.Donation{
		Title:          draft.Title,
		Description:    draft.Description,
		Category:       draft.Category,
		Condition:      draft.Condition,
		City:           draft.City,
		Address:        draft.Address,
		DonorName:      draft.DonorName,
		Email:          draft.Email,
		ExpirationDate: draft.ExpirationDate,
		ImagePath:      imagePath,
		Available:      true,
	}

	if err := s.repository.Insert(ctx, donation); err != nil {
		return nil, fmt.Errorf("failed to save donation: %w", err)
	}

	return donation, nil
}

// ListAvailable returns donations with available == true
func (s *DonationServiceImpl) ListAvailable(ctx context.Context) ([]*domain.Donation, error) {
	return s.repository.FindAvailable(ctx)
}

// ListAll returns every donation regardless of availability
func (s *DonationServiceImpl) ListAll(ctx context.Context) ([]*domain.Donation, error) {
	return s.repository.FindAll(ctx)
}

// GetByID returns a single donation
func (s *DonationServiceImpl) GetByID(ctx context.Context, id string) (*domain.Donation, error) {
	return s.repository.FindByID(ctx, id)
}

// ToggleAvailability flips the current availability flag and returns the new
// value. There is no way to set an explicit target value.
func (s *DonationServiceImpl) ToggleAvailability(ctx context.Context, id string) (bool, error) {
	donation, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return false, err
	}

	next := !donation.Available
	if err := s.repository.SetAvailability(ctx, id, next); err != nil {
		return false, err
	}
	return next, nil
}

// Delete removes the donation record. The stored image file is deliberately
// retained: existing clients may still hold the uploads URL.
func (s *DonationServiceImpl) Delete(ctx context.Context, id string) error {
	return s.repository.Delete(ctx, id)
}
