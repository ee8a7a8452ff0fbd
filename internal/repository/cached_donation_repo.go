package repository

import (
	"context"
	"time"

	"github.com/givebridge/givebridge/internal/domain"
)

const (
	availableListKey = "donations:list:available"
	allListKey       = "donations:list:all"
	donationListTTL  = time.Minute
)

// CachedDonationRepository wraps MongoDonationRepository with Redis caching
// of the two listing reads. Every write invalidates both listings, so a read
// after a toggle or delete never serves a stale availability flag for longer
// than the in-flight request that raced it.
type CachedDonationRepository struct {
	mongo *MongoDonationRepository
	cache *RedisCacheRepository
}

// NewCachedDonationRepository creates a new cached donation repository
func NewCachedDonationRepository(mongo *MongoDonationRepository, cache *RedisCacheRepository) *CachedDonationRepository {
	return &CachedDonationRepository{
		mongo: mongo,
		cache: cache,
	}
}

// FindAvailable retrieves available donations with caching
func (r *CachedDonationRepository) FindAvailable(ctx context.Context) ([]*domain.Donation, error) {
	var donations []*domain.Donation
	if err := r.cache.Get(ctx, availableListKey, &donations); err == nil {
		return donations, nil
	}

	result, err := r.mongo.FindAvailable(ctx)
	if err != nil {
		return nil, err
	}

	// Store in cache (ignore cache errors)
	_ = r.cache.Set(ctx, availableListKey, result, donationListTTL)

	return result, nil
}

// FindAll retrieves all donations with caching
func (r *CachedDonationRepository) FindAll(ctx context.Context) ([]*domain.Donation, error) {
	var donations []*domain.Donation
	if err := r.cache.Get(ctx, allListKey, &donations); err == nil {
		return donations, nil
	}

	result, err := r.mongo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	_ = r.cache.Set(ctx, allListKey, result, donationListTTL)

	return result, nil
}

// FindByID is a passthrough; single-record reads are cheap enough uncached.
func (r *CachedDonationRepository) FindByID(ctx context.Context, id string) (*domain.Donation, error) {
	return r.mongo.FindByID(ctx, id)
}

// Insert creates a donation and invalidates the listings
func (r *CachedDonationRepository) Insert(ctx context.Context, donation *domain.Donation) error {
	if err := r.mongo.Insert(ctx, donation); err != nil {
		return err
	}
	r.invalidateListings(ctx)
	return nil
}

// SetAvailability updates the flag and invalidates the listings
func (r *CachedDonationRepository) SetAvailability(ctx context.Context, id string, available bool) error {
	if err := r.mongo.SetAvailability(ctx, id, available); err != nil {
		return err
	}
	r.invalidateListings(ctx)
	return nil
}

// Delete removes a donation and invalidates the listings
func (r *CachedDonationRepository) Delete(ctx context.Context, id string) error {
	if err := r.mongo.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidateListings(ctx)
	return nil
}

func (r *CachedDonationRepository) invalidateListings(ctx context.Context) {
	// Ignore cache errors: the TTL bounds staleness either way.
	_ = r.cache.Delete(ctx, availableListKey, allListKey)
}
