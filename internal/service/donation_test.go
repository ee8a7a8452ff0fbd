package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/givebridge/givebridge/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDonationRepo is an in-memory domain.DonationRepository
type fakeDonationRepo struct {
	seq       int
	donations map[string]*domain.Donation
	failNext  error
}

func newFakeDonationRepo() *fakeDonationRepo {
	return &fakeDonationRepo{donations: map[string]*domain.Donation{}}
}

func (r *fakeDonationRepo) Insert(ctx context.Context, d *domain.Donation) error {
	if r.failNext != nil {
		err := r.failNext
		r.failNext = nil
		return err
	}
	r.seq++
	d.ID = "id-" + strconv.Itoa(r.seq)
	copied := *d
	r.donations[d.ID] = &copied
	return nil
}

func (r *fakeDonationRepo) FindAvailable(ctx context.Context) ([]*domain.Donation, error) {
	out := []*domain.Donation{}
	for _, d := range r.donations {
		if d.Available {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *fakeDonationRepo) FindAll(ctx context.Context) ([]*domain.Donation, error) {
	out := []*domain.Donation{}
	for _, d := range r.donations {
		out = append(out, d)
	}
	return out, nil
}

func (r *fakeDonationRepo) FindByID(ctx context.Context, id string) (*domain.Donation, error) {
	d, ok := r.donations[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *d
	return &copied, nil
}

func (r *fakeDonationRepo) SetAvailability(ctx context.Context, id string, available bool) error {
	d, ok := r.donations[id]
	if !ok {
		return domain.ErrNotFound
	}
	d.Available = available
	return nil
}

func (r *fakeDonationRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.donations[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.donations, id)
	return nil
}

// fakeFileRepo records saves in memory
type fakeFileRepo struct {
	seq      int
	saved    map[string][]byte
	failNext error
}

func newFakeFileRepo() *fakeFileRepo {
	return &fakeFileRepo{saved: map[string][]byte{}}
}

func (r *fakeFileRepo) Save(ctx context.Context, data []byte, originalFilename, contentType string) (string, error) {
	if r.failNext != nil {
		err := r.failNext
		r.failNext = nil
		return "", err
	}
	r.seq++
	name := fmt.Sprintf("file-%d%s", r.seq, strings.ToLower(originalFilename[strings.LastIndex(originalFilename, "."):]))
	r.saved[name] = data
	return "/uploads/" + name, nil
}

func (r *fakeFileRepo) Open(ctx context.Context, filename string) ([]byte, string, error) {
	data, ok := r.saved[filename]
	if !ok {
		return nil, "", domain.ErrNotFound
	}
	return data, "image/jpeg", nil
}

func validDraft() domain.DonationDraft {
	return domain.DonationDraft{
		Title:       "Winter coat",
		Description: "Warm coats",
		Category:    domain.CategoryClothing,
		Condition:   "Used",
		City:        "Bogotá",
		Email:       "a@b.com",
	}
}

func TestCreateValidDonation(t *testing.T) {
	repo := newFakeDonationRepo()
	files := newFakeFileRepo()
	svc := NewDonationService(repo, files)

	first, err := svc.Create(context.Background(), validDraft(), nil)
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), validDraft(), nil)
	require.NoError(t, err)

	assert.True(t, first.Available, "new donations must be available")
	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID, "ids must be unique across calls")
	assert.Nil(t, first.ImagePath, "no image uploaded, image_path must be nil")
}

func TestCreateWithImage(t *testing.T) {
	repo := newFakeDonationRepo()
	files := newFakeFileRepo()
	svc := NewDonationService(repo, files)

	image := &domain.ImageUpload{Data: []byte("jpeg-bytes"), Filename: "coat.jpg", ContentType: "image/jpeg"}
	donation, err := svc.Create(context.Background(), validDraft(), image)
	require.NoError(t, err)

	require.NotNil(t, donation.ImagePath)
	assert.True(t, strings.HasPrefix(*donation.ImagePath, "/uploads/"))

	// The referenced file must exist in the store at creation time.
	stored, _, err := files.Open(context.Background(), strings.TrimPrefix(*donation.ImagePath, "/uploads/"))
	require.NoError(t, err)
	assert.Equal(t, image.Data, stored)
}

func TestCreateInvalidDraftPersistsNothing(t *testing.T) {
	repo := newFakeDonationRepo()
	files := newFakeFileRepo()
	svc := NewDonationService(repo, files)

	draft := validDraft()
	draft.Email = "not-an-email"
	image := &domain.ImageUpload{Data: []byte("jpeg-bytes"), Filename: "coat.jpg", ContentType: "image/jpeg"}

	_, err := svc.Create(context.Background(), draft, image)

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "email")
	assert.Empty(t, repo.donations, "no document may be inserted")
	assert.Empty(t, files.saved, "no orphan image may be saved")
}

func TestCreateImageSaveFailureSkipsInsert(t *testing.T) {
	repo := newFakeDonationRepo()
	files := newFakeFileRepo()
	files.failNext = errors.New("disk full")
	svc := NewDonationService(repo, files)

	image := &domain.ImageUpload{Data: []byte("jpeg-bytes"), Filename: "coat.jpg", ContentType: "image/jpeg"}
	_, err := svc.Create(context.Background(), validDraft(), image)

	require.Error(t, err)
	var ve *domain.ValidationError
	assert.False(t, errors.As(err, &ve), "storage failure is not a validation error")
	assert.Empty(t, repo.donations, "insert must be skipped after image failure")
}

func TestToggleAvailability(t *testing.T) {
	repo := newFakeDonationRepo()
	svc := NewDonationService(repo, newFakeFileRepo())

	donation, err := svc.Create(context.Background(), validDraft(), nil)
	require.NoError(t, err)

	// true -> false -> true
	next, err := svc.ToggleAvailability(context.Background(), donation.ID)
	require.NoError(t, err)
	assert.False(t, next)

	next, err = svc.ToggleAvailability(context.Background(), donation.ID)
	require.NoError(t, err)
	assert.True(t, next)
}

func TestToggleUnknownID(t *testing.T) {
	svc := NewDonationService(newFakeDonationRepo(), newFakeFileRepo())

	_, err := svc.ToggleAvailability(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteIsIdempotentlyNotFound(t *testing.T) {
	repo := newFakeDonationRepo()
	svc := NewDonationService(repo, newFakeFileRepo())

	donation, err := svc.Create(context.Background(), validDraft(), nil)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), donation.ID))

	// Second delete reports not-found, never a storage error.
	err = svc.Delete(context.Background(), donation.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListAvailableFiltersToggledDonations(t *testing.T) {
	repo := newFakeDonationRepo()
	svc := NewDonationService(repo, newFakeFileRepo())

	kept, err := svc.Create(context.Background(), validDraft(), nil)
	require.NoError(t, err)
	hidden, err := svc.Create(context.Background(), validDraft(), nil)
	require.NoError(t, err)

	_, err = svc.ToggleAvailability(context.Background(), hidden.ID)
	require.NoError(t, err)

	available, err := svc.ListAvailable(context.Background())
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, kept.ID, available[0].ID)

	all, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
