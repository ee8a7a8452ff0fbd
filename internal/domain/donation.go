package domain

import (
	"context"
	"regexp"
	"strings"
	"time"
)

// Donation categories. The set is closed: a submission with a category
// outside this list is rejected by validation.
const (
	CategoryClothing   = "Clothing"
	CategoryFood       = "Food"
	CategoryFurniture  = "Furniture"
	CategoryToys       = "Toys"
	CategoryAppliances = "Appliances"
)

// Food items carry shelf-life conditions; every other category uses the
// general wear conditions.
var (
	foodConditions    = []string{"Perishable", "Non-perishable"}
	generalConditions = []string{"New", "Like new", "Used once", "Used", "Not applicable"}

	categories = []string{
		CategoryClothing,
		CategoryFood,
		CategoryFurniture,
		CategoryToys,
		CategoryAppliances,
	}

	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

const expirationDateLayout = "2006-01-02"

// Donation represents one donated item offer.
type Donation struct {
	ID          string `bson:"_id,omitempty" json:"id"`
	Title       string `bson:"title" json:"title"`
	Description string `bson:"description" json:"description"`
	Category    string `bson:"category" json:"category"`
	Condition   string `bson:"condition" json:"condition"`
	City        string `bson:"city" json:"city"`
	Address     string `bson:"address,omitempty" json:"address,omitempty"`
	DonorName   string `bson:"donor_name,omitempty" json:"donor_name,omitempty"`
	Email       string `bson:"email" json:"email"`

	// Only meaningful for Food donations, format YYYY-MM-DD.
	ExpirationDate string `bson:"expiration_date,omitempty" json:"expiration_date,omitempty"`

	// ImagePath is nil when the donation was created without an image.
	// When set it has the fixed form "/uploads/<filename>".
	ImagePath *string `bson:"image_path" json:"image_path"`

	// Available is the only field mutable after creation, via toggle.
	Available bool      `bson:"available" json:"available"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// DonationDraft is a submitted donation before validation. Field names match
// the multipart form keys of POST /donations.
type DonationDraft struct {
	Title          string
	Description    string
	Category       string
	Condition      string
	City           string
	Address        string
	DonorName      string
	Email          string
	ExpirationDate string
}

// Normalize trims surrounding whitespace from every text field.
func (d *DonationDraft) Normalize() {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	d.Category = strings.TrimSpace(d.Category)
	d.Condition = strings.TrimSpace(d.Condition)
	d.City = strings.TrimSpace(d.City)
	d.Address = strings.TrimSpace(d.Address)
	d.DonorName = strings.TrimSpace(d.DonorName)
	d.Email = strings.TrimSpace(d.Email)
	d.ExpirationDate = strings.TrimSpace(d.ExpirationDate)
}

// Validate checks the draft against the donation schema. It returns nil when
// the draft is valid, otherwise a ValidationError with one message per
// offending field. It has no side effects.
func (d *DonationDraft) Validate() *ValidationError {
	ve := &ValidationError{Fields: map[string]string{}}

	required := map[string]string{
		"title":       d.Title,
		"description": d.Description,
		"category":    d.Category,
		"condition":   d.Condition,
		"city":        d.City,
		"email":       d.Email,
	}
	for field, value := range required {
		if value == "" {
			ve.Fields[field] = "this field is required"
		}
	}

	if d.Email != "" && !emailPattern.MatchString(d.Email) {
		ve.Fields["email"] = "invalid email format"
	}

	if d.Category != "" && !contains(categories, d.Category) {
		ve.Fields["category"] = "unknown category"
	}

	if d.Category != "" && d.Condition != "" && ve.Fields["category"] == "" {
		allowed := generalConditions
		if d.Category == CategoryFood {
			allowed = foodConditions
		}
		if !contains(allowed, d.Condition) {
			if d.Category == CategoryFood {
				ve.Fields["condition"] = "must be 'Perishable' or 'Non-perishable' for food"
			} else {
				ve.Fields["condition"] = "condition not valid for this category"
			}
		}
	}

	if d.ExpirationDate != "" {
		exp, err := time.Parse(expirationDateLayout, d.ExpirationDate)
		if err != nil {
			ve.Fields["expiration_date"] = "invalid format, must be YYYY-MM-DD"
		} else if d.Category == CategoryFood {
			today := time.Now().UTC().Truncate(24 * time.Hour)
			if exp.Before(today) {
				ve.Fields["expiration_date"] = "expiration date cannot be in the past"
			}
		}
	}

	if len(ve.Fields) == 0 {
		return nil
	}
	return ve
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// ImageUpload is the optional binary attachment of a create request.
type ImageUpload struct {
	Data        []byte
	Filename    string
	ContentType string
}

// DonationRepository defines persistence over the donations collection.
type DonationRepository interface {
	// Insert saves a new donation and assigns its ID.
	Insert(ctx context.Context, donation *Donation) error

	// FindAvailable returns donations with available == true, newest first.
	FindAvailable(ctx context.Context) ([]*Donation, error)

	// FindAll returns every donation regardless of availability, newest first.
	FindAll(ctx context.Context) ([]*Donation, error)

	// FindByID returns a single donation or ErrNotFound.
	FindByID(ctx context.Context, id string) (*Donation, error)

	// SetAvailability updates the availability flag of one donation.
	// Returns ErrNotFound when the id matches no document.
	SetAvailability(ctx context.Context, id string, available bool) error

	// Delete removes one donation. Returns ErrNotFound when the id matches
	// no document.
	Delete(ctx context.Context, id string) error
}

// DonationService defines the business operations over donations.
type DonationService interface {
	// Create validates the draft, stores the optional image, and inserts the
	// record. Any failure aborts the whole operation: a validation failure
	// persists nothing and saves no image, an image-save failure skips the
	// insert.
	Create(ctx context.Context, draft DonationDraft, image *ImageUpload) (*Donation, error)

	ListAvailable(ctx context.Context) ([]*Donation, error)
	ListAll(ctx context.Context) ([]*Donation, error)
	GetByID(ctx context.Context, id string) (*Donation, error)

	// ToggleAvailability flips the availability flag and returns the new
	// value. It never accepts an explicit target value.
	ToggleAvailability(ctx context.Context, id string) (bool, error)

	Delete(ctx context.Context, id string) error
}
