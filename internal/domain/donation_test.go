package domain

import (
	"testing"
	"time"
)

func validDraft() DonationDraft {
	return DonationDraft{
		Title:       "Winter coat",
		Description: "Warm coats",
		Category:    CategoryClothing,
		Condition:   "Used",
		City:        "Bogotá",
		Email:       "a@b.com",
	}
}

func TestValidateDraft(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*DonationDraft)
		wantField string // empty means the draft must be valid
	}{
		{
			name:   "valid clothing draft",
			mutate: func(d *DonationDraft) {},
		},
		{
			name:      "missing title",
			mutate:    func(d *DonationDraft) { d.Title = "" },
			wantField: "title",
		},
		{
			name:      "title is only whitespace",
			mutate:    func(d *DonationDraft) { d.Title = "   " },
			wantField: "title",
		},
		{
			name:      "missing email",
			mutate:    func(d *DonationDraft) { d.Email = "" },
			wantField: "email",
		},
		{
			name:      "malformed email",
			mutate:    func(d *DonationDraft) { d.Email = "not-an-email" },
			wantField: "email",
		},
		{
			name:      "missing city",
			mutate:    func(d *DonationDraft) { d.City = "" },
			wantField: "city",
		},
		{
			name:      "unknown category",
			mutate:    func(d *DonationDraft) { d.Category = "Vehicles" },
			wantField: "category",
		},
		{
			name: "food with wear condition",
			mutate: func(d *DonationDraft) {
				d.Category = CategoryFood
				d.Condition = "Used"
			},
			wantField: "condition",
		},
		{
			name: "food with shelf-life condition",
			mutate: func(d *DonationDraft) {
				d.Category = CategoryFood
				d.Condition = "Perishable"
			},
		},
		{
			name: "clothing with shelf-life condition",
			mutate: func(d *DonationDraft) {
				d.Condition = "Perishable"
			},
			wantField: "condition",
		},
		{
			name: "malformed expiration date",
			mutate: func(d *DonationDraft) {
				d.ExpirationDate = "01/02/2026"
			},
			wantField: "expiration_date",
		},
		{
			name: "food expired yesterday",
			mutate: func(d *DonationDraft) {
				d.Category = CategoryFood
				d.Condition = "Perishable"
				d.ExpirationDate = time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
			},
			wantField: "expiration_date",
		},
		{
			name: "food expiring next year",
			mutate: func(d *DonationDraft) {
				d.Category = CategoryFood
				d.Condition = "Non-perishable"
				d.ExpirationDate = time.Now().UTC().AddDate(1, 0, 0).Format("2006-01-02")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := validDraft()
			tt.mutate(&draft)
			draft.Normalize()

			ve := draft.Validate()
			if tt.wantField == "" {
				if ve != nil {
					t.Fatalf("Validate() = %v, want nil", ve)
				}
				return
			}
			if ve == nil {
				t.Fatalf("Validate() = nil, want error on field %q", tt.wantField)
			}
			if _, ok := ve.Fields[tt.wantField]; !ok {
				t.Errorf("Validate() fields = %v, want message for %q", ve.Fields, tt.wantField)
			}
		})
	}
}

func TestValidateReportsAllMissingFields(t *testing.T) {
	draft := DonationDraft{}
	draft.Normalize()

	ve := draft.Validate()
	if ve == nil {
		t.Fatal("Validate() = nil for empty draft")
	}
	for _, field := range []string{"title", "description", "category", "condition", "city", "email"} {
		if _, ok := ve.Fields[field]; !ok {
			t.Errorf("missing validation message for %q", field)
		}
	}
}

func TestNormalizeTrimsFields(t *testing.T) {
	draft := DonationDraft{
		Title: "  Winter coat  ",
		City:  "\tBogotá\n",
		Email: " a@b.com ",
	}
	draft.Normalize()

	if draft.Title != "Winter coat" {
		t.Errorf("Title = %q", draft.Title)
	}
	if draft.City != "Bogotá" {
		t.Errorf("City = %q", draft.City)
	}
	if draft.Email != "a@b.com" {
		t.Errorf("Email = %q", draft.Email)
	}
}
