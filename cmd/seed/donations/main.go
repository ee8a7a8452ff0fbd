package main

import (
	"context"
	"log"
	"time"

	"github.com/givebridge/givebridge/internal/config"
	"github.com/givebridge/givebridge/internal/domain"
	"github.com/givebridge/givebridge/internal/repository"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoDB.URI))
	if err != nil {
		log.Fatalf("Failed to connect to Mongo: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database(cfg.MongoDB.Database)
	repo := repository.NewMongoDonationRepository(db)

	donations := []domain.Donation{
		{Title: "Winter coat", Description: "Warm coats, sizes M-L", Category: domain.CategoryClothing, Condition: "Used", City: "Bogotá", Email: "marta@example.com", DonorName: "Marta"},
		{Title: "Kids rain boots", Description: "Two pairs, sizes 28 and 30", Category: domain.CategoryClothing, Condition: "Like new", City: "Medellín", Email: "julio@example.com"},
		{Title: "Canned vegetables", Description: "Twelve cans, unopened", Category: domain.CategoryFood, Condition: "Non-perishable", City: "Cali", Email: "ana@example.com", ExpirationDate: "2027-03-01"},
		{Title: "Fresh bread", Description: "Bakery surplus, pick up today", Category: domain.CategoryFood, Condition: "Perishable", City: "Cali", Email: "panaderia@example.com"},
		{Title: "Dining table", Description: "Wooden table, seats six", Category: domain.CategoryFurniture, Condition: "Used", City: "Bogotá", Email: "carlos@example.com", Address: "Cra 7 #45-12"},
		{Title: "Bookshelf", Description: "Five shelves, minor scratches", Category: domain.CategoryFurniture, Condition: "Used", City: "Barranquilla", Email: "lucia@example.com"},
		{Title: "Wooden blocks", Description: "Complete set in original box", Category: domain.CategoryToys, Condition: "Used once", City: "Medellín", Email: "sofia@example.com"},
		{Title: "Board games", Description: "Three family board games", Category: domain.CategoryToys, Condition: "Used", City: "Bogotá", Email: "diego@example.com"},
		{Title: "Blender", Description: "Works fine, glass jar", Category: domain.CategoryAppliances, Condition: "Used", City: "Cartagena", Email: "rosa@example.com"},
		{Title: "Microwave", Description: "700W, clean and working", Category: domain.CategoryAppliances, Condition: "Like new", City: "Cali", Email: "pedro@example.com"},
	}

	// Validate before inserting so a typo in the seed data fails loudly.
	for i := range donations {
		draft := domain.DonationDraft{
			Title:          donations[i].Title,
			Description:    donations[i].Description,
			Category:       donations[i].Category,
			Condition:      donations[i].Condition,
			City:           donations[i].City,
			Address:        donations[i].Address,
			DonorName:      donations[i].DonorName,
			Email:          donations[i].Email,
			ExpirationDate: donations[i].ExpirationDate,
		}
		draft.Normalize()
		if ve := draft.Validate(); ve != nil {
			log.Fatalf("Seed donation %q is invalid: %v", donations[i].Title, ve)
		}
		donations[i].Available = true
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i := range donations {
		donation := &donations[i]
		g.Go(func() error {
			return repo.Insert(gCtx, donation)
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeded %d donations into %s", len(donations), cfg.MongoDB.Database)
}
