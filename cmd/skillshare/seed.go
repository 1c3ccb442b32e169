package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"skillshare/internal/config"
	"skillshare/internal/model"
	"skillshare/internal/repository"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed a demo host and a few upcoming sessions",
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

type demoSession struct {
	title       string
	description string
	category    model.Category
	difficulty  model.Difficulty
	daysAhead   int
	tags        []string
	max         int
}

var demoSessions = []demoSession{
	{
		title:       "Intro to Go",
		description: "A hands-on walk through Go basics: types, slices, goroutines and the standard library.",
		category:    model.CategoryTech,
		difficulty:  model.DifficultyBeginner,
		daysAhead:   3,
		tags:        []string{"go", "programming", "backend"},
		max:         10,
	},
	{
		title:       "Sourdough from Scratch",
		description: "Starter care, folding, shaping and baking a first loaf at home.",
		category:    model.CategoryCooking,
		difficulty:  model.DifficultyBeginner,
		daysAhead:   5,
		tags:        []string{"baking", "sourdough"},
		max:         6,
	},
	{
		title:       "Jazz Improvisation Workshop",
		description: "Scales, voicings and trading fours. Bring your instrument; intermediate theory assumed.",
		category:    model.CategoryMusic,
		difficulty:  model.DifficultyIntermediate,
		daysAhead:   7,
		tags:        []string{"jazz", "improvisation", "music theory"},
		max:         8,
	},
	{
		title:       "Pitch Deck Clinic",
		description: "Structure a fundraising narrative and get live feedback on your deck.",
		category:    model.CategoryBusiness,
		difficulty:  model.DifficultyExpert,
		daysAhead:   10,
		tags:        []string{"startups", "fundraising", "pitching"},
		max:         12,
	},
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	ctx := context.Background()
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return err
	}
	defer mongoClient.Disconnect(ctx)

	db := mongoClient.Database(cfg.Mongo.Database)
	userRepo := repository.NewUserRepo(db)
	sessionRepo := repository.NewSessionRepo(db)

	// Check if seed has already run.
	existing, err := userRepo.GetByEmail(ctx, "demo@skillshare.local")
	if err != nil {
		return fmt.Errorf("checking existing demo user: %w", err)
	}
	if existing != nil {
		log.Println("demo data already exists, skipping seed")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	host := &model.User{
		UID:          uuid.New().String(),
		Username:     "demo-host",
		Email:        "demo@skillshare.local",
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	if err := userRepo.Create(ctx, host); err != nil {
		return fmt.Errorf("creating demo user: %w", err)
	}

	for _, d := range demoSessions {
		session := &model.Session{
			Title:           d.title,
			Description:     d.description,
			Category:        d.category,
			Difficulty:      d.difficulty,
			Date:            time.Now().AddDate(0, 0, d.daysAhead),
			Tags:            d.tags,
			MaxParticipants: d.max,
			CreatedBy:       host.UID,
			HostName:        host.Username,
			CreatedAt:       time.Now(),
			Participants:    []string{},
		}
		id, err := sessionRepo.Create(ctx, session)
		if err != nil {
			return fmt.Errorf("creating session %q: %w", d.title, err)
		}
		log.Printf("created session %q (%s)", d.title, id)
	}

	fmt.Printf("\n=== Demo Data Seeded ===\n")
	fmt.Printf("Host:     demo-host (%s)\n", host.UID)
	fmt.Printf("Sessions: %d created\n", len(demoSessions))
	fmt.Printf("\nTry it:\n")
	fmt.Printf("  curl -X POST localhost:8080/v1/auth/signin -d '{\"username\":\"demo-host\",\"email\":\"demo@skillshare.local\",\"password\":\"password123\"}'\n")
	fmt.Printf("  curl -H 'Authorization: Bearer <token>' localhost:8080/v1/sessions\n")

	return nil
}
