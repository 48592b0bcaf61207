package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lottohub/draws-backend/internal/config"
	"github.com/lottohub/draws-backend/internal/models"
	mongorepo "github.com/lottohub/draws-backend/internal/repositories/mongodb"
	"github.com/lottohub/draws-backend/internal/services"
	"github.com/lottohub/draws-backend/pkg/mongodb"
)

// Seeds the database with an admin account, the standard categories, and a
// spread of sample draws across every status. Safe to run once against an
// empty database.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	client, err := mongodb.NewClient(cfg.MongoDB.URI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.MongoDB.Database)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	categoryRepo := mongorepo.NewCategoryRepository(db)
	drawRepo := mongorepo.NewDrawRepository(db)
	adminUserRepo := mongorepo.NewAdminUserRepository(db)

	if err := drawRepo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create draw indexes: %v", err)
	}
	if err := categoryRepo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create category indexes: %v", err)
	}

	authService := services.NewAuthService(adminUserRepo, cfg)
	categoryService := services.NewCategoryService(categoryRepo, drawRepo)
	drawService := services.NewDrawService(drawRepo, categoryRepo)

	adminEmail := os.Getenv("SEED_ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@example.com"
	}
	adminPassword := os.Getenv("SEED_ADMIN_PASSWORD")
	if adminPassword == "" {
		log.Fatal("SEED_ADMIN_PASSWORD must be set")
	}
	if _, err := authService.CreateAdmin(ctx, "Administrator", adminEmail, adminPassword); err != nil {
		log.Printf("Skipping admin creation: %v", err)
	} else {
		log.Printf("Created admin %s", adminEmail)
	}

	activeTrue := true
	categories := []services.CategoryInput{
		{
			Name:        "Mark Six",
			Description: "The classic 6-of-49 draw held three times a week.",
			Color:       "#10B981",
			DrawSchedule: &models.DrawSchedule{
				Days:     []string{"Tuesday", "Thursday", "Saturday"},
				Time:     "21:30",
				Timezone: "Asia/Hong_Kong",
			},
			IsActive:  &activeTrue,
			SortOrder: 1,
		},
		{
			Name:        "Lucky Numbers",
			Description: "Daily quick-pick draw.",
			Color:       "#F59E0B",
			DrawSchedule: &models.DrawSchedule{
				Days:     []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"},
				Time:     "20:00",
				Timezone: "Asia/Hong_Kong",
			},
			IsActive:  &activeTrue,
			SortOrder: 2,
		},
	}

	for _, input := range categories {
		category, err := categoryService.CreateCategory(ctx, input)
		if err != nil {
			log.Printf("Skipping category %q: %v", input.Name, err)
			continue
		}
		log.Printf("Created category %s (%s)", category.Name, category.Slug)

		seedDraws(ctx, drawService, category)
	}

	log.Println("Seeding complete")
}

func seedDraws(ctx context.Context, drawService services.DrawService, category *models.DrawCategory) {
	now := time.Now()
	pool := 8_000_000.0

	draws := []services.DrawInput{
		{
			DrawCategoryID: category.ID.Hex(),
			DrawNumber:     fmt.Sprintf("%s-0001/25", category.Slug),
			WinningNumbers: []int{3, 11, 17, 24, 38, 45},
			SpecialNumbers: []int{7},
			DrawDate:       now.AddDate(0, 0, -7).Format("2006-01-02 15:04:05"),
			Status:         string(models.DrawStatusCompleted),
			PrizePool:      &pool,
			TotalWinners:   3,
			PrizeBreakdown: map[string]models.PrizeTier{
				"first_prize":  {Winners: 1, Amount: 5_000_000},
				"second_prize": {Winners: 2, Amount: 500_000},
			},
			IsFeatured: true,
		},
		{
			DrawCategoryID: category.ID.Hex(),
			DrawNumber:     fmt.Sprintf("%s-0002/25", category.Slug),
			WinningNumbers: []int{1, 9, 22, 30, 41, 49},
			DrawDate:       now.Format("2006-01-02 15:04:05"),
			Status:         string(models.DrawStatusLive),
		},
		{
			DrawCategoryID: category.ID.Hex(),
			DrawNumber:     fmt.Sprintf("%s-0003/25", category.Slug),
			DrawDate:       now.AddDate(0, 0, 2).Format("2006-01-02 15:04:05"),
			Status:         string(models.DrawStatusPending),
		},
		{
			DrawCategoryID: category.ID.Hex(),
			DrawNumber:     fmt.Sprintf("%s-0004/25", category.Slug),
			WinningNumbers: []int{2, 14, 19, 27, 33, 48},
			DrawDate:       now.AddDate(0, 0, -14).Format("2006-01-02 15:04:05"),
			Status:         string(models.DrawStatusCancelled),
			Notes:          "Draw voided after an equipment fault",
		},
	}

	for _, input := range draws {
		draw, err := drawService.CreateDraw(ctx, input)
		if err != nil {
			log.Printf("Skipping draw %q: %v", input.DrawNumber, err)
			continue
		}
		log.Printf("Created draw %s (%s)", draw.DrawNumber, draw.Status)
	}
}
