package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/lottohub/draws-backend/internal/apperrors"
	"github.com/lottohub/draws-backend/internal/models"
	"github.com/lottohub/draws-backend/internal/repositories/memory"
)

func newCategoryServiceForTest() (*CategoryServiceImpl, *memory.CategoryRepository, *memory.DrawRepository) {
	categoryRepo := memory.NewCategoryRepository()
	drawRepo := memory.NewDrawRepository()
	return NewCategoryService(categoryRepo, drawRepo), categoryRepo, drawRepo
}

func TestCategoryService_CreateCategory(t *testing.T) {
	service, _, _ := newCategoryServiceForTest()
	ctx := context.Background()

	t.Run("slug is derived from the name when omitted", func(t *testing.T) {
		category, err := service.CreateCategory(ctx, CategoryInput{Name: "Mark Six!"})
		if err != nil {
			t.Fatalf("Expected no error, but got %v", err)
		}
		if category.Slug != "mark-six" {
			t.Errorf("Expected slug mark-six, but got %q", category.Slug)
		}
	})

	t.Run("defaults are applied", func(t *testing.T) {
		category, err := service.CreateCategory(ctx, CategoryInput{Name: "Lucky Numbers"})
		if err != nil {
			t.Fatalf("Expected no error, but got %v", err)
		}
		if category.Color != models.DefaultCategoryColor {
			t.Errorf("Expected default color %s, but got %q", models.DefaultCategoryColor, category.Color)
		}
		if !category.IsActive {
			t.Error("Expected a new category to be active by default")
		}
	})

	t.Run("explicit inactive flag is honored", func(t *testing.T) {
		inactive := false
		category, err := service.CreateCategory(ctx, CategoryInput{Name: "Retired Game", IsActive: &inactive})
		if err != nil {
			t.Fatalf("Expected no error, but got %v", err)
		}
		if category.IsActive {
			t.Error("Expected the category to be inactive")
		}
	})

	t.Run("missing name", func(t *testing.T) {
		_, err := service.CreateCategory(ctx, CategoryInput{})
		fieldError(t, err, "name")
	})

	t.Run("malformed slug", func(t *testing.T) {
		_, err := service.CreateCategory(ctx, CategoryInput{Name: "Foo", Slug: "Not A Slug"})
		fieldError(t, err, "slug")
	})

	t.Run("malformed color", func(t *testing.T) {
		_, err := service.CreateCategory(ctx, CategoryInput{Name: "Foo", Slug: "foo", Color: "blue"})
		fieldError(t, err, "color")
	})

	t.Run("schedule with an unknown day", func(t *testing.T) {
		_, err := service.CreateCategory(ctx, CategoryInput{
			Name: "Foo",
			Slug: "foo-schedule",
			DrawSchedule: &models.DrawSchedule{
				Days: []string{"tuesday", "someday"},
				Time: "21:30",
			},
		})
		fieldError(t, err, "draw_schedule")
	})

	t.Run("schedule with a malformed time", func(t *testing.T) {
		_, err := service.CreateCategory(ctx, CategoryInput{
			Name: "Foo",
			Slug: "foo-schedule",
			DrawSchedule: &models.DrawSchedule{
				Days: []string{"tuesday"},
				Time: "9.30pm",
			},
		})
		fieldError(t, err, "draw_schedule")
	})

	t.Run("valid schedule round-trips", func(t *testing.T) {
		schedule := &models.DrawSchedule{
			Days:     []string{"tuesday", "thursday", "saturday"},
			Time:     "21:30",
			Timezone: "Asia/Hong_Kong",
		}
		category, err := service.CreateCategory(ctx, CategoryInput{Name: "Scheduled", DrawSchedule: schedule})
		if err != nil {
			t.Fatalf("Expected no error, but got %v", err)
		}
		fetched, err := service.GetCategory(ctx, category.ID)
		if err != nil {
			t.Fatalf("Expected no error, but got %v", err)
		}
		if fetched.DrawSchedule == nil || fetched.DrawSchedule.Time != "21:30" {
			t.Errorf("Expected the schedule to be persisted, but got %+v", fetched.DrawSchedule)
		}
	})
}

func TestCategoryService_SlugUniqueness(t *testing.T) {
	service, _, _ := newCategoryServiceForTest()
	ctx := context.Background()

	first, err := service.CreateCategory(ctx, CategoryInput{Name: "Mark Six"})
	if err != nil {
		t.Fatalf("Failed to create first category: %v", err)
	}
	second, err := service.CreateCategory(ctx, CategoryInput{Name: "Lucky Numbers"})
	if err != nil {
		t.Fatalf("Failed to create second category: %v", err)
	}

	t.Run("duplicate slug on create fails", func(t *testing.T) {
		_, err := service.CreateCategory(ctx, CategoryInput{Name: "Another", Slug: first.Slug})
		message := fieldError(t, err, "slug")
		if message != "This slug is already in use." {
			t.Errorf("Unexpected message: %q", message)
		}
	})

	t.Run("updating to another category's slug fails", func(t *testing.T) {
		_, err := service.UpdateCategory(ctx, second.ID, CategoryInput{Name: second.Name, Slug: first.Slug})
		fieldError(t, err, "slug")
	})

	t.Run("updating a category to its own slug succeeds", func(t *testing.T) {
		updated, err := service.UpdateCategory(ctx, second.ID, CategoryInput{
			Name:        second.Name,
			Slug:        second.Slug,
			Description: "Twice-weekly draw",
		})
		if err != nil {
			t.Fatalf("Expected no error, but got %v", err)
		}
		if updated.Description != "Twice-weekly draw" {
			t.Errorf("Expected description to be updated, but got %q", updated.Description)
		}
	})
}

func TestCategoryService_Listing(t *testing.T) {
	service, _, _ := newCategoryServiceForTest()
	ctx := context.Background()

	inactive := false
	mustCreate := func(name string, sortOrder int, active *bool) {
		if _, err := service.CreateCategory(ctx, CategoryInput{Name: name, SortOrder: sortOrder, IsActive: active}); err != nil {
			t.Fatalf("Failed to create category %s: %v", name, err)
		}
	}
	mustCreate("Zeta Game", 1, nil)
	mustCreate("Alpha Game", 2, nil)
	mustCreate("Dormant Game", 0, &inactive)

	t.Run("active listing excludes inactive categories", func(t *testing.T) {
		active, err := service.ActiveCategories(ctx)
		if err != nil {
			t.Fatalf("Expected no error, but got %v", err)
		}
		if len(active) != 2 {
			t.Fatalf("Expected 2 active categories, but got %d", len(active))
		}
		for _, category := range active {
			if !category.IsActive {
				t.Errorf("Category %s should not appear in the active listing", category.Slug)
			}
		}
	})

	t.Run("categories are ordered by sort order", func(t *testing.T) {
		active, err := service.ActiveCategories(ctx)
		if err != nil {
			t.Fatalf("Expected no error, but got %v", err)
		}
		if active[0].Name != "Zeta Game" || active[1].Name != "Alpha Game" {
			t.Errorf("Expected sort order to win over name, but got %s, %s", active[0].Name, active[1].Name)
		}
	})

	t.Run("full listing includes inactive categories", func(t *testing.T) {
		all, err := service.ListCategories(ctx)
		if err != nil {
			t.Fatalf("Expected no error, but got %v", err)
		}
		if len(all) != 3 {
			t.Errorf("Expected 3 categories, but got %d", len(all))
		}
	})
}

func TestCategoryService_DeleteCascades(t *testing.T) {
	categoryRepo := memory.NewCategoryRepository()
	drawRepo := memory.NewDrawRepository()
	categoryService := NewCategoryService(categoryRepo, drawRepo)
	drawService := NewDrawService(drawRepo, categoryRepo)
	ctx := context.Background()

	doomed, err := categoryService.CreateCategory(ctx, CategoryInput{Name: "Doomed Game"})
	if err != nil {
		t.Fatalf("Failed to create category: %v", err)
	}
	survivor, err := categoryService.CreateCategory(ctx, CategoryInput{Name: "Survivor Game"})
	if err != nil {
		t.Fatalf("Failed to create category: %v", err)
	}

	for i, categoryID := range []string{doomed.ID.Hex(), doomed.ID.Hex(), doomed.ID.Hex(), survivor.ID.Hex()} {
		input := validInput(categoryID, fmt.Sprintf("%04d/25", i+1))
		if _, err := drawService.CreateDraw(ctx, input); err != nil {
			t.Fatalf("Failed to create draw %d: %v", i, err)
		}
	}

	if err := categoryService.DeleteCategory(ctx, doomed.ID); err != nil {
		t.Fatalf("Expected no error, but got %v", err)
	}

	t.Run("category is gone", func(t *testing.T) {
		if _, err := categoryService.GetCategory(ctx, doomed.ID); !errors.Is(err, apperrors.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, but got %v", err)
		}
	})

	t.Run("no orphaned draws remain", func(t *testing.T) {
		page, err := drawService.ListDraws(ctx, ListQuery{})
		if err != nil {
			t.Fatalf("Expected no error, but got %v", err)
		}
		if page.Total != 1 {
			t.Fatalf("Expected 1 surviving draw, but got %d", page.Total)
		}
		if page.Data[0].DrawCategoryID != survivor.ID {
			t.Error("The surviving draw belongs to the wrong category")
		}
	})

	t.Run("deleting an unknown category reports not found", func(t *testing.T) {
		if err := categoryService.DeleteCategory(ctx, doomed.ID); !errors.Is(err, apperrors.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, but got %v", err)
		}
	})
}
