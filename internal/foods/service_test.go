package foods

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/boshmah/HealthCommandCenter/internal/storage"
	"github.com/boshmah/HealthCommandCenter/internal/storage/memory"
)

func newTestService() *Service {
	s := NewService(memory.New())
	s.now = func() time.Time {
		return time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	}
	return s
}

func TestService_Create(t *testing.T) {
	s := newTestService()

	resp, err := s.Create(context.Background(), "user-1", validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if resp.Calories != 147 {
		t.Errorf("calories: got %d, want 147", resp.Calories)
	}
	if !strings.HasPrefix(resp.FoodID, "food-") {
		t.Errorf("foodId: got %q", resp.FoodID)
	}

	got, err := s.Get(context.Background(), "user-1", resp.FoodID)
	if err != nil {
		t.Fatalf("get after create: %v", err)
	}
	if got.Name != "Chicken breast" {
		t.Errorf("name: got %q", got.Name)
	}
}

func TestService_Create_ValidationError(t *testing.T) {
	s := newTestService()

	in := validInput()
	in.Name = ""
	_, err := s.Create(context.Background(), "user-1", in)
	assertValidationError(t, err, "Name is required")
}

func TestService_Get_NotFound(t *testing.T) {
	s := newTestService()

	_, err := s.Get(context.Background(), "user-1", "food-missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestService_Get_DoesNotCrossUsers(t *testing.T) {
	s := newTestService()

	resp, err := s.Create(context.Background(), "user-1", validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := s.Get(context.Background(), "user-2", resp.FoodID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for another user, got %v", err)
	}
}

func TestService_List_TotalsAndCount(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	add := func(name string, protein float64) {
		t.Helper()
		in := validInput()
		in.Name = name
		in.Protein = protein
		in.Carbs = float64(0)
		in.Fats = float64(0)
		if _, err := s.Create(ctx, "user-1", in); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}
	add("Breakfast", 25)   // 100 kcal
	add("Lunch", 50)       // 200 kcal
	add("Dinner", 37.5)    // 150 kcal

	// Another day and another user must not leak in.
	other := validInput()
	other.Date = "2025-03-16"
	if _, err := s.Create(ctx, "user-1", other); err != nil {
		t.Fatalf("create other day: %v", err)
	}
	if _, err := s.Create(ctx, "user-2", validInput()); err != nil {
		t.Fatalf("create other user: %v", err)
	}

	list, err := s.List(ctx, "user-1", "2025-03-15")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list.Count != 3 || len(list.Foods) != 3 {
		t.Fatalf("count: got %d (%d foods), want 3", list.Count, len(list.Foods))
	}
	if list.Totals.Protein != 112.5 {
		t.Errorf("total protein: got %v, want 112.5", list.Totals.Protein)
	}
	if list.Totals.Calories != 450 {
		t.Errorf("total calories: got %d, want 450", list.Totals.Calories)
	}
}

func TestService_List_EmptyDay(t *testing.T) {
	s := newTestService()

	list, err := s.List(context.Background(), "user-1", "2025-03-15")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list.Count != 0 || len(list.Foods) != 0 {
		t.Errorf("expected empty list, got count=%d", list.Count)
	}
	if list.Totals.Calories != 0 {
		t.Errorf("expected zero totals, got %d", list.Totals.Calories)
	}
}

func TestService_List_DefaultsToToday(t *testing.T) {
	s := newTestService()

	list, err := s.List(context.Background(), "user-1", "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list.Date != "2025-03-15" {
		t.Errorf("date: got %q, want 2025-03-15", list.Date)
	}
}

func TestService_List_InvalidDate(t *testing.T) {
	s := newTestService()

	_, err := s.List(context.Background(), "user-1", "2025-3-15")
	assertValidationError(t, err, "Invalid date format. Use YYYY-MM-DD")
}

func TestService_Update_SameDate(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	created, err := s.Create(ctx, "user-1", validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	in := validInput()
	in.Name = "Grilled chicken"
	in.Protein = float64(40)
	updated, err := s.Update(ctx, "user-1", created.FoodID, in)
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.Name != "Grilled chicken" {
		t.Errorf("name: got %q", updated.Name)
	}
	if updated.Calories != 187 { // 40*4 + 0*4 + 3*9
		t.Errorf("calories not recomputed: got %d, want 187", updated.Calories)
	}
	if updated.FoodID != created.FoodID {
		t.Errorf("foodId changed on update: %q -> %q", created.FoodID, updated.FoodID)
	}
	if updated.CreatedAt != created.CreatedAt {
		t.Errorf("createdAt changed on update")
	}
}

func TestService_Update_DateChangeMovesEntry(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	created, err := s.Create(ctx, "user-1", validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	in := validInput()
	in.Date = "2025-03-16"
	updated, err := s.Update(ctx, "user-1", created.FoodID, in)
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.Date != "2025-03-16" {
		t.Errorf("date: got %q", updated.Date)
	}
	if updated.FoodID != created.FoodID {
		t.Errorf("foodId changed during move")
	}
	if updated.CreatedAt != created.CreatedAt {
		t.Errorf("createdAt not preserved during move")
	}

	oldDay, err := s.List(ctx, "user-1", "2025-03-15")
	if err != nil {
		t.Fatalf("list old day: %v", err)
	}
	if oldDay.Count != 0 {
		t.Errorf("entry still listed under old date")
	}

	newDay, err := s.List(ctx, "user-1", "2025-03-16")
	if err != nil {
		t.Fatalf("list new day: %v", err)
	}
	if newDay.Count != 1 {
		t.Errorf("entry not listed under new date")
	}
}

func TestService_Update_ValidatesBeforeLookup(t *testing.T) {
	s := newTestService()

	// Nonexistent entry plus invalid input: the validation error wins.
	in := validInput()
	in.Protein = float64(-1)
	_, err := s.Update(context.Background(), "user-1", "food-missing", in)
	assertValidationError(t, err, "protein cannot be negative")
}

func TestService_Update_NotFound(t *testing.T) {
	s := newTestService()

	_, err := s.Update(context.Background(), "user-1", "food-missing", validInput())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestService_Delete(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	created, err := s.Create(ctx, "user-1", validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := s.Delete(ctx, "user-1", created.FoodID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := s.Get(ctx, "user-1", created.FoodID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	if err := s.Delete(ctx, "user-1", created.FoodID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

// Compile-time check that the memory backend satisfies the interface the
// service depends on.
var _ storage.EntryStorage = (*memory.MemoryStorage)(nil)
