package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/boshmah/HealthCommandCenter/internal/storage"
)

func record(pk, sk, foodID string) *storage.FoodRecord {
	return &storage.FoodRecord{
		PK:         pk,
		SK:         sk,
		EntityType: "FOOD_ENTRY",
		FoodID:     foodID,
		Name:       "Oats",
	}
}

func TestPutIfAbsent_RejectsDuplicateKey(t *testing.T) {
	m := New()
	ctx := context.Background()

	if err := m.PutIfAbsent(ctx, record("USER#u1", "DATE#2025-03-15#TIME#1#FOOD#a", "a")); err != nil {
		t.Fatalf("first put: %v", err)
	}

	err := m.PutIfAbsent(ctx, record("USER#u1", "DATE#2025-03-15#TIME#1#FOOD#a", "a"))
	if !errors.Is(err, storage.ErrKeyExists) {
		t.Errorf("expected ErrKeyExists, got %v", err)
	}
}

func TestQueryPrefix_FilterAndOrder(t *testing.T) {
	m := New()
	ctx := context.Background()

	keys := []string{
		"DATE#2025-03-15#TIME#100#FOOD#a",
		"DATE#2025-03-15#TIME#200#FOOD#b",
		"DATE#2025-03-16#TIME#150#FOOD#c",
	}
	for i, sk := range keys {
		if err := m.PutIfAbsent(ctx, record("USER#u1", sk, string(rune('a'+i)))); err != nil {
			t.Fatalf("put %s: %v", sk, err)
		}
	}
	// A different partition must never be visible.
	if err := m.PutIfAbsent(ctx, record("USER#u2", keys[0], "x")); err != nil {
		t.Fatalf("put other partition: %v", err)
	}

	recs, err := m.QueryPrefix(ctx, "USER#u1", "DATE#2025-03-15#", true)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].SK != keys[0] || recs[1].SK != keys[1] {
		t.Errorf("ascending order broken: %q, %q", recs[0].SK, recs[1].SK)
	}

	recs, err = m.QueryPrefix(ctx, "USER#u1", "DATE#", false)
	if err != nil {
		t.Fatalf("query all: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recs))
	}
	if recs[0].SK != keys[2] {
		t.Errorf("descending order broken: first is %q", recs[0].SK)
	}
}

func TestQueryPrefix_EmptyPartition(t *testing.T) {
	m := New()

	recs, err := m.QueryPrefix(context.Background(), "USER#missing", "DATE#", true)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("expected no records, got %d", len(recs))
	}
}

func TestUpdateFields(t *testing.T) {
	m := New()
	ctx := context.Background()
	sk := "DATE#2025-03-15#TIME#1#FOOD#a"

	if err := m.PutIfAbsent(ctx, record("USER#u1", sk, "a")); err != nil {
		t.Fatalf("put: %v", err)
	}

	upd := storage.FieldUpdate{
		Name:      "Granola",
		Protein:   12,
		Calories:  48,
		UpdatedAt: "2025-03-15T13:00:00Z",
	}
	if err := m.UpdateFields(ctx, "USER#u1", sk, upd); err != nil {
		t.Fatalf("update: %v", err)
	}

	recs, _ := m.QueryPrefix(ctx, "USER#u1", sk, true)
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if recs[0].Name != "Granola" || recs[0].Protein != 12 || recs[0].Calories != 48 {
		t.Errorf("fields not updated: %+v", recs[0])
	}
	if recs[0].UpdatedAt != "2025-03-15T13:00:00Z" {
		t.Errorf("updatedAt: got %q", recs[0].UpdatedAt)
	}
}

func TestUpdateFields_NotFound(t *testing.T) {
	m := New()

	err := m.UpdateFields(context.Background(), "USER#u1", "DATE#missing", storage.FieldUpdate{})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete_AbsentKeyIsNoOp(t *testing.T) {
	m := New()
	ctx := context.Background()
	sk := "DATE#2025-03-15#TIME#1#FOOD#a"

	if err := m.Delete(ctx, "USER#u1", sk); err != nil {
		t.Errorf("delete absent: %v", err)
	}

	if err := m.PutIfAbsent(ctx, record("USER#u1", sk, "a")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := m.Delete(ctx, "USER#u1", sk); err != nil {
		t.Fatalf("delete: %v", err)
	}

	recs, _ := m.QueryPrefix(ctx, "USER#u1", sk, true)
	if len(recs) != 0 {
		t.Errorf("record still present after delete")
	}
}
