package foods

import (
	"time"

	"github.com/boshmah/HealthCommandCenter/internal/storage"
	"github.com/google/uuid"
)

const foodIDPrefix = "food-"

// Assemble builds a persistable record from a validated entry: generates the
// foodId, stamps the ordering timestamp and both audit instants from a single
// UTC instant, derives calories and encodes the storage key.
func Assemble(userID string, v *ValidatedEntry) *storage.FoodRecord {
	now := time.Now().UTC()
	foodID := foodIDPrefix + uuid.NewString()
	timestamp := now.UnixMilli()
	instant := now.Format(time.RFC3339)

	return &storage.FoodRecord{
		PK:         PartitionKey(userID),
		SK:         SortKey(v.Date, timestamp, foodID),
		EntityType: EntityTypeFoodEntry,
		FoodID:     foodID,
		UserID:     userID,
		Name:       v.Name,
		Protein:    v.Protein,
		Carbs:      v.Carbs,
		Fats:       v.Fats,
		Calories:   Calories(v.Protein, v.Carbs, v.Fats),
		Date:       v.Date,
		Timestamp:  timestamp,
		CreatedAt:  instant,
		UpdatedAt:  instant,
	}
}

// ToResponse strips a stored record down to its public view.
func ToResponse(rec *storage.FoodRecord) EntryResponse {
	return EntryResponse{
		FoodID:    rec.FoodID,
		Name:      rec.Name,
		Protein:   rec.Protein,
		Carbs:     rec.Carbs,
		Fats:      rec.Fats,
		Calories:  rec.Calories,
		Date:      rec.Date,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}
