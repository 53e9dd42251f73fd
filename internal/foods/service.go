package foods

import (
	"context"
	"errors"
	"time"

	"github.com/boshmah/HealthCommandCenter/internal/storage"
)

// ErrNotFound means no entry with the requested foodId exists for the caller.
var ErrNotFound = errors.New("food entry not found")

// Service orchestrates validation, assembly and the storage collaborator.
type Service struct {
	storage storage.EntryStorage
	now     func() time.Time
}

func NewService(store storage.EntryStorage) *Service {
	return &Service{
		storage: store,
		now:     time.Now,
	}
}

// Create validates the input, assembles a new record and inserts it under a
// fresh key. The conditional insert is defensive: the key embeds a random
// foodId and a millisecond timestamp, so collisions are practically
// impossible, but a duplicate key still fails atomically with ErrKeyExists.
func (s *Service) Create(ctx context.Context, userID string, in RawEntryInput) (*EntryResponse, error) {
	v, err := Validate(in, s.now())
	if err != nil {
		return nil, err
	}

	rec := Assemble(userID, v)
	if err := s.storage.PutIfAbsent(ctx, rec); err != nil {
		return nil, err
	}

	resp := ToResponse(rec)
	return &resp, nil
}

// Get returns the public view of one entry by foodId.
func (s *Service) Get(ctx context.Context, userID, foodID string) (*EntryResponse, error) {
	rec, err := s.locate(ctx, userID, foodID)
	if err != nil {
		return nil, err
	}

	resp := ToResponse(rec)
	return &resp, nil
}

// List returns all entries for one calendar date, ascending by creation
// time, plus the day's macronutrient and calorie totals. An empty date
// defaults to the current UTC date.
func (s *Service) List(ctx context.Context, userID, date string) (*ListResponse, error) {
	if date == "" {
		date = s.now().UTC().Format(dateLayout)
	}
	if !ValidDate(date) {
		return nil, &ValidationError{Message: "Invalid date format. Use YYYY-MM-DD"}
	}

	recs, err := s.storage.QueryPrefix(ctx, PartitionKey(userID), DatePrefix(date), true)
	if err != nil {
		return nil, err
	}

	foods := make([]EntryResponse, len(recs))
	var totals Totals
	for i := range recs {
		foods[i] = ToResponse(&recs[i])
		totals.Protein += recs[i].Protein
		totals.Carbs += recs[i].Carbs
		totals.Fats += recs[i].Fats
		totals.Calories += recs[i].Calories
	}

	return &ListResponse{
		Date:   date,
		Foods:  foods,
		Totals: totals,
		Count:  len(recs),
	}, nil
}

// Update replaces the mutable fields of an entry and recomputes calories.
// When the date changes, the record must move: the date is embedded in the
// sort key, so the old key is deleted and the record reinserted under the
// new one, preserving foodId, timestamp and createdAt. The two steps are not
// atomic; a crash between them loses the entry.
func (s *Service) Update(ctx context.Context, userID, foodID string, in RawEntryInput) (*EntryResponse, error) {
	v, err := Validate(in, s.now())
	if err != nil {
		return nil, err
	}

	existing, err := s.locate(ctx, userID, foodID)
	if err != nil {
		return nil, err
	}

	updatedAt := s.now().UTC().Format(time.RFC3339)

	if v.Date != existing.Date {
		moved := *existing
		moved.Name = v.Name
		moved.Protein = v.Protein
		moved.Carbs = v.Carbs
		moved.Fats = v.Fats
		moved.Calories = Calories(v.Protein, v.Carbs, v.Fats)
		moved.Date = v.Date
		moved.SK = SortKey(v.Date, existing.Timestamp, existing.FoodID)
		moved.UpdatedAt = updatedAt

		if err := s.storage.Delete(ctx, existing.PK, existing.SK); err != nil {
			return nil, err
		}
		if err := s.storage.PutIfAbsent(ctx, &moved); err != nil {
			return nil, err
		}

		resp := ToResponse(&moved)
		return &resp, nil
	}

	upd := storage.FieldUpdate{
		Name:      v.Name,
		Protein:   v.Protein,
		Carbs:     v.Carbs,
		Fats:      v.Fats,
		Calories:  Calories(v.Protein, v.Carbs, v.Fats),
		UpdatedAt: updatedAt,
	}
	if err := s.storage.UpdateFields(ctx, existing.PK, existing.SK, upd); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	existing.Name = upd.Name
	existing.Protein = upd.Protein
	existing.Carbs = upd.Carbs
	existing.Fats = upd.Fats
	existing.Calories = upd.Calories
	existing.UpdatedAt = upd.UpdatedAt

	resp := ToResponse(existing)
	return &resp, nil
}

// Delete removes an entry by foodId.
func (s *Service) Delete(ctx context.Context, userID, foodID string) error {
	rec, err := s.locate(ctx, userID, foodID)
	if err != nil {
		return err
	}
	return s.storage.Delete(ctx, rec.PK, rec.SK)
}

// locate scans the caller's partition for a matching foodId. The key scheme
// has no direct foodId lookup (date and timestamp are part of the sort key),
// so lookup walks the DATE# range.
func (s *Service) locate(ctx context.Context, userID, foodID string) (*storage.FoodRecord, error) {
	recs, err := s.storage.QueryPrefix(ctx, PartitionKey(userID), AllEntriesPrefix, true)
	if err != nil {
		return nil, err
	}

	for i := range recs {
		if recs[i].FoodID == foodID {
			return &recs[i], nil
		}
	}
	return nil, ErrNotFound
}
