package foods

import "fmt"

// EntityTypeFoodEntry tags food entry items in the shared table.
const EntityTypeFoodEntry = "FOOD_ENTRY"

// AllEntriesPrefix matches every food entry sort key under a user's
// partition, regardless of date.
const AllEntriesPrefix = "DATE#"

// PartitionKey groups all of one user's entries.
func PartitionKey(userID string) string {
	return "USER#" + userID
}

// SortKey encodes (date, timestamp, foodID) into a single range key, so one
// partition supports all-entries, per-date and exact-entry lookups by prefix.
// The timestamp is an un-padded decimal: lexicographic order matches numeric
// order only while millisecond timestamps keep the same digit count (next
// rollover is in the year 2286).
func SortKey(date string, timestamp int64, foodID string) string {
	return fmt.Sprintf("DATE#%s#TIME#%d#FOOD#%s", date, timestamp, foodID)
}

// DatePrefix matches every sort key for one calendar date.
func DatePrefix(date string) string {
	return "DATE#" + date + "#"
}
