package foods

// RawEntryInput is the request body for create/update as the client sent it.
// Fields are deliberately untyped: nothing in the body is trusted until the
// validation pass has narrowed it.
type RawEntryInput struct {
	Name    any `json:"name"`
	Protein any `json:"protein"`
	Carbs   any `json:"carbs"`
	Fats    any `json:"fats"`
	Date    any `json:"date"`
}

// ValidatedEntry is the narrowed, trusted form of a food entry input.
type ValidatedEntry struct {
	Name    string
	Protein float64
	Carbs   float64
	Fats    float64
	Date    string // YYYY-MM-DD
}

// EntryResponse is the public view of a stored entry. Storage keys, the
// entity-kind tag, userId and the ordering timestamp are never exposed.
type EntryResponse struct {
	FoodID    string  `json:"foodId"`
	Name      string  `json:"name"`
	Protein   float64 `json:"protein"`
	Carbs     float64 `json:"carbs"`
	Fats      float64 `json:"fats"`
	Calories  int     `json:"calories"`
	Date      string  `json:"date"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

// Totals aggregates macronutrients and calories over the listed entries.
type Totals struct {
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
	Calories int     `json:"calories"`
}

// ListResponse is the response for GET /v1/foods.
type ListResponse struct {
	Date   string          `json:"date"`
	Foods  []EntryResponse `json:"foods"`
	Totals Totals          `json:"totals"`
	Count  int             `json:"count"`
}

type errorResponse struct {
	Error string `json:"error"`
}
