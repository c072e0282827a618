// internal/models/meal.go
package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Upstream record keys.
const (
	FieldID           = "idMeal"
	FieldName         = "strMeal"
	FieldCategory     = "strCategory"
	FieldArea         = "strArea"
	FieldInstructions = "strInstructions"
	FieldThumbnail    = "strMealThumb"
	FieldTags         = "strTags"
	FieldSource       = "strSource"
	FieldYoutube      = "strYoutube"

	// FieldIngredientPrefix and FieldMeasurePrefix are suffixed with 1..MaxIngredientSlots.
	FieldIngredientPrefix = "strIngredient"
	FieldMeasurePrefix    = "strMeasure"
)

// RawMeal is one meal record as returned by upstream. Every key is optional
// and values are loosely typed.
type RawMeal map[string]any

// Field returns the trimmed string value for key. Missing keys, nulls, empty
// strings and non-scalar values all come back as "".
func (m RawMeal) Field(key string) string {
	switch v := m[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// MealSummary is the list-style view of a meal.
type MealSummary struct {
	ID                  *string  `json:"id"`
	Name                *string  `json:"name"`
	Category            *string  `json:"category"`
	Area                *string  `json:"area"`
	Tags                []string `json:"tags"`
	Thumbnail           *string  `json:"thumbnail"`
	InstructionsPreview *string  `json:"instructions_preview"`
	SourceURL           *string  `json:"source_url"`
	YoutubeURL          *string  `json:"youtube_url"`
}

// IngredientLine is one ingredient with its optional measure.
type IngredientLine struct {
	Ingredient string `json:"ingredient"`
	Measure    string `json:"measure,omitempty"`
}

// MealDetail is the full recipe view of a meal.
type MealDetail struct {
	ID           *string          `json:"id"`
	Name         *string          `json:"name"`
	Category     *string          `json:"category"`
	Area         *string          `json:"area"`
	Instructions *string          `json:"instructions"`
	Thumbnail    *string          `json:"thumbnail"`
	Tags         []string         `json:"tags"`
	Ingredients  []IngredientLine `json:"ingredients"`
	SourceURL    *string          `json:"source_url"`
	YoutubeURL   *string          `json:"youtube_url"`
}

// FilteredMeal is the reduced shape upstream's filter endpoint provides.
type FilteredMeal struct {
	ID        *string `json:"id"`
	Name      *string `json:"name"`
	Thumbnail *string `json:"thumbnail"`
}

// SearchResult is the envelope for search_meals_by_name.
type SearchResult struct {
	Query string        `json:"query"`
	Count int           `json:"count"`
	Meals []MealSummary `json:"meals"`
}

// FilterResult is the envelope for filter_meals_by_ingredient.
type FilterResult struct {
	Ingredient string         `json:"ingredient"`
	Count      int            `json:"count"`
	Meals      []FilteredMeal `json:"meals"`
}
