package models

import (
	"strconv"
	"strings"
)

const (
	// MaxIngredientSlots is the number of strIngredientN/strMeasureN pairs upstream defines.
	MaxIngredientSlots = 20

	// PreviewLength is the number of characters kept in an instructions preview.
	PreviewLength = 280

	// Ellipsis marks a truncated preview.
	Ellipsis = "…"
)

// PreviewInstructions trims s and cuts it to PreviewLength characters,
// appending Ellipsis only when something was cut.
func PreviewInstructions(s string) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= PreviewLength {
		return s
	}
	return string(runes[:PreviewLength]) + Ellipsis
}

// SplitTags splits upstream's comma-separated tag string. Blank pieces are
// dropped; order and duplicates are kept. The result is never nil.
func SplitTags(s string) []string {
	tags := []string{}
	for _, piece := range strings.Split(s, ",") {
		if tag := strings.TrimSpace(piece); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// ExtractIngredients compacts the fixed ingredient/measure slots into an
// ordered list. A slot without an ingredient is skipped along with its
// measure. The result is never nil.
func ExtractIngredients(m RawMeal) []IngredientLine {
	lines := []IngredientLine{}
	for i := 1; i <= MaxIngredientSlots; i++ {
		n := strconv.Itoa(i)
		ingredient := m.Field(FieldIngredientPrefix + n)
		if ingredient == "" {
			continue
		}
		lines = append(lines, IngredientLine{
			Ingredient: ingredient,
			Measure:    m.Field(FieldMeasurePrefix + n),
		})
	}
	return lines
}

// ToSummary maps a raw record to the list-style summary. Every field,
// including id, name and URLs, is whitespace-trimmed; a field that is empty
// after trimming is nil.
func ToSummary(m RawMeal) MealSummary {
	return MealSummary{
		ID:                  optional(m.Field(FieldID)),
		Name:                optional(m.Field(FieldName)),
		Category:            optional(m.Field(FieldCategory)),
		Area:                optional(m.Field(FieldArea)),
		Tags:                SplitTags(m.Field(FieldTags)),
		Thumbnail:           optional(m.Field(FieldThumbnail)),
		InstructionsPreview: optional(PreviewInstructions(m.Field(FieldInstructions))),
		SourceURL:           optional(m.Field(FieldSource)),
		YoutubeURL:          optional(m.Field(FieldYoutube)),
	}
}

// ToDetail maps a raw record to the full recipe view. Instructions are kept
// whole.
func ToDetail(m RawMeal) MealDetail {
	return MealDetail{
		ID:           optional(m.Field(FieldID)),
		Name:         optional(m.Field(FieldName)),
		Category:     optional(m.Field(FieldCategory)),
		Area:         optional(m.Field(FieldArea)),
		Instructions: optional(m.Field(FieldInstructions)),
		Thumbnail:    optional(m.Field(FieldThumbnail)),
		Tags:         SplitTags(m.Field(FieldTags)),
		Ingredients:  ExtractIngredients(m),
		SourceURL:    optional(m.Field(FieldSource)),
		YoutubeURL:   optional(m.Field(FieldYoutube)),
	}
}

// ToFiltered keeps only the fields upstream's filter endpoint returns.
func ToFiltered(m RawMeal) FilteredMeal {
	return FilteredMeal{
		ID:        optional(m.Field(FieldID)),
		Name:      optional(m.Field(FieldName)),
		Thumbnail: optional(m.Field(FieldThumbnail)),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
