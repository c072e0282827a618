package mealdb

import (
	"context"
	"fmt"
	"strings"

	apperrors "mcp-mealdb/internal/errors"
	"mcp-mealdb/internal/models"
)

// Upstream endpoints, relative to the base URL.
const (
	EndpointSearch = "search.php"
	EndpointFilter = "filter.php"
	EndpointLookup = "lookup.php"
	EndpointRandom = "random.php"
)

// Fetcher performs one upstream GET and returns the classified payload.
// *Client is the production implementation.
type Fetcher interface {
	Fetch(ctx context.Context, endpoint string, params map[string]string) (*Payload, error)
}

// Service implements the four recipe tools. Each call is a single
// validate, fetch, normalize pass with no shared mutable state.
type Service struct {
	fetcher Fetcher
}

// NewService creates a Service backed by f.
func NewService(f Fetcher) *Service {
	return &Service{fetcher: f}
}

// SearchMealsByName returns summaries of meals whose name contains name.
// No match is an empty result, not an error.
func (s *Service) SearchMealsByName(ctx context.Context, name string) (*models.SearchResult, error) {
	query := strings.TrimSpace(name)
	if query == "" {
		return nil, apperrors.InvalidArgument("meal name/substring must not be empty")
	}

	meals, err := s.fetchMeals(ctx, EndpointSearch, map[string]string{"s": query})
	if err != nil {
		return nil, err
	}

	summaries := make([]models.MealSummary, 0, len(meals))
	for _, m := range meals {
		summaries = append(summaries, models.ToSummary(m))
	}

	return &models.SearchResult{
		Query: query,
		Count: len(summaries),
		Meals: summaries,
	}, nil
}

// FilterMealsByIngredient lists meals using ingredient as a main ingredient.
// Only id, name and thumbnail are returned because that is all upstream's
// filter endpoint provides.
func (s *Service) FilterMealsByIngredient(ctx context.Context, ingredient string) (*models.FilterResult, error) {
	term := strings.TrimSpace(ingredient)
	if term == "" {
		return nil, apperrors.InvalidArgument("ingredient must not be empty")
	}

	meals, err := s.fetchMeals(ctx, EndpointFilter, map[string]string{"i": term})
	if err != nil {
		return nil, err
	}

	results := make([]models.FilteredMeal, 0, len(meals))
	for _, m := range meals {
		results = append(results, models.ToFiltered(m))
	}

	return &models.FilterResult{
		Ingredient: term,
		Count:      len(results),
		Meals:      results,
	}, nil
}

// LookupMealDetails returns the full recipe for mealID, or NotFound.
func (s *Service) LookupMealDetails(ctx context.Context, mealID string) (*models.MealDetail, error) {
	id := strings.TrimSpace(mealID)
	if id == "" {
		return nil, apperrors.InvalidArgument("meal id must not be empty")
	}

	meals, err := s.fetchMeals(ctx, EndpointLookup, map[string]string{"i": id})
	if err != nil {
		return nil, err
	}
	if len(meals) == 0 {
		return nil, apperrors.NotFound(fmt.Sprintf("meal with id %s was not found", id))
	}

	detail := models.ToDetail(meals[0])
	return &detail, nil
}

// RandomMeal returns the full recipe of one arbitrary meal. An empty result
// means upstream misbehaved and is reported as UpstreamPayload.
func (s *Service) RandomMeal(ctx context.Context) (*models.MealDetail, error) {
	meals, err := s.fetchMeals(ctx, EndpointRandom, nil)
	if err != nil {
		return nil, err
	}
	if len(meals) == 0 {
		return nil, apperrors.UpstreamPayloadf(EndpointRandom, "upstream did not return a random meal")
	}

	detail := models.ToDetail(meals[0])
	return &detail, nil
}

func (s *Service) fetchMeals(ctx context.Context, endpoint string, params map[string]string) ([]models.RawMeal, error) {
	payload, err := s.fetcher.Fetch(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}
	return payload.Meals()
}
