package mealdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "mcp-mealdb/internal/errors"
)

func TestPayloadMeals(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantCount int
		wantErr   bool
	}{
		{"null meals", `{"meals":null}`, 0, false},
		{"missing meals", `{}`, 0, false},
		{"empty list", `{"meals":[]}`, 0, false},
		{"two records", `{"meals":[{"idMeal":"1"},{"idMeal":"2"}]}`, 2, false},
		{"meals is a string", `{"meals":"Invalid ID"}`, 0, true},
		{"meals is an object", `{"meals":{"idMeal":"1"}}`, 0, true},
		{"element not an object", `{"meals":[{"idMeal":"1"}, 7]}`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePayload(EndpointSearch, []byte(tt.body))
			require.NoError(t, err)

			meals, err := p.Meals()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsKind(err, apperrors.KindUpstreamPayload))
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, meals)
			assert.Len(t, meals, tt.wantCount)
		})
	}
}

func TestPayloadMeals_PreservesOrderAndValues(t *testing.T) {
	p, err := ParsePayload(EndpointFilter, []byte(`{"meals":[
		{"idMeal":"52795","strMeal":"Chicken Handi","strTags":null},
		{"idMeal":52796,"strMeal":"Chicken Alfredo Primavera"}
	]}`))
	require.NoError(t, err)

	meals, err := p.Meals()
	require.NoError(t, err)
	require.Len(t, meals, 2)
	assert.Equal(t, "Chicken Handi", meals[0].Field("strMeal"))
	assert.Equal(t, "", meals[0].Field("strTags"))
	assert.Equal(t, "52796", meals[1].Field("idMeal"))
}

func TestParsePayload_NotAnObject(t *testing.T) {
	for _, body := range []string{`[]`, `"meals"`, `true`, ``, `{"a":`} {
		_, err := ParsePayload(EndpointRandom, []byte(body))
		require.Error(t, err, "body %q", body)

		var appErr *apperrors.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.KindUpstreamPayload, appErr.Kind)
		assert.Equal(t, EndpointRandom, appErr.Endpoint)
	}
}
