package mealdb

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	apperrors "mcp-mealdb/internal/errors"
	"mcp-mealdb/internal/models"
)

const mealsKey = "meals"

// Payload is a successfully fetched upstream response body that is known to
// be a JSON object.
type Payload struct {
	endpoint string
	root     gjson.Result
}

// ParsePayload classifies body. Anything other than a JSON object fails with
// UpstreamPayload.
func ParsePayload(endpoint string, body []byte) (*Payload, error) {
	if !gjson.ValidBytes(body) {
		return nil, apperrors.UpstreamPayload(endpoint, errors.New("response body is not valid JSON"))
	}

	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, apperrors.UpstreamPayload(endpoint, fmt.Errorf("expected JSON object, got %s", describe(root)))
	}

	return &Payload{endpoint: endpoint, root: root}, nil
}

// Endpoint returns the upstream endpoint the payload came from.
func (p *Payload) Endpoint() string {
	return p.endpoint
}

// Meals returns the records under "meals". A missing or null key means no
// matches and yields an empty slice. Any other non-array value, or an element
// that is not an object, fails with UpstreamPayload.
func (p *Payload) Meals() ([]models.RawMeal, error) {
	res := p.root.Get(mealsKey)
	if !res.Exists() || res.Type == gjson.Null {
		return []models.RawMeal{}, nil
	}
	if !res.IsArray() {
		return nil, apperrors.UpstreamPayload(p.endpoint, fmt.Errorf("%q is %s, not a list", mealsKey, describe(res)))
	}

	items := res.Array()
	meals := make([]models.RawMeal, 0, len(items))
	for i, item := range items {
		if !item.IsObject() {
			return nil, apperrors.UpstreamPayload(p.endpoint, fmt.Errorf("%s[%d] is %s, not an object", mealsKey, i, describe(item)))
		}
		m, ok := item.Value().(map[string]interface{})
		if !ok {
			return nil, apperrors.UpstreamPayload(p.endpoint, fmt.Errorf("%s[%d] could not be decoded", mealsKey, i))
		}
		meals = append(meals, models.RawMeal(m))
	}
	return meals, nil
}

func describe(r gjson.Result) string {
	switch {
	case r.IsArray():
		return "an array"
	case r.IsObject():
		return "an object"
	case r.Type == gjson.Null:
		return "null"
	case r.Type == gjson.String:
		return "a string"
	case r.Type == gjson.Number:
		return "a number"
	case r.IsBool():
		return "a boolean"
	default:
		return r.Type.String()
	}
}
