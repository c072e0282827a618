// internal/server/tools.go
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"github.com/ThinkInAIXYZ/go-mcp/server"
	"github.com/gin-gonic/gin"
	"github.com/invopop/jsonschema"

	apperrors "mcp-mealdb/internal/errors"
	"mcp-mealdb/internal/logging"
)

// Tool names exposed to agents.
const (
	ToolSearchMealsByName       = "search_meals_by_name"
	ToolFilterMealsByIngredient = "filter_meals_by_ingredient"
	ToolLookupMealDetails       = "lookup_meal_details"
	ToolRandomMeal              = "random_meal"
)

type SearchMealsByNameParams struct {
	Name string `json:"name" jsonschema:"required" jsonschema_description:"Meal name or substring to search for."`
}

type FilterMealsByIngredientParams struct {
	Ingredient string `json:"ingredient" jsonschema:"required" jsonschema_description:"Ingredient name to filter by (e.g. 'chicken')."`
}

type LookupMealDetailsParams struct {
	MealID string `json:"meal_id" jsonschema:"required" jsonschema_description:"TheMealDB ID for the meal (e.g. '52772')."`
}

type RandomMealParams struct{}

// ToolHandler runs one tool call.
type ToolHandler func(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error)

// Tool is one entry of the tool catalog.
type Tool struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	InputSchema *jsonschema.Schema `json:"inputSchema"`

	handler ToolHandler
}

// ToolListResponse is the body of GET /tools.
type ToolListResponse struct {
	Server protocol.Implementation `json:"server"`
	Tools  []*Tool                 `json:"tools"`
}

// extractParams safely extracts parameters from the request arguments
func extractParams(req *protocol.CallToolRequest, target interface{}) error {
	// Convert the Arguments map to JSON bytes, then unmarshal to target
	jsonBytes, err := json.Marshal(req.Arguments)
	if err != nil {
		return fmt.Errorf("failed to marshal arguments: %w", err)
	}

	if err := json.Unmarshal(jsonBytes, target); err != nil {
		return fmt.Errorf("failed to unmarshal parameters: %w", err)
	}

	return nil
}

func invalidParams(err error) error {
	return apperrors.InvalidArgument(fmt.Sprintf("invalid parameters: %v", err))
}

// reflectSchema builds a self-contained input schema from a params struct.
func reflectSchema(v interface{}) *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	schema := reflector.Reflect(v)
	schema.Version = ""
	return schema
}

// handleSearchMealsByName searches meals by full or partial name
func (s *MealDBServer) handleSearchMealsByName(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params SearchMealsByNameParams
	if err := extractParams(req, &params); err != nil {
		return nil, invalidParams(err)
	}

	result, err := s.service.SearchMealsByName(ctx, params.Name)
	if err != nil {
		return nil, err
	}

	return s.createJSONResponse(result)
}

// handleFilterMealsByIngredient lists meals containing a main ingredient
func (s *MealDBServer) handleFilterMealsByIngredient(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params FilterMealsByIngredientParams
	if err := extractParams(req, &params); err != nil {
		return nil, invalidParams(err)
	}

	result, err := s.service.FilterMealsByIngredient(ctx, params.Ingredient)
	if err != nil {
		return nil, err
	}

	return s.createJSONResponse(result)
}

// handleLookupMealDetails returns the full recipe for one meal id
func (s *MealDBServer) handleLookupMealDetails(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params LookupMealDetailsParams
	if err := extractParams(req, &params); err != nil {
		return nil, invalidParams(err)
	}

	result, err := s.service.LookupMealDetails(ctx, params.MealID)
	if err != nil {
		return nil, err
	}

	return s.createJSONResponse(result)
}

// handleRandomMeal returns the full recipe of a random meal
func (s *MealDBServer) handleRandomMeal(ctx context.Context, _ *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	result, err := s.service.RandomMeal(ctx)
	if err != nil {
		return nil, err
	}

	return s.createJSONResponse(result)
}

func (s *MealDBServer) registerTools() error {
	tools := []*Tool{
		{
			Name: ToolSearchMealsByName,
			Description: "Search meals by full or partial name. Returns a rich summary for each matching meal," +
				" including category, area, tags, and preview text.",
			InputSchema: reflectSchema(&SearchMealsByNameParams{}),
			handler:     s.handleSearchMealsByName,
		},
		{
			Name: ToolFilterMealsByIngredient,
			Description: "List meals that include a given main ingredient. The response contains meal IDs so" +
				" clients can request full details with another tool.",
			InputSchema: reflectSchema(&FilterMealsByIngredientParams{}),
			handler:     s.handleFilterMealsByIngredient,
		},
		{
			Name:        ToolLookupMealDetails,
			Description: "Fetch the full recipe details for a specific meal ID.",
			InputSchema: reflectSchema(&LookupMealDetailsParams{}),
			handler:     s.handleLookupMealDetails,
		},
		{
			Name:        ToolRandomMeal,
			Description: "Retrieve a single random meal from TheMealDB.",
			InputSchema: reflectSchema(&RandomMealParams{}),
			handler:     s.handleRandomMeal,
		},
	}

	index := make(map[string]*Tool, len(tools))
	for _, tool := range tools {
		if _, exists := index[tool.Name]; exists {
			return fmt.Errorf("duplicate tool name %q", tool.Name)
		}

		inputSchema, err := toInputSchema(tool.InputSchema)
		if err != nil {
			return fmt.Errorf("tool %s: %w", tool.Name, err)
		}
		s.server.RegisterTool(&protocol.Tool{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: inputSchema,
		}, s.mcpToolHandler(tool))

		index[tool.Name] = tool
		logging.Debug("registered tool", "name", tool.Name)
	}

	sort.Slice(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name })
	s.tools = tools
	s.toolIndex = index
	return nil
}

// handleToolCall decodes a tool call, routes it by name and writes either the
// tool result or a classified error.
func (s *MealDBServer) handleToolCall(c *gin.Context) {
	var request protocol.CallToolRequest
	if err := json.NewDecoder(c.Request.Body).Decode(&request); err != nil {
		s.writeError(c, http.StatusBadRequest, ErrCodeInvalidRequest, fmt.Sprintf("invalid JSON: %v", err), false)
		return
	}

	tool, ok := s.toolIndex[request.Name]
	if !ok {
		toolCallsTotal.WithLabelValues("unknown", outcomeUnknownTool).Inc()
		s.writeError(c, http.StatusNotFound, ErrCodeUnknownTool, fmt.Sprintf("unknown tool: %s", request.Name), false)
		return
	}

	result, err := s.callTool(c.Request.Context(), tool, &request, "requestID", requestIDFrom(c))
	if err != nil {
		s.writeToolError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// callTool runs tool and records its outcome. Both the HTTP API and MCP go
// through here.
func (s *MealDBServer) callTool(ctx context.Context, tool *Tool, req *protocol.CallToolRequest, logKeyvals ...any) (*protocol.CallToolResult, error) {
	result, err := tool.handler(ctx, req)
	if err != nil {
		toolCallsTotal.WithLabelValues(tool.Name, toolOutcome(err)).Inc()
		keyvals := append([]any{"tool", tool.Name, "kind", apperrors.KindOf(err), "error", err}, logKeyvals...)
		logging.Warn("tool call failed", keyvals...)
		return nil, err
	}

	toolCallsTotal.WithLabelValues(tool.Name, outcomeOK).Inc()
	return result, nil
}

// mcpToolHandler adapts tool to go-mcp. A failed call becomes an isError
// result whose text is the error message unchanged.
func (s *MealDBServer) mcpToolHandler(tool *Tool) server.ToolHandlerFunc {
	return func(req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
		result, err := s.callTool(s.ctx, tool, req, "transport", "mcp")
		if err != nil {
			return &protocol.CallToolResult{
				Content: []protocol.Content{
					protocol.TextContent{
						Type: "text",
						Text: err.Error(),
					},
				},
				IsError: true,
			}, nil
		}
		return result, nil
	}
}

// toInputSchema converts a reflected schema into go-mcp's tool schema.
func toInputSchema(schema *jsonschema.Schema) (protocol.InputSchema, error) {
	var inputSchema protocol.InputSchema
	raw, err := json.Marshal(schema)
	if err != nil {
		return inputSchema, fmt.Errorf("failed to marshal input schema: %w", err)
	}
	if err := json.Unmarshal(raw, &inputSchema); err != nil {
		return inputSchema, fmt.Errorf("failed to convert input schema: %w", err)
	}
	if inputSchema.Type == "" {
		inputSchema.Type = protocol.Object
	}
	return inputSchema, nil
}

// handleListTools handles GET /tools
func (s *MealDBServer) handleListTools(c *gin.Context) {
	c.JSON(http.StatusOK, ToolListResponse{
		Server: s.info,
		Tools:  s.tools,
	})
}

func (s *MealDBServer) createJSONResponse(data interface{}) (*protocol.CallToolResult, error) {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}

	return &protocol.CallToolResult{
		Content: []protocol.Content{
			protocol.TextContent{
				Type: "text",
				Text: string(jsonBytes),
			},
		},
	}, nil
}
