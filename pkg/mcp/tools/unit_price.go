package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/shopspring/decimal"

	"github.com/jpkday/smartsave-ai-sub000/pkg/units"
)

type unitPriceResult struct {
	Name      string           `json:"name"`
	Parsed    units.Info       `json:"parsed"`
	HasUnit   bool             `json:"has_unit"`
	Price     *string          `json:"price,omitempty"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
	Axis      units.Axis       `json:"axis,omitempty"`
	Display   string           `json:"display,omitempty"`
}

// RegisterUnitPriceTool adds parse_unit_price, which reads package-size
// notation from an item name and, given a price, normalizes it per unit.
func RegisterUnitPriceTool(s *server.MCPServer) {
	tool := mcp.NewTool(
		"parse_unit_price",
		mcp.WithDescription("Parses package size notation such as (6/32 oz) or (18 ct) from a grocery item name "+
			"and computes the price per pound, fluid ounce, each or square foot."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Item name, e.g. \"Sparkling Water (6/32 fz)\""),
		),
		mcp.WithString("price",
			mcp.Description("Total price as a decimal string, e.g. \"9.60\". Omit to only parse the size."),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("name")
		if err != nil || strings.TrimSpace(name) == "" {
			return NewErrorResult("invalid_parameters", "name is required"), nil
		}
		name = strings.TrimSpace(name)

		info := units.Parse(name)
		result := unitPriceResult{Name: name, Parsed: info, HasUnit: info.HasUnit()}

		rawPrice := strings.TrimSpace(req.GetString("price", ""))
		if rawPrice == "" {
			return jsonResult(result)
		}
		price, err := decimal.NewFromString(rawPrice)
		if err != nil || !price.IsPositive() {
			return NewErrorResult("invalid_parameters", "price must be a positive decimal"), nil
		}
		result.Price = &rawPrice

		if up, ok := units.ComputeUnitPrice(name, price); ok {
			result.UnitPrice = &up.Price
			result.Axis = up.Axis
			result.Display = up.String()
		}
		return jsonResult(result)
	})
}
