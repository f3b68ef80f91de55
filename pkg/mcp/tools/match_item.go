package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/jpkday/smartsave-ai-sub000/pkg/matching"
	"github.com/jpkday/smartsave-ai-sub000/pkg/models"
	"github.com/jpkday/smartsave-ai-sub000/pkg/repositories"
	"github.com/jpkday/smartsave-ai-sub000/pkg/services"
)

const defaultMatchCandidates = 5

// MatchToolDeps holds the collaborators of the match_item_name tool.
type MatchToolDeps struct {
	HouseholdContext services.HouseholdContextFunc
	Reconciler       services.ReconciliationService
	CatalogRepo      repositories.CatalogRepository
	Matcher          *matching.Matcher
	Logger           *zap.Logger
}

type matchItemResult struct {
	Name       string                   `json:"name"`
	Decision   models.ReconciliationRow `json:"decision"`
	Candidates []matching.Match         `json:"candidates"`
}

// RegisterMatchItemTool adds match_item_name, which shows how a raw receipt
// name would be reconciled against a household's catalog without writing.
func RegisterMatchItemTool(s *server.MCPServer, deps *MatchToolDeps) {
	tool := mcp.NewTool(
		"match_item_name",
		mcp.WithDescription("Reconciles a raw receipt item name against a household's catalog and aliases. "+
			"Returns the decision the receipt pipeline would make plus the closest catalog names with scores."),
		mcp.WithString("household_id",
			mcp.Required(),
			mcp.Description("Household UUID"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Raw item name as printed on the receipt"),
		),
		mcp.WithString("store_id",
			mcp.Description("Optional store UUID; store-scoped aliases take priority"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of catalog candidates to return (default 5)"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		rawHousehold, _ := req.RequireString("household_id")
		householdID, err := uuid.Parse(strings.TrimSpace(rawHousehold))
		if err != nil {
			return NewErrorResult("invalid_parameters", "household_id must be a UUID"), nil
		}
		name, _ := req.RequireString("name")
		name = strings.TrimSpace(name)
		if name == "" {
			return NewErrorResult("invalid_parameters", "name is required"), nil
		}
		var storeID *uuid.UUID
		if raw := strings.TrimSpace(req.GetString("store_id", "")); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				return NewErrorResult("invalid_parameters", "store_id must be a UUID"), nil
			}
			storeID = &id
		}
		limit := req.GetInt("limit", defaultMatchCandidates)
		if limit <= 0 {
			limit = defaultMatchCandidates
		}

		hctx, cleanup, err := deps.HouseholdContext(ctx, householdID)
		if err != nil {
			return nil, fmt.Errorf("failed to acquire household connection: %w", err)
		}
		defer cleanup()

		rows, err := deps.Reconciler.Reconcile(hctx, householdID, &models.Receipt{
			StoreID: storeID,
			Lines:   []models.OCRLineItem{{RawName: name}},
		}, false)
		if err != nil {
			return nil, fmt.Errorf("reconcile %q: %w", name, err)
		}
		if len(rows) != 1 {
			return nil, fmt.Errorf("reconcile %q: expected one row, got %d", name, len(rows))
		}

		catalog, err := deps.CatalogRepo.ListByHousehold(hctx, householdID)
		if err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		candidates := deps.Matcher.TopMatches(name, models.CatalogNames(catalog), 0, limit)
		if candidates == nil {
			candidates = []matching.Match{}
		}

		deps.Logger.Debug("match_item_name",
			zap.String("household_id", householdID.String()),
			zap.String("name", name),
			zap.String("evidence", string(rows[0].Evidence)))

		return jsonResult(matchItemResult{
			Name:       name,
			Decision:   rows[0],
			Candidates: candidates,
		})
	})
}
