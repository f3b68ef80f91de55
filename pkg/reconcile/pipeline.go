package reconcile

import (
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jpkday/smartsave-ai-sub000/pkg/matching"
	"github.com/jpkday/smartsave-ai-sub000/pkg/models"
)

// Evidence is what one strategy found for a line item.
type Evidence struct {
	Kind  models.EvidenceKind
	Item  *models.CanonicalItem
	Score float64
}

// Confidence maps an evidence kind to the row confidence it earns.
func (e Evidence) Confidence() string {
	switch e.Kind {
	case models.EvidenceAliasExact, models.EvidenceCatalogExact:
		return models.ConfidenceHigh
	default:
		return models.ConfidenceLow
	}
}

// producer is one match strategy. It returns false when it has nothing.
type producer func(p *Pipeline, s *snapshot, line models.OCRLineItem, storeID *uuid.UUID) (Evidence, bool)

// strategies are tried in order; the first that produces evidence wins.
var strategies = []producer{
	aliasExact,
	catalogExact,
	fuzzyAlias,
	fuzzyCatalog,
	externalHint,
}

// Pipeline reconciles line items against a catalog snapshot.
// A Pipeline holds no per-run state and is safe for concurrent use.
type Pipeline struct {
	matcher   *matching.Matcher
	threshold float64
}

// NewPipeline creates a Pipeline. A nil matcher uses the package defaults.
func NewPipeline(matcher *matching.Matcher) *Pipeline {
	if matcher == nil {
		matcher = matching.NewMatcher(nil, nil)
	}
	return &Pipeline{matcher: matcher, threshold: matcher.Threshold()}
}

// snapshot holds the lookup tables built for one Reconcile call.
type snapshot struct {
	byID         map[uuid.UUID]*models.CanonicalItem
	byName       map[string]*models.CanonicalItem
	catalog      []*models.CanonicalItem
	names        []string
	aliases      *AliasIndex
	aliasTexts   []string
	aliasItemIDs []uuid.UUID
}

func newSnapshot(catalog []*models.CanonicalItem, aliases []*models.Alias) *snapshot {
	s := &snapshot{
		byID:    make(map[uuid.UUID]*models.CanonicalItem, len(catalog)),
		byName:  make(map[string]*models.CanonicalItem, len(catalog)),
		aliases: NewAliasIndex(aliases),
	}
	for _, item := range catalog {
		if item == nil {
			continue
		}
		s.catalog = append(s.catalog, item)
		s.names = append(s.names, item.Name)
		s.byID[item.ID] = item
		key := nameKey(item.Name)
		if _, exists := s.byName[key]; !exists {
			s.byName[key] = item
		}
	}
	s.aliasTexts, s.aliasItemIDs = s.aliases.Texts()
	return s
}

// Reconcile produces one unconfirmed row per line, in line order.
func (p *Pipeline) Reconcile(
	lines []models.OCRLineItem,
	catalog []*models.CanonicalItem,
	aliases []*models.Alias,
	storeID *uuid.UUID,
) []models.ReconciliationRow {
	s := newSnapshot(catalog, aliases)
	rows := make([]models.ReconciliationRow, len(lines))
	for i, line := range lines {
		rows[i] = p.reconcileLine(s, line, storeID)
	}
	return rows
}

func (p *Pipeline) reconcileLine(s *snapshot, line models.OCRLineItem, storeID *uuid.UUID) models.ReconciliationRow {
	row := models.ReconciliationRow{
		OCRName:     line.RawName,
		OCRPrice:    line.Price,
		OCRQuantity: line.Quantity,
	}
	for _, produce := range strategies {
		ev, ok := produce(p, s, line, storeID)
		if !ok {
			continue
		}
		id := ev.Item.ID
		row.Status = models.RowStatusMatched
		row.SelectedItemID = &id
		row.SelectedItemName = ev.Item.Name
		row.Confidence = ev.Confidence()
		row.Evidence = ev.Kind
		row.Score = ev.Score
		return row
	}
	row.Status = models.RowStatusNew
	row.NewItemName = TitleCase(line.RawName)
	row.Confidence = models.ConfidenceLow
	row.Evidence = models.EvidenceFallback
	return row
}

func aliasExact(_ *Pipeline, s *snapshot, line models.OCRLineItem, storeID *uuid.UUID) (Evidence, bool) {
	id, ok := s.aliases.Resolve(line.RawName, storeID)
	if !ok {
		return Evidence{}, false
	}
	item, ok := s.byID[id]
	if !ok {
		// Alias points at an item outside this snapshot.
		return Evidence{}, false
	}
	return Evidence{Kind: models.EvidenceAliasExact, Item: item, Score: 1}, true
}

func catalogExact(_ *Pipeline, s *snapshot, line models.OCRLineItem, _ *uuid.UUID) (Evidence, bool) {
	item, ok := s.byName[nameKey(line.RawName)]
	if !ok {
		return Evidence{}, false
	}
	return Evidence{Kind: models.EvidenceCatalogExact, Item: item, Score: 1}, true
}

func fuzzyAlias(p *Pipeline, s *snapshot, line models.OCRLineItem, _ *uuid.UUID) (Evidence, bool) {
	idx, score, ok := p.matcher.BestMatchIndex(line.RawName, s.aliasTexts, p.threshold)
	if !ok {
		return Evidence{}, false
	}
	item, ok := s.byID[s.aliasItemIDs[idx]]
	if !ok {
		return Evidence{}, false
	}
	return Evidence{Kind: models.EvidenceFuzzyAlias, Item: item, Score: score}, true
}

func fuzzyCatalog(p *Pipeline, s *snapshot, line models.OCRLineItem, _ *uuid.UUID) (Evidence, bool) {
	idx, score, ok := p.matcher.BestMatchIndex(line.RawName, s.names, p.threshold)
	if !ok {
		return Evidence{}, false
	}
	return Evidence{Kind: models.EvidenceFuzzyCatalog, Item: s.catalog[idx], Score: score}, true
}

// externalHint accepts an AI suggestion only when it names a catalog entry.
func externalHint(_ *Pipeline, s *snapshot, line models.OCRLineItem, _ *uuid.UUID) (Evidence, bool) {
	if strings.TrimSpace(line.AIMatch) == "" {
		return Evidence{}, false
	}
	item, ok := s.byName[nameKey(line.AIMatch)]
	if !ok {
		return Evidence{}, false
	}
	return Evidence{Kind: models.EvidenceExternalHint, Item: item}, true
}

// TitleCase capitalizes each word of a raw receipt name:
// "bananas organic" becomes "Bananas Organic".
func TitleCase(raw string) string {
	// A Caser keeps state between calls, so each call gets its own.
	return cases.Title(language.English).String(strings.Join(strings.Fields(raw), " "))
}

func nameKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

var defaultPipeline = NewPipeline(nil)

// Reconcile runs the default pipeline.
func Reconcile(
	lines []models.OCRLineItem,
	catalog []*models.CanonicalItem,
	aliases []*models.Alias,
	storeID *uuid.UUID,
) []models.ReconciliationRow {
	return defaultPipeline.Reconcile(lines, catalog, aliases, storeID)
}
