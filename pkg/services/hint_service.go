package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jpkday/smartsave-ai-sub000/pkg/jsonutil"
	"github.com/jpkday/smartsave-ai-sub000/pkg/llm"
	"github.com/jpkday/smartsave-ai-sub000/pkg/models"
	"github.com/jpkday/smartsave-ai-sub000/pkg/prompts"
	"github.com/jpkday/smartsave-ai-sub000/pkg/retry"
)

// DefaultMaxHintCandidates caps how many catalog names are sent to the provider.
const DefaultMaxHintCandidates = 500

// HintService suggests catalog names for raw receipt lines using an LLM.
// Suggestions are advisory: the reconciliation pipeline ignores any name that
// is not in the catalog, and provider failures leave the lines unchanged.
type HintService interface {
	Suggest(ctx context.Context, lines []models.OCRLineItem, catalog []*models.CanonicalItem) []models.OCRLineItem
}

// HintConfig tunes the hint service. A nil Breaker gets the default one.
type HintConfig struct {
	MaxCandidates int
	Timeout       time.Duration
	Retry         *retry.Config
	Breaker       *llm.CircuitBreaker
}

type hintService struct {
	client llm.LLMClient
	cfg    HintConfig
	logger *zap.Logger
}

// NewHintService creates a HintService. A nil client yields a service that
// never suggests anything.
func NewHintService(client llm.LLMClient, cfg HintConfig, logger *zap.Logger) HintService {
	if cfg.MaxCandidates <= 0 {
		cfg.MaxCandidates = DefaultMaxHintCandidates
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	if cfg.Retry == nil {
		cfg.Retry = retry.LLMConfig()
	}
	if cfg.Breaker == nil {
		cfg.Breaker = llm.NewCircuitBreaker(llm.CircuitBreakerConfig{})
	}
	return &hintService{
		client: client,
		cfg:    cfg,
		logger: logger.Named("hints"),
	}
}

var _ HintService = (*hintService)(nil)

// errUnparseableHint marks answers the provider sent but we could not read.
// They do not count against the provider's circuit.
var errUnparseableHint = errors.New("unparseable hint response")

// hintAnswer tolerates "line": "3" and "match": null from models that drift
// from the requested schema.
type hintAnswer struct {
	Line  json.RawMessage `json:"line"`
	Match json.RawMessage `json:"match"`
}

func (s *hintService) Suggest(ctx context.Context, lines []models.OCRLineItem, catalog []*models.CanonicalItem) []models.OCRLineItem {
	out := append([]models.OCRLineItem(nil), lines...)
	if s.client == nil || len(catalog) == 0 {
		return out
	}

	var pending []int
	for i, line := range out {
		if strings.TrimSpace(line.AIMatch) == "" && strings.TrimSpace(line.RawName) != "" {
			pending = append(pending, i)
		}
	}
	if len(pending) == 0 {
		return out
	}

	if err := s.cfg.Breaker.Allow(); err != nil {
		s.logger.Debug("Skipping hints", zap.Int("lines", len(pending)), zap.Error(err))
		return out
	}

	names := models.CatalogNames(catalog)
	if len(names) > s.cfg.MaxCandidates {
		names = names[:s.cfg.MaxCandidates]
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	hintLines := make([]prompts.HintLine, len(pending))
	for j, i := range pending {
		hintLines[j] = prompts.HintLine{Index: i, RawName: out[i].RawName}
	}
	prompt := prompts.BuildReceiptHintPrompt(names, hintLines)
	var answers []hintAnswer
	err := retry.DoIfRetryable(ctx, s.cfg.Retry, func() error {
		var err error
		answers, err = s.ask(ctx, prompt)
		return err
	})
	if errors.Is(err, errUnparseableHint) {
		s.cfg.Breaker.Record(nil)
	} else {
		s.cfg.Breaker.Record(err)
	}
	if err != nil {
		s.logger.Warn("Hint request failed, continuing without hints",
			zap.Int("lines", len(pending)),
			zap.String("error_type", string(llm.GetErrorType(err))),
			zap.Error(err))
		return out
	}

	applied := 0
	for _, a := range answers {
		line, err := jsonutil.FlexibleIntValue(a.Line)
		if err != nil || line < 0 || line >= len(out) {
			continue
		}
		match := strings.TrimSpace(jsonutil.FlexibleStringValue(a.Match))
		if match == "" || out[line].AIMatch != "" {
			continue
		}
		out[line].AIMatch = match
		applied++
	}

	s.logger.Debug("Applied hints",
		zap.Int("requested", len(pending)),
		zap.Int("applied", applied))
	return out
}

func (s *hintService) ask(ctx context.Context, prompt string) ([]hintAnswer, error) {
	result, err := s.client.GenerateResponse(ctx, prompt, prompts.BuildReceiptHintSystemMessage(), 0)
	if err != nil {
		return nil, llm.ClassifyError(err)
	}
	answers, err := llm.ParseJSONResponse[[]hintAnswer](result.Content)
	if err != nil {
		return nil, llm.NewError(llm.ErrorTypeUnknown, errUnparseableHint.Error(), false, fmt.Errorf("%w: %w", errUnparseableHint, err))
	}
	return answers, nil
}
