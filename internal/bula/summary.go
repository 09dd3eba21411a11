package bula

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"bula/internal/llm"
	"bula/internal/logger"
	"bula/internal/store"
	"bula/pkg/models"
)

var fencedJSON = regexp.MustCompile("(?is)```(?:json)?\\s*(.*?)```")

// ParseSummary decodes a model reply into a Summary. A fenced block, tagged
// json in any case or untagged, is tried first, then the whole reply. Keys that are absent or null are filled
// with MissingSummaryValue and reported in missing.
func ParseSummary(reply string) (summary models.Summary, missing []string, err error) {
	fields, err := decodeSummaryObject(reply)
	if err != nil {
		return models.Summary{}, nil, err
	}

	for _, key := range models.SummaryKeys {
		value, ok := fields[key]
		if !ok || value == nil {
			missing = append(missing, key)
			summary.Set(key, MissingSummaryValue)
			continue
		}
		summary.Set(key, summaryText(value))
	}
	return summary, missing, nil
}

func decodeSummaryObject(reply string) (map[string]any, error) {
	var candidates []string
	if m := fencedJSON.FindStringSubmatch(reply); m != nil {
		candidates = append(candidates, m[1])
	}
	candidates = append(candidates, reply)

	var lastErr error
	for _, c := range candidates {
		var fields map[string]any
		if err := json.Unmarshal([]byte(strings.TrimSpace(c)), &fields); err != nil {
			lastErr = err
			continue
		}
		if fields == nil {
			lastErr = fmt.Errorf("reply is not a JSON object")
			continue
		}
		return fields, nil
	}
	return nil, fmt.Errorf("%w: %w", ErrMalformedSummary, lastErr)
}

// summaryText flattens a JSON value to text. Lists become one item per line.
func summaryText(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []any:
		items := make([]string, 0, len(val))
		for _, item := range val {
			items = append(items, summaryText(item))
		}
		return strings.Join(items, "\n")
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}

// fillMissing sets blank fields of a stored summary to MissingSummaryValue.
// The stored record is left as is.
func fillMissing(summary models.Summary) models.Summary {
	for _, key := range models.SummaryKeys {
		if strings.TrimSpace(summary.Get(key)) == "" {
			summary.Set(key, MissingSummaryValue)
		}
	}
	return summary
}

// Summarizer returns the cached summary of a leaflet or generates and stores one.
type Summarizer struct {
	store store.LeafletStore
	gen   llm.Generator
	model string
	log   zerolog.Logger
}

// NewSummarizer creates a summarizer writing generated summaries to leaflets.
func NewSummarizer(leaflets store.LeafletStore, gen llm.Generator, model string) *Summarizer {
	return &Summarizer{
		store: leaflets,
		gen:   gen,
		model: model,
		log:   logger.WithComponent("summary-provider"),
	}
}

// Summarize returns the summary for rec, generating and persisting it on first use.
func (s *Summarizer) Summarize(ctx context.Context, rec *models.LeafletRecord) (*models.SummaryResult, error) {
	const op = "Summarize"

	if rec.HasSummary() {
		s.log.Info().Str("medicine", rec.OfficialName).Msg("Returning cached summary")
		return &models.SummaryResult{
			OfficialName: rec.OfficialName,
			Summary:      fillMissing(*rec.Summary),
			Source:       models.SourceCached,
		}, nil
	}

	if strings.TrimSpace(rec.FullText) == "" {
		return nil, internal(op,
			fmt.Sprintf("A bula completa para \"%s\" não está disponível para resumo.", rec.OfficialName),
			fmt.Errorf("%w: document %s", ErrMissingFullText, rec.ID))
	}

	s.log.Info().Str("medicine", rec.OfficialName).Str("model", s.model).Msg("Generating summary")

	reply, err := s.gen.Generate(ctx, s.model, SummaryPrompt(rec.FullText))
	if err != nil {
		return nil, internal(op, "Erro ao gerar o resumo da bula.", err)
	}

	summary, missing, err := ParseSummary(reply)
	if err != nil {
		return nil, internal(op, "Erro ao processar o resumo da bula gerado pelo modelo. Formato inválido.", err)
	}
	for _, key := range missing {
		s.log.Warn().Str("medicine", rec.OfficialName).Str("key", key).Msg("Summary key missing from model output")
	}

	if err := s.store.SaveSummary(ctx, rec.ID, summary); err != nil {
		return nil, internal(op, "Erro ao salvar o resumo da bula.", err)
	}

	s.log.Info().Str("medicine", rec.OfficialName).Str("document", rec.ID).Msg("Summary generated and stored")

	return &models.SummaryResult{
		OfficialName: rec.OfficialName,
		Summary:      summary,
		Source:       models.SourceGenerated,
	}, nil
}
