package bula

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"bula/internal/logger"
	"bula/internal/store"
	"bula/pkg/models"
)

// Strategy is one way of finding a leaflet by medicine name.
// Lookup returns store.ErrNotFound when it has no match.
type Strategy struct {
	Name   string
	Lookup func(ctx context.Context, name string) (*models.LeafletRecord, error)
}

// OfficialNameStrategy matches the official name exactly, case included.
func OfficialNameStrategy(s store.LeafletStore) Strategy {
	return Strategy{Name: "official_name", Lookup: s.FindByOfficialName}
}

// AlternateNameStrategy matches the lowercased name against the stored alternate names.
func AlternateNameStrategy(s store.LeafletStore) Strategy {
	return Strategy{
		Name: "alternate_name",
		Lookup: func(ctx context.Context, name string) (*models.LeafletRecord, error) {
			return s.FindByAlternateName(ctx, NormalizeAlternateName(name))
		},
	}
}

// DefaultStrategies returns the lookup order used by the pipeline.
func DefaultStrategies(s store.LeafletStore) []Strategy {
	return []Strategy{OfficialNameStrategy(s), AlternateNameStrategy(s)}
}

// NormalizeAlternateName is the case policy shared by import and lookup.
func NormalizeAlternateName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Resolver tries each strategy in order and returns the first match.
type Resolver struct {
	strategies []Strategy
	log        zerolog.Logger
}

// NewResolver creates a resolver over strategies.
func NewResolver(strategies ...Strategy) *Resolver {
	return &Resolver{
		strategies: strategies,
		log:        logger.WithComponent("leaflet-resolver"),
	}
}

// Resolve finds the leaflet for name.
func (r *Resolver) Resolve(ctx context.Context, name string) (*models.LeafletRecord, error) {
	const op = "ResolveLeaflet"

	for _, s := range r.strategies {
		rec, err := s.Lookup(ctx, name)
		if errors.Is(err, store.ErrNotFound) || (err == nil && rec == nil) {
			r.log.Debug().Str("strategy", s.Name).Str("name", name).Msg("No match")
			continue
		}
		if err != nil {
			return nil, internal(op, "Erro ao consultar o banco de dados de bulas.",
				fmt.Errorf("strategy %s: %w", s.Name, err))
		}

		r.log.Info().
			Str("strategy", s.Name).
			Str("name", name).
			Str("document", rec.ID).
			Msg("Leaflet resolved")
		return rec, nil
	}

	return nil, notFound(op,
		fmt.Sprintf("Bula para \"%s\" não encontrada no banco de dados. Cadastre o medicamento ou verifique a imagem.", name),
		fmt.Errorf("%w: %s", ErrLeafletNotFound, name))
}
