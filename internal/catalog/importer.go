package catalog

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"bula/internal/logger"
	"bula/internal/sheets"
	"bula/internal/store"
	"bula/pkg/models"
)

// Import row statuses.
const (
	StatusCreated = "criado"
	StatusUpdated = "atualizado"
	StatusFailed  = "erro"
)

// Report summarizes one import run.
type Report struct {
	Created int
	Updated int
	Failed  int
	Rows    []sheets.ReportRow
}

// Importer upserts catalog records into the leaflet store.
type Importer struct {
	store store.LeafletStore
	now   func() time.Time
	log   zerolog.Logger
}

// NewImporter creates an importer writing to leaflets.
func NewImporter(leaflets store.LeafletStore) *Importer {
	return &Importer{
		store: leaflets,
		now:   time.Now,
		log:   logger.WithComponent("catalog-importer"),
	}
}

// Import upserts every record. A failing record is reported and the run continues;
// only a cancelled context stops it early.
func (im *Importer) Import(ctx context.Context, records []*models.LeafletRecord) (*Report, error) {
	report := &Report{}

	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		row := sheets.ReportRow{OfficialName: rec.OfficialName, ProcessedAt: im.now()}

		created, err := im.store.UpsertLeaflet(ctx, rec)
		switch {
		case err != nil:
			report.Failed++
			row.Status = StatusFailed
			row.Message = err.Error()
			im.log.Error().Err(err).Str("medicine", rec.OfficialName).Msg("Failed to import leaflet")
		case created:
			report.Created++
			row.Status = StatusCreated
		default:
			report.Updated++
			row.Status = StatusUpdated
		}
		report.Rows = append(report.Rows, row)
	}

	im.log.Info().
		Int("created", report.Created).
		Int("updated", report.Updated).
		Int("failed", report.Failed).
		Msg("Catalog import finished")

	return report, nil
}
