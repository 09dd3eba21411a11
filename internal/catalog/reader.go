// Package catalog loads leaflet records from a Google Sheet into the leaflet store.
//
// Expected columns: A = official name, B = comma separated alternate names,
// C = full leaflet text. The first row is a header.
package catalog

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"bula/internal/bula"
	"bula/internal/logger"
	"bula/pkg/models"
)

// RangeReader reads cell values from a spreadsheet range.
type RangeReader interface {
	ReadRange(ctx context.Context, rangeSpec string) ([][]interface{}, error)
}

// Reader parses catalog rows from a worksheet.
type Reader struct {
	sheets RangeReader
	log    zerolog.Logger
}

// NewReader creates a catalog reader over sheets.
func NewReader(sheets RangeReader) *Reader {
	return &Reader{
		sheets: sheets,
		log:    logger.WithComponent("catalog-reader"),
	}
}

// ReadLeaflets reads every data row of sheetName. Rows without an official
// name are skipped.
func (r *Reader) ReadLeaflets(ctx context.Context, sheetName string) ([]*models.LeafletRecord, error) {
	const op = "ReadLeaflets"

	r.log.Info().Str("sheet", sheetName).Msg("Reading leaflet catalog")

	values, err := r.sheets.ReadRange(ctx, sheetName+"!A:C")
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read %s sheet: %w", op, sheetName, err)
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("%s: %s sheet is empty", op, sheetName)
	}

	var records []*models.LeafletRecord
	for i, row := range values[1:] {
		rowNum := i + 2

		rec := parseRow(row)
		if rec == nil {
			r.log.Warn().
				Int("row", rowNum).
				Str("sheet", sheetName).
				Msg("Skipping row without medicine name")
			continue
		}
		records = append(records, rec)
	}

	r.log.Info().
		Int("total_rows", len(values)-1).
		Int("parsed_leaflets", len(records)).
		Str("sheet", sheetName).
		Msg("Leaflet catalog read successfully")

	return records, nil
}

func parseRow(row []interface{}) *models.LeafletRecord {
	name := strings.TrimSpace(cell(row, 0))
	if name == "" {
		return nil
	}
	return &models.LeafletRecord{
		OfficialName:   name,
		AlternateNames: ParseAlternateNames(cell(row, 1)),
		FullText:       strings.TrimSpace(cell(row, 2)),
	}
}

// ParseAlternateNames splits a comma separated list into lowercase, unique names.
func ParseAlternateNames(list string) []string {
	var names []string
	for _, part := range strings.Split(list, ",") {
		name := bula.NormalizeAlternateName(part)
		if name == "" || slices.Contains(names, name) {
			continue
		}
		names = append(names, name)
	}
	return names
}

func cell(row []interface{}, i int) string {
	if i >= len(row) || row[i] == nil {
		return ""
	}
	if s, ok := row[i].(string); ok {
		return s
	}
	return fmt.Sprint(row[i])
}
