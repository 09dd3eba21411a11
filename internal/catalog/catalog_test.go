package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bula/internal/store"
	"bula/pkg/models"
)

type fakeRangeReader struct {
	values    [][]interface{}
	err       error
	gotRanges []string
}

func (f *fakeRangeReader) ReadRange(_ context.Context, rangeSpec string) ([][]interface{}, error) {
	f.gotRanges = append(f.gotRanges, rangeSpec)
	return f.values, f.err
}

func TestReadLeaflets(t *testing.T) {
	sheet := &fakeRangeReader{values: [][]interface{}{
		{"Medicamento", "Nomes alternativos", "Bula"},
		{"Paracetamol", " Tylenol, ACETAMINOFENO ,tylenol,", "Texto do paracetamol"},
		{"", "sem nome", "ignorado"},
		{"Dipirona Sódica"},
		{"  Ibuprofeno  ", "Advil", 42},
	}}

	records, err := NewReader(sheet).ReadLeaflets(context.Background(), "Bulas")
	require.NoError(t, err)

	assert.Equal(t, []string{"Bulas!A:C"}, sheet.gotRanges)
	require.Len(t, records, 3)

	assert.Equal(t, "Paracetamol", records[0].OfficialName)
	assert.Equal(t, []string{"tylenol", "acetaminofeno"}, records[0].AlternateNames)
	assert.Equal(t, "Texto do paracetamol", records[0].FullText)

	assert.Equal(t, "Dipirona Sódica", records[1].OfficialName)
	assert.Empty(t, records[1].AlternateNames)
	assert.Empty(t, records[1].FullText)

	assert.Equal(t, "Ibuprofeno", records[2].OfficialName)
	assert.Equal(t, "42", records[2].FullText)
}

func TestReadLeafletsErrors(t *testing.T) {
	_, err := NewReader(&fakeRangeReader{}).ReadLeaflets(context.Background(), "Bulas")
	assert.ErrorContains(t, err, "empty")

	boom := errors.New("forbidden")
	_, err = NewReader(&fakeRangeReader{err: boom}).ReadLeaflets(context.Background(), "Bulas")
	assert.ErrorIs(t, err, boom)
}

func TestImportNeverClearsSummary(t *testing.T) {
	summary := &models.Summary{Contraindications: "Alergia.", Usage: "Via oral."}
	s := store.NewMemoryStore(&models.LeafletRecord{
		ID:           "p1",
		OfficialName: "Paracetamol",
		FullText:     "texto antigo",
		Summary:      summary,
	})

	report, err := NewImporter(s).Import(context.Background(), []*models.LeafletRecord{
		{OfficialName: "Paracetamol", AlternateNames: []string{"tylenol"}, FullText: "texto novo"},
		{OfficialName: "Dipirona Sódica", AlternateNames: []string{"novalgina"}, FullText: "texto"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 1, report.Updated)
	assert.Zero(t, report.Failed)
	require.Len(t, report.Rows, 2)
	assert.Equal(t, StatusUpdated, report.Rows[0].Status)
	assert.Equal(t, StatusCreated, report.Rows[1].Status)

	rec, ok := s.Get("p1")
	require.True(t, ok)
	assert.Equal(t, "texto novo", rec.FullText)
	assert.Equal(t, []string{"tylenol"}, rec.AlternateNames)
	require.NotNil(t, rec.Summary)
	assert.Equal(t, *summary, *rec.Summary)

	found, err := s.FindByAlternateName(context.Background(), "novalgina")
	require.NoError(t, err)
	assert.Equal(t, "Dipirona Sódica", found.OfficialName)
	assert.False(t, found.HasSummary())
}

type failingStore struct {
	*store.MemoryStore
}

func (failingStore) UpsertLeaflet(context.Context, *models.LeafletRecord) (bool, error) {
	return false, errors.New("unavailable")
}

func TestImportReportsFailures(t *testing.T) {
	report, err := NewImporter(failingStore{store.NewMemoryStore()}).Import(context.Background(), []*models.LeafletRecord{
		{OfficialName: "Paracetamol"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, StatusFailed, report.Rows[0].Status)
	assert.Equal(t, "unavailable", report.Rows[0].Message)
}

func TestImportStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := store.NewMemoryStore()
	_, err := NewImporter(s).Import(ctx, []*models.LeafletRecord{{OfficialName: "Paracetamol"}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, s.Len())
}
