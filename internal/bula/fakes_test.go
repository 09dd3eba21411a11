package bula

import (
	"context"
	"sync"

	"bula/internal/ocr"
	"bula/internal/store"
	"bula/pkg/models"
)

type fakeDetector struct {
	text  string
	err   error
	calls int
}

func (d *fakeDetector) DetectText(_ context.Context, _ []byte) (*ocr.Result, error) {
	d.calls++
	if d.err != nil {
		return nil, d.err
	}
	return &ocr.Result{Text: d.text, Provider: "fake"}, nil
}

func (d *fakeDetector) Close() error { return nil }

// fakeGenerator answers calls in order from replies; errs[i] overrides reply i.
type fakeGenerator struct {
	mu      sync.Mutex
	replies []string
	errs    map[int]error
	prompts []string
}

func (g *fakeGenerator) Generate(_ context.Context, _ string, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	i := len(g.prompts)
	g.prompts = append(g.prompts, prompt)
	if err, ok := g.errs[i]; ok {
		return "", err
	}
	if i >= len(g.replies) {
		return "", nil
	}
	return g.replies[i], nil
}

func (g *fakeGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

// countingStore records every call made against the wrapped memory store.
type countingStore struct {
	*store.MemoryStore
	finds      int
	saves      int
	findErr    error
	lastLookup []string
}

func (s *countingStore) FindByOfficialName(ctx context.Context, name string) (*models.LeafletRecord, error) {
	s.finds++
	s.lastLookup = append(s.lastLookup, name)
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.MemoryStore.FindByOfficialName(ctx, name)
}

func (s *countingStore) FindByAlternateName(ctx context.Context, name string) (*models.LeafletRecord, error) {
	s.finds++
	s.lastLookup = append(s.lastLookup, name)
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.MemoryStore.FindByAlternateName(ctx, name)
}

func (s *countingStore) SaveSummary(ctx context.Context, id string, summary models.Summary) error {
	s.saves++
	return s.MemoryStore.SaveSummary(ctx, id, summary)
}

func newCountingStore(records ...*models.LeafletRecord) *countingStore {
	return &countingStore{MemoryStore: store.NewMemoryStore(records...)}
}

const paracetamolSummaryReply = "```json\n" + `{
  "contraindicacoes": "Hipersensibilidade ao paracetamol.",
  "como_usar": "Ingerir o comprimido com água.",
  "posologia": "500 mg a 1 g a cada 4 a 6 horas.",
  "reacoes_adversas": "Reações alérgicas raras.",
  "riscos_cuidados": "Evitar álcool. Não exceder 4 g por dia."
}` + "\n```"

func paracetamolRecord() *models.LeafletRecord {
	return &models.LeafletRecord{
		ID:             "paracetamol-1",
		OfficialName:   "Paracetamol",
		AlternateNames: []string{"tylenol", "acetaminofeno"},
		FullText:       "PARACETAMOL. Indicações: dor e febre. Contraindicações: hipersensibilidade.",
	}
}
