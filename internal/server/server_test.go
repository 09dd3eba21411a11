package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bula/internal/bula"
	"bula/internal/llm"
	"bula/internal/ocr"
	"bula/internal/store"
	"bula/pkg/models"
)

type fakePipeline struct {
	result    *models.SummaryResult
	err       error
	gotImage  string
	gotName   string
	imageCall int
}

func (f *fakePipeline) ProcessImage(_ context.Context, imageData string) (*models.SummaryResult, error) {
	f.imageCall++
	f.gotImage = imageData
	return f.result, f.err
}

func (f *fakePipeline) GetSummary(_ context.Context, name string) (*models.SummaryResult, error) {
	f.gotName = name
	return f.result, f.err
}

type envelope struct {
	Result *models.SummaryResult `json:"result"`
	Error  *struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

func call(t *testing.T, h http.Handler, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func TestProcessImageSuccess(t *testing.T) {
	p := &fakePipeline{result: &models.SummaryResult{
		OfficialName: "Paracetamol",
		Summary:      models.Summary{Usage: "Via oral."},
		Source:       models.SourceGenerated,
	}}
	h := New(p, Options{})

	rec, env := call(t, h, "/processImageAndGetBula", `{"data": {"imageData": "aGVsbG8="}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "aGVsbG8=", p.gotImage)
	require.NotNil(t, env.Result)
	assert.Equal(t, "Paracetamol", env.Result.OfficialName)
	assert.Equal(t, "generated", env.Result.Source)
	assert.Nil(t, env.Error)

	_, err := uuid.Parse(rec.Header().Get(RequestIDHeader))
	assert.NoError(t, err)
	assert.Contains(t, rec.Body.String(), `"nomeOficial":"Paracetamol"`)
	assert.Contains(t, rec.Body.String(), `"como_usar":"Via oral."`)
}

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   int
		wantStatus string
		wantMsg    string
	}{
		{
			name:       "invalid argument",
			err:        &bula.Error{Op: "ValidateInput", Kind: bula.KindInvalidArgument, Message: "Os dados da imagem (Base64) são obrigatórios."},
			wantCode:   http.StatusBadRequest,
			wantStatus: "INVALID_ARGUMENT",
			wantMsg:    "Os dados da imagem (Base64) são obrigatórios.",
		},
		{
			name:       "not found",
			err:        &bula.Error{Op: "ResolveLeaflet", Kind: bula.KindNotFound, Message: `Bula para "Ibuprofeno" não encontrada.`},
			wantCode:   http.StatusNotFound,
			wantStatus: "NOT_FOUND",
			wantMsg:    `Bula para "Ibuprofeno" não encontrada.`,
		},
		{
			name:       "internal keeps diagnostics out",
			err:        &bula.Error{Op: "DetectText", Kind: bula.KindInternal, Message: "Erro ao processar a imagem com OCR.", Err: errors.New("rpc error: code = PermissionDenied")},
			wantCode:   http.StatusInternalServerError,
			wantStatus: "INTERNAL",
			wantMsg:    "Erro ao processar a imagem com OCR.",
		},
		{
			name:       "unclassified",
			err:        errors.New("boom"),
			wantCode:   http.StatusInternalServerError,
			wantStatus: "INTERNAL",
			wantMsg:    bula.DefaultInternalMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(&fakePipeline{err: tt.err}, Options{})

			rec, env := call(t, h, "/processImageAndGetBula", `{"data": {"imageData": "x"}}`)

			assert.Equal(t, tt.wantCode, rec.Code)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantStatus, env.Error.Status)
			assert.Equal(t, tt.wantMsg, env.Error.Message)
			assert.NotContains(t, rec.Body.String(), "PermissionDenied")
		})
	}
}

func TestMalformedBody(t *testing.T) {
	p := &fakePipeline{}
	h := New(p, Options{})

	rec, env := call(t, h, "/processImageAndGetBula", `{"data": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_ARGUMENT", env.Error.Status)
	assert.Zero(t, p.imageCall)
}

func TestRequestIDIsPropagated(t *testing.T) {
	h := New(&fakePipeline{result: &models.SummaryResult{}}, Options{})
	id := uuid.NewString()

	req := httptest.NewRequest(http.MethodPost, "/getBulaSummary", strings.NewReader(`{"data": {"medicineName": "Paracetamol"}}`))
	req.Header.Set(RequestIDHeader, id)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, id, rec.Header().Get(RequestIDHeader))
}

func TestGetSummaryRequestKeys(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"mobile client key", `{"data": {"nomeMedicamento": "Paracetamol"}}`, "Paracetamol"},
		{"legacy key", `{"data": {"medicineName": "Dipirona"}}`, "Dipirona"},
		{"mobile key wins", `{"data": {"nomeMedicamento": "Paracetamol", "medicineName": "Dipirona"}}`, "Paracetamol"},
		{"no key", `{"data": {}}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakePipeline{result: &models.SummaryResult{OfficialName: tt.want}}
			rec, _ := call(t, New(p, Options{}), "/getBulaSummary", tt.body)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, p.gotName)
		})
	}
}

func TestHealthz(t *testing.T) {
	h := New(&fakePipeline{}, Options{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}

func TestOriginAllowed(t *testing.T) {
	patterns := []string{"https://app.example.com", "*.example.org"}

	assert.True(t, originAllowed(patterns, "https://app.example.com"))
	assert.True(t, originAllowed(patterns, "https://web.example.org"))
	assert.False(t, originAllowed(patterns, "https://evil.example.net"))
	assert.True(t, originAllowed([]string{"*"}, "https://any.host"))
}

type staticDetector struct{ text string }

func (d staticDetector) DetectText(context.Context, []byte) (*ocr.Result, error) {
	return &ocr.Result{Text: d.text}, nil
}

func (staticDetector) Close() error { return nil }

func TestGetSummaryEndToEnd(t *testing.T) {
	var generations int
	gen := llm.GeneratorFunc(func(context.Context, string, string) (string, error) {
		generations++
		return `{"contraindicacoes": "Alergia.", "como_usar": "Via oral.", "posologia": "8/8h", "reacoes_adversas": "Raras.", "riscos_cuidados": "Álcool."}`, nil
	})
	leaflets := store.NewMemoryStore(&models.LeafletRecord{
		ID:             "p1",
		OfficialName:   "Paracetamol",
		AlternateNames: []string{"tylenol"},
		FullText:       "Bula do paracetamol.",
	})

	h := New(bula.NewService(bula.ServiceConfig{
		Detector:  staticDetector{text: "TYLENOL"},
		Generator: gen,
		Store:     leaflets,
		Model:     "test",
	}), Options{})

	rec, env := call(t, h, "/getBulaSummary", `{"data": {"nomeMedicamento": "Tylenol"}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "generated", env.Result.Source)

	rec, env = call(t, h, "/getBulaSummary", `{"data": {"medicineName": "Paracetamol"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cached", env.Result.Source)
	assert.Equal(t, "Via oral.", env.Result.Summary.Usage)
	assert.Equal(t, 1, generations)

	rec, env = call(t, h, "/getBulaSummary", `{"data": {}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_ARGUMENT", env.Error.Status)
}
