package sheets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

const testSheetURL = "https://docs.google.com/spreadsheets/d/1AbCdEfGhIjKlMnOpQrStUvWxYz_0123456789/edit#gid=0"

func TestExtractSpreadsheetID(t *testing.T) {
	id, err := extractSpreadsheetID(testSheetURL)
	require.NoError(t, err)
	assert.Equal(t, "1AbCdEfGhIjKlMnOpQrStUvWxYz_0123456789", id)

	id, err = extractSpreadsheetID("1AbCdEfGhIjKlMnOpQrStUvWxYz_0123456789")
	require.NoError(t, err)
	assert.Equal(t, "1AbCdEfGhIjKlMnOpQrStUvWxYz_0123456789", id)

	_, err = extractSpreadsheetID("https://example.com/not-a-sheet")
	assert.Error(t, err)
}

func TestReadRange(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"range": "Bulas!A2:C1000",
			"majorDimension": "ROWS",
			"values": [["Paracetamol", "tylenol, acetaminofeno", "Texto da bula"]]
		}`))
	}))
	defer srv.Close()

	ctx := context.Background()
	svc, err := NewSheetsServiceWithOptions(ctx, testSheetURL,
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)

	rows, err := svc.ReadRange(ctx, "Bulas!A2:C1000")
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.Equal(t, "Paracetamol", rows[0][0])
	assert.True(t, strings.Contains(gotPath, "/spreadsheets/1AbCdEfGhIjKlMnOpQrStUvWxYz_0123456789/values/"), gotPath)
}

func TestReadRangeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error": {"code": 403, "message": "The caller does not have permission"}}`))
	}))
	defer srv.Close()

	ctx := context.Background()
	svc, err := NewSheetsServiceWithOptions(ctx, testSheetURL,
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)

	_, err = svc.ReadRange(ctx, "Bulas!A2:C")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ReadRange")
}
