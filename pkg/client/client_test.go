package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(Config{BaseURL: srv.URL, APIKey: "secret"})
	require.NoError(t, err)
	return c
}

func TestClient_Search(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/search", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("X-API-Key"))

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Onix branco", req["query"])

		_, _ = w.Write([]byte(`{
			"query_original": "Onix branco",
			"parametros_extraidos": {"modelos": ["onix"], "cores": ["branco"]},
			"total_encontrado": 1,
			"resultados": [{"id": "1", "marca": "Chevrolet", "modelo": "Onix", "preco": 48000, "ano": "2021", "km": null}]
		}`))
	})

	resp, err := c.Search(context.Background(), "Onix branco")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Results, 1)

	v := resp.Results[0]
	assert.Equal(t, "Onix", v.Model)
	price, ok := v.Price.Float()
	assert.True(t, ok)
	assert.Equal(t, 48000.0, price)
	assert.Equal(t, "2021", v.Year.String())
	assert.Equal(t, "", v.Mileage.String())
	assert.Nil(t, resp.Alternatives)
}

func TestClient_SearchAlternatives(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"query_original": "suv até 10 mil",
			"parametros_extraidos": {"categorias": ["SUV"], "valor_max": 10000},
			"total_encontrado": 0,
			"resultados": [],
			"alternativas": {"criterios": {"categorias": ["SUV"]}, "base": "categoria", "mensagem": "Sugestões", "total_encontrado": 1, "resultados": [{"id": "2"}]}
		}`))
	})

	resp, err := c.Search(context.Background(), "suv até 10 mil")
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Total)
	require.NotNil(t, resp.Alternatives)
	assert.Equal(t, "categoria", resp.Alternatives.Basis)
	assert.Len(t, resp.Alternatives.Results, 1)
}

func TestClient_APIError(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"indisponível","message":"indisponível"}`))
	})

	_, err := c.Search(context.Background(), "onix")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, apiErr.Unavailable())
	assert.Equal(t, "indisponível", apiErr.Message)
}

func TestClient_PlainTextError(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	err := c.Health(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "boom", apiErr.Message)
}

func TestClient_InterpretAndStatus(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/interpret":
			_, _ = w.Write([]byte(`{"query_original":"automático","parametros_extraidos":{"cambios":["automatico"]}}`))
		case "/api/inventory/":
			_, _ = w.Write([]byte(`{"snapshot_id":"abc","source":"file","vehicles":42}`))
		case "/api/search/stats":
			assert.Equal(t, "48", r.URL.Query().Get("hours"))
			assert.Equal(t, "5", r.URL.Query().Get("limit"))
			_, _ = w.Write([]byte(`[{"query":"onix","count":3,"zero_result":1}]`))
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	interp, err := c.Interpret(ctx, "automático")
	require.NoError(t, err)
	assert.Equal(t, []any{"automatico"}, interp.Criteria["cambios"])

	status, err := c.InventoryStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", status.SnapshotID)
	assert.Equal(t, 42, status.Vehicles)

	stats, err := c.TopQueries(ctx, 48, 5)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, 3, stats[0].Count)
}
