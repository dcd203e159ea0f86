package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paraiso/internal/charcuterie/models"
	"paraiso/internal/charcuterie/store"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	st := store.NewInMemory()
	for _, p := range []models.Product{
		{ID: 1, Locale: "es", Name: "salchichón", Category: "Embutidos"},
		{ID: 2, Locale: "es", Name: "Chorizo", Category: "Embutidos"},
		{ID: 3, Locale: "es", Name: "Paleta", Category: "Curados"},
		{ID: 3, Locale: "en", Name: "Shoulder", Category: "Cured"},
	} {
		require.NoError(t, st.Upsert(context.Background(), &p))
	}
	r := chi.NewRouter()
	New(st, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))).Register(r)
	return r
}

func TestHandleList(t *testing.T) {
	router := newRouter(t)

	t.Run("defaults to spanish ordered by category then name", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/charcuteria", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var products []models.Product
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
		names := make([]string, 0, len(products))
		for _, p := range products {
			names = append(names, p.Name)
		}
		assert.Equal(t, []string{"Paleta", "Chorizo", "salchichón"}, names)
	})

	t.Run("filters by language", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/charcuteria?idioma=EN", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Shoulder")
		assert.NotContains(t, rec.Body.String(), "Paleta")
	})

	t.Run("unknown language", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/charcuteria?idioma=it", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
