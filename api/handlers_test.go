package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aguxez/foodplates/models"
	"github.com/aguxez/foodplates/store"
)

type stubDescriber struct {
	text string
	err  error
}

func (s stubDescriber) Describe(context.Context, models.Draft) (string, error) {
	return s.text, s.err
}

func newTestRouter(t *testing.T, describer Describer) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	s, err := store.OpenJSONFile(filepath.Join(t.TempDir(), "db.json"), zerolog.Nop())
	require.NoError(t, err)
	return NewRouter(NewFoodHandler(s, describer, zerolog.Nop()))
}

func serve(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodePlate(t *testing.T, w *httptest.ResponseRecorder) models.FoodPlate {
	t.Helper()
	var p models.FoodPlate
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	return p
}

func TestFoodRoutesLifecycle(t *testing.T) {
	r := newTestRouter(t, nil)

	w := serve(t, r, http.MethodGet, "/foods", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = serve(t, r, http.MethodPost, "/foods", models.FoodPlate{Name: "Ao molho", Price: "19.90", Available: true})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodePlate(t, w)
	assert.Equal(t, 1, created.ID)

	w = serve(t, r, http.MethodPut, "/foods/1", map[string]any{
		"id": 1, "available": false, "image": "x.png", "name": "Ao molho", "price": "20", "description": "novo",
	})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decodePlate(t, w)
	assert.False(t, updated.Available)
	assert.Equal(t, "novo", updated.Description)

	w = serve(t, r, http.MethodGet, "/foods/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, updated, decodePlate(t, w))

	w = serve(t, r, http.MethodDelete, "/foods/1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = serve(t, r, http.MethodGet, "/foods/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFoodRoutesRejectBadInput(t *testing.T) {
	r := newTestRouter(t, nil)

	cases := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{name: "missing name", method: http.MethodPost, path: "/foods", body: map[string]any{"price": "1"}, want: http.StatusBadRequest},
		{name: "bad price", method: http.MethodPost, path: "/foods", body: map[string]any{"name": "a", "price": "abc"}, want: http.StatusBadRequest},
		{name: "bad id", method: http.MethodPut, path: "/foods/abc", body: map[string]any{"name": "a", "price": "1"}, want: http.StatusBadRequest},
		{name: "unknown put", method: http.MethodPut, path: "/foods/9", body: map[string]any{"name": "a", "price": "1"}, want: http.StatusNotFound},
		{name: "unknown delete", method: http.MethodDelete, path: "/foods/9", want: http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := serve(t, r, tc.method, tc.path, tc.body)
			assert.Equal(t, tc.want, w.Code, w.Body.String())
		})
	}
}

func TestDescribeRoute(t *testing.T) {
	w := serve(t, newTestRouter(t, nil), http.MethodPost, "/describe", models.Draft{Name: "a"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	r := newTestRouter(t, stubDescriber{text: "Massa fresca."})
	w = serve(t, r, http.MethodPost, "/describe", models.Draft{Name: "Ao molho"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"description":"Massa fresca."}`, w.Body.String())

	w = serve(t, r, http.MethodPost, "/describe", models.Draft{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	failing := newTestRouter(t, stubDescriber{err: errors.New("upstream down")})
	w = serve(t, failing, http.MethodPost, "/describe", models.Draft{Name: "a"})
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestClientAgainstRouter(t *testing.T) {
	srv := httptest.NewServer(newTestRouter(t, nil))
	defer srv.Close()
	ctx := context.Background()
	client := NewClient(srv.URL, 0)

	created, err := client.CreateFood(ctx, models.FoodPlate{Name: "Veggie", Price: "21.90", Available: true})
	require.NoError(t, err)

	_, err = client.ReplaceFood(ctx, created.ID, models.FoodPlate{Name: "Veggie", Price: "22.00", Available: true})
	require.NoError(t, err)

	foods, err := client.ListFoods(ctx)
	require.NoError(t, err)
	require.Len(t, foods, 1)
	assert.Equal(t, "22.00", foods[0].Price)

	require.NoError(t, client.DeleteFood(ctx, created.ID))
	var statusErr *StatusError
	require.ErrorAs(t, client.DeleteFood(ctx, created.ID), &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}
