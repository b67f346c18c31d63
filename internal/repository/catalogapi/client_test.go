package catalogapi

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"catalogview-backend/internal/domain"
	"catalogview-backend/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init("production", "error")
	os.Exit(m.Run())
}

func TestFetchProducts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/products", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[
			{"id": 1, "title": "Red Shirt", "price": 20, "description": "soft",
			 "category": {"id": 5, "name": "Clothes"},
			 "images": ["https://cdn.example/a.png"]},
			{"id": 2, "title": "Mystery Box", "images": []}
		]`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	products, err := client.FetchProducts(t.Context())
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, 1, products[0].ID)
	assert.Equal(t, "Red Shirt", products[0].Title)
	require.NotNil(t, products[0].Price)
	assert.Equal(t, 20.0, *products[0].Price)
	assert.Equal(t, "Clothes", products[0].CategoryName())
	assert.Equal(t, "https://cdn.example/a.png", products[0].PrimaryImage())

	assert.Nil(t, products[1].Price)
	assert.Nil(t, products[1].Category)
}

func TestFetchProductsUpstreamFailure(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "non-200 status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, `{"not": "an array"`)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			client := NewClient(srv.URL, time.Second)
			_, err := client.FetchProducts(t.Context())

			var loadErr *domain.LoadError
			assert.ErrorAs(t, err, &loadErr)
		})
	}
}

func TestFetchProductsTransportFailure(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", 200*time.Millisecond)

	_, err := client.FetchProducts(t.Context())
	var loadErr *domain.LoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestUpdateProduct(t *testing.T) {
	title := "Renamed"
	price := 42.5

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/products/15", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Renamed", body["title"])
		assert.Equal(t, 42.5, body["price"])
		assert.NotContains(t, body, "description", "nil patch fields stay out of the body")

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id": 15, "title": "Renamed", "price": 42.5,
			"category": {"id": 2, "name": "Shoes"}}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	product, err := client.UpdateProduct(t.Context(), 15, domain.ProductPatch{
		Title: &title,
		Price: &price,
	})
	require.NoError(t, err)

	assert.Equal(t, 15, product.ID)
	assert.Equal(t, "Renamed", product.Title)
	assert.Equal(t, 42.5, *product.Price)
	assert.Equal(t, "Shoes", product.CategoryName())
}

func TestUpdateProductUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	_, err := client.UpdateProduct(t.Context(), 1, domain.ProductPatch{})

	var editErr *domain.EditError
	require.ErrorAs(t, err, &editErr)
	assert.Equal(t, http.StatusBadRequest, editErr.StatusCode)
}
