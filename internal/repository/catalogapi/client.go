package catalogapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"catalogview-backend/internal/domain"
	"catalogview-backend/pkg/logger"

	"github.com/goccy/go-json"
)

// Client talks to the remote catalog API (escuelajs-style REST):
//
//	GET {base}/products      -> JSON array of products
//	PUT {base}/products/{id} -> canonical updated product
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// FetchProducts loads the complete catalog. Any transport, status, or
// decode failure comes back as a *domain.LoadError.
func (c *Client) FetchProducts(ctx context.Context) ([]domain.Product, error) {
	url := c.baseURL + "/products"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &domain.LoadError{Err: err}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &domain.LoadError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		drain(resp.Body)
		return nil, &domain.LoadError{Err: fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)}
	}

	var products []domain.Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, &domain.LoadError{Err: fmt.Errorf("decode catalog: %w", err)}
	}

	logger.Debug().
		Int("count", len(products)).
		Dur("duration_ms", time.Since(start)).
		Msg("Catalog fetched")

	return products, nil
}

// UpdateProduct PUTs the patch and returns the canonical record. Non-2xx
// statuses and transport failures come back as a *domain.EditError.
func (c *Client) UpdateProduct(ctx context.Context, id int, patch domain.ProductPatch) (*domain.Product, error) {
	url := fmt.Sprintf("%s/products/%d", c.baseURL, id)

	body, err := json.Marshal(patch)
	if err != nil {
		return nil, &domain.EditError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return nil, &domain.EditError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &domain.EditError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		drain(resp.Body)
		return nil, &domain.EditError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url),
		}
	}

	var product domain.Product
	if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
		return nil, &domain.EditError{Err: fmt.Errorf("decode product: %w", err)}
	}

	return &product, nil
}

// drain empties a response body so the connection can be reused.
func drain(r io.Reader) {
	_, _ = io.Copy(io.Discard, io.LimitReader(r, 4096))
}
