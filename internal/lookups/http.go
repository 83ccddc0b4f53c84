// Package lookups provides the concrete lookup.Provider implementations:
// the remote lookup service, local fixture files, a persistent cache, and
// the loader and refresher that fill a lookup.Set for the editor.
package lookups

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/colonyops/rollbook/internal/core/logging"
	"github.com/colonyops/rollbook/internal/core/lookup"
	"github.com/rs/zerolog"
)

// maxBody bounds the size of a lookup response.
const maxBody = 32 << 20

// envelope is the lookup service response. Data is usually JSON text
// holding the records, occasionally the records themselves.
type envelope struct {
	Error any             `json:"Error"`
	Data  json.RawMessage `json:"Data"`
}

// HTTPProvider fetches lookup data from the remote lookup service with a
// single timed GET per category.
type HTTPProvider struct {
	endpoint string
	client   *http.Client
	log      zerolog.Logger
}

var _ lookup.Provider = (*HTTPProvider)(nil)

// NewHTTPProvider creates a provider for the service at endpoint. A
// non-positive timeout means no client timeout; the request context still
// applies.
func NewHTTPProvider(endpoint string, timeout time.Duration) *HTTPProvider {
	if timeout < 0 {
		timeout = 0
	}
	return &HTTPProvider{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		log:      logging.Component("lookups.http"),
	}
}

// Fetch requests <endpoint>?LookupCode=<category> and normalizes the records
// in the response. A response whose Error field is set, a non-2xx status, or
// an undecodable body is an error. A response without data yields no records.
func (p *HTTPProvider) Fetch(ctx context.Context, category lookup.Category) ([]lookup.Record, error) {
	u, err := url.Parse(p.endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse lookup url: %w", err)
	}
	q := u.Query()
	q.Set("LookupCode", string(category))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", category, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", category, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", category, resp.Status)
	}

	records, err := decodeEnvelope(body)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", category, err)
	}

	p.log.Debug().
		Ctx(ctx).
		Str("category", string(category)).
		Int("records", len(records)).
		Dur("took", time.Since(start)).
		Msg("lookup fetched")

	return records, nil
}

// ErrorValue is returned when the lookup service reports an error in the
// response envelope.
type ErrorValue struct {
	Value any
}

func (e *ErrorValue) Error() string {
	return fmt.Sprintf("lookup service error: %v", e.Value)
}

func decodeEnvelope(body []byte) ([]lookup.Record, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if truthy(env.Error) {
		return nil, &ErrorValue{Value: env.Error}
	}

	data := bytes.TrimSpace(env.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}

	return lookup.NormalizeJSON(data), nil
}

// truthy follows the service's loose error convention: empty strings, false,
// zero and null mean no error.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case float64:
		return t != 0
	case int:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}
