package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/agentstation/instantbox/pkg/constants"
	"github.com/agentstation/instantbox/pkg/errors"
)

// Source fetches a published catalog document by name.
type Source interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// HTTPSource downloads catalog documents relative to a base URL.
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPSource creates a source for baseURL. An empty baseURL uses the
// public catalog.
func NewHTTPSource(baseURL string) *HTTPSource {
	if baseURL == "" {
		baseURL = constants.CatalogBaseURL
	}
	return &HTTPSource{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: constants.DefaultHTTPTimeout},
	}
}

// Fetch implements Source.
func (s *HTTPSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	base := s.BaseURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	u, err := url.JoinPath(base, name)
	if err != nil {
		return nil, errors.WrapValidation("base_url", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.WrapResource("create", "request", u, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, errors.WrapResource("fetch", "catalog", name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewResourceError("fetch", "catalog", name,
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapIO("read", u, err)
	}
	return body, nil
}
