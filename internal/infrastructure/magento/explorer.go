package magento

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pimsync/connector/internal/domain/magento"
)

const defaultProbeTimeout = 10 * time.Second

// URLExplorer probes a platform endpoint and caches the outcome per unique
// connection-parameter hash, so repeated checks against the same endpoint in
// one process lifetime do not re-issue network calls.
type URLExplorer struct {
	client *http.Client
	logger *zap.Logger

	mu    sync.Mutex
	cache map[string]error
}

// NewURLExplorer creates an explorer with the given call timeout. A zero
// timeout falls back to 10 seconds.
func NewURLExplorer(timeout time.Duration, logger *zap.Logger) *URLExplorer {
	if timeout == 0 {
		timeout = defaultProbeTimeout
	}
	return &URLExplorer{
		client: &http.Client{Timeout: timeout},
		logger: logger,
		cache:  make(map[string]error),
	}
}

// Probe checks that the endpoint answers with the expected API description.
// Both successes and failures are cached.
func (e *URLExplorer) Probe(ctx context.Context, params magento.ConnectionParams) error {
	key := params.Hash()

	e.mu.Lock()
	if err, ok := e.cache[key]; ok {
		e.mu.Unlock()
		return err
	}
	e.mu.Unlock()

	err := e.probe(ctx, params)

	e.mu.Lock()
	e.cache[key] = err
	e.mu.Unlock()
	return err
}

func (e *URLExplorer) probe(ctx context.Context, params magento.ConnectionParams) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, params.URL(), nil)
	if err != nil {
		return fmt.Errorf("%w: %v", magento.ErrNotReachable, err)
	}
	if params.Login != "" {
		req.SetBasicAuth(params.Login, params.APIKey)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		e.logger.Warn("endpoint probe failed", zap.String("url", params.URL()), zap.Error(err))
		return fmt.Errorf("%w: %v", magento.ErrNotReachable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", magento.ErrAccessDenied, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: status %d", magento.ErrNotReachable, resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(strings.ToLower(contentType), "xml") {
		return fmt.Errorf("%w: content type %q", magento.ErrInvalidResponseFormat, contentType)
	}
	return nil
}

// Ensure URLExplorer implements magento.Prober
var _ magento.Prober = (*URLExplorer)(nil)
