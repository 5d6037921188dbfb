package magento

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
)

// ConnectionParams identifies one Magento SOAP endpoint plus credentials.
type ConnectionParams struct {
	BaseURL  string
	WSDLPath string
	Login    string
	APIKey   string
}

// URL returns the full SOAP endpoint address.
func (p ConnectionParams) URL() string {
	return p.BaseURL + p.WSDLPath
}

// Hash returns a stable digest of the connection parameters, used to key
// per-connection caches.
func (p ConnectionParams) Hash() string {
	h := sha256.New()
	h.Write([]byte(p.BaseURL))
	h.Write([]byte{0})
	h.Write([]byte(p.WSDLPath))
	h.Write([]byte{0})
	h.Write([]byte(p.Login))
	h.Write([]byte{0})
	h.Write([]byte(p.APIKey))
	return hex.EncodeToString(h.Sum(nil))
}

// Prober checks that an endpoint is reachable and serves the expected API.
type Prober interface {
	// Probe validates the endpoint. It returns ErrNotReachable,
	// ErrAccessDenied or ErrInvalidResponseFormat on failure.
	Probe(ctx context.Context, params ConnectionParams) error
}

// Webservice exposes the platform-side reads the export needs.
type Webservice interface {
	// Attributes returns the attributes registered on the platform.
	Attributes(ctx context.Context) ([]RemoteAttribute, error)

	// StoreViews returns the store views configured on the platform.
	StoreViews(ctx context.Context) ([]StoreView, error)

	// Categories returns the categories known to the platform.
	Categories(ctx context.Context) ([]RemoteCategory, error)
}
