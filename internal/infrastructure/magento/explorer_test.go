package magento

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pimsync/connector/internal/domain/magento"
)

func probeParams(server *httptest.Server) magento.ConnectionParams {
	return magento.ConnectionParams{
		BaseURL:  server.URL,
		WSDLPath: "/api/soap/?wsdl",
		Login:    "connector",
		APIKey:   "secret",
	}
}

func TestURLExplorer_Probe(t *testing.T) {
	t.Run("reachable XML endpoint passes", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/xml; charset=utf-8")
			w.Write([]byte(`<?xml version="1.0"?><definitions/>`))
		}))
		defer server.Close()

		explorer := NewURLExplorer(0, zap.NewNop())
		assert.NoError(t, explorer.Probe(context.Background(), probeParams(server)))
	})

	t.Run("rejected credentials map to access denied", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		explorer := NewURLExplorer(0, zap.NewNop())
		err := explorer.Probe(context.Background(), probeParams(server))
		assert.ErrorIs(t, err, magento.ErrAccessDenied)
	})

	t.Run("server error maps to not reachable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		explorer := NewURLExplorer(0, zap.NewNop())
		err := explorer.Probe(context.Background(), probeParams(server))
		assert.ErrorIs(t, err, magento.ErrNotReachable)
	})

	t.Run("HTML answer maps to invalid response format", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte("<html>not an api</html>"))
		}))
		defer server.Close()

		explorer := NewURLExplorer(0, zap.NewNop())
		err := explorer.Probe(context.Background(), probeParams(server))
		assert.ErrorIs(t, err, magento.ErrInvalidResponseFormat)
	})

	t.Run("closed endpoint maps to not reachable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		explorer := NewURLExplorer(0, zap.NewNop())
		err := explorer.Probe(context.Background(), probeParams(server))
		assert.ErrorIs(t, err, magento.ErrNotReachable)
	})
}

func TestURLExplorer_CachesPerConnectionHash(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Content-Type", "text/xml")
		w.Write([]byte(`<definitions/>`))
	}))
	defer server.Close()

	explorer := NewURLExplorer(0, zap.NewNop())
	params := probeParams(server)

	require.NoError(t, explorer.Probe(context.Background(), params))
	require.NoError(t, explorer.Probe(context.Background(), params))
	assert.Equal(t, 1, hits, "second probe with identical parameters must hit the cache")

	t.Run("different credentials probe again", func(t *testing.T) {
		other := params
		other.APIKey = "other-secret"
		require.NoError(t, explorer.Probe(context.Background(), other))
		assert.Equal(t, 2, hits)
	})

	t.Run("failures are cached too", func(t *testing.T) {
		bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits++
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer bad.Close()

		badParams := probeParams(bad)
		err := explorer.Probe(context.Background(), badParams)
		require.ErrorIs(t, err, magento.ErrAccessDenied)
		before := hits
		err = explorer.Probe(context.Background(), badParams)
		require.ErrorIs(t, err, magento.ErrAccessDenied)
		assert.Equal(t, before, hits)
	})
}
