package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/venky7799/aemsearch"
	aemhttp "github.com/venky7799/aemsearch/http"
)

// siteJSON is a three level rendering of /content/site.
const siteJSON = `{
  "jcr:primaryType": "cq:Page",
  "jcr:content": {"jcr:title": "Site", "cq:lastReplicationAction": "Activate"},
  "en": {
    "jcr:primaryType": "cq:Page",
    "jcr:content": {
      "jcr:title": "English",
      "cq:lastReplicationAction": "Activate",
      "cq:lastModified": "Tue Mar 05 2024 10:15:00 GMT+0100"
    },
    "contact": {
      "jcr:primaryType": "cq:Page",
      "jcr:content": {
        "jcr:title": "Contact Us",
        "cq:lastReplicationAction": "Activate",
        "cq:lastModified": "2024-03-06T09:00:00Z"
      }
    },
    "drafts": {
      "jcr:primaryType": "cq:Page",
      "jcr:content": {"jcr:title": "Drafts", "cq:lastReplicationAction": "Deactivate"}
    }
  },
  "de": {
    "jcr:primaryType": "sling:Folder"
  },
  "rep:policy": {"jcr:primaryType": "rep:ACL"}
}`

func newServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func noRetry() aemhttp.Option {
	return aemhttp.WithRetryDelays(nil)
}

func TestClient_ListChildren(t *testing.T) {
	t.Parallel()

	t.Run("parses nodes up to depth", func(t *testing.T) {
		t.Parallel()

		server := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/content/site.3.json", r.URL.Path)
			_, _ = w.Write([]byte(siteJSON))
		})
		client := aemhttp.NewClient(server.URL, noRetry())

		nodes, err := client.ListChildren(context.Background(), "/content/site", 2, false)

		require.NoError(t, err)
		var paths []string
		for _, n := range nodes {
			paths = append(paths, n.Path)
		}
		assert.Equal(t, []string{"/content/site/de", "/content/site/en", "/content/site/en/contact"}, paths)

		contact := nodes[2]
		assert.Equal(t, "contact", contact.Name)
		assert.Equal(t, "Contact Us", contact.Title)
		assert.Equal(t, "cq:Page", contact.NodeType)
		assert.True(t, contact.Active)
		assert.Equal(t, time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC), contact.LastModified.UTC())

		en := nodes[1]
		assert.Equal(t, time.Date(2024, 3, 5, 9, 15, 0, 0, time.UTC), en.LastModified.UTC())

		folder := nodes[0]
		assert.Empty(t, folder.Title)
		assert.Equal(t, "de", folder.Label())
		assert.True(t, folder.Active)
	})

	t.Run("includes inactive nodes on request", func(t *testing.T) {
		t.Parallel()

		server := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(siteJSON))
		})
		client := aemhttp.NewClient(server.URL, noRetry())

		nodes, err := client.ListChildren(context.Background(), "/content/site", 2, true)

		require.NoError(t, err)
		assert.Len(t, nodes, 4)
		assert.False(t, nodes[3].Active)
		assert.Equal(t, "/content/site/en/drafts", nodes[3].Path)
	})

	t.Run("limits depth", func(t *testing.T) {
		t.Parallel()

		server := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(siteJSON))
		})
		client := aemhttp.NewClient(server.URL, noRetry())

		nodes, err := client.ListChildren(context.Background(), "/content/site", 1, false)

		require.NoError(t, err)
		assert.Len(t, nodes, 2)
	})

	t.Run("maps status codes to error kinds", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			status int
			code   string
		}{
			{http.StatusNotFound, aemsearch.ENOTFOUND},
			{http.StatusUnauthorized, aemsearch.EFORBIDDEN},
			{http.StatusForbidden, aemsearch.EFORBIDDEN},
			{http.StatusGatewayTimeout, aemsearch.ETIMEOUT},
			{http.StatusInternalServerError, aemsearch.EUNKNOWN},
			{http.StatusBadRequest, aemsearch.EUNKNOWN},
		}
		for _, tt := range tests {
			t.Run(http.StatusText(tt.status), func(t *testing.T) {
				t.Parallel()

				server := newServer(t, func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(tt.status)
				})
				client := aemhttp.NewClient(server.URL, noRetry())

				_, err := client.ListChildren(context.Background(), "/content/site", 1, false)

				var re *aemsearch.RepositoryError
				require.ErrorAs(t, err, &re)
				assert.Equal(t, "/content/site", re.Path)
				assert.Equal(t, tt.code, aemsearch.ErrorCode(err))
			})
		}
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		t.Parallel()

		server := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>login</html>"))
		})
		client := aemhttp.NewClient(server.URL, noRetry())

		_, err := client.ListChildren(context.Background(), "/content/site", 1, false)

		assert.Equal(t, aemsearch.EUNKNOWN, aemsearch.ErrorCode(err))
	})

	t.Run("times out slow responses", func(t *testing.T) {
		t.Parallel()

		server := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(time.Second):
			}
		})
		client := aemhttp.NewClient(server.URL, noRetry(), aemhttp.WithTimeout(20*time.Millisecond))

		_, err := client.ListChildren(context.Background(), "/content/site", 1, false)

		assert.Equal(t, aemsearch.ETIMEOUT, aemsearch.ErrorCode(err))
	})

	t.Run("escapes path segments", func(t *testing.T) {
		t.Parallel()

		server := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/content/dam/my folder.2.json", r.URL.Path)
			_, _ = w.Write([]byte(`{}`))
		})
		client := aemhttp.NewClient(server.URL+"/", noRetry())

		_, err := client.ListChildren(context.Background(), "/content/dam/my folder", 1, false)

		require.NoError(t, err)
	})
}

func TestClient_Retry(t *testing.T) {
	t.Parallel()

	t.Run("retries server errors", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		server := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte(siteJSON))
		})
		var logs []string
		client := aemhttp.NewClient(server.URL,
			aemhttp.WithRetryDelays([]time.Duration{time.Millisecond, time.Millisecond, time.Millisecond}),
			aemhttp.WithRetryLogger(func(format string, args ...any) { logs = append(logs, format) }),
		)

		nodes, err := client.ListChildren(context.Background(), "/content/site", 1, false)

		require.NoError(t, err)
		assert.Len(t, nodes, 2)
		assert.Equal(t, int32(3), calls.Load())
		assert.Len(t, logs, 2)
	})

	t.Run("gives up after the last delay", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		server := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadGateway)
		})
		client := aemhttp.NewClient(server.URL, aemhttp.WithRetryDelays([]time.Duration{time.Millisecond, time.Millisecond}))

		_, err := client.ListChildren(context.Background(), "/content/site", 1, false)

		require.Error(t, err)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("does not retry client errors", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		server := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusForbidden)
		})
		client := aemhttp.NewClient(server.URL, aemhttp.WithRetryDelays([]time.Duration{time.Millisecond}))

		_, err := client.ListChildren(context.Background(), "/content/site", 1, false)

		assert.Equal(t, aemsearch.EFORBIDDEN, aemsearch.ErrorCode(err))
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("stops on cancellation", func(t *testing.T) {
		t.Parallel()

		server := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
		client := aemhttp.NewClient(server.URL, aemhttp.WithRetryDelays([]time.Duration{time.Hour}))
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := client.ListChildren(ctx, "/content/site", 1, false)

		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestClient_Exists(t *testing.T) {
	t.Parallel()

	server := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/content/site/en.json", "/content/site/drafts.json":
			assert.Equal(t, http.MethodHead, r.Method)
		case "/content/site/en.1.json":
			_, _ = w.Write([]byte(`{"jcr:content": {"cq:lastReplicationAction": "Activate"}}`))
		case "/content/site/drafts.1.json":
			_, _ = w.Write([]byte(`{"jcr:content": {"cq:lastReplicationAction": "Deactivate"}}`))
		case "/content/site/us.1.json":
			_, _ = w.Write([]byte(`{"jcr:primaryType": "sling:Folder"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	client := aemhttp.NewClient(server.URL, noRetry())
	ctx := context.Background()

	tests := []struct {
		path            string
		includeInactive bool
		want            bool
	}{
		{"/content/site/en", false, true},
		{"/content/site/en", true, true},
		{"/content/site/drafts", false, false},
		{"/content/site/drafts", true, true},
		{"/content/site/us", false, true},
		{"/content/site/missing", false, false},
		{"/content/site/missing", true, false},
	}
	for _, tt := range tests {
		got, err := client.Exists(ctx, tt.path, tt.includeInactive)
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.want, got, "%s inactive=%v", tt.path, tt.includeInactive)
	}

	t.Run("returns access errors", func(t *testing.T) {
		t.Parallel()

		server := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		})
		client := aemhttp.NewClient(server.URL, noRetry())

		ok, err := client.Exists(context.Background(), "/content/site", true)

		assert.False(t, ok)
		assert.Equal(t, aemsearch.EFORBIDDEN, aemsearch.ErrorCode(err))
	})
}

func TestClient_Locales(t *testing.T) {
	t.Parallel()

	server := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/content/site/language-masters.1.json", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"jcr:primaryType": "cq:Page",
			"jcr:content": {"jcr:title": "Language Masters"},
			"fr": {}, "en": {}, "pt-BR": {}, "de_ch": {},
			"shared": {}, "xx": "not a node"
		}`))
	})
	client := aemhttp.NewClient(server.URL, noRetry())

	locales, err := client.Locales(context.Background(), "/content/site/language-masters")

	require.NoError(t, err)
	assert.Equal(t, []string{"de_ch", "en", "fr", "pt-BR"}, locales)
}

func TestClient_RateLimit(t *testing.T) {
	t.Parallel()

	server := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	client := aemhttp.NewClientFromConfig(aemsearch.RepositoryConfig{
		URL:       server.URL,
		Timeout:   time.Second,
		RateLimit: 20,
	})

	start := time.Now()
	for range 3 {
		_, err := client.ListChildren(context.Background(), "/content/site", 1, false)
		require.NoError(t, err)
	}

	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}
