package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/venky7799/aemsearch"
	main "github.com/venky7799/aemsearch/cmd/aemsearch"
)

// page returns the Sling JSON of an activated cq:Page with children.
func page(title string, children map[string]any) map[string]any {
	p := map[string]any{
		"jcr:primaryType": "cq:Page",
		"jcr:content": map[string]any{
			"jcr:primaryType":          "cq:PageContent",
			"jcr:title":                title,
			"cq:lastReplicationAction": "Activate",
			"cq:lastModified":          "2025-03-01T12:00:00.000+00:00",
		},
	}
	for name, c := range children {
		p[name] = c
	}
	return p
}

// truncate returns node with map children kept depth levels deep, the way
// Sling renders "{path}.{depth}.json".
func truncate(node map[string]any, depth int) map[string]any {
	out := make(map[string]any, len(node))
	for k, v := range node {
		child, ok := v.(map[string]any)
		if !ok {
			out[k] = v
			continue
		}
		if depth > 0 {
			out[k] = truncate(child, depth-1)
		}
	}
	return out
}

// slingServer serves tree, rooted at "/", with Sling depth selectors.
func slingServer(t *testing.T, tree map[string]any) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := strings.TrimSuffix(r.URL.Path, ".json")
		depth := 0
		if i := strings.LastIndex(p, "."); i > strings.LastIndex(p, "/") {
			n, err := strconv.Atoi(p[i+1:])
			if err != nil {
				http.NotFound(w, r)
				return
			}
			p, depth = p[:i], n
		}

		node := tree
		for _, seg := range strings.Split(strings.Trim(p, "/"), "/") {
			child, ok := node[seg].(map[string]any)
			if !ok {
				http.NotFound(w, r)
				return
			}
			node = child
		}

		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodHead {
			return
		}
		_ = json.NewEncoder(w).Encode(truncate(node, depth))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func siteServer(t *testing.T) *httptest.Server {
	return slingServer(t, map[string]any{
		"content": map[string]any{
			"jcr:primaryType": "sling:Folder",
			"mysite": page("My Site", map[string]any{
				"en": page("English", map[string]any{
					"about-us": page("About Us", nil),
					"products": page("Products", map[string]any{
						"product-page": page("Product Page", nil),
					}),
				}),
				"de": page("Deutsch", map[string]any{
					"ueber-uns": page("Über uns", nil),
				}),
			}),
		},
	})
}

// searchOutput is the subset of the JSON search output the tests read.
type searchOutput struct {
	Matches []struct {
		NodePath string  `json:"nodePath"`
		Title    string  `json:"title"`
		Score    float64 `json:"score"`
	} `json:"matches"`
	Report struct {
		Failures []any `json:"failures"`
	} `json:"report"`
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	m := main.NewMain()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	err := m.Run(context.Background(), args, stdout, stderr)
	return stdout.String(), stderr.String(), err
}

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints help without a command", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := run(t)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no command specified")
		assert.Contains(t, stdout, "search")
		assert.Contains(t, stdout, "mirror")
	})

	t.Run("help succeeds", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := run(t, "help")

		require.NoError(t, err)
		assert.Contains(t, stdout, "candidates")
	})

	t.Run("requires a repository URL for live searches", func(t *testing.T) {
		t.Parallel()

		_, stderr, err := run(t, "search", "about us", "--url", "")

		require.Error(t, err)
		assert.Equal(t, aemsearch.EINVALID, aemsearch.ErrorCode(err))
		assert.Contains(t, stderr, "AEMSEARCH_URL")
	})

	t.Run("requires a database for mirror runs", func(t *testing.T) {
		t.Parallel()

		_, stderr, err := run(t, "runs", "--db", "")

		require.Error(t, err)
		assert.Equal(t, aemsearch.EINVALID, aemsearch.ErrorCode(err))
		assert.Contains(t, stderr, "AEMSEARCH_DB")
	})

	t.Run("searches a live repository", func(t *testing.T) {
		t.Parallel()

		srv := siteServer(t)

		stdout, _, err := run(t, "search", "product page", "--base", "/content/mysite", "--url", srv.URL, "--db", "", "--format", "json")
		require.NoError(t, err)

		var res searchOutput
		require.NoError(t, json.Unmarshal([]byte(stdout), &res))
		require.NotEmpty(t, res.Matches)
		assert.Equal(t, "/content/mysite/en/products/product-page", res.Matches[0].NodePath)
		assert.Equal(t, "Product Page", res.Matches[0].Title)
		assert.InDelta(t, 1.0, res.Matches[0].Score, 1e-9)
	})

	t.Run("lists candidates of a live repository", func(t *testing.T) {
		t.Parallel()

		srv := siteServer(t)

		stdout, _, err := run(t, "candidates", "/content/mysite", "--url", srv.URL, "--db", "")
		require.NoError(t, err)

		assert.Contains(t, stdout, "AsGiven       /content/mysite\n")
		assert.Contains(t, stdout, "DirectLocale  /content/mysite/en\n")
		assert.Contains(t, stdout, "DirectLocale  /content/mysite/de\n")
		assert.NotContains(t, stdout, "/content/mysite/fr")
	})

	t.Run("mirrors then searches offline", func(t *testing.T) {
		t.Parallel()

		srv := siteServer(t)
		dbPath := filepath.Join(t.TempDir(), "mirror.db")

		stdout, stderr, err := run(t, "mirror", "/content/mysite", "--url", srv.URL, "--db", dbPath)
		require.NoError(t, err, stderr)
		assert.Contains(t, stdout, "Mirrored /content/mysite: 6 nodes, 6 changed")

		stdout, stderr, err = run(t, "mirror", "/content/mysite", "--url", srv.URL, "--db", dbPath)
		require.NoError(t, err, stderr)
		assert.Contains(t, stdout, "6 nodes, 0 changed")

		stdout, _, err = run(t, "runs", "--db", dbPath)
		require.NoError(t, err)
		assert.Equal(t, 2, strings.Count(stdout, "/content/mysite"))

		// The repository is gone; only the mirror can answer.
		srv.Close()

		stdout, stderr, err = run(t, "search", "about us", "--base", "/content/mysite", "--url", srv.URL, "--db", dbPath, "--format", "json")
		require.NoError(t, err, stderr)

		var res searchOutput
		require.NoError(t, json.Unmarshal([]byte(stdout), &res))
		require.NotEmpty(t, res.Matches)
		assert.Equal(t, "/content/mysite/en/about-us", res.Matches[0].NodePath)
		assert.Equal(t, "About Us", res.Matches[0].Title)
		assert.Empty(t, res.Report.Failures)
	})
}
