package main

import (
	"bytes"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"hopcrawler/internal/config"
)

func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()
	assert.Equal(t, "crawl [seed]", cmd.Use)

	for name, def := range map[string]string{
		"seed":      "https://localhost",
		"max-pages": "10000000",
		"max-depth": "3",
		"max-hops":  "10",
		"workers":   "12",
		"output":    "sites.txt",
		"verbose":   "false",
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			flag := cmd.Flags().Lookup(name)
			require.NotNil(t, flag)
			assert.Equal(t, def, flag.DefValue)
		})
	}
	assert.Equal(t, "o", cmd.Flags().Lookup("output").Shorthand)
	assert.Equal(t, "v", cmd.Flags().Lookup("verbose").Shorthand)
}

func site(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			fmt.Fprint(w, `<a href="/one">1</a><a href="/two">2</a><a href="/file.pdf">pdf</a>`)
		case "/one", "/two":
			fmt.Fprint(w, `<a href="/">home</a>`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRunCrawl(t *testing.T) {
	srv := site(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "sites.txt")
	db := filepath.Join(dir, "crawl.db")

	var stdout bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{srv.URL, "-o", out, "--sqlite", db, "--workers", "2", "--max-pages", "10"})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.ElementsMatch(t, []string{srv.URL, srv.URL + "/one", srv.URL + "/two"}, lines)

	assert.Contains(t, stdout.String(), "Crawling completed!")
	assert.Contains(t, stdout.String(), "Domains visited: 1")
	assert.Contains(t, stdout.String(), "Pages downloaded: 3")
	assert.Contains(t, stdout.String(), "Output saved to: "+out)
	assert.Contains(t, stdout.String(), "[1/10] Domain: 127.0.0.1")

	conn, err := sql.Open("sqlite", db)
	require.NoError(t, err)
	defer conn.Close()
	var rows int
	require.NoError(t, conn.QueryRow(`SELECT COUNT(DISTINCT url) FROM visited`).Scan(&rows))
	assert.Equal(t, 3, rows)
}

func TestRunCrawlFailures(t *testing.T) {
	t.Run("seed without a domain", func(t *testing.T) {
		cmd := NewRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetArgs([]string{"http:///nowhere", "-o", filepath.Join(t.TempDir(), "out.txt")})
		assert.Error(t, cmd.Execute())
	})

	t.Run("output cannot be opened", func(t *testing.T) {
		cmd := NewRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetArgs([]string{"http://example.com", "-o", t.TempDir()})
		assert.Error(t, cmd.Execute())
	})

	t.Run("invalid flag value", func(t *testing.T) {
		cmd := NewRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetArgs([]string{"--max-pages", "0"})
		assert.ErrorIs(t, cmd.Execute(), config.ErrInvalidMaxPages)
	})
}

func TestLoadConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crawl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 4\nmax_pages: 50\nmax_domain_hops: 2\n"), 0o600))
	t.Setenv("CRAWL_MAX_PAGES", "70")

	cmd := NewRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--config", path, "--workers", "9", "-v"}))

	cfg, err := loadConfig(cmd, []string{"https://flag.example"})
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Workers, "flag beats file")
	assert.Equal(t, 70, cfg.MaxPages, "environment beats file")
	assert.Equal(t, 2, cfg.MaxDomainHops, "file beats default")
	assert.Equal(t, 3, cfg.MaxDepthPerDomain, "default")
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "https://flag.example", cfg.Seed)
}
