//go:build e2e

package e2e_test

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// getenv returns the value of the environment variable k or def if empty.
func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

var baseURL = getenv("E2E_BASE_URL", "http://localhost:8080/v1")

// requireApp skips the test when the API is not reachable.
func requireApp(t *testing.T) *http.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping E2E tests in short mode")
	}
	client := &http.Client{Timeout: 5 * time.Second}
	healthz := strings.TrimSuffix(baseURL, "/v1") + "/healthz"
	resp, err := client.Get(healthz)
	if err != nil {
		t.Skip("App not available; skipping E2E")
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Skip("App not healthy; skipping E2E")
	}
	return client
}

func doJSON(t *testing.T, client *http.Client, method, path, body string) (int, map[string]any) {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, baseURL+path, rdr)
	require.NoError(t, err)
	req.Header.Set("Accept", "application/json")
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}
