package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/asakaida/kiban/internal/repositories/postgres"
	"github.com/asakaida/kiban/internal/server"
	"github.com/asakaida/kiban/internal/services"
	"github.com/asakaida/kiban/internal/testhelpers"
)

// E2ETestServer is the full HTTP API backed by a real database
type E2ETestServer struct {
	Server *httptest.Server
	Client *http.Client
}

// SetupE2ETest starts the API on a random port against a clean database
func SetupE2ETest(t *testing.T) *E2ETestServer {
	t.Helper()

	pg := testhelpers.GetTestDB(t)

	schemaRepo := postgres.NewPostgresSchemaRepository(pg.DB)
	entryRepo := postgres.NewPostgresEntryRepository(pg.DB)

	handler := server.NewHTTPHandler(server.Options{
		SchemaService:      services.NewSchemaService(schemaRepo, nil),
		EntryService:       services.NewEntryService(schemaRepo, entryRepo, nil),
		DB:                 pg,
		Version:            "e2e",
		Env:                "test",
		CORSAllowedOrigins: []string{"*"},
	})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &E2ETestServer{Server: srv, Client: srv.Client()}
}

// Do sends a JSON request and decodes the JSON response into a generic map
func (s *E2ETestServer) Do(t *testing.T, method, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	status, decoded, err := s.send(method, path, body)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return status, decoded
}

// send is safe to call from goroutines other than the test's own
func (s *E2ETestServer) send(method, path string, body interface{}) (int, map[string]interface{}, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, s.Server.URL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var decoded map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil && err != io.EOF {
		return 0, nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return resp.StatusCode, decoded, nil
}

func formatID(id float64) string {
	return strconv.FormatInt(int64(id), 10)
}
