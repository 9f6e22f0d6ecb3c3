// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/mtauhidul/ats-ui-demo-sub000/cliparse"
	"github.com/mtauhidul/ats-ui-demo-sub000/db"
	"github.com/mtauhidul/ats-ui-demo-sub000/models"
	"github.com/mtauhidul/ats-ui-demo-sub000/store"
	_ "modernc.org/sqlite"
)

// SetupTestDB creates a fresh SQLite database file with the full schema.
// The file lives in the test's temp dir and is removed with it.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "board.db")
	conn, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// SQLite allows one writer; a single connection queues transactions
	// instead of failing them with SQLITE_BUSY.
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  "file::memory:",
		DatabaseType: "sqlite",
		Heartbeat:    cliparse.DefaultHeartbeat,
	}
}

// CreateTestPipeline creates a job pipeline with the named stages in
// order. An empty jobID creates a template.
func CreateTestPipeline(t *testing.T, conn *sql.DB, jobID string, stageNames ...string) models.Pipeline {
	t.Helper()

	stages := make([]models.StageInput, 0, len(stageNames))
	for _, name := range stageNames {
		stages = append(stages, models.StageInput{Name: name})
	}

	p, err := store.New(conn).CreatePipeline(context.Background(), jobID, "Test Pipeline", stages)
	if err != nil {
		t.Fatalf("Failed to create test pipeline: %v", err)
	}
	return p
}

// CreateTestCandidate creates a candidate and applies them to jobID,
// placing them in the first stage.
func CreateTestCandidate(t *testing.T, conn *sql.DB, jobID, name string) models.Candidate {
	t.Helper()

	s := store.New(conn)
	c, err := s.CreateCandidate(context.Background(), name, name+"@example.com")
	if err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}
	app, err := s.Apply(context.Background(), c.ID, jobID)
	if err != nil {
		t.Fatalf("Failed to apply test candidate: %v", err)
	}
	c.Applications = append(c.Applications, app)
	return c
}

// SetTestStatus writes an application status directly, bypassing the
// handler layer.
func SetTestStatus(t *testing.T, conn *sql.DB, candidateID, jobID, status string) {
	t.Helper()

	_, err := conn.Exec(`
		UPDATE job_application SET status = $1, last_status_change = $2
		WHERE candidate_id = $3 AND job_id = $4
	`, status, time.Now().UTC(), candidateID, jobID)
	if err != nil {
		t.Fatalf("Failed to set test status: %v", err)
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
