//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "bookstore-api"
	ConsumerName = "storefront-web"

	StateOrdersBaseline = "orders baseline"
	StateOrderExists    = "a pending order exists and an admin session is active"
	StateOrderMissing   = "no order with the requested id exists"
)

const (
	ExistingOrderID = "3e7c7548-96a0-4a53-b5ec-5b17a0d8c3a9"
	MissingOrderID  = "09f1cbbd-2b6f-4fbb-8e40-54a1f4f0ffee"

	AdminUsername = "pact-admin"
	AdminPassword = "pact-admin-pass"
	AdminToken    = "pact-admin-session-token"

	CustomerID = "8b1f9bde-93b4-4a3f-bb61-0894fcb0cf52"
	BookID     = "f4f9cbbd-1c2d-4f53-9b6a-7e5c13a08d11"
	BookTitle  = "The Go Programming Language"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the storefront consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
