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
	ConsumerName = "orders-api"

	DirectoryProviderName = "user-directory"
	CatalogProviderName   = "product-catalog"

	StateUserExists     = "user with id 7 exists"
	StateUserMissing    = "no user with id 404"
	StateProductExists  = "product with id 11 exists"
	StateProductMissing = "no product with id 404"
)

const (
	ExistingUserID int64 = 7
	MissingUserID  int64 = 404

	ExistingProductID int64 = 11
	MissingProductID  int64 = 404
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

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleUserPayload provides stable test data for directory interactions.
func ExampleUserPayload() map[string]any {
	return map[string]any{
		"id":       ExistingUserID,
		"email":    "jwatson@example.com",
		"username": "jwatson",
		"isActive": true,
	}
}

// ExampleProductPayload provides stable test data for catalog interactions.
func ExampleProductPayload() map[string]any {
	return map[string]any{
		"id":       ExistingProductID,
		"name":     "Deerstalker Hat",
		"price":    "9.99",
		"quantity": 25,
	}
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
