// ABOUTME: Tests for the root heapwalk package
// ABOUTME: Verifies the version constant is present and well formed

package heapwalk_test

import (
	"strings"
	"testing"

	"github.com/prateek/heapwalk"
)

func TestVersion(t *testing.T) {
	if heapwalk.Version == "" {
		t.Fatal("Version constant should not be empty")
	}
	// Pre-1.0 until the binding interfaces settle
	if !strings.HasPrefix(heapwalk.Version, "0.") {
		t.Errorf("Version should start with %q, got %q", "0.", heapwalk.Version)
	}
}
