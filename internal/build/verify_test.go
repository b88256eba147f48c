package build

import (
	"context"
	"errors"
	"strings"
	"testing"

	"cifp_parser/internal/storage"
)

func builtStore(t *testing.T) storage.Writer {
	t.Helper()
	store, _ := openTestStore(t)
	src := writeFixture(t, denverFixture())
	if _, err := Run(context.Background(), Options{Source: src}, store, discardLogger()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return store
}

func TestVerifyPasses(t *testing.T) {
	store := builtStore(t)

	opts := VerifyOptions{
		References: []RefPoint{{"KDEN", 39.861656, -104.673178}},
		MinCounts:  map[string]int{"airports": 1, "procedure_legs": 2},
	}
	checks, err := Verify(context.Background(), store, opts, discardLogger())
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	for _, c := range checks {
		if !c.OK {
			t.Errorf("check %s failed: %s", c.Name, c.Detail)
		}
	}
}

func TestVerifyMissingReference(t *testing.T) {
	store := builtStore(t)

	opts := VerifyOptions{
		References: []RefPoint{{"KJFK", 40.639751, -73.778925}},
		MinCounts:  map[string]int{},
	}
	checks, err := Verify(context.Background(), store, opts, discardLogger())
	if !errors.Is(err, ErrVerification) {
		t.Fatalf("Verify = %v, want ErrVerification", err)
	}
	found := false
	for _, c := range checks {
		if c.Name == "reference KJFK" && !c.OK && c.Detail == "not-found" {
			found = true
		}
	}
	if !found {
		t.Errorf("no not-found check for KJFK in %v", checks)
	}
}

func TestVerifyMalformedReference(t *testing.T) {
	store := builtStore(t)

	// KDEN exists but ground truth is deliberately a few kilometres off.
	opts := VerifyOptions{
		References: []RefPoint{{"KDEN", 39.9, -104.7}},
		MinCounts:  map[string]int{},
	}
	checks, err := Verify(context.Background(), store, opts, discardLogger())
	if !errors.Is(err, ErrVerification) {
		t.Fatalf("Verify = %v, want ErrVerification", err)
	}
	found := false
	for _, c := range checks {
		if c.Name == "reference KDEN" && !c.OK && strings.HasPrefix(c.Detail, "malformed") {
			found = true
		}
	}
	if !found {
		t.Errorf("no malformed check for KDEN in %v", checks)
	}
}

func TestVerifyCountFloor(t *testing.T) {
	store := builtStore(t)

	opts := VerifyOptions{
		References: []RefPoint{},
		MinCounts:  map[string]int{"waypoints": 100},
	}
	checks, err := Verify(context.Background(), store, opts, discardLogger())
	if !errors.Is(err, ErrVerification) {
		t.Fatalf("Verify = %v, want ErrVerification", err)
	}
	found := false
	for _, c := range checks {
		if c.Name == "floor waypoints" && !c.OK && strings.HasPrefix(c.Detail, "below-threshold") {
			found = true
		}
	}
	if !found {
		t.Errorf("no below-threshold check for waypoints in %v", checks)
	}
}
