package formstate

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestState_SetAndReadNestedPaths(t *testing.T) {
	state := New(map[string]any{"power_type": "ipmi"})

	if err := state.SetFieldValue("power_parameters.power_address", "10.0.0.1"); err != nil {
		t.Fatalf("set: %v", err)
	}

	want := map[string]any{
		"power_type":       "ipmi",
		"power_parameters": map[string]any{"power_address": "10.0.0.1"},
	}
	if diff := cmp.Diff(want, state.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if got := state.StringValue("power_parameters.power_address"); got != "10.0.0.1" {
		t.Fatalf("unexpected string value %q", got)
	}
	if got := state.StringValue("missing.path"); got != "" {
		t.Fatalf("expected empty string for missing path, got %q", got)
	}
}

func TestState_UpdateIsAtomic(t *testing.T) {
	state := New(map[string]any{"power_type": "ipmi"})

	err := state.Update(
		Change{Path: "power_parameters", Value: map[string]any{"power_id": "1"}},
		Change{Path: "power_type.nested", Value: "boom"},
	)
	if err == nil {
		t.Fatalf("expected error writing through a scalar")
	}
	if _, ok := state.Value("power_parameters"); ok {
		t.Fatalf("failed update must not leave partial writes")
	}

	if err := state.Update(Change{Path: "", Value: "x"}); !errors.Is(err, ErrInvalidPath) {
		t.Fatalf("expected ErrInvalidPath, got %v", err)
	}
	if err := state.Update(Change{Path: "a..b", Value: "x"}); !errors.Is(err, ErrInvalidPath) {
		t.Fatalf("expected ErrInvalidPath for empty segment, got %v", err)
	}
}

func TestState_ListenersFireOncePerUpdate(t *testing.T) {
	state := New(nil)
	var calls [][]string
	state.Subscribe(func(paths []string) {
		calls = append(calls, paths)
	})

	if err := state.Update(
		Change{Path: "power_type", Value: "virsh"},
		Change{Path: "power_parameters", Value: map[string]any{}},
	); err != nil {
		t.Fatalf("update: %v", err)
	}
	_ = state.Update(Change{Path: "", Value: "ignored"})
	if err := state.Update(); err != nil {
		t.Fatalf("empty update: %v", err)
	}

	want := [][]string{{"power_type", "power_parameters"}}
	if diff := cmp.Diff(want, calls); diff != "" {
		t.Fatalf("listener calls mismatch (-want +got):\n%s", diff)
	}
}

func TestState_ValuesAreCopies(t *testing.T) {
	params := map[string]any{"power_id": "1"}
	state := New(map[string]any{"power_parameters": params})

	params["power_id"] = "mutated"
	snapshot := state.Values()
	snapshot["power_parameters"].(map[string]any)["power_id"] = "also mutated"

	if got := state.StringValue("power_parameters.power_id"); got != "1" {
		t.Fatalf("state leaked external mutation, got %q", got)
	}

	if err := state.SetFieldValue("strings", map[string]string{"a": "b"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got := state.StringValue("strings.a"); got != "b" {
		t.Fatalf("expected string maps normalised, got %q", got)
	}
}

func TestState_DeleteTouchedAndErrors(t *testing.T) {
	state := New(map[string]any{"power_parameters": map[string]any{"a": "1", "b": "2"}})

	if err := state.Delete("power_parameters.a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := state.Delete("missing.child"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
	if _, ok := state.Value("power_parameters.a"); ok {
		t.Fatalf("expected a deleted")
	}

	_ = state.SetFieldTouched("power_type", true)
	_ = state.SetFieldTouched("power_parameters.b", true)
	_ = state.SetFieldTouched("power_parameters.b", false)
	if diff := cmp.Diff([]string{"power_type"}, state.TouchedPaths()); diff != "" {
		t.Fatalf("touched mismatch (-want +got):\n%s", diff)
	}

	state.SetErrors("power_type", "This field is required.")
	state.SetErrors("power_parameters.b", "bad", "worse")
	state.SetErrors("power_parameters.b")
	want := map[string][]string{"power_type": {"This field is required."}}
	if diff := cmp.Diff(want, state.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestState_ConcurrentUpdates(t *testing.T) {
	state := New(nil)
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = state.Update(
				Change{Path: "power_type", Value: n},
				Change{Path: "power_parameters.n", Value: n},
			)
		}(i)
	}
	wg.Wait()

	// both writes of the winning update must land together
	if state.StringValue("power_type") != state.StringValue("power_parameters.n") {
		t.Fatalf("torn update: %v", state.Values())
	}
}
