package testsupport

import (
	"bytes"
	"context"
	"embed"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-powerform/pkg/powertype"
)

//go:embed testdata/power_types.json
var fixtures embed.FS

// FixturePowerTypesPath is the embedded fixture name holding ipmi, virsh,
// and manual power types.
const FixturePowerTypesPath = "testdata/power_types.json"

// FixturesFS exposes the embedded fixtures for loader tests.
func FixturesFS() embed.FS {
	return fixtures
}

// PowerTypes decodes the embedded power type fixture.
func PowerTypes(t testing.TB) powertype.Set {
	t.Helper()

	data, err := fixtures.ReadFile(FixturePowerTypesPath)
	if err != nil {
		t.Fatalf("read power type fixture: %v", err)
	}
	set, err := powertype.Decode(data)
	if err != nil {
		t.Fatalf("decode power type fixture: %v", err)
	}
	return set
}

// SharedFieldTypes returns two power types sharing "parameter1" with
// different defaults; the canonical reset-on-change scenario.
func SharedFieldTypes() powertype.Set {
	return powertype.MustNewSet(
		powertype.PowerType{
			Name: "power_type_1",
			Fields: []powertype.Field{
				{Name: "parameter1", Type: powertype.FieldTypeString, Default: powertype.StringDefault("default1")},
				{Name: "parameter2", Type: powertype.FieldTypeString, Default: powertype.StringDefault("default2")},
			},
		},
		powertype.PowerType{
			Name: "power_type_2",
			Fields: []powertype.Field{
				{Name: "parameter1", Type: powertype.FieldTypeString, Default: powertype.StringDefault("default3")},
				{Name: "parameter3", Type: powertype.FieldTypeString, Default: powertype.StringDefault("default4")},
			},
		},
	)
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// Diff returns a go-cmp diff string if the values differ.
func Diff(want, got any) string {
	return cmp.Diff(want, got)
}

// ContainsAll reports the first fragment missing from output, or "".
func ContainsAll(output []byte, fragments ...string) string {
	for _, fragment := range fragments {
		if !bytes.Contains(output, []byte(fragment)) {
			return fragment
		}
	}
	return ""
}
