package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-powerform/pkg/testsupport"
)

func writeFixture(t *testing.T) string {
	t.Helper()
	data, err := testsupport.FixturesFS().ReadFile(testsupport.FixturePowerTypesPath)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	path := filepath.Join(t.TempDir(), "power_types.json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(testsupport.Context())
	return out.String(), err
}

func TestRenderCommand(t *testing.T) {
	source := writeFixture(t)

	out, err := execute(t, "render", "--source", source, "--power-type", "ipmi", "--scope", "node", "--disable-select")
	if err != nil {
		t.Fatalf("render: %v\n%s", err, out)
	}
	if missing := testsupport.ContainsAll([]byte(out),
		`name="power_type" disabled>`,
		`name="power_parameters.mac_address"`,
	); missing != "" {
		t.Fatalf("expected output to contain %q, got:\n%s", missing, out)
	}
	if strings.Contains(out, "power_parameters.power_address") {
		t.Fatalf("bmc fields should be filtered out:\n%s", out)
	}
}

func TestRenderCommand_ConfigFileAndOutput(t *testing.T) {
	source := writeFixture(t)
	dir := t.TempDir()
	configPath := filepath.Join(dir, "powerform.yaml")
	target := filepath.Join(dir, "form.html")
	body := "source: " + source + "\npower_type: virsh\nhide_select: true\n"
	if err := os.WriteFile(configPath, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if out, err := execute(t, "render", "--config", configPath, "--output", target); err != nil {
		t.Fatalf("render: %v\n%s", err, out)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if bytes.Contains(data, []byte(`name="power_type"`)) {
		t.Fatalf("selector should be hidden by config:\n%s", data)
	}
	if !bytes.Contains(data, []byte(`value="qemu+ssh://"`)) {
		t.Fatalf("expected virsh defaults:\n%s", data)
	}
}

func TestRenderCommand_Errors(t *testing.T) {
	if _, err := execute(t, "render"); err == nil {
		t.Fatalf("expected error without source")
	}
	source := writeFixture(t)
	if _, err := execute(t, "render", "--source", source, "--power-type", "redfish"); err == nil {
		t.Fatalf("expected error for unknown power type")
	}
	if _, err := execute(t, "render", "--source", source, "--scope", "rack"); err == nil {
		t.Fatalf("expected error for unknown scope")
	}
}

func TestSplitTheme(t *testing.T) {
	if name, variant := splitTheme("acme:dark"); name != "acme" || variant != "dark" {
		t.Fatalf("unexpected split %q %q", name, variant)
	}
	if name, variant := splitTheme("acme"); name != "acme" || variant != "" {
		t.Fatalf("unexpected split %q %q", name, variant)
	}
}

func TestRenderCommand_Validate(t *testing.T) {
	source := writeFixture(t)
	out, err := execute(t, "render", "--source", source, "--power-type", "virsh", "--validate")
	if err != nil {
		t.Fatalf("render: %v\n%s", err, out)
	}
	if !strings.Contains(out, `<p class="powerform-error">This field is required.</p>`) {
		t.Fatalf("expected required error for power_id:\n%s", out)
	}
}

func TestLintCommand(t *testing.T) {
	source := writeFixture(t)
	out, err := execute(t, "lint", source)
	if err != nil {
		t.Fatalf("lint: %v\n%s", err, out)
	}
	if !strings.Contains(out, `"valid": true`) {
		t.Fatalf("expected clean report, got:\n%s", out)
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("- name: apc\n  fields:\n    - name: outlet\n      field_type: choice\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err = execute(t, "lint", source, bad)
	if err == nil {
		t.Fatalf("expected lint failure, got:\n%s", out)
	}
	if !strings.Contains(out, "choice field has no choices") {
		t.Fatalf("expected issue in report, got:\n%s", out)
	}
}
