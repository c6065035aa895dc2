package powerform_test

import (
	"io/fs"
	"strings"
	"testing"

	powerform "github.com/goliatone/go-powerform"
	"github.com/goliatone/go-powerform/pkg/orchestrator"
	"github.com/goliatone/go-powerform/pkg/powertype"
	"github.com/goliatone/go-powerform/pkg/testsupport"
)

func TestRenderHTML(t *testing.T) {
	out, err := powerform.RenderHTML(
		testsupport.Context(),
		powertype.SourceFromFS(testsupport.FixturePowerTypesPath),
		"ipmi",
		powerform.DefaultConfig(),
		orchestrator.WithLoaderOptions(powertype.WithFileSystem(testsupport.FixturesFS())),
	)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if missing := testsupport.ContainsAll(out,
		`<option value="ipmi" selected>ipmi</option>`,
		`<option value="LAN_2_0" selected>LAN_2_0 [IPMI 2.0]</option>`,
	); missing != "" {
		t.Fatalf("expected output to contain %q, got:\n%s", missing, out)
	}
}

func TestRenderHTMLFromSet_KeepsExistingParameters(t *testing.T) {
	set := testsupport.PowerTypes(t)
	values := map[string]any{
		"power_type":       "virsh",
		"power_parameters": map[string]any{"power_id": "vm-42"},
	}
	out, err := powerform.RenderHTMLFromSet(testsupport.Context(), set, values, powerform.DefaultConfig())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), `value="vm-42"`) {
		t.Fatalf("expected stored parameter in output:\n%s", out)
	}
}

func TestNewBinderAndLoader(t *testing.T) {
	loader := powerform.NewLoader(powertype.WithFileSystem(testsupport.FixturesFS()))
	set, err := loader.Load(testsupport.Context(), powertype.SourceFromFS(testsupport.FixturePowerTypesPath))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	binder := powerform.NewBinder(set, nil, powerform.DefaultConfig())
	if err := binder.SelectPowerType("virsh"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if got := binder.State().StringValue("power_parameters.power_address"); got != "qemu+ssh://" {
		t.Fatalf("expected default address, got %q", got)
	}
}

func TestEmbeddedTemplates(t *testing.T) {
	if _, err := fs.ReadFile(powerform.EmbeddedTemplates(), "templates/form.tmpl"); err != nil {
		t.Fatalf("expected embedded form template: %v", err)
	}
}
