package tui

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-powerform/pkg/fields"
	"github.com/goliatone/go-powerform/pkg/formstate"
	"github.com/goliatone/go-powerform/pkg/powertype"
	"github.com/goliatone/go-powerform/pkg/render"
	"github.com/goliatone/go-powerform/pkg/testsupport"
)

type stubDriver struct {
	inputs       []string
	passwords    []string
	selectIdx    []int
	selectErr    error
	infoMessages []string
	prompts      []string
	inputPos     int
	passPos      int
	selectPos    int
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.prompts = append(s.prompts, "input:"+cfg.Message)
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Password(_ context.Context, cfg InputConfig) (string, error) {
	s.prompts = append(s.prompts, "password:"+cfg.Message)
	if s.passPos >= len(s.passwords) {
		return "", errors.New("no password scripted")
	}
	val := s.passwords[s.passPos]
	s.passPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.prompts = append(s.prompts, "select:"+cfg.Message)
	if s.selectErr != nil {
		return -1, s.selectErr
	}
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func TestPrompt_SelectsPowerTypeAndCollectsParameters(t *testing.T) {
	set := testsupport.PowerTypes(t)
	binder := fields.NewBinder(set, formstate.New(nil), fields.DefaultConfig())
	driver := &stubDriver{
		selectIdx: []int{1},
		inputs:    []string{"qemu+ssh://host/system", "", "vm-1"},
		passwords: []string{"secret"},
	}

	out, err := New(WithPromptDriver(driver)).Prompt(testsupport.Context(), binder)
	if err != nil {
		t.Fatalf("prompt: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	want := map[string]any{
		"power_type": "virsh",
		"power_parameters": map[string]any{
			"power_address": "qemu+ssh://host/system",
			"power_pass":    "secret",
			"power_id":      "vm-1",
		},
	}
	if diff := testsupport.Diff(want, got); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}

	wantPrompts := []string{
		"select:" + fields.SelectorLabel,
		"input:Address",
		"password:Password (optional)",
		"input:Virsh VM ID",
		"input:Virsh VM ID",
	}
	if diff := testsupport.Diff(wantPrompts, driver.prompts); diff != "" {
		t.Fatalf("prompt order mismatch (-want +got):\n%s", diff)
	}
	if len(driver.infoMessages) != 1 || driver.infoMessages[0] != "Virsh VM ID is required" {
		t.Fatalf("expected required notice, got %v", driver.infoMessages)
	}
	if !binder.State().Touched("power_parameters.power_id") {
		t.Fatalf("expected answered parameter to be touched")
	}
}

func TestPrompt_DisabledSelectKeepsSelection(t *testing.T) {
	set := testsupport.PowerTypes(t)
	cfg := fields.DefaultConfig()
	cfg.DisableSelect = true
	state := formstate.New(map[string]any{"power_type": "manual"})
	binder := fields.NewBinder(set, state, cfg)
	driver := &stubDriver{}

	out, err := New(WithPromptDriver(driver), WithOutputFormat(OutputFormatYAML)).Prompt(testsupport.Context(), binder)
	if err != nil {
		t.Fatalf("prompt: %v", err)
	}
	if len(driver.prompts) != 0 {
		t.Fatalf("expected no prompts, got %v", driver.prompts)
	}

	var got map[string]any
	if err := yaml.Unmarshal(out, &got); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	want := map[string]any{
		"power_type":       "manual",
		"power_parameters": map[string]any{},
	}
	if diff := testsupport.Diff(want, got); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestPrompt_Aborted(t *testing.T) {
	set := testsupport.PowerTypes(t)
	binder := fields.NewBinder(set, nil, fields.DefaultConfig())
	driver := &stubDriver{selectErr: ErrAborted}

	_, err := New(WithPromptDriver(driver)).Prompt(testsupport.Context(), binder)
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if binder.Selected() != "" {
		t.Fatalf("selection should be untouched after abort, got %q", binder.Selected())
	}
}

func TestRender_PromptsViewControls(t *testing.T) {
	set := testsupport.PowerTypes(t)
	cfg := fields.DefaultConfig()
	cfg.Scopes = []powertype.Scope{powertype.ScopeBMC}
	view := fields.Build(set, map[string]any{"power_type": "ipmi"}, cfg)

	driver := &stubDriver{
		selectIdx: []int{0},
		inputs:    []string{"10.0.0.9", "admin"},
		passwords: []string{"hunter2"},
	}
	renderer := New(WithPromptDriver(driver), WithOutputFormat(OutputFormatYAML))
	if renderer.ContentType() != "application/yaml" {
		t.Fatalf("unexpected content type %q", renderer.ContentType())
	}

	out, err := renderer.Render(testsupport.Context(), view, render.RenderOptions{
		Errors: map[string][]string{"power_parameters.power_address": {"Unreachable."}},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	var got map[string]any
	if err := yaml.Unmarshal(out, &got); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	want := map[string]any{
		"power_type": "ipmi",
		"power_parameters": map[string]any{
			"power_driver":  "LAN",
			"power_address": "10.0.0.9",
			"power_user":    "admin",
			"power_pass":    "hunter2",
		},
	}
	if diff := testsupport.Diff(want, got); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
	if len(driver.infoMessages) != 1 || driver.infoMessages[0] != "IP address: Unreachable." {
		t.Fatalf("expected error notice, got %v", driver.infoMessages)
	}
}

func TestRender_DisabledControlsKeepValues(t *testing.T) {
	set := testsupport.PowerTypes(t)
	cfg := fields.DefaultConfig()
	cfg.ShowSelect = false
	cfg.DisableFields = true
	view := fields.Build(set, map[string]any{
		"power_type":       "virsh",
		"power_parameters": map[string]any{"power_id": "vm-7"},
	}, cfg)

	driver := &stubDriver{}
	out, err := New(WithPromptDriver(driver)).Render(testsupport.Context(), view, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(driver.prompts) != 0 {
		t.Fatalf("disabled controls should not prompt, got %v", driver.prompts)
	}

	var got map[string]any
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	want := map[string]any{
		"power_parameters": map[string]any{
			"power_address": "",
			"power_pass":    "",
			"power_id":      "vm-7",
		},
	}
	if diff := testsupport.Diff(want, got); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(testsupport.Context())
	cancel()
	if _, err := New(WithPromptDriver(&stubDriver{})).Render(ctx, fields.View{}, render.RenderOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
