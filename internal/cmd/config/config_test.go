package config

import (
	"errors"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	appconfig "github.com/Iron-Ham/classdesk/internal/config"
)

// resetViper gives the test a fresh viper instance with classdesk defaults.
func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	appconfig.SetDefaults()
	t.Cleanup(viper.Reset)
}

func readConfig(t *testing.T, mem afero.Fs) *appconfig.Config {
	t.Helper()
	data, err := afero.ReadFile(mem, configFile())
	if err != nil {
		t.Fatalf("Failed to read config file: %v", err)
	}
	var cfg appconfig.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("config file is not valid YAML: %v\n%s", err, data)
	}
	return &cfg
}

func TestRunConfigShow(t *testing.T) {
	useMemFs(t)
	resetViper(t)
	viper.Set("session.backend", "sqlite")
	out := capture(t, configShowCmd)

	if err := runConfigShow(configShowCmd, nil); err != nil {
		t.Fatalf("runConfigShow() error = %v", err)
	}
	got := out.String()
	for _, want := range []string{"(none - using defaults)", "backend: sqlite", "theme: default", "max_tabs: 3"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestRunConfigShowInvalid(t *testing.T) {
	useMemFs(t)
	resetViper(t)
	viper.Set("session.backend", "postgres")

	if err := runConfigShow(configShowCmd, nil); err == nil {
		t.Error("Expected error for invalid configuration")
	}
}

func TestRunConfigSet(t *testing.T) {
	mem := useMemFs(t)
	resetViper(t)
	out := capture(t, configSetCmd)

	if err := runConfigSet(configSetCmd, []string{"tui.theme", "nord"}); err != nil {
		t.Fatalf("runConfigSet() error = %v", err)
	}
	if err := runConfigSet(configSetCmd, []string{"tabstrip.gap", "2"}); err != nil {
		t.Fatalf("runConfigSet() error = %v", err)
	}
	if err := runConfigSet(configSetCmd, []string{"session.prune_labels_on_close", "true"}); err != nil {
		t.Fatalf("runConfigSet() error = %v", err)
	}

	cfg := readConfig(t, mem)
	if cfg.TUI.Theme != "nord" {
		t.Errorf("tui.theme = %q, want nord", cfg.TUI.Theme)
	}
	if cfg.TabStrip.Gap != 2 {
		t.Errorf("tabstrip.gap = %d, want 2", cfg.TabStrip.Gap)
	}
	if !cfg.Session.PruneLabelsOnClose {
		t.Error("session.prune_labels_on_close not saved")
	}
	if !strings.Contains(out.String(), "Set tui.theme = nord") {
		t.Errorf("output = %q", out.String())
	}
}

func TestRunConfigSetCustomTheme(t *testing.T) {
	mem := useMemFs(t)
	resetViper(t)
	capture(t, configSetCmd)
	writeTheme(t, mem, "chalkboard.yaml", chalkboardTheme)

	if err := runConfigSet(configSetCmd, []string{"tui.theme", "chalkboard"}); err != nil {
		t.Fatalf("runConfigSet() error = %v", err)
	}
	if got := readConfig(t, mem).TUI.Theme; got != "chalkboard" {
		t.Errorf("tui.theme = %q, want chalkboard", got)
	}
}

func TestParseValue(t *testing.T) {
	useMemFs(t)

	tests := []struct {
		key     string
		value   string
		want    any
		errText string
	}{
		{key: "session.backend", value: "sqlite", want: "sqlite"},
		{key: "session.backend", value: "postgres", errText: "Valid options: file, sqlite, memory"},
		{key: "session.ttl_hours", value: "0", want: 0},
		{key: "session.ttl_hours", value: "-1", errText: "non-negative"},
		{key: "tabstrip.gap", value: "wide", errText: "expected integer"},
		{key: "tui.show_help", value: "false", want: false},
		{key: "tui.show_help", value: "no", errText: "expected true or false"},
		{key: "tui.theme", value: "neon", errText: "invalid theme"},
		{key: "logging.level", value: "warn", want: "warn"},
		{key: "logging.level", value: "verbose", errText: "Valid options"},
		{key: "session.data_dir", value: "~/classdesk", want: "~/classdesk"},
		{key: "tabstrip.tiers", value: "1", errText: "unknown configuration key"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			got, err := parseValue(tt.key, tt.value)
			if tt.errText != "" {
				if err == nil || !strings.Contains(err.Error(), tt.errText) {
					t.Fatalf("parseValue() error = %v, want %q", err, tt.errText)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseValue() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("parseValue() = %v (%T), want %v (%T)", got, got, tt.want, tt.want)
			}
		})
	}
}

func TestSettableKeysHaveDefaults(t *testing.T) {
	defaults := defaultValues()
	for key := range settableKeys {
		if _, ok := defaults[key]; !ok {
			t.Errorf("settable key %q has no default for reset", key)
		}
	}
	if len(defaults) != len(settableKeys) {
		t.Errorf("%d defaults for %d settable keys", len(defaults), len(settableKeys))
	}
}

func TestRunConfigInit(t *testing.T) {
	mem := useMemFs(t)
	out := capture(t, configInitCmd)

	if err := runConfigInit(configInitCmd, nil); err != nil {
		t.Fatalf("runConfigInit() error = %v", err)
	}

	data, err := afero.ReadFile(mem, configFile())
	if err != nil {
		t.Fatalf("Failed to read config file: %v", err)
	}
	if !strings.HasPrefix(string(data), "# classdesk configuration") {
		t.Errorf("config file missing header:\n%s", data)
	}

	cfg := readConfig(t, mem)
	if errs := cfg.Validate(); len(errs) > 0 {
		t.Errorf("generated config is invalid: %v", errs)
	}
	want := appconfig.Default()
	if cfg.Session.TTLHours != want.Session.TTLHours || len(cfg.TabStrip.Tiers) != len(want.TabStrip.Tiers) {
		t.Errorf("generated config = %+v, want defaults", cfg)
	}
	if !strings.Contains(out.String(), "Created config file") {
		t.Errorf("output = %q", out.String())
	}

	if err := runConfigInit(configInitCmd, nil); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("second init error = %v, want already exists", err)
	}
}

func TestRunConfigPath(t *testing.T) {
	useMemFs(t)
	resetViper(t)
	out := capture(t, configPathCmd)

	if err := runConfigPath(configPathCmd, nil); err != nil {
		t.Fatalf("runConfigPath() error = %v", err)
	}
	if !strings.Contains(out.String(), configFile()+" (not created)") {
		t.Errorf("output = %q", out.String())
	}
}

func TestRunConfigReset(t *testing.T) {
	mem := useMemFs(t)
	resetViper(t)
	capture(t, configSetCmd)
	capture(t, configResetCmd)

	for _, args := range [][]string{{"tui.theme", "dracula"}, {"tabstrip.gap", "3"}} {
		if err := runConfigSet(configSetCmd, args); err != nil {
			t.Fatalf("runConfigSet(%v) error = %v", args, err)
		}
	}

	if err := runConfigReset(configResetCmd, []string{"tui.theme"}); err != nil {
		t.Fatalf("runConfigReset() error = %v", err)
	}
	cfg := readConfig(t, mem)
	if cfg.TUI.Theme != "default" || cfg.TabStrip.Gap != 3 {
		t.Errorf("after single reset theme=%q gap=%d, want default and 3", cfg.TUI.Theme, cfg.TabStrip.Gap)
	}

	if err := runConfigReset(configResetCmd, nil); err != nil {
		t.Fatalf("runConfigReset() error = %v", err)
	}
	if gap := readConfig(t, mem).TabStrip.Gap; gap != appconfig.Default().TabStrip.Gap {
		t.Errorf("after full reset gap = %d", gap)
	}

	if err := runConfigReset(configResetCmd, []string{"nope"}); err == nil {
		t.Error("Expected error for unknown key")
	}
}

func TestRunConfigEdit(t *testing.T) {
	mem := useMemFs(t)
	capture(t, configEditCmd)
	t.Setenv("EDITOR", "")
	t.Setenv("VISUAL", "")

	origLookPath, origCommand := execLookPath, execCommand
	t.Cleanup(func() { execLookPath, execCommand = origLookPath, origCommand })

	execLookPath = func(file string) (string, error) {
		if file == "nano" {
			return "/usr/bin/nano", nil
		}
		return "", errors.New("not found")
	}
	var gotEditor string
	var gotArgs []string
	execCommand = func(name string, args ...string) *exec.Cmd {
		gotEditor, gotArgs = name, args
		// Run the test binary with no tests selected as a stand-in editor.
		return exec.Command(os.Args[0], "-test.run=^$")
	}

	if err := runConfigEdit(configEditCmd, nil); err != nil {
		t.Fatalf("runConfigEdit() error = %v", err)
	}
	if gotEditor != "nano" || len(gotArgs) != 1 || gotArgs[0] != configFile() {
		t.Errorf("editor = %q %v", gotEditor, gotArgs)
	}
	if exists, _ := afero.Exists(mem, configFile()); !exists {
		t.Error("edit should create the config file first")
	}
}

func TestRunConfigEditNoEditor(t *testing.T) {
	useMemFs(t)
	capture(t, configEditCmd)
	t.Setenv("EDITOR", "")
	t.Setenv("VISUAL", "")

	origLookPath := execLookPath
	t.Cleanup(func() { execLookPath = origLookPath })
	execLookPath = func(string) (string, error) { return "", errors.New("not found") }

	err := runConfigEdit(configEditCmd, nil)
	if err == nil || !strings.Contains(err.Error(), "no editor found") {
		t.Errorf("runConfigEdit() error = %v", err)
	}
}
