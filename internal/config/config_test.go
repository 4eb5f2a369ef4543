package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/bitgrid/internal/widget"
)

// isolate points XDG_CONFIG_HOME and the working directory at a temp dir so
// no real config files leak into a test.
func isolate(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))
	t.Chdir(tmpDir)
	return tmpDir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func TestGlobalPath(t *testing.T) {
	t.Run("with XDG_CONFIG_HOME set", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		if got, want := GlobalPath(), "/custom/config/bitgrid/bitgrid.yml"; got != want {
			t.Errorf("GlobalPath() = %v, want %v", got, want)
		}
	})

	t.Run("without XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		got := GlobalPath()
		if !filepath.IsAbs(got) {
			t.Errorf("GlobalPath() should return absolute path, got %v", got)
		}
		if filepath.Base(got) != "bitgrid.yml" {
			t.Errorf("GlobalPath() should end with bitgrid.yml, got %v", got)
		}
	})
}

func TestProjectPath(t *testing.T) {
	if got := ProjectPath(); got != "bitgrid.yml" {
		t.Errorf("ProjectPath() = %v, want bitgrid.yml", got)
	}
}

func TestExists(t *testing.T) {
	isolate(t)

	if Exists() {
		t.Error("Exists() = true, want false when no config files exist")
	}

	writeFile(t, ProjectPath(), "rows: 3\n")
	if !Exists() {
		t.Error("Exists() = false, want true when project config exists")
	}

	_ = os.Remove(ProjectPath())
	writeFile(t, GlobalPath(), "rows: 3\n")
	if !Exists() {
		t.Error("Exists() = false, want true when global config exists")
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Name != DefaultName {
		t.Errorf("Name = %q, want %q", cfg.Name, DefaultName)
	}
	if cfg.Rows != widget.DefaultRows || cfg.Cols != widget.DefaultCols {
		t.Errorf("dims = %dx%d, want %dx%d", cfg.Rows, cfg.Cols, widget.DefaultRows, widget.DefaultCols)
	}
	if cfg.DebounceMs != widget.DefaultDebounceMs {
		t.Errorf("DebounceMs = %d, want %d", cfg.DebounceMs, widget.DefaultDebounceMs)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, DefaultLogLevel)
	}
	if cfg.NATS.Enabled || cfg.NATS.Port != DefaultNATSPort {
		t.Errorf("NATS = %+v, want disabled on %d", cfg.NATS, DefaultNATSPort)
	}
	if cfg.MCP.Enabled || cfg.WatchConfig {
		t.Error("MCP and config watching should be off by default")
	}
}

func TestLoad_Precedence(t *testing.T) {
	isolate(t)

	writeFile(t, GlobalPath(), "name: global\nrows: 2\ncols: 2\nlog_level: debug\n")
	writeFile(t, ProjectPath(), "name: project\nrows: 4\n")
	t.Setenv("BITGRID_ROWS", "7")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Name != "project" {
		t.Errorf("Name = %q, project should override global", cfg.Name)
	}
	if cfg.Rows != 7 {
		t.Errorf("Rows = %d, env should override files", cfg.Rows)
	}
	if cfg.Cols != 2 {
		t.Errorf("Cols = %d, global value should survive the merge", cfg.Cols)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestLoad_EnvNestedAndLists(t *testing.T) {
	isolate(t)

	t.Setenv("BITGRID_NATS_ENABLED", "true")
	t.Setenv("BITGRID_NATS_PORT", "-1")
	t.Setenv("BITGRID_MCP_ENABLED", "1")
	t.Setenv("BITGRID_COL_LABELS", "Go,Zig,C")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.NATS.Enabled || cfg.NATS.Port != -1 {
		t.Errorf("NATS = %+v, want enabled on -1", cfg.NATS)
	}
	if !cfg.MCP.Enabled {
		t.Error("MCP should be enabled from env")
	}
	if len(cfg.ColLabels) != 3 || cfg.ColLabels[1] != "Zig" {
		t.Errorf("ColLabels = %v, want [Go Zig C]", cfg.ColLabels)
	}
}

func TestLoadFile_Explicit(t *testing.T) {
	dir := isolate(t)

	writeFile(t, ProjectPath(), "name: project\nrows: 4\n")
	explicit := filepath.Join(dir, "custom.yml")
	writeFile(t, explicit, `name: custom
data:
  - [true, false]
  - [false, true]
row_labels: [Alice, Bob]
`)

	cfg, err := LoadFile(explicit)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if cfg.Name != "custom" {
		t.Errorf("Name = %q, want custom", cfg.Name)
	}
	if cfg.Rows != 4 {
		t.Errorf("Rows = %d, project value should still apply", cfg.Rows)
	}
	if len(cfg.Data) != 2 || !cfg.Data[0][0] || cfg.Data[0][1] || !cfg.Data[1][1] {
		t.Errorf("Data = %v, want diagonal 2x2", cfg.Data)
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.yml")); err == nil {
		t.Error("LoadFile() should fail for a missing explicit file")
	}
}

func TestLoadFile_Hooks(t *testing.T) {
	dir := isolate(t)

	explicit := filepath.Join(dir, "hooks.yml")
	writeFile(t, explicit, `hooks:
  on_change:
    - command: echo {{id}}
      timeout: 5
    - command: ./notify.sh
`)

	cfg, err := LoadFile(explicit)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if len(cfg.Hooks.OnChange) != 2 {
		t.Fatalf("OnChange = %v, want 2 hooks", cfg.Hooks.OnChange)
	}
	if cfg.Hooks.OnChange[0].Command != "echo {{id}}" || cfg.Hooks.OnChange[0].Timeout != 5 {
		t.Errorf("first hook = %+v", cfg.Hooks.OnChange[0])
	}
	if cfg.Hooks.OnChange[1].Timeout != 0 {
		t.Errorf("second hook timeout = %d, want unset", cfg.Hooks.OnChange[1].Timeout)
	}
}

func TestLoadFile_Malformed(t *testing.T) {
	dir := isolate(t)

	bad := filepath.Join(dir, "bad.yml")
	writeFile(t, bad, "rows: [unclosed\n")
	if _, err := LoadFile(bad); err == nil {
		t.Error("LoadFile() should fail for malformed YAML")
	}
}

func TestWriteProject_RoundTrip(t *testing.T) {
	isolate(t)

	in := &Config{
		Name:       "skills",
		RowLabels:  []string{"Alice", "Bob"},
		ColLabels:  []string{"Go", "Zig", "C"},
		DebounceMs: 50,
		LogLevel:   "warn",
		NATS:       NATSConfig{Enabled: true, Port: 4333},
	}
	if err := WriteProject(in); err != nil {
		t.Fatalf("WriteProject() error: %v", err)
	}

	out, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if out.Name != "skills" || out.DebounceMs != 50 || out.LogLevel != "warn" {
		t.Errorf("round trip lost scalars: %+v", out)
	}
	if len(out.ColLabels) != 3 || out.ColLabels[2] != "C" {
		t.Errorf("ColLabels = %v", out.ColLabels)
	}
	if !out.NATS.Enabled || out.NATS.Port != 4333 {
		t.Errorf("NATS = %+v", out.NATS)
	}
}

func TestWriteGlobal_CreatesDirectory(t *testing.T) {
	isolate(t)

	if err := WriteGlobal(&Config{Name: "g"}); err != nil {
		t.Fatalf("WriteGlobal() error: %v", err)
	}
	if !fileExists(GlobalPath()) {
		t.Errorf("expected %s to exist", GlobalPath())
	}
}

func TestToWidgetOptions(t *testing.T) {
	cfg := &Config{
		Name:       "skills",
		Rows:       3,
		Cols:       4,
		RowLabels:  []string{"a"},
		DebounceMs: -1,
	}
	opts := cfg.ToWidgetOptions()

	if opts.Name != "skills" || opts.Rows != 3 || opts.Cols != 4 || opts.DebounceMs != -1 {
		t.Errorf("ToWidgetOptions() = %+v", opts)
	}
	if len(opts.RowLabels) != 1 {
		t.Errorf("RowLabels not carried: %v", opts.RowLabels)
	}
}

func TestFiles(t *testing.T) {
	isolate(t)

	if got := Files(""); len(got) != 0 {
		t.Errorf("Files() = %v, want none", got)
	}

	writeFile(t, ProjectPath(), "rows: 1\n")
	got := Files("extra.yml")
	if len(got) != 2 || got[0] != ProjectPath() || got[1] != "extra.yml" {
		t.Errorf("Files() = %v, want [bitgrid.yml extra.yml]", got)
	}
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := isolate(t)

	path := filepath.Join(dir, "watched.yml")
	writeFile(t, path, "name: before\n")

	reloaded := make(chan *Config, 4)
	w, err := NewWatcher(path, func(cfg *Config) { reloaded <- cfg })
	if err != nil {
		t.Fatalf("NewWatcher() error: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer func() { _ = w.Stop() }()

	writeFile(t, path, "name: after\nrows: 9\n")

	select {
	case cfg := <-reloaded:
		if cfg.Name != "after" || cfg.Rows != 9 {
			t.Errorf("reloaded config = %+v", cfg)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := isolate(t)

	path := filepath.Join(dir, "watched.yml")
	writeFile(t, path, "name: before\n")

	reloaded := make(chan *Config, 4)
	w, err := NewWatcher(path, func(cfg *Config) { reloaded <- cfg })
	if err != nil {
		t.Fatalf("NewWatcher() error: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer func() { _ = w.Stop() }()

	writeFile(t, filepath.Join(dir, "other.yml"), "name: other\n")

	select {
	case cfg := <-reloaded:
		t.Errorf("unexpected reload: %+v", cfg)
	case <-time.After(3 * reloadDebounce):
	}
}

func TestNewWatcher_NoFiles(t *testing.T) {
	isolate(t)

	if _, err := NewWatcher("", nil); err == nil {
		t.Error("NewWatcher() should fail with nothing to watch")
	}
}
