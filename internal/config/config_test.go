package config

import (
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/vtree"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Tree.DefaultKey != string(vtree.DefaultKey) {
		t.Errorf("Tree.DefaultKey = %q, want %q", cfg.Tree.DefaultKey, vtree.DefaultKey)
	}
	if cfg.Tree.KeyStrategy != KeyStrategyFixed {
		t.Errorf("Tree.KeyStrategy = %q, want %q", cfg.Tree.KeyStrategy, KeyStrategyFixed)
	}
	if cfg.Log.Level != DefaultLogLevel {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, DefaultLogLevel)
	}
	if !cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled = false, want true")
	}
	if cfg.Inspector.Addr != DefaultInspectorAddr {
		t.Errorf("Inspector.Addr = %q, want %q", cfg.Inspector.Addr, DefaultInspectorAddr)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults = %v", err)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	// Test loading non-existent config
	_, err := Load(tmpDir)
	if errors.CodeOf(err) != errors.CodeConfigNotFound {
		t.Errorf("Load(missing) code = %q, want %q", errors.CodeOf(err), errors.CodeConfigNotFound)
	}

	configYAML := `tree:
  defaultKey: screen
  keyStrategy: uuid
log:
  level: debug
  format: json
metrics:
  enabled: false
  subsystem: ui
scene:
  region: eu-west-1
  endpoint: http://localhost:9000
  pathStyle: true
`
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte(configYAML), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Tree.DefaultKey != "screen" {
		t.Errorf("Tree.DefaultKey = %q, want screen", cfg.Tree.DefaultKey)
	}
	if cfg.Tree.KeyStrategy != KeyStrategyUUID {
		t.Errorf("Tree.KeyStrategy = %q, want uuid", cfg.Tree.KeyStrategy)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("SlogLevel() = %v, want debug", cfg.SlogLevel())
	}
	if cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled = true, want false")
	}
	if cfg.Metrics.Namespace != DefaultNamespace {
		t.Errorf("Metrics.Namespace = %q, want default %q", cfg.Metrics.Namespace, DefaultNamespace)
	}
	if cfg.Scene.Region != "eu-west-1" || !cfg.Scene.PathStyle {
		t.Errorf("Scene = %+v, want eu-west-1 with path style", cfg.Scene)
	}
	if cfg.Dir() != tmpDir {
		t.Errorf("Dir() = %q, want %q", cfg.Dir(), tmpDir)
	}
}

func TestLoadFile_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(path, []byte("tree: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFile(path)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if errors.CodeOf(err) != errors.CodeConfigInvalid {
		t.Errorf("code = %q, want %q", errors.CodeOf(err), errors.CodeConfigInvalid)
	}
	if !strings.Contains(err.Error(), "Failed to parse") {
		t.Errorf("error %q does not mention parsing", err.Error())
	}
}

func TestSaveAndReload(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, ConfigFileName)

	cfg := New()
	if err := cfg.Save(); err == nil {
		t.Error("Save() without a path should fail")
	}

	cfg.Tree.DefaultKey = "app"
	cfg.Tracing.Enabled = true
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}
	if cfg.Path() != path {
		t.Errorf("Path() = %q, want %q", cfg.Path(), path)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if loaded.Tree.DefaultKey != "app" || !loaded.Tracing.Enabled {
		t.Errorf("reloaded config = %+v", loaded)
	}

	loaded.Log.Level = "warn"
	if err := loaded.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	again, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if again.SlogLevel() != slog.LevelWarn {
		t.Errorf("SlogLevel() = %v, want warn", again.SlogLevel())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"uuid strategy", func(c *Config) { c.Tree.KeyStrategy = KeyStrategyUUID }, false},
		{"bad strategy", func(c *Config) { c.Tree.KeyStrategy = "random" }, true},
		{"nul key", func(c *Config) { c.Tree.DefaultKey = "a\x00b" }, true},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, true},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, true},
		{"warning alias", func(c *Config) { c.Log.Level = "WARNING" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !stderrors.Is(err, errors.New(errors.CodeConfigInvalid)) {
				t.Errorf("Validate() error code = %q, want %q", errors.CodeOf(err), errors.CodeConfigInvalid)
			}
		})
	}
}

func TestTreeOptions(t *testing.T) {
	cfg := New()
	cfg.Tree.DefaultKey = "screen"

	r := vtree.New(nil, cfg.TreeOptions()...)
	tree, err := r.MountTree(vtree.Func(vtree.NewFunction("Empty", func(vtree.Props) vtree.Result { return nil }), nil), nil, "")
	if err != nil {
		t.Fatalf("MountTree() error = %v", err)
	}
	if tree.Key() != "screen" {
		t.Errorf("tree key = %q, want screen", tree.Key())
	}

	cfg.Tree.KeyStrategy = KeyStrategyUUID
	r = vtree.New(nil, cfg.TreeOptions()...)
	tree, err = r.MountTree(vtree.Func(vtree.NewFunction("Empty", func(vtree.Props) vtree.Result { return nil }), nil), nil, "")
	if err != nil {
		t.Fatalf("MountTree() error = %v", err)
	}
	if tree.Key() == "screen" || len(tree.Key()) != 36 {
		t.Errorf("tree key = %q, want a UUID", tree.Key())
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	if Exists(root) {
		t.Fatal("Exists() = true before writing config")
	}
	if err := New().SaveTo(filepath.Join(root, ConfigFileName)); err != nil {
		t.Fatal(err)
	}

	found, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatalf("FindProjectRoot() error = %v", err)
	}
	if found != root {
		t.Errorf("FindProjectRoot() = %q, want %q", found, root)
	}
}
