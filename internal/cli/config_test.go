package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/edgeknife/pkg/errors"
	"github.com/matzehuels/edgeknife/pkg/knife"
)

func TestConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")

	dir, err := configDir()
	if err != nil {
		t.Fatalf("configDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".config", appName)
	if dir != expected {
		t.Errorf("configDir() = %q, want %q", dir, expected)
	}
}

func TestConfigDirXDG(t *testing.T) {
	custom := "/tmp/custom-config"
	t.Setenv("XDG_CONFIG_HOME", custom)

	dir, err := configDir()
	if err != nil {
		t.Fatalf("configDir() error: %v", err)
	}

	expected := filepath.Join(custom, appName)
	if dir != expected {
		t.Errorf("configDir() with XDG_CONFIG_HOME = %q, want %q", dir, expected)
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), configFile)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg != defaultConfig() {
		t.Errorf("loadConfig() = %+v, want defaults", cfg)
	}

	opts, err := cfg.Knife.Options()
	if err != nil {
		t.Fatal(err)
	}
	if opts.MinPointDistance != knife.DefaultMinPointDistance || opts.Decimation != knife.DecimateLegacy || opts.GroupBy != knife.GroupByDestination {
		t.Errorf("Options() = %+v, want knife defaults", opts)
	}
}

func TestLoadConfig_DefaultLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	dir := filepath.Join(home, appName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, configFile), []byte("[knife]\nflavor = \"vfx\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Knife.Flavor != "vfx" {
		t.Errorf("Flavor = %q, want vfx", cfg.Knife.Flavor)
	}
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
[knife]
flavor = "none"
min_point_distance = 4.0
decimation = "squared"
group_by = "source"

[editor]
cell_width = 8.0
cell_height = 16.0
`)

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Knife.Flavor != "none" {
		t.Errorf("Flavor = %q, want none", cfg.Knife.Flavor)
	}
	if cfg.Editor.CellWidth != 8 || cfg.Editor.CellHeight != 16 {
		t.Errorf("Editor = %+v, want 8x16", cfg.Editor)
	}

	opts, err := cfg.Knife.Options()
	if err != nil {
		t.Fatal(err)
	}
	if opts.MinPointDistance != 4 {
		t.Errorf("MinPointDistance = %v, want 4", opts.MinPointDistance)
	}
	if opts.Decimation != knife.DecimateSquared {
		t.Errorf("Decimation = %v, want squared", opts.Decimation)
	}
	if opts.GroupBy != knife.GroupBySource {
		t.Errorf("GroupBy = %v, want source", opts.GroupBy)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"syntax", "[knife\n", "config"},
		{"unknown key", "[knife]\nradius = 3.0\n", "knife.radius"},
		{"unknown flavor", "[knife]\nflavor = \"houdini\"\n", "houdini"},
		{"bad decimation", "[knife]\ndecimation = \"cubic\"\n", "cubic"},
		{"negative distance", "[knife]\nmin_point_distance = -1.0\n", "negative"},
		{"zero cell", "[editor]\ncell_width = 0.0\n", "cell size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("loadConfig() succeeded, want error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("code = %s, want %s", errors.GetCode(err), errors.ErrCodeInvalidFormat)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadConfig_MissingExplicit(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("loadConfig(missing) = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
}
