package cli

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/edgeknife/pkg/errors"
	"github.com/matzehuels/edgeknife/pkg/knife"
	"github.com/matzehuels/edgeknife/pkg/session"
)

// Config is the user config file. Every field is optional; command-line
// flags override it.
//
//	[knife]
//	flavor = "vfx"
//	min_point_distance = 8
//	decimation = "legacy"
//	group_by = "destination"
//
//	[editor]
//	cell_width = 10
//	cell_height = 20
type Config struct {
	Knife  KnifeConfig  `toml:"knife"`
	Editor EditorConfig `toml:"editor"`
}

// KnifeConfig holds gesture settings.
type KnifeConfig struct {
	Flavor           string  `toml:"flavor"`
	MinPointDistance float64 `toml:"min_point_distance"`
	Decimation       string  `toml:"decimation"`
	GroupBy          string  `toml:"group_by"`
}

// EditorConfig sizes terminal cells in world units for `edgeknife edit`.
type EditorConfig struct {
	CellWidth  float64 `toml:"cell_width"`
	CellHeight float64 `toml:"cell_height"`
}

// Default editor cell size. Terminal cells are roughly twice as tall as wide.
const (
	defaultCellWidth  = 10.0
	defaultCellHeight = 20.0
)

func defaultConfig() Config {
	return Config{
		Knife: KnifeConfig{
			Flavor:           session.DefaultFlavor,
			MinPointDistance: knife.DefaultMinPointDistance,
			Decimation:       knife.DecimateLegacy.String(),
			GroupBy:          knife.GroupByDestination.String(),
		},
		Editor: EditorConfig{CellWidth: defaultCellWidth, CellHeight: defaultCellHeight},
	}
}

// loadConfig reads the config file at path over the defaults. An empty path
// selects the default location, where a missing file is not an error.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(dir, configFile)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		if os.IsNotExist(err) {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
	}

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidFormat, err, "config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errors.New(errors.ErrCodeInvalidFormat, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.validate(); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidFormat, err, "config %s", path)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if _, err := c.Knife.Options(); err != nil {
		return err
	}
	if c.Knife.Flavor != "" && !slices.Contains(session.FlavorNames(), c.Knife.Flavor) {
		return errors.New(errors.ErrCodeInvalidInput, "unknown flavor %q (want one of %s)",
			c.Knife.Flavor, strings.Join(session.FlavorNames(), ", "))
	}
	if c.Editor.CellWidth <= 0 || c.Editor.CellHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "editor cell size must be positive")
	}
	return nil
}

// Options converts the settings into gesture options.
func (k KnifeConfig) Options() (knife.Options, error) {
	opts := knife.DefaultOptions()
	if k.MinPointDistance < 0 {
		return opts, errors.New(errors.ErrCodeInvalidInput, "min_point_distance must not be negative")
	}
	if k.MinPointDistance > 0 {
		opts.MinPointDistance = k.MinPointDistance
	}
	if k.Decimation != "" {
		d, err := knife.ParseDecimation(k.Decimation)
		if err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "decimation")
		}
		opts.Decimation = d
	}
	if k.GroupBy != "" {
		g, err := knife.ParseGroupBy(k.GroupBy)
		if err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "group_by")
		}
		opts.GroupBy = g
	}
	return opts, nil
}

// =============================================================================
// Knife Flags
// =============================================================================

// knifeFlags are the gesture flags shared by replay, edit and serve.
type knifeFlags struct {
	flavor      string
	minDistance float64
	decimation  string
	groupBy     string
}

func (f *knifeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.flavor, "flavor", "", "redirect flavor: "+strings.Join(session.FlavorNames(), ", "))
	cmd.Flags().Float64Var(&f.minDistance, "min-distance", 0, "minimum distance between recorded path points")
	cmd.Flags().StringVar(&f.decimation, "decimation", "", "decimation rule: legacy, squared")
	cmd.Flags().StringVar(&f.groupBy, "group-by", "", "redirect grouping: destination, source")

	noFiles := cobra.ShellCompDirectiveNoFileComp
	_ = cmd.RegisterFlagCompletionFunc("flavor", cobra.FixedCompletions(session.FlavorNames(), noFiles))
	_ = cmd.RegisterFlagCompletionFunc("decimation", cobra.FixedCompletions([]string{"legacy", "squared"}, noFiles))
	_ = cmd.RegisterFlagCompletionFunc("group-by", cobra.FixedCompletions([]string{"destination", "source"}, noFiles))
}

// resolve loads the config file and applies the flags that were set on cmd.
func (c *CLI) resolve(cmd *cobra.Command, f *knifeFlags) (Config, error) {
	cfg, err := loadConfig(c.configPath)
	if err != nil {
		return cfg, err
	}
	if cmd.Flags().Changed("flavor") {
		cfg.Knife.Flavor = f.flavor
	}
	if cmd.Flags().Changed("min-distance") {
		cfg.Knife.MinPointDistance = f.minDistance
	}
	if cmd.Flags().Changed("decimation") {
		cfg.Knife.Decimation = f.decimation
	}
	if cmd.Flags().Changed("group-by") {
		cfg.Knife.GroupBy = f.groupBy
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// sessionConfig builds a session config from cfg, logging gesture traces
// through the CLI logger.
func (c *CLI) sessionConfig(cfg Config) (session.Config, error) {
	opts, err := cfg.Knife.Options()
	if err != nil {
		return session.Config{}, err
	}
	opts.Logger = knifeLogger(c.Logger)
	return session.Config{Flavor: cfg.Knife.Flavor, Knife: opts}, nil
}
