package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	// DefaultRclone is the rclone executable looked up in $PATH
	DefaultRclone = "rclone"
	// DefaultFusermount is the FUSE unmount helper
	DefaultFusermount = "fusermount"
	// DefaultMountpoint is the mount point probe utility
	DefaultMountpoint = "mountpoint"
	// DefaultProbe is the default mount state probe backend
	DefaultProbe = "mountpoint"
	// DefaultTimeout bounds every external command
	DefaultTimeout = 30 * time.Second
)

// Config holds the application configuration
type Config struct {
	// BaseDir is the directory holding one mount point per remote
	BaseDir string `toml:"base_dir"`
	// Rclone is the rclone executable
	Rclone string `toml:"rclone"`
	// RcloneConfig is passed to rclone as --config when set
	RcloneConfig string `toml:"rclone_config"`
	// Fusermount is the FUSE unmount helper
	Fusermount string `toml:"fusermount"`
	// Mountpoint is the mountpoint(1) executable
	Mountpoint string `toml:"mountpoint"`
	// Timeout bounds every external command
	Timeout Duration `toml:"timeout"`
	// Probe is the mount state backend: "mountpoint" or "procmounts"
	Probe string `toml:"probe"`
	// Notify enables desktop notifications after mount and unmount
	Notify bool `toml:"notify"`
	// MountArgs are extra arguments appended to rclone mount
	MountArgs []string `toml:"mount_args"`
}

// Duration is a time.Duration read from a TOML string such as "45s"
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// DefaultPath returns $XDG_CONFIG_HOME/ordo-mount/config.toml, or the
// equivalent under the OS user config directory
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".config", "ordo-mount", "config.toml")
	}
	return filepath.Join(dir, "ordo-mount", "config.toml")
}

// Load loads configuration from a TOML file
// Returns an empty config if the file doesn't exist
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("parse config file: unknown key %q", undecoded[0].String())
	}

	return cfg, nil
}

// Overrides carries command line values. Zero values are ignored by Merge.
type Overrides struct {
	BaseDir      string
	Rclone       string
	RcloneConfig string
	Timeout      time.Duration
	Probe        string
	Notify       *bool
}

// Merge merges CLI flags into the config, with CLI flags taking precedence
// over config file values. Empty CLI values are ignored.
func (c *Config) Merge(o Overrides) {
	if o.BaseDir != "" {
		c.BaseDir = o.BaseDir
	}
	if o.Rclone != "" {
		c.Rclone = o.Rclone
	}
	if o.RcloneConfig != "" {
		c.RcloneConfig = o.RcloneConfig
	}
	if o.Timeout != 0 {
		c.Timeout.Duration = o.Timeout
	}
	if o.Probe != "" {
		c.Probe = o.Probe
	}
	if o.Notify != nil {
		c.Notify = *o.Notify
	}
}

// ApplyDefaults applies default values for any unset fields. baseDir is
// used when no base directory was configured.
func (c *Config) ApplyDefaults(baseDir string) {
	if c.BaseDir == "" {
		c.BaseDir = baseDir
	}
	if c.Rclone == "" {
		c.Rclone = DefaultRclone
	}
	if c.Fusermount == "" {
		c.Fusermount = DefaultFusermount
	}
	if c.Mountpoint == "" {
		c.Mountpoint = DefaultMountpoint
	}
	if c.Timeout.Duration == 0 {
		c.Timeout.Duration = DefaultTimeout
	}
	if c.Probe == "" {
		c.Probe = DefaultProbe
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.BaseDir == "" {
		return fmt.Errorf("base directory is required (use --base-dir or set 'base_dir' in config file)")
	}

	if c.Timeout.Duration < 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout.Duration)
	}

	if c.Probe != "mountpoint" && c.Probe != "procmounts" {
		return fmt.Errorf("probe must be 'mountpoint' or 'procmounts', got %q", c.Probe)
	}

	return nil
}
