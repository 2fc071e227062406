package taskconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Desmondgtx/Effort-Task/protocol"
)

// Config is the task file: protocol parameters plus where markers go.
type Config struct {
	Task     protocol.Params `yaml:"task"`
	Markers  MarkerConfig    `yaml:"markers"`
	Schedule string          `yaml:"schedule,omitempty"`
}

type MarkerConfig struct {
	// Network is "tcp" or "udp"; empty Addr disables the outlet.
	Network string        `yaml:"network"`
	Addr    string        `yaml:"addr,omitempty"`
	Serial  string        `yaml:"serial,omitempty"`
	MinGap  time.Duration `yaml:"minGap"`
}

// DefaultCandidates are tried in order when no path is given.
var DefaultCandidates = []string{
	"pet.yaml",
	"configs/pet.yaml",
}

func Default() Config {
	return Config{
		Task: protocol.DefaultParams(),
		Markers: MarkerConfig{
			Network: "tcp",
			MinGap:  10 * time.Millisecond,
		},
	}
}

// LoadFromPath decodes the file at configPath over the defaults. With an
// empty path the default candidates are tried and a missing file is not
// an error. Environment overrides are applied last.
func LoadFromPath(configPath string) (Config, error) {
	cfg := Default()

	candidates := DefaultCandidates
	if configPath != "" {
		candidates = []string{configPath}
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			if configPath == "" && errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return cfg, fmt.Errorf("read task config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
		break
	}

	if err := ApplyEnvOverrides(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Task.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyEnvOverrides reads PET_EFFORT_MODE, PET_BLOCKS, PET_PARTNER_LOADING
// and PET_MARKER_ADDR.
func ApplyEnvOverrides(cfg *Config) error {
	if mode := strings.TrimSpace(os.Getenv("PET_EFFORT_MODE")); mode != "" {
		cfg.Task.EffortMode = protocol.EffortMode(strings.ToLower(mode))
	}
	if raw := strings.TrimSpace(os.Getenv("PET_BLOCKS")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("PET_BLOCKS: %w", err)
		}
		cfg.Task.Blocks = n
	}
	if raw := strings.TrimSpace(os.Getenv("PET_PARTNER_LOADING")); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("PET_PARTNER_LOADING: %w", err)
		}
		cfg.Task.PartnerLoading = d
	}
	if addr := strings.TrimSpace(os.Getenv("PET_MARKER_ADDR")); addr != "" {
		cfg.Markers.SetAddr(addr)
	}
	return nil
}

// SetAddr accepts "host:port" or "udp://host:port". Without a scheme the
// current network is kept.
func (m *MarkerConfig) SetAddr(addr string) {
	if network, host, ok := strings.Cut(addr, "://"); ok {
		m.Network = strings.ToLower(network)
		addr = host
	}
	m.Addr = addr
}

// Encode renders cfg as YAML.
func Encode(cfg Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}
