package scripts

import (
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const defaultDiffCacheShards = 8
const defaultDiffCacheBytes uint64 = 1 << 20

type Config struct {
	// AllowAnonymous lets uploads without an uploader through.
	AllowAnonymous bool `yaml:"allow_anonymous"`
	// SessionVoting lets anonymous visitors vote, deduplicated per session.
	SessionVoting    bool   `yaml:"session_voting"`
	DisableDiffCache bool   `yaml:"disable_diff_cache"`
	DiffCacheShards  int    `yaml:"diff_cache_shards"`
	DiffCacheBytes   uint64 `yaml:"diff_cache_bytes"`

	Logger *zap.Logger `yaml:"-"`
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read config file %s", path)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, errors.Wrapf(err, "could not parse config file %s", path)
	}

	cfg.applyDefaults()

	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.DiffCacheShards == 0 {
		cfg.DiffCacheShards = defaultDiffCacheShards
	}

	if cfg.DiffCacheBytes == 0 {
		cfg.DiffCacheBytes = defaultDiffCacheBytes
	}

	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
}
