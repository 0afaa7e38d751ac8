package testsupport

import (
	"path/filepath"
	"testing"

	"captionfix/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.WorkDir = filepath.Join(base, "work")
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Server.Bind = "127.0.0.1:0"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.Validate(); err != nil {
		t.Fatalf("invalid test config: %v", err)
	}
	return builder.cfg
}

// WithAPIToken enables bearer authentication on the test config.
func WithAPIToken(token string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Server.APIToken = token
	}
}

// WithMissingTrigger sets the missing-trigger policy.
func WithMissingTrigger(policy string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Rules.MissingTrigger = policy
	}
}

// WithReplacement appends a literal phrase replacement rule.
func WithReplacement(from, to string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Rules.Replacements = append(b.cfg.Rules.Replacements, config.Replacement{From: from, To: to})
	}
}

// WithMaxUploadBytes overrides the upload size limit.
func WithMaxUploadBytes(limit int64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Server.MaxUploadBytes = limit
	}
}

// WithHistoryDisabled turns off the batch history database.
func WithHistoryDisabled() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = false
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.WorkDir)
}
