package config

const (
	defaultConfigPath             = "~/.config/captionfix/config.toml"
	defaultWorkDir                = "~/.local/share/captionfix/work"
	defaultDataDir                = "~/.local/share/captionfix"
	defaultLogDir                 = "~/.local/share/captionfix/logs"
	defaultBind                   = "127.0.0.1:8000"
	defaultMaxUploadBytes         = 10 << 20
	defaultReadTimeoutSeconds     = 30
	defaultWriteTimeoutSeconds    = 60
	defaultShutdownTimeoutSeconds = 5
	defaultMissingTrigger         = "skip"
	defaultWorkspaceMaxAge        = 60
	defaultJanitorInterval        = 10
	defaultHistoryRetentionDays   = 30
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir: defaultWorkDir,
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Server: Server{
			Bind:                   defaultBind,
			MaxUploadBytes:         defaultMaxUploadBytes,
			ReadTimeoutSeconds:     defaultReadTimeoutSeconds,
			WriteTimeoutSeconds:    defaultWriteTimeoutSeconds,
			ShutdownTimeoutSeconds: defaultShutdownTimeoutSeconds,
		},
		Rules: Rules{
			MissingTrigger: defaultMissingTrigger,
		},
		Workspace: Workspace{
			MaxAgeMinutes:          defaultWorkspaceMaxAge,
			JanitorIntervalMinutes: defaultJanitorInterval,
		},
		History: History{
			Enabled:       true,
			RetentionDays: defaultHistoryRetentionDays,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
