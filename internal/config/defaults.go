package config

const (
	defaultConfigPath      = "~/.config/mediadedup/config.toml"
	defaultHistoryPath     = "~/.local/share/mediadedup/history.db"
	defaultLockPath        = "~/.local/share/mediadedup/mediadedup.lock"
	defaultIDPattern       = `tt\d{7,8}`
	defaultMaxSidecarBytes = 1 << 20
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

var defaultSidecarExtensions = []string{".nfo"}

// Default returns a Config populated with repository defaults. Paths and
// ScorePatterns are intentionally empty; they must come from the config file.
func Default() Config {
	return Config{
		Identity: Identity{
			SidecarExtensions: append([]string(nil), defaultSidecarExtensions...),
			IDPattern:         defaultIDPattern,
			MaxSidecarBytes:   defaultMaxSidecarBytes,
		},
		History: History{
			Enabled: true,
			Path:    defaultHistoryPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Lock: Lock{
			Path: defaultLockPath,
		},
	}
}
