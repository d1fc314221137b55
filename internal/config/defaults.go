package config

const (
	defaultConfigPath       = "~/.config/boilerstrip/config.toml"
	projectConfigName       = "boilerstrip.toml"
	defaultThreshold        = 0.7
	defaultHeaderWindow     = 5
	defaultFooterWindow     = 5
	defaultGlob             = "page*.txt"
	defaultPagePattern      = `page_?(\d+)`
	defaultFallbackEncoding = "latin-1"
	defaultPageTemplate     = "page_%d_cleaned.txt"
	defaultCombinedName     = "all_cleaned.txt"
	defaultOutputSuffix     = "_cleaned"
	defaultLogDir           = "~/.local/share/boilerstrip/logs"
	defaultHistoryDB        = "~/.local/share/boilerstrip/history.db"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultRetentionDays    = 30
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Cleaning: Cleaning{
			Threshold:    defaultThreshold,
			HeaderWindow: defaultHeaderWindow,
			FooterWindow: defaultFooterWindow,
		},
		Input: Input{
			Glob:             defaultGlob,
			PagePattern:      defaultPagePattern,
			FallbackEncoding: defaultFallbackEncoding,
		},
		Output: Output{
			PageTemplate:  defaultPageTemplate,
			CombinedName:  defaultCombinedName,
			WriteCombined: true,
			WriteReport:   true,
		},
		Paths: Paths{
			LogDir:    defaultLogDir,
			HistoryDB: defaultHistoryDB,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RunLogs:       true,
			RetentionDays: defaultRetentionDays,
		},
	}
}
