package config

const (
	defaultAppLogLevel         = "info"
	defaultServerAddr          = ":8888"
	defaultFigureTTLSeconds    = 1800
	defaultLegendHideThreshold = 10
)

// applyDefaults fills zero-value settings that have sensible defaults.
// The spectrum root paths carry no default; they must be configured.
func (c *Config) applyDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = defaultAppLogLevel
	}
	if c.Server.Addr == "" {
		c.Server.Addr = defaultServerAddr
	}
	if c.Server.FigureTTLSeconds <= 0 {
		c.Server.FigureTTLSeconds = defaultFigureTTLSeconds
	}
	if c.Spectra.LegendHideThreshold <= 0 {
		c.Spectra.LegendHideThreshold = defaultLegendHideThreshold
	}
}
