package config

// Config is the main configuration carrier, loaded once at startup and
// read-only afterwards.
type Config struct {
	App     AppConfig     `toml:"app"`
	Server  ServerConfig  `toml:"server"`
	Spectra SpectraConfig `toml:"spectra"`
}

type AppConfig struct {
	LogLevel string `toml:"log_level"`
	LogPath  string `toml:"log_path"`
}

type ServerConfig struct {
	Addr             string `toml:"addr"`
	FigureTTLSeconds int    `toml:"figure_ttl_seconds"`
}

// SpectraConfig binds the two spectrum locations to directories and holds
// the legend display threshold.
type SpectraConfig struct {
	FilesystemPath string `toml:"filesystem_path"`
	JobsPath       string `toml:"jobs_path"`
	// LegendHideThreshold is the largest curve count that still shows a
	// legend; figures with more curves render without one.
	LegendHideThreshold int `toml:"legend_hide_threshold"`
	// WatchRoots keeps the file catalog fresh through fsnotify instead of
	// rescanning on every listing request.
	WatchRoots bool `toml:"watch_roots"`
}
