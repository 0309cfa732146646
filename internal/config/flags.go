package config

import "flag"

var (
	flagConfig  = flag.String("config", "", "Path to config file")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagSeed    = flag.Int64("seed", 0, "Noise seed")
	flagRes     = flag.Float64("res", 0, "Grid resolution")
	flagWidth   = flag.Int("width", 0, "Output image width")
	flagHeight  = flag.Int("height", 0, "Output image height")
	flagWorkers = flag.Int("workers", 0, "Render worker limit")
	flagLogFile = flag.String("log-file", "", "Also write logs to this file")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the non-flag arguments left after ParseFlags.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagSeed != 0 {
		cfg.Noise.Seed = *flagSeed
	}
	if *flagRes > 0 {
		cfg.Tile.Resolution = *flagRes
	}
	if *flagWidth > 0 {
		cfg.Output.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Output.Height = *flagHeight
	}
	if *flagWorkers > 0 {
		cfg.Output.Workers = *flagWorkers
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
}
