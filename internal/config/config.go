// SPDX-License-Identifier: Unlicense OR MIT

// Package config loads the frame server's TOML configuration, in the
// style of noisetorch's config.go.
package config

import (
	"bytes"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the process-wide frame server configuration.
type Config struct {
	DebugPort        int  `toml:"debug_port"`
	DebugEnabled     bool `toml:"debug_enabled"`
	InternerCapacity int  `toml:"interner_capacity"`
	ClipCapacity     int  `toml:"clip_capacity"`
	LayoutCacheSize  int  `toml:"layout_cache_size"`
	FontFallbackCacheSize int `toml:"font_fallback_cache_size"`
}

// Default mirrors the AZUL_DEBUG-driven defaults spec §6 describes:
// the debug server is off unless explicitly configured.
func Default() Config {
	return Config{
		DebugPort:             0,
		DebugEnabled:          false,
		InternerCapacity:      1 << 16,
		ClipCapacity:          1 << 14,
		LayoutCacheSize:       1000,
		FontFallbackCacheSize: 256,
	}
}

// Load reads path as TOML, falling back to Default for any field the
// file does not set (a missing file returns Default unmodified).
func Load(path string) (Config, error) {
	conf := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return conf, nil
	}
	if _, err := toml.DecodeFile(path, &conf); err != nil {
		return Config{}, err
	}
	return conf, nil
}

// Write serialises conf to path as TOML.
func Write(path string, conf Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(&conf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}
