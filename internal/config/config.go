package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/haryoiro/tunebox/internal/constants"
	"github.com/haryoiro/tunebox/internal/structures"
	"github.com/pelletier/go-toml/v2"
)

// Load loads the configuration from a TOML file
func Load(path string) (*structures.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save saves the configuration to a TOML file
func Save(cfg *structures.Config, path string) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	return os.WriteFile(path, data, 0644)
}

// Validate rejects values the server or player cannot run with
func Validate(cfg *structures.Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", cfg.Server.Port)
	}
	if cfg.Server.SongsDir == "" {
		return fmt.Errorf("songs_dir must not be empty")
	}
	if cfg.Client.DefaultVolume < 0 || cfg.Client.DefaultVolume > 1 {
		return fmt.Errorf("default_volume must be between 0 and 1, got %v", cfg.Client.DefaultVolume)
	}
	if cfg.Client.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must not be negative, got %d", cfg.Client.RequestTimeout)
	}
	return nil
}

// Default returns the default configuration
func Default() *structures.Config {
	return &structures.Config{
		Server: structures.ServerConfig{
			Port:     constants.DefaultPort,
			SongsDir: "songs",
		},
		Client: structures.ClientConfig{
			ServerURL:      fmt.Sprintf("http://localhost:%d", constants.DefaultPort),
			DefaultVolume:  0.7,
			SeekSeconds:    constants.SeekSeconds,
			RequestTimeout: int(constants.FetchTimeout / time.Second),
		},
		Theme: structures.Theme{
			Foreground:      "#c0caf5", // Tokyo Night foreground
			Selected:        "#7aa2f7", // Tokyo Night blue
			Playing:         "#9ece6a", // Tokyo Night green
			Border:          "#3b4261", // Tokyo Night border
			Error:           "#f7768e", // Tokyo Night red
			ProgressBar:     "#565f89",
			ProgressBarFill: "#7aa2f7",
		},
		KeyBindings: structures.KeyBindings{
			PlayPause:    "space",
			Quit:         []string{"ctrl+c", "ctrl+d", "q"},
			Next:         []string{"n", "]"},
			Previous:     []string{"p", "["},
			SeekForward:  "right",
			SeekBackward: "left",
			VolumeUp:     []string{"+", "="},
			VolumeDown:   []string{"-", "_"},

			MoveUp:        []string{"up", "k"},
			MoveDown:      []string{"down", "j"},
			Select:        []string{"enter", "l"},
			ToggleSidebar: "tab",
			CloseSidebar:  "esc",
		},
	}
}
