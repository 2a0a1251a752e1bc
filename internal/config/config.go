package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the fields qboard needs to reach the Queuify backend.
type Config struct {
	APIBase   string
	SocketURL string
	Token     string
	OrgID     string
	PollEvery int // seconds; zero uses the app default
}

const (
	defaultConfigPath = "~/.config/qboard/config.toml"
	defaultAPIBase    = "http://127.0.0.1:8080"
)

// Load locates and parses the qboard config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{APIBase: defaultAPIBase}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.SocketURL = deriveSocketURL(cfg.APIBase)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIBase     string `toml:"api_base"`
		SocketURL   string `toml:"socket_url"`
		Token       string `toml:"token"`
		OrgID       string `toml:"org_id"`
		PollSeconds int    `toml:"poll_seconds"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.APIBase = strings.TrimSpace(raw.APIBase)
	if cfg.APIBase == "" {
		cfg.APIBase = defaultAPIBase
	}

	cfg.SocketURL = strings.TrimSpace(raw.SocketURL)
	if cfg.SocketURL == "" {
		cfg.SocketURL = deriveSocketURL(cfg.APIBase)
	}

	cfg.Token = strings.TrimSpace(raw.Token)
	cfg.OrgID = strings.TrimSpace(raw.OrgID)
	if raw.PollSeconds > 0 {
		cfg.PollEvery = raw.PollSeconds
	}

	return cfg, nil
}

// deriveSocketURL maps the REST base URL onto the backend's websocket endpoint.
func deriveSocketURL(apiBase string) string {
	url := strings.TrimSpace(apiBase)
	switch {
	case strings.HasPrefix(url, "https://"):
		url = "wss://" + strings.TrimPrefix(url, "https://")
	case strings.HasPrefix(url, "http://"):
		url = "ws://" + strings.TrimPrefix(url, "http://")
	case !strings.Contains(url, "://"):
		url = "ws://" + url
	}
	return strings.TrimRight(url, "/") + "/ws"
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
