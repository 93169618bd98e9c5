package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"chaptermark/internal/appdirs"
)

type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

type AppConfig struct {
	// MaxUploadBytes bounds the raw SRT payload accepted by the API.
	MaxUploadBytes int64 `toml:"max_upload_bytes"`
}

type PipelineConfig struct {
	TargetChunkMinutes float64 `toml:"target_chunk_minutes"`
	MaxChunkMinutes    float64 `toml:"max_chunk_minutes"`
	MinChunkMinutes    float64 `toml:"min_chunk_minutes"`
	OverlapSeconds     float64 `toml:"overlap_seconds"`
	// Concurrency bounds the number of chunk proposer calls in flight.
	Concurrency int `toml:"concurrency"`
}

type LlmConfig struct {
	// Provider selects the moment proposer backend: openai, gemini or heuristic.
	Provider string `toml:"provider"`
	BaseUrl  string `toml:"base_url"`
	ApiKey   string `toml:"api_key"`
	Model    string `toml:"model"`
}

type QueueConfig struct {
	// RedisAddr enables the asynq-backed queue when non-empty; otherwise the
	// in-process task runner is used.
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	Concurrency   int    `toml:"concurrency"`
}

type Config struct {
	Server   ServerConfig   `toml:"server"`
	App      AppConfig      `toml:"app"`
	Pipeline PipelineConfig `toml:"pipeline"`
	Llm      LlmConfig      `toml:"llm"`
	Queue    QueueConfig    `toml:"queue"`
}

var Conf Config

var resolveConfigPath = func() (string, error) {
	dirs, err := appdirs.Resolve()
	if err != nil {
		return "", err
	}
	return dirs.ConfigFile, nil
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8888,
		},
		App: AppConfig{
			MaxUploadBytes: 2 << 20,
		},
		Pipeline: PipelineConfig{
			TargetChunkMinutes: 6,
			MaxChunkMinutes:    8,
			MinChunkMinutes:    4,
			OverlapSeconds:     30,
			Concurrency:        4,
		},
		Llm: LlmConfig{
			Provider: "openai",
			Model:    "gpt-4o-mini",
		},
		Queue: QueueConfig{
			Concurrency: 3,
		},
	}
}

// LoadOrCreateConfig loads the TOML config, writing defaults on first run.
// Returns true when a new config file was created.
func LoadOrCreateConfig() (bool, error) {
	path, err := resolveConfigPath()
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		Conf = defaultConfig()
		if err := SaveConfig(); err != nil {
			return false, err
		}
		return true, nil
	}

	Conf = defaultConfig()
	if _, err := toml.DecodeFile(path, &Conf); err != nil {
		return false, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return false, nil
}

// SaveConfig writes the current Conf to disk, creating parent directories.
func SaveConfig() error {
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return toml.NewEncoder(file).Encode(Conf)
}

// CheckConfig validates the loaded configuration.
func CheckConfig() error {
	switch Conf.Llm.Provider {
	case "openai", "gemini":
		if Conf.Llm.ApiKey == "" {
			return fmt.Errorf("llm provider %q requires an api_key", Conf.Llm.Provider)
		}
	case "heuristic":
		// No credentials needed.
	default:
		return fmt.Errorf("unknown llm provider %q", Conf.Llm.Provider)
	}

	p := Conf.Pipeline
	if p.MinChunkMinutes <= 0 || p.TargetChunkMinutes < p.MinChunkMinutes || p.MaxChunkMinutes < p.TargetChunkMinutes {
		return errors.New("pipeline chunk bounds must satisfy 0 < min <= target <= max")
	}
	if p.OverlapSeconds < 0 || p.OverlapSeconds >= p.TargetChunkMinutes*60 {
		return errors.New("pipeline overlap must be non-negative and below the target chunk duration")
	}
	if Conf.App.MaxUploadBytes <= 0 {
		return errors.New("app max_upload_bytes must be positive")
	}
	return nil
}
