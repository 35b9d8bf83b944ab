package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config — все настройки сервиса. Загружается из YAML, после чего
// чувствительные и окруженческие значения можно перекрыть переменными
// окружения.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	HTTP struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`

	Launchpad struct {
		BaseURL    string  `yaml:"base_url"`
		WSURL      string  `yaml:"ws_url"` // пусто = живой фид выключен
		Committee  string  `yaml:"committee"`
		PageLimit  int     `yaml:"page_limit"`
		RatePerSec float64 `yaml:"rate_per_sec"`
		Burst      int     `yaml:"burst"`
	} `yaml:"launchpad"`

	RefPrice struct {
		Enabled bool   `yaml:"enabled"`
		Quote   string `yaml:"quote"` // валюта котировки на споте, обычно USDT
	} `yaml:"refprice"`

	Storage struct {
		DBPath string `yaml:"db_path"` // пусто = история не ведётся
	} `yaml:"storage"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// Default — рабочие значения для запуска без конфиг-файла.
func Default() *Config {
	var cfg Config
	cfg.App.Name = "cnpycalc"
	cfg.HTTP.Addr = ":8080"
	cfg.Launchpad.BaseURL = "https://api.canopy.exchange"
	cfg.Launchpad.PageLimit = 100
	cfg.Launchpad.RatePerSec = 5
	cfg.Launchpad.Burst = 10
	cfg.RefPrice.Quote = "USDT"
	cfg.Logging.Level = "info"
	return &cfg
}

// Load читает конфиг по пути. Отсутствующий файл — не ошибка:
// стартуем на дефолтах, окружение всё равно применяется.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if uerr := yaml.Unmarshal(data, cfg); uerr != nil {
				return nil, fmt.Errorf("parse %s: %w", path, uerr)
			}
		case os.IsNotExist(err):
			// дефолты
		default:
			return nil, err
		}
	}

	overrideWithEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.HTTP.Addr == "" {
		return fmt.Errorf("http.addr is required")
	}
	if !strings.HasPrefix(c.Launchpad.BaseURL, "http://") && !strings.HasPrefix(c.Launchpad.BaseURL, "https://") {
		return fmt.Errorf("invalid launchpad base URL: %s", c.Launchpad.BaseURL)
	}
	if c.Launchpad.WSURL != "" && !strings.HasPrefix(c.Launchpad.WSURL, "ws://") && !strings.HasPrefix(c.Launchpad.WSURL, "wss://") {
		return fmt.Errorf("invalid launchpad WS URL: %s", c.Launchpad.WSURL)
	}
	if c.Launchpad.PageLimit <= 0 {
		return fmt.Errorf("launchpad.page_limit must be positive")
	}
	if c.Launchpad.RatePerSec <= 0 {
		return fmt.Errorf("launchpad.rate_per_sec must be positive")
	}
	return nil
}

func overrideWithEnv(cfg *Config) {
	if v := os.Getenv("CNPYCALC_HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("CNPYCALC_LAUNCHPAD_URL"); v != "" {
		cfg.Launchpad.BaseURL = v
	}
	if v := os.Getenv("CNPYCALC_LAUNCHPAD_WS_URL"); v != "" {
		cfg.Launchpad.WSURL = v
	}
	if v := os.Getenv("CNPYCALC_COMMITTEE"); v != "" {
		cfg.Launchpad.Committee = v
	}
	if v := os.Getenv("CNPYCALC_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("CNPYCALC_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
