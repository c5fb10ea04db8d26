package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa de polymirror.
type Config struct {
	API      APIConfig      `yaml:"api"`
	Chain    ChainConfig    `yaml:"chain"`
	Mirror   MirrorConfig   `yaml:"mirror"`
	RateGate RateGateConfig `yaml:"rate_gate"`
	Storage  StorageConfig  `yaml:"storage"`
	Log      LogConfig      `yaml:"log"`
}

// APIConfig contiene los base URLs de las APIs de Polymarket.
type APIConfig struct {
	CLOBBase  string `yaml:"clob_base"`
	GammaBase string `yaml:"gamma_base"`
	DataBase  string `yaml:"data_base"`
}

// ChainConfig contiene el endpoint RPC de Polygon.
type ChainConfig struct {
	RPCURL string `yaml:"rpc_url"`
}

// MirrorConfig controla el loop de espejado de trades.
type MirrorConfig struct {
	IntervalSeconds int `yaml:"interval_seconds"`
	FetchLimit      int `yaml:"fetch_limit"`
}

// RateGateConfig controla el gate de admisión de las operaciones de
// orden y balance: máximo N llamadas por ventana, denegación inmediata.
type RateGateConfig struct {
	MaxCalls      int `yaml:"max_calls"`
	WindowSeconds int `yaml:"window_seconds"`
}

// StorageConfig controla dónde se persisten los datos.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Los valores del .env sobreescriben los del YAML para las keys que correspondan.
// Si el YAML no existe se usan los defaults: la herramienta funciona sin config.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// MirrorInterval devuelve el intervalo del poller como time.Duration.
func (c *Config) MirrorInterval() time.Duration {
	return time.Duration(c.Mirror.IntervalSeconds) * time.Second
}

// RateWindow devuelve la ventana del rate gate como time.Duration.
func (c *Config) RateWindow() time.Duration {
	return time.Duration(c.RateGate.WindowSeconds) * time.Second
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("POLYGON_RPC_URL"); v != "" {
		cfg.Chain.RPCURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.API.CLOBBase == "" {
		cfg.API.CLOBBase = "https://clob.polymarket.com"
	}
	if cfg.API.GammaBase == "" {
		cfg.API.GammaBase = "https://gamma-api.polymarket.com"
	}
	if cfg.API.DataBase == "" {
		cfg.API.DataBase = "https://data-api.polymarket.com"
	}
	if cfg.Chain.RPCURL == "" {
		cfg.Chain.RPCURL = "https://polygon-rpc.com"
	}
	if cfg.Mirror.IntervalSeconds <= 0 {
		cfg.Mirror.IntervalSeconds = 60
	}
	if cfg.Mirror.FetchLimit <= 0 {
		cfg.Mirror.FetchLimit = 50
	}
	if cfg.RateGate.MaxCalls <= 0 {
		cfg.RateGate.MaxCalls = 30
	}
	if cfg.RateGate.WindowSeconds <= 0 {
		cfg.RateGate.WindowSeconds = 60
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "polymirror.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
