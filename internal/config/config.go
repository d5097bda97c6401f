package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// AppConfig is the full application configuration.
type AppConfig struct {
	Server     ServerConfig     `toml:"server"`
	Log        LogConfig        `toml:"log"`
	Data       DataConfig       `toml:"data"`
	Commission CommissionConfig `toml:"commission"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// DataConfig holds local data settings.
type DataConfig struct {
	DataDir string `toml:"data_dir"`
}

// CommissionConfig holds the commission engine settings.
type CommissionConfig struct {
	// RenewalPartnerDocument is the CNPJ/CPF designating the renewal
	// partner within the registry file. Empty disables the renewal rollup.
	RenewalPartnerDocument string `toml:"renewal_partner_document"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    8040,
			DevMode: false,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Data: DataConfig{
			DataDir: "data",
		},
		Commission: CommissionConfig{
			RenewalPartnerDocument: "34151313001",
		},
	}
}

// GetExeDir returns the directory of the running executable.
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfig reads config.toml from the executable's directory, falling back
// to defaults when the file does not exist. Environment variables override
// individual values afterwards.
func LoadConfig() (*AppConfig, error) {
	cfg := DefaultConfig()

	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	configPath := filepath.Join(exeDir, "config.toml")

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := os.Getenv("COMISSAO_RENEWAL_PARTNER_DOCUMENT"); v != "" {
		cfg.Commission.RenewalPartnerDocument = v
	}
	if v := os.Getenv("COMISSAO_DATA_DIR"); v != "" {
		cfg.Data.DataDir = v
	}
	if v := os.Getenv("COMISSAO_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// SaveConfig writes the configuration back to config.toml next to the
// executable.
func SaveConfig(cfg *AppConfig) error {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(exeDir, "config.toml"), data, 0644)
}

// EnsureDataDir creates the data directory next to the executable and
// returns its path.
func EnsureDataDir(cfg *AppConfig) (string, error) {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	dataDir := filepath.Join(exeDir, cfg.Data.DataDir)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}
	return dataDir, nil
}
