package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	DefaultConfigFilename  = "wallet-core"
	DefaultLoggingFilename = "wallet-core.log"

	defaultLogLevel = "info"
	defaultLogDir   = "logs"
	defaultDataDir  = "walletdata"

	// DefaultKDFRounds is the production PBKDF2 iteration count used when
	// sealing new keystores.  Test environments may lower it through
	// WALLET_KDF_ROUNDS to keep automated runs fast; the effective value
	// is always recorded inside the keystore so previously created
	// containers stay decryptable whatever the process default is.
	DefaultKDFRounds = 262144

	// MinKDFRounds is the floor applied to configured round counts.
	MinKDFRounds = 1024

	// DefaultSessionTTLSeconds bounds how long an unlocked session may
	// stay cached before its key material is wiped.
	DefaultSessionTTLSeconds = 600

	envPrefix = "WALLET"
)

// Config holds the process-wide configuration.  All values can be overridden
// by WALLET_-prefixed environment variables, e.g. WALLET_KDF_ROUNDS.
type Config struct {
	KDFRounds         int    `mapstructure:"kdf_rounds"`
	LogDir            string `mapstructure:"log_dir"`
	LogLevel          string `mapstructure:"log_level"`
	DataDir           string `mapstructure:"data_dir"`
	SessionTTLSeconds int    `mapstructure:"session_ttl_seconds"`
}

// Load reads configuration from an optional wallet-core config file in the
// working directory and from the environment.  A missing config file is not
// an error.
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("kdf_rounds", DefaultKDFRounds)
	v.SetDefault("log_dir", defaultLogDir)
	v.SetDefault("log_level", defaultLogLevel)
	v.SetDefault("data_dir", defaultDataDir)
	v.SetDefault("session_ttl_seconds", DefaultSessionTTLSeconds)

	v.SetConfigName(DefaultConfigFilename)
	v.AddConfigPath(".")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, errors.Wrap(err, "failed to read config file")
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if cfg.KDFRounds < MinKDFRounds {
		cfg.KDFRounds = MinKDFRounds
	}
	if cfg.SessionTTLSeconds <= 0 {
		cfg.SessionTTLSeconds = DefaultSessionTTLSeconds
	}
	return cfg, nil
}
