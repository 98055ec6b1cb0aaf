package config

import (
	"errors"
	"io/fs"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config defines the app configuration.
type Config struct {
	Server struct {
		Port int    `yaml:"port" env:"PORT" env-default:"4000"`
		Env  string `yaml:"env" env:"ENV" env-default:"development"`
	} `yaml:"server"`
	Store struct {
		Engine       string `yaml:"engine" env:"STOREENGINE" env-default:"jsonfile"`
		Path         string `yaml:"path" env:"STOREPATH" env-default:"db.json"`
		Seed         bool   `yaml:"seed" env:"STORESEED" env-default:"true"`
		DSN          string `yaml:"dsn" env:"DSN"`
		MaxOpenConns int    `yaml:"max_open_conns" env:"MAXOPENCONNS" env-default:"25"`
		MaxIdleConns int    `yaml:"max_idle_conns" env:"MAXIDLECONNS" env-default:"25"`
		MaxIdleTime  string `yaml:"max_idle_time" env:"MAXIDLETIME" env-default:"15m"`
	} `yaml:"store"`
	SMTP struct {
		Host     string `yaml:"host" env:"SMTPHOST"`
		Port     int    `yaml:"port" env:"SMTPPORT" env-default:"25"`
		Username string `yaml:"username" env:"SMTPUSERNAME"`
		Password string `yaml:"password" env:"SMTPPASSWORD"`
		Sender   string `yaml:"sender" env:"SMTPSENDER" env-default:"BookSwap <no-reply@bookswap.dev>"`
	} `yaml:"smtp"`
	S3 struct {
		AccessKeyID     string `yaml:"access_key_id" env:"AWSACCESSKEYID"`
		SecretAccessKey string `yaml:"secret_access_key" env:"AWSSECRETACCESSKEY"`
		Region          string `yaml:"region" env:"AWSS3REGION"`
		Bucket          string `yaml:"bucket" env:"AWSS3BUCKET"`
	} `yaml:"s3"`
	Limiter struct {
		RPS     float64 `yaml:"rps" env:"LIMITERRPS" env-default:"4"`
		Burst   int     `yaml:"burst" env:"LIMITERBURST" env-default:"8"`
		Enabled bool    `yaml:"enabled" env:"LIMITERENABLED" env-default:"true"`
	} `yaml:"limiter"`
	Cors struct {
		TrustedOrigins []string `yaml:"trusted_origins" env:"TRUSTEDORIGINS"`
	} `yaml:"cors"`
	Metrics struct {
		Enabled bool `yaml:"enabled" env:"METRICSENABLED" env-default:"true"`
	} `yaml:"metrics"`
}

// Load reads configuration from an optional YAML file and the environment.
// Environment variables take precedence over file values.
func Load(path string) (Config, error) {
	var cfg Config
	if path != "" {
		err := cleanenv.ReadConfig(path, &cfg)
		switch {
		case err == nil:
			return cfg, cleanenv.ReadEnv(&cfg)
		case errors.Is(err, fs.ErrNotExist):
			// fall through to environment-only loading
		default:
			return Config{}, err
		}
	}
	err := cleanenv.ReadEnv(&cfg)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}
