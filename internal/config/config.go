package config

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

type Config interface {
	EnvConfig
	ClientConfig
	StorageConfig
	MockAPIConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
}

type mainConfig struct {
	EnvVars
	Client
	Storage
	MockAPI
}

// New loads configuration from the environment and an optional .env file in the
// working directory. Environment variables take precedence over the file.
func New() Config {
	return NewWithFile(".env")
}

// NewWithFile is New with an explicit dotenv path. A missing file is not an error.
func NewWithFile(envFile string) Config {
	v := viper.New()
	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore missing file

	v.AutomaticEnv()
	setDefaults(v)

	return mainConfig{
		EnvVars: EnvVars{v: v},
		Client:  Client{v: v},
		Storage: Storage{v: v},
		MockAPI: MockAPI{v: v},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(appNameKey, "Study Assistant")
	v.SetDefault(envKey, "DEV")
	v.SetDefault(logLevelKey, "info")

	v.SetDefault(baseURLKey, "http://localhost:8000")
	v.SetDefault(httpTimeoutKey, "0s")
	v.SetDefault(userAgentKey, "")
	v.SetDefault(coalesceRefreshKey, true)

	v.SetDefault(dataDirKey, defaultDataDir())
	v.SetDefault(credentialsFileKey, "")
	v.SetDefault(credentialsKeyKey, "")
	v.SetDefault(historyDBKey, "")

	v.SetDefault(mockAddrKey, ":8000")
	v.SetDefault(mockJWTSecretKey, randomSecret())
	v.SetDefault(mockAccessTTLKey, "30m")
	v.SetDefault(mockRefreshTTLKey, "168h")
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".studyctl"
	}
	return filepath.Join(home, ".studyctl")
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "mock-secret-change-me"
	}
	return hex.EncodeToString(b)
}
