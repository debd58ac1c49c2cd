package config

import (
	"strings"

	"github.com/spf13/viper"
)

const (
	appNameKey  = "STUDY_APP_NAME"
	envKey      = "STUDY_ENV"
	logLevelKey = "STUDY_LOG_LEVEL"
)

type EnvVars struct {
	v *viper.Viper
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetAppName() string {
	return e.v.GetString(appNameKey)
}

// GetEnv returns the upper-cased environment name, "DEV" when unset
func (e EnvVars) GetEnv() string {
	env := strings.ToUpper(strings.TrimSpace(e.v.GetString(envKey)))
	if env == "" {
		return "DEV"
	}
	return env
}

func (e EnvVars) GetLogLevel() string {
	return strings.ToLower(e.v.GetString(logLevelKey))
}
