package config

import (
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	dataDirKey         = "STUDY_DATA_DIR"
	credentialsFileKey = "STUDY_CREDENTIALS_FILE"
	credentialsKeyKey  = "STUDY_CREDENTIALS_KEY"
	historyDBKey       = "STUDY_HISTORY_DB"
)

type StorageConfig interface {
	GetDataDir() string
	GetCredentialsFile() string
	GetCredentialsKey() string
	GetHistoryDB() string
}

type Storage struct {
	v *viper.Viper
}

var _ StorageConfig = Storage{}

func (s Storage) GetDataDir() string {
	return s.v.GetString(dataDirKey)
}

func (s Storage) GetCredentialsFile() string {
	if f := s.v.GetString(credentialsFileKey); f != "" {
		return f
	}
	return filepath.Join(s.GetDataDir(), "credentials.yaml")
}

// GetCredentialsKey returns the secret used to encrypt the credentials file.
// Empty means the file is written in plaintext.
func (s Storage) GetCredentialsKey() string {
	return s.v.GetString(credentialsKeyKey)
}

func (s Storage) GetHistoryDB() string {
	if f := s.v.GetString(historyDBKey); f != "" {
		return f
	}
	return filepath.Join(s.GetDataDir(), "history.db")
}
