package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	mockAddrKey       = "STUDY_MOCK_ADDR"
	mockJWTSecretKey  = "STUDY_MOCK_JWT_SECRET"
	mockAccessTTLKey  = "STUDY_MOCK_ACCESS_TTL"
	mockRefreshTTLKey = "STUDY_MOCK_REFRESH_TTL"
)

type MockAPIConfig interface {
	GetMockAddr() string
	GetMockJWTSecret() string
	GetMockAccessTokenTTL() time.Duration
	GetMockRefreshTokenTTL() time.Duration
}

type MockAPI struct {
	v *viper.Viper
}

var _ MockAPIConfig = MockAPI{}

func (m MockAPI) GetMockAddr() string {
	addr := m.v.GetString(mockAddrKey)
	if addr != "" && !strings.Contains(addr, ":") {
		addr = fmt.Sprintf(":%s", addr)
	}
	return addr
}

func (m MockAPI) GetMockJWTSecret() string {
	return m.v.GetString(mockJWTSecretKey)
}

func (m MockAPI) GetMockAccessTokenTTL() time.Duration {
	return m.v.GetDuration(mockAccessTTLKey)
}

func (m MockAPI) GetMockRefreshTokenTTL() time.Duration {
	return m.v.GetDuration(mockRefreshTTLKey)
}
