package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	baseURLKey         = "STUDY_API_BASE_URL"
	httpTimeoutKey     = "STUDY_HTTP_TIMEOUT"
	userAgentKey       = "STUDY_USER_AGENT"
	coalesceRefreshKey = "STUDY_COALESCE_REFRESH"
)

type ClientConfig interface {
	GetBaseURL() string
	GetHTTPTimeout() time.Duration
	GetUserAgent() string
	GetCoalesceRefresh() bool
}

type Client struct {
	v *viper.Viper
}

var _ ClientConfig = Client{}

// GetBaseURL returns the API base URL without a trailing slash (e.g. "https://api.example.com")
func (c Client) GetBaseURL() string {
	return strings.TrimRight(c.v.GetString(baseURLKey), "/")
}

// GetHTTPTimeout is zero unless configured; zero leaves timeouts to the transport
func (c Client) GetHTTPTimeout() time.Duration {
	return c.v.GetDuration(httpTimeoutKey)
}

func (c Client) GetUserAgent() string {
	return c.v.GetString(userAgentKey)
}

func (c Client) GetCoalesceRefresh() bool {
	return c.v.GetBool(coalesceRefreshKey)
}
