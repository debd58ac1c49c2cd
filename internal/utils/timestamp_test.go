package utils_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/jrsteele09/go-study-client/internal/utils"
	"github.com/stretchr/testify/require"
)

func TestTimestamp_Unmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"rfc3339", `"2025-03-01T10:20:30Z"`, time.Date(2025, 3, 1, 10, 20, 30, 0, time.UTC)},
		{"naive with micros", `"2025-03-01T10:20:30.123456"`, time.Date(2025, 3, 1, 10, 20, 30, 123456000, time.UTC)},
		{"naive space separated", `"2025-03-01 10:20:30"`, time.Date(2025, 3, 1, 10, 20, 30, 0, time.UTC)},
		{"offset converted to utc", `"2025-03-01T12:20:30+02:00"`, time.Date(2025, 3, 1, 10, 20, 30, 0, time.UTC)},
		{"null", `null`, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts utils.Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.in), &ts))
			require.True(t, tt.want.Equal(ts.Time), "got %s", ts.Time)
		})
	}

	t.Run("garbage", func(t *testing.T) {
		var ts utils.Timestamp
		require.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
		require.Error(t, json.Unmarshal([]byte(`12`), &ts))
	})
}

func TestTimestamp_MarshalZeroIsNull(t *testing.T) {
	out, err := json.Marshal(struct {
		At utils.Timestamp `json:"at"`
	}{})
	require.NoError(t, err)
	require.JSONEq(t, `{"at":null}`, string(out))
}
