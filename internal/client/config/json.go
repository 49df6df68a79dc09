package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/flagx"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "3s" or as integer nanoseconds. Absent fields keep the
// value they had before loading.
type JsonConfig struct {
	ServerEndpointAddr  string         `json:"server_endpoint_addr"`
	Transport           string         `json:"transport"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	SyncInterval        timex.Duration `json:"sync_interval"`
	MaxRetries          int            `json:"max_retries"`
	BaseRetryDelay      timex.Duration `json:"base_retry_delay"`
	CacheTTL            timex.Duration `json:"cache_ttl"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	DatabaseDriver      string         `json:"database_driver"`
	DatabaseDSN         string         `json:"database_dsn"`
	StorePassphrase     string         `json:"store_passphrase"`
	AccessToken         string         `json:"access_token"`
	EvictPermanent      *bool          `json:"evict_permanent"`
	InvalidateCache     *bool          `json:"invalidate_cache"`
	LogLevel            string         `json:"log_level"`
	LogFormat           string         `json:"log_format"`
	MetricsEndpoint     string         `json:"metrics_endpoint"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// The file path comes from -c or -config (flagx.JsonConfigFlags). Without
// one nothing is loaded. Read or unmarshal errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	jc.apply(cfg)
}

func (jc JsonConfig) apply(cfg *Config) {
	setString(&cfg.ServerEndpointAddr, jc.ServerEndpointAddr)
	setString(&cfg.Transport, jc.Transport)
	setString(&cfg.DatabaseDriver, jc.DatabaseDriver)
	setString(&cfg.DatabaseDSN, jc.DatabaseDSN)
	setString(&cfg.StorePassphrase, jc.StorePassphrase)
	setString(&cfg.AccessToken, jc.AccessToken)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)
	setString(&cfg.MetricsEndpoint, jc.MetricsEndpoint)

	setDuration(&cfg.OnlineCheckInterval, jc.OnlineCheckInterval)
	setDuration(&cfg.SyncInterval, jc.SyncInterval)
	setDuration(&cfg.BaseRetryDelay, jc.BaseRetryDelay)
	setDuration(&cfg.CacheTTL, jc.CacheTTL)
	setDuration(&cfg.RequestTimeout, jc.RequestTimeout)

	if jc.MaxRetries != 0 {
		cfg.MaxRetries = jc.MaxRetries
	}
	if jc.EvictPermanent != nil {
		cfg.EvictPermanent = *jc.EvictPermanent
	}
	if jc.InvalidateCache != nil {
		cfg.InvalidateCache = *jc.InvalidateCache
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
