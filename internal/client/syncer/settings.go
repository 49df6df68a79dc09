package syncer

import "time"

const (
	DefaultSyncInterval   = 30 * time.Second
	DefaultMaxRetries     = 5
	DefaultBaseRetryDelay = time.Second
	DefaultRequestTimeout = 10 * time.Second
)

// Settings tune the flush policy. Zero fields fall back to the defaults.
type Settings struct {
	SyncInterval   time.Duration
	MaxRetries     int
	BaseRetryDelay time.Duration
	RequestTimeout time.Duration
	// EvictPermanent drops a mutation on its first permanent remote error
	// instead of waiting for MaxRetries.
	EvictPermanent bool
}

func DefaultSettings() Settings {
	return Settings{
		SyncInterval:   DefaultSyncInterval,
		MaxRetries:     DefaultMaxRetries,
		BaseRetryDelay: DefaultBaseRetryDelay,
		RequestTimeout: DefaultRequestTimeout,
	}
}

func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.SyncInterval <= 0 {
		s.SyncInterval = d.SyncInterval
	}
	if s.MaxRetries <= 0 {
		s.MaxRetries = d.MaxRetries
	}
	if s.BaseRetryDelay <= 0 {
		s.BaseRetryDelay = d.BaseRetryDelay
	}
	if s.RequestTimeout <= 0 {
		s.RequestTimeout = d.RequestTimeout
	}
	return s
}

// maxBackoffShift keeps base << retries from overflowing.
const maxBackoffShift = 30

// Backoff is the wait after the given number of failures: base * 2^retries.
func Backoff(base time.Duration, retries int) time.Duration {
	if retries < 0 {
		retries = 0
	}
	if retries > maxBackoffShift {
		retries = maxBackoffShift
	}
	return base << retries
}
