package syncer

import "errors"

var (
	ErrFlushInProgress = errors.New("flush already in progress")
	ErrOffline         = errors.New("network is offline")
	ErrClosed          = errors.New("sync engine is shut down")
	ErrNotInitialized  = errors.New("sync engine is not initialized")
)

var ErrInvalidInterval = errors.New("sync interval must be positive")
