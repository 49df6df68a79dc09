package store

import (
	"context"
	"fmt"

	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/cryptox"
)

const (
	keySealSalt  = "sealSalt"
	sealSaltSize = 16
)

// SealedStore encrypts every value before handing it to the wrapped Store.
// The argon2 salt lives unencrypted in the meta namespace of the same store.
type SealedStore struct {
	inner Store
	key   []byte
}

// NewSealedStore derives the sealing key from passphrase, creating and
// persisting a salt on first use. The passphrase slice is wiped.
func NewSealedStore(ctx context.Context, inner Store, passphrase []byte) (*SealedStore, error) {
	defer cryptox.Wipe(passphrase)

	salt, ok, err := inner.Get(ctx, NamespaceMeta, keySealSalt)
	if err != nil {
		return nil, fmt.Errorf("read seal salt: %w", err)
	}
	if !ok {
		salt, err = cryptox.RandomBytes(sealSaltSize)
		if err != nil {
			return nil, err
		}
		if err := inner.Set(ctx, NamespaceMeta, keySealSalt, salt); err != nil {
			return nil, fmt.Errorf("write seal salt: %w", err)
		}
	}

	return &SealedStore{inner: inner, key: cryptox.DeriveKey(passphrase, salt)}, nil
}

func (s *SealedStore) Get(ctx context.Context, namespace, key string) ([]byte, bool, error) {
	sealed, ok, err := s.inner.Get(ctx, namespace, key)
	if err != nil || !ok {
		return nil, ok, err
	}

	plain, err := cryptox.Open(sealed, s.key)
	if err != nil {
		return nil, false, fmt.Errorf("unseal %s[%s]: %w", namespace, key, err)
	}
	return plain, true, nil
}

func (s *SealedStore) Set(ctx context.Context, namespace, key string, value []byte) error {
	sealed, err := cryptox.Seal(value, s.key)
	if err != nil {
		return fmt.Errorf("seal %s[%s]: %w", namespace, key, err)
	}
	return s.inner.Set(ctx, namespace, key, sealed)
}

func (s *SealedStore) Delete(ctx context.Context, namespace, key string) error {
	return s.inner.Delete(ctx, namespace, key)
}
