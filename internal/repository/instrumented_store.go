package repository

import (
	"context"
	"time"
)

// StoreObserver receives the outcome of every store call.
type StoreObserver func(driver, operation string, duration time.Duration, err error)

// InstrumentedStore reports timings of an underlying KVStore.
type InstrumentedStore struct {
	inner   KVStore
	observe StoreObserver
}

// NewInstrumentedStore wraps store. A nil observer returns store unchanged.
func NewInstrumentedStore(store KVStore, observe StoreObserver) KVStore {
	if observe == nil {
		return store
	}
	return &InstrumentedStore{inner: store, observe: observe}
}

func (s *InstrumentedStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	start := time.Now()
	value, found, err := s.inner.Load(ctx, key)
	s.observe(s.inner.Name(), "load", time.Since(start), err)
	return value, found, err
}

func (s *InstrumentedStore) Save(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	err := s.inner.Save(ctx, key, value)
	s.observe(s.inner.Name(), "save", time.Since(start), err)
	return err
}

func (s *InstrumentedStore) Delete(ctx context.Context, keys ...string) error {
	start := time.Now()
	err := s.inner.Delete(ctx, keys...)
	s.observe(s.inner.Name(), "delete", time.Since(start), err)
	return err
}

func (s *InstrumentedStore) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

func (s *InstrumentedStore) Name() string {
	return s.inner.Name()
}
