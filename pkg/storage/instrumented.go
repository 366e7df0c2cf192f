// Copyright © 2018 One Concern

package storage

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"
)

// Instrument decorates a store with debug logging of every call
func Instrument(logger *zap.Logger, store Store) Store {
	return &instrumentedStore{
		store:  store,
		logger: logger.With(zap.String("store", store.String())),
	}
}

type instrumentedStore struct {
	store  Store
	logger *zap.Logger
}

func (i *instrumentedStore) log(op, key string, start time.Time, err error) {
	fields := []zap.Field{zap.String("op", op), zap.Duration("elapsed", time.Since(start))}
	if key != "" {
		fields = append(fields, zap.String("key", key))
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	i.logger.Debug("storage call", fields...)
}

func (i *instrumentedStore) String() string {
	return i.store.String()
}

func (i *instrumentedStore) Has(ctx context.Context, key string) (bool, error) {
	start := time.Now()
	has, err := i.store.Has(ctx, key)
	i.log("Has", key, start, err)
	return has, err
}

func (i *instrumentedStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	start := time.Now()
	rdr, err := i.store.Get(ctx, key)
	i.log("Get", key, start, err)
	return rdr, err
}

func (i *instrumentedStore) Keys(ctx context.Context) ([]string, error) {
	start := time.Now()
	keys, err := i.store.Keys(ctx)
	i.log("Keys", "", start, err)
	return keys, err
}

func (i *instrumentedStore) Executable(ctx context.Context, key string) (bool, error) {
	start := time.Now()
	exec, err := IsExecutable(ctx, i.store, key)
	i.log("Executable", key, start, err)
	return exec, err
}
