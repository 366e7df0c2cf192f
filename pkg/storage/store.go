// Copyright © 2018 One Concern

package storage

import (
	"context"
	"io"
	"io/ioutil"
)

// Store implementations know how to read entries from a K/V model.
//
// Keys are slash-separated paths relative to the root of the store.
type Store interface {
	String() string
	Has(context.Context, string) (bool, error)
	Get(context.Context, string) (io.ReadCloser, error)
	Keys(context.Context) ([]string, error)
}

// ExecutableStore is implemented by stores able to tell executable objects apart
type ExecutableStore interface {
	Store
	Executable(context.Context, string) (bool, error)
}

// ReadAll reads an object from a store
func ReadAll(ctx context.Context, store Store, key string) ([]byte, error) {
	reader, err := store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return ioutil.ReadAll(reader)
}

// IsExecutable tells if an object is executable, whenever the store supports this
func IsExecutable(ctx context.Context, store Store, key string) (bool, error) {
	es, ok := store.(ExecutableStore)
	if !ok {
		return false, nil
	}
	return es.Executable(ctx, key)
}
