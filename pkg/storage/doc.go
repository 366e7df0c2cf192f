// Copyright © 2018 One Concern

// Package storage provides a read-only interface over the objects of a built site.
//
// This package supports the following backends:
//   - local file system (any afero.Fs)
package storage
