// Copyright © 2018 One Concern

// Package site deals with the static site generator: reading its config,
// running the build, and rendering redirect pages.
package site
