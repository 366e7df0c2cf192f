// Copyright © 2018 One Concern

// Package versions models the registry of documentation versions deployed on a branch.
//
// Every version is addressed by its canonical identifier and may carry any number of aliases
// (e.g. "latest", "stable"). An identifier, be it a version or an alias, is unique across the registry:
// most operations accept either form and resolve it with Find.
//
// The registry is persisted as a single JSON document (versions.json) committed on the target branch.
package versions
