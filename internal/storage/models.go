package storage

import "errors"

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Keys for the app_state table. Call sites use the typed Save/Load
// methods; these names never leak past this package.
const (
	keyProfile  = "profile"
	keyRole     = "role"
	keyAnalysis = "analysis"
	keyRoadmap  = "roadmap"
)
