// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

package config

import "fmt"

// LoadError names the file, key, and reason for a configuration failure,
// so a misconfigured deployment can be fixed without reading source.
type LoadError struct {
	File   string
	Key    string
	Reason string
}

func (e *LoadError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s: %s", e.File, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", e.File, e.Key, e.Reason)
}

func newLoadError(file, key, reason string) *LoadError {
	return &LoadError{File: file, Key: key, Reason: reason}
}
