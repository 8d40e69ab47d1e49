package lib

import (
	"errors"
	"fmt"
)

// Errors returned while locating configuration files.
var (
	ErrNoHomeDir = errors.New("no home directory found")
)

// ProfileNotFoundError is returned when a requested profile is absent from
// the merged config files or cannot be resolved to usable key material.
type ProfileNotFoundError struct {
	Profile string
}

func (e *ProfileNotFoundError) Error() string {
	return fmt.Sprintf("profile %s is not available", e.Profile)
}
