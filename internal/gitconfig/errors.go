package gitconfig

import "errors"

var (
	// ErrInvalidKey indicates a config key missing section or key name.
	ErrInvalidKey = errors.New("invalid key")
	// ErrStoreUnreadable indicates a config file that exists but cannot be read.
	ErrStoreUnreadable = errors.New("config not readable")
	// ErrStoreUnwritable indicates a config file that cannot be replaced.
	// The original file is always left untouched.
	ErrStoreUnwritable = errors.New("config not writable")
)
