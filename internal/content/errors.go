package content

import "github.com/pkg/errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrExists          = errors.New("already exists")
	ErrInvalidMetadata = errors.New("invalid metadata")
	ErrInvalidInput    = errors.New("invalid input")
)
