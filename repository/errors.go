package repository

import (
	"errors"

	"github.com/lib/pq"
)

// ErrDuplicate signals a unique-constraint violation (e.g. an already
// registered email or crop name). Services map it to a 409 Conflict.
var ErrDuplicate = errors.New("duplicate record")

const uniqueViolationCode = "23505"

func mapPqError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode {
		return ErrDuplicate
	}
	return err
}
