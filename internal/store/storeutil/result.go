package storeutil

import (
	"errors"

	"gorm.io/gorm"
)

// CreateResult tags the outcome of an insert that may race with a concurrent
// writer. Duplicate-key is a first-class outcome here, not an error: both the
// deposit detector and the ledger treat "someone else already wrote this row"
// as success.
type CreateResult int

const (
	Created CreateResult = iota
	AlreadyExists
)

// ClassifyCreateErr maps a gorm insert error to a CreateResult so pipeline
// code never inspects database-specific error codes.
func ClassifyCreateErr(err error) (CreateResult, error) {
	if err == nil {
		return Created, nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return AlreadyExists, nil
	}
	return Created, err
}
