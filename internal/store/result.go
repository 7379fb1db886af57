package store

import (
	"github.com/wagerly/bridge-backend/internal/store/storeutil"
)

// CreateResult lives in storeutil so the entity stores can use it without
// importing this package back. Re-exported here to keep call sites on the
// aggregate store's vocabulary.
type CreateResult = storeutil.CreateResult

const (
	Created       = storeutil.Created
	AlreadyExists = storeutil.AlreadyExists
)

func ClassifyCreateErr(err error) (CreateResult, error) {
	return storeutil.ClassifyCreateErr(err)
}
