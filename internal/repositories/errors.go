package repositories

import (
	"errors"

	"storeadmin/pkg/docstore"
)

func isNotFound(err error) bool {
	return errors.Is(err, docstore.ErrNotFound)
}
