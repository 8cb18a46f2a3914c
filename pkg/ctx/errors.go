package ctx

import (
	"net/http"

	"github.com/shashiranjanraj/diagnocare/pkg/auth"
	"github.com/shashiranjanraj/diagnocare/pkg/store"
)

func init() {
	MapError(store.ErrNotFound, http.StatusNotFound, "Not found")
	MapError(store.ErrInvalidID, http.StatusBadRequest, "Invalid id")
	MapError(store.ErrDuplicate, http.StatusConflict, "Duplicate key")
	MapError(auth.ErrInvalidToken, http.StatusUnauthorized, "Unauthorized access")
	MapError(auth.ErrMissingEmail, http.StatusUnprocessableEntity, "The email field must be a string.")
}
