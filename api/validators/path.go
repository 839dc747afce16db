package validators

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/wfjournal/wfj-backend/pkg/enums"
	pkgerrors "github.com/wfjournal/wfj-backend/pkg/errors"
)

// PathUUID parses a UUID path parameter; malformed syntax is an identifier
// error, not a lookup miss.
func PathUUID(r *http.Request, key string) (uuid.UUID, error) {
	raw := chi.URLParam(r, key)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeInvalidID, fmt.Sprintf("path parameter %s is not a valid id", key)).
			WithDetails(map[string]string{key: "malformed identifier"})
	}
	return id, nil
}

// PathMealKind parses the {kind} path parameter.
func PathMealKind(r *http.Request) (enums.MealKind, error) {
	kind, err := enums.ParseMealKind(chi.URLParam(r, "kind"))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error()).
			WithDetails(map[string]string{"kind": "unknown meal kind"})
	}
	return kind, nil
}

// PathIndex parses the {index} path parameter for image deletion.
func PathIndex(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "index")
	index, err := strconv.Atoi(raw)
	if err != nil || index < 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "path parameter index must be a non-negative integer").
			WithDetails(map[string]string{"index": "must be a non-negative integer"})
	}
	return index, nil
}
