package service

import (
	"errors"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"

	apperrors "github.com/spec-kit/store-admin/pkg/util"
)

// notFoundAs turns a missing row into a NotFound for resource and wraps anything else.
func notFoundAs(err error, resource string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource, nil)
	}
	return apperrors.MapError(err)
}

// requiredFields returns the sorted names whose values are blank.
func requiredFields(fields map[string]string) []string {
	var missing []string
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}
