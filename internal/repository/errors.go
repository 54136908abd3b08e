package repository

import (
	"errors"
	"strings"

	"github.com/lib/pq"
)

const pqUniqueViolation = "23505"

// uniqueViolation returns the violated constraint name when err is a unique
// violation.
func uniqueViolation(err error) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
		return pqErr.Constraint, true
	}
	return "", false
}

func constraintMentions(constraint, column string) bool {
	return strings.Contains(constraint, column)
}
