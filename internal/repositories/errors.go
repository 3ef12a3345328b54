package repositories

import (
	"errors"

	"github.com/lib/pq"
)

const pgUniqueViolation = "23505"

// uniqueViolation returns the violated constraint name when err is a
// Postgres unique violation
func uniqueViolation(err error) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
		return pqErr.Constraint, true
	}
	return "", false
}
