package retry

import (
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrorKind is the outcome of classifying a failed database operation.
type ErrorKind int

const (
	KindOther ErrorKind = iota
	KindPermission
	KindDuplicateObject
)

func (k ErrorKind) String() string {
	switch k {
	case KindPermission:
		return "permission"
	case KindDuplicateObject:
		return "duplicate-object"
	default:
		return "other"
	}
}

const (
	pgCodeDuplicateObject   = "42710"
	pgCodeDuplicateDatabase = "42P04"

	pgCodeInvalidPassword          = "28P01"
	pgCodeInvalidAuthorizationSpec = "28000"
	pgCodeInsufficientPrivilege    = "42501"
)

// Matched case-insensitively against the full error text.
var permissionPatterns = []string{
	"permission denied",
	"insufficient privilege",
	"must be superuser",
	"not authorized",
	"permissionerror",
}

var rolePermissionPattern = regexp.MustCompile(`(?i)role .* does not have permission`)

const duplicatePattern = "already exists"

// Classify maps an error to the closed set of kinds the dispatcher and the
// create workflow act upon.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindOther
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgCodeDuplicateObject, pgCodeDuplicateDatabase:
			return KindDuplicateObject
		case pgCodeInsufficientPrivilege:
			return KindPermission
		}
	}

	msg := strings.ToLower(err.Error())
	for _, p := range permissionPatterns {
		if strings.Contains(msg, p) {
			return KindPermission
		}
	}
	if rolePermissionPattern.MatchString(msg) {
		return KindPermission
	}
	if strings.Contains(msg, duplicatePattern) {
		return KindDuplicateObject
	}
	return KindOther
}

// IsAuthFailure reports whether err is a rejected login (SQLSTATE 28P01 or 28000).
func IsAuthFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgCodeInvalidPassword || pgErr.Code == pgCodeInvalidAuthorizationSpec
	}
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "password authentication failed")
}
