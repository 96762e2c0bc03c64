package sqlite

import (
	"errors"
	"strings"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

type constraintKind int

const (
	constraintNone constraintKind = iota
	constraintUnique
	constraintCheck
	constraintForeignKey
)

// classifyConstraint reports which kind of constraint err violated, if any.
// The driver error code is preferred; the message check covers wrapped
// errors that lost their type.
func classifyConstraint(err error) constraintKind {
	if err == nil {
		return constraintNone
	}

	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_UNIQUE, sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY:
			return constraintUnique
		case sqlite3lib.SQLITE_CONSTRAINT_CHECK:
			return constraintCheck
		case sqlite3lib.SQLITE_CONSTRAINT_FOREIGNKEY:
			return constraintForeignKey
		}
	}

	message := strings.ToLower(err.Error())
	switch {
	case strings.Contains(message, "unique constraint failed"):
		return constraintUnique
	case strings.Contains(message, "check constraint failed"):
		return constraintCheck
	case strings.Contains(message, "foreign key constraint failed"):
		return constraintForeignKey
	}
	return constraintNone
}
