package storage

import (
	"context"
	"database/sql/driver"
	"errors"
	"strings"

	pkgError "github.com/nicdemeagbeve-afk/synapse/pkg/error"
	"gorm.io/gorm"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrDuplicateMessage     = errors.New("message already stored")
	ErrPromptNotFound       = errors.New("prompt configuration not found")
	ErrProfileNotFound      = errors.New("profile not found")
)

// classify wraps a gorm/driver error into a typed StoreError.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *pkgError.StoreError
	if errors.As(err, &se) {
		return err
	}
	return pkgError.NewStoreError(kindOf(err), op, err)
}

func kindOf(err error) pkgError.ErrorKind {
	msg := err.Error()
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return pkgError.KindNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey),
		strings.Contains(msg, "UNIQUE constraint failed"),
		strings.Contains(msg, "duplicate key value"),
		strings.Contains(msg, "23505"):
		return pkgError.KindDuplicate
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		errors.Is(err, driver.ErrBadConn),
		strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "database is locked"):
		return pkgError.KindUnavailable
	}
	return pkgError.KindUnknown
}

func notFound(op string, cause error) error {
	return pkgError.NewStoreError(pkgError.KindNotFound, op, cause)
}
