// Package service implements the entity lifecycle rules: validation,
// cascading deletes, association integrity and the completion contract.
package service

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// The error taxonomy. Handlers map these to HTTP statuses with
// errors.Is; raw storage errors are logged here and never surfaced.
var (
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("invalid input")
	ErrConflict    = errors.New("conflict")
	ErrAssociation = errors.New("unknown association")
	ErrStorage     = errors.New("storage failure")
)

// storage logs the underlying failure and returns an opaque ErrStorage.
func storage(op string, err error) error {
	zap.L().Error("storage operation failed", zap.String("op", op), zap.Error(err))
	return fmt.Errorf("%s: %w", op, ErrStorage)
}

// notFoundOr converts gorm's record-not-found into the taxonomy,
// treating anything else as a storage failure.
func notFoundOr(op, entity string, id uint, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %d: %w", entity, id, ErrNotFound)
	}
	return storage(op, err)
}

const defaultLimit = 100

// window applies offset/limit listing defaults.
func window(db *gorm.DB, offset, limit int) *gorm.DB {
	if limit <= 0 {
		limit = defaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	return db.Order("id ASC").Offset(offset).Limit(limit)
}
