// Package dataservice is the relational store behind the site: plans,
// purchases, classes and clients on gorm.
package dataservice

import (
	"context"
	"errors"
	"fmt"

	"impulsa-web/internal/metrics"

	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("dataservice: record not found")
	ErrDuplicate = errors.New("dataservice: duplicate record")
)

type Service struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) DB() *gorm.DB { return s.db }

// Ping checks the underlying connection.
func (s *Service) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// translate maps gorm errors to the package sentinels and records the
// query outcome for the collection.
func translate(collection, op string, err error) error {
	metrics.DataServiceQueriesTotal.WithLabelValues(collection, metrics.Result(err)).Inc()

	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s %s: %w", op, collection, ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s %s: %w", op, collection, ErrDuplicate)
	default:
		return fmt.Errorf("%s %s: %w", op, collection, err)
	}
}
