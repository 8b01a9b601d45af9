// Package storage records visited pages. Every sink is safe for concurrent
// use by multiple workers.
package storage

import (
	"context"
	"errors"
	"time"
)

// Record is one successfully fetched page.
type Record struct {
	URL       string    `bson:"url"`
	Domain    string    `bson:"domain"`
	Depth     int       `bson:"depth"`
	FetchedAt time.Time `bson:"fetched_at"`
	RunID     string    `bson:"run_id"`
}

// Sink appends visited pages to durable storage.
type Sink interface {
	Append(ctx context.Context, rec Record) error
	Close() error
}

// Multi fans every record out to all of its sinks.
type Multi []Sink

func (m Multi) Append(ctx context.Context, rec Record) error {
	var errs []error
	for _, s := range m {
		if err := s.Append(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
