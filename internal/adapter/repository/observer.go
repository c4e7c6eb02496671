// Package repository holds the snapshot store backends.
package repository

import "time"

// Observer receives the outcome of each snapshot store operation.
type Observer interface {
	ObserveSnapshot(backend, operation string, started time.Time, err error)
}

// NopObserver discards observations.
type NopObserver struct{}

func (NopObserver) ObserveSnapshot(string, string, time.Time, error) {}
