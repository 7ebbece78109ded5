// SPDX-FileCopyrightText: 2026 terry
// SPDX-License-Identifier: FSL-1.1-MIT

// Package store defines the storage capability injected into handlers and
// an in-memory implementation of it.
package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"
)

// ErrNotFound is returned when no record exists for an id.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateID is returned by Create when the id is already taken.
var ErrDuplicateID = errors.New("duplicate record id")

// Store is a keyed collection of records.
type Store[T any] interface {
	// Create adds a record. The record must already carry its id.
	Create(ctx context.Context, record T) (T, error)

	// Get returns the record with the given id or ErrNotFound.
	Get(ctx context.Context, id string) (T, error)

	// Update applies mutate to the record with the given id and stores the
	// result. If mutate returns an error the record is left unchanged.
	Update(ctx context.Context, id string, mutate func(*T) error) (T, error)

	// Delete removes the record with the given id or returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// List returns the records accepted by filter; a nil filter accepts all.
	List(ctx context.Context, filter func(T) bool) ([]T, error)
}

// Memory is a process local Store. Records are kept in insertion order.
type Memory[T any] struct {
	mu      sync.RWMutex
	idOf    func(T) string
	order   []string
	records map[string]T
}

// NewMemory creates an empty in-memory store. idOf extracts the record id.
func NewMemory[T any](idOf func(T) string) *Memory[T] {
	return &Memory[T]{
		idOf:    idOf,
		records: make(map[string]T),
	}
}

// Create implements Store.
func (m *Memory[T]) Create(ctx context.Context, record T) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	id := m.idOf(record)
	if id == "" {
		return zero, fmt.Errorf("record has no id")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.records[id]; exists {
		return zero, fmt.Errorf("%w: %s", ErrDuplicateID, id)
	}
	m.records[id] = record
	m.order = append(m.order, id)
	return record, nil
}

// Get implements Store.
func (m *Memory[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.records[id]
	if !ok {
		return zero, ErrNotFound
	}
	return record, nil
}

// Update implements Store.
func (m *Memory[T]) Update(ctx context.Context, id string, mutate func(*T) error) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.records[id]
	if !ok {
		return zero, ErrNotFound
	}
	if err := mutate(&record); err != nil {
		return zero, err
	}
	if m.idOf(record) != id {
		return zero, fmt.Errorf("update must not change the record id")
	}
	m.records[id] = record
	return record, nil
}

// Delete implements Store.
func (m *Memory[T]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[id]; !ok {
		return ErrNotFound
	}
	delete(m.records, id)
	m.order = slices.DeleteFunc(m.order, func(s string) bool { return s == id })
	return nil
}

// List implements Store.
func (m *Memory[T]) List(ctx context.Context, filter func(T) bool) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]T, 0, len(m.order))
	for _, id := range m.order {
		record := m.records[id]
		if filter == nil || filter(record) {
			out = append(out, record)
		}
	}
	return out, nil
}

// Len returns the number of stored records.
func (m *Memory[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.records)
}

// Now returns the current time in UTC at millisecond precision, the
// resolution records are serialized with.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// NextTimestamp returns now when it is later than prev, otherwise prev plus
// one millisecond. Update timestamps use it so they always move forward.
func NextTimestamp(prev, now time.Time) time.Time {
	if now.After(prev) {
		return now
	}
	return prev.Add(time.Millisecond)
}
