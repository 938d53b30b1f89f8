package cache

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

var ErrTransactionSettled = errors.New("transaction already settled")

// State of an optimistic transaction
type State int

const (
	Idle State = iota
	Pending
	SettledSuccess
	SettledError
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case SettledSuccess:
		return "settled-success"
	case SettledError:
		return "settled-error"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Transform derives the optimistic value from the cached one. It must return a
// new value and leave current untouched.
type Transform func(current any) any

// Transaction is one optimistic edit of a single key: the snapshot taken
// before the edit and the way back to it.
type Transaction struct {
	cache       *QueryCache
	key         Key
	snapshot    any
	hadSnapshot bool
	state       State
}

// Begin cancels running fetches of key and snapshots its value
func (c *QueryCache) Begin(key Key) *Transaction {
	c.CancelFetches(key)
	snapshot, ok := c.Get(key)
	return &Transaction{
		cache:       c,
		key:         key,
		snapshot:    snapshot,
		hadSnapshot: ok,
		state:       Idle,
	}
}

func (t *Transaction) Key() Key {
	return t.key
}

func (t *Transaction) State() State {
	return t.state
}

// Snapshot returns the value the key held when the transaction began
func (t *Transaction) Snapshot() (any, bool) {
	return t.snapshot, t.hadSnapshot
}

func (t *Transaction) transition(next State) {
	zap.L().Debug("Cache transaction state change",
		zap.String("key", t.key.String()),
		zap.Stringer("from", t.state),
		zap.Stringer("to", next))
	t.state = next
}

// Apply writes the optimistic value. Nothing is written when the key was not
// cached, since there is no list on screen to update.
func (t *Transaction) Apply(transform Transform) error {
	if t.state != Idle {
		return fmt.Errorf("apply on %s transaction: %w", t.state, ErrTransactionSettled)
	}
	if t.hadSnapshot && transform != nil {
		t.cache.Set(t.key, transform(t.snapshot))
	}
	t.transition(Pending)
	return nil
}

// Commit settles the transaction as successful and invalidates the key
func (t *Transaction) Commit() error {
	if t.state == SettledSuccess || t.state == SettledError {
		return ErrTransactionSettled
	}
	t.transition(SettledSuccess)
	t.cache.Invalidate(t.key)
	return nil
}

// Rollback restores the snapshot and invalidates the key
func (t *Transaction) Rollback() error {
	if t.state == SettledSuccess || t.state == SettledError {
		return ErrTransactionSettled
	}
	if t.hadSnapshot {
		t.cache.Set(t.key, t.snapshot)
	} else {
		t.cache.remove(t.key)
	}
	t.transition(SettledError)
	t.cache.Invalidate(t.key)
	return nil
}

// Synchronizer runs server mutations against the cache optimistically
type Synchronizer struct {
	cache *QueryCache
}

func NewSynchronizer(cache *QueryCache) *Synchronizer {
	return &Synchronizer{cache: cache}
}

func (s *Synchronizer) Cache() *QueryCache {
	return s.cache
}

// Mutate applies transform to key, runs request, restores the previous value
// when request fails and invalidates key either way. The request error is
// returned unchanged.
func (s *Synchronizer) Mutate(ctx context.Context, key Key, transform Transform, request func(ctx context.Context) error) error {
	tx := s.cache.Begin(key)
	succeeded := false
	defer func() { Settle(tx, succeeded) }()

	if err := tx.Apply(transform); err != nil {
		return err
	}

	if err := request(ctx); err != nil {
		zap.L().Warn("Mutation failed, restoring cached value",
			zap.String("key", key.String()),
			zap.Error(err))
		return err
	}
	succeeded = true
	return nil
}

// Settle commits tx when succeeded and rolls it back otherwise. It is meant to
// be deferred, so a request that panics still restores and invalidates the key.
func Settle(tx *Transaction, succeeded bool) {
	if tx.State() == SettledSuccess || tx.State() == SettledError {
		return
	}
	if succeeded {
		if err := tx.Commit(); err != nil {
			zap.L().Error("Unable to commit cache transaction", zap.Error(err))
		}
		return
	}
	if err := tx.Rollback(); err != nil {
		zap.L().Error("Unable to roll back cache transaction", zap.Error(err))
	}
}

// ListTransform adapts a typed list edit to a Transform. A cached value of a
// different type is passed through unchanged.
func ListTransform[T any](fn func([]T) []T) Transform {
	return func(current any) any {
		list, ok := current.([]T)
		if !ok {
			return current
		}
		return fn(list)
	}
}

// Append returns a new slice with item added at the end
func Append[T any](list []T, item T) []T {
	out := make([]T, 0, len(list)+1)
	out = append(out, list...)
	return append(out, item)
}

// ReplaceWhere returns a new slice where every element matching match is
// replaced by update(element)
func ReplaceWhere[T any](list []T, match func(T) bool, update func(T) T) []T {
	out := make([]T, len(list))
	for i, item := range list {
		if match(item) {
			out[i] = update(item)
		} else {
			out[i] = item
		}
	}
	return out
}

// RemoveWhere returns a new slice without the elements matching match
func RemoveWhere[T any](list []T, match func(T) bool) []T {
	out := make([]T, 0, len(list))
	for _, item := range list {
		if !match(item) {
			out = append(out, item)
		}
	}
	return out
}
