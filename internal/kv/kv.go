package kv

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/litekv/litekv/internal/store"
)

// KV is a persistent, dictionary-like key/value store. Safe for
// concurrent use: every operation serializes on one mutex guarding the
// single database connection.
type KV struct {
	s *session

	// locked marks the view handed to a Lock callback. Operations on a
	// locked view skip the mutex (the outer Lock holds it) and join the
	// open transaction.
	locked bool
}

// session is the state shared between a KV and its locked views.
type session struct {
	mu     sync.Mutex
	st     *store.Store
	path   string
	inLock atomic.Bool
}

// Item is one decoded entry of the mapping.
type Item struct {
	Key   Value
	Value Value
}

// ClosePolicy controls Close behavior when a lock scope is still open.
type ClosePolicy int

const (
	// CloseRaise fails with an error if a transaction is open. Default.
	CloseRaise ClosePolicy = iota
	// CloseAbandon rolls the open transaction back, then closes.
	CloseAbandon
	// CloseFlush commits the open transaction, then closes.
	CloseFlush
)

// Option customizes how a KV is opened.
type Option func(*options)

type options struct {
	store []store.Option
}

// WithTable sets the backing table name. Default is "data".
func WithTable(name string) Option {
	return func(o *options) { o.store = append(o.store, store.WithTable(name)) }
}

// WithBusyTimeout sets how long the engine waits on a locked database
// file before failing. Default is 5s.
func WithBusyTimeout(d time.Duration) Option {
	return func(o *options) { o.store = append(o.store, store.WithBusyTimeout(d)) }
}

// WithoutCreate makes Open fail if the backing file does not exist.
func WithoutCreate() Option {
	return func(o *options) { o.store = append(o.store, store.WithoutCreate()) }
}

// Open opens or creates the backing file at path and ensures the
// key/value table exists. The path ":memory:" opens a transient
// in-memory store.
func Open(path string, opts ...Option) (*KV, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	st, err := store.Open(path, o.store...)
	if err != nil {
		return nil, newStorageError("failed to open key/value store", err)
	}
	return &KV{s: &session{st: st, path: path}}, nil
}

// Path returns the backing file path.
func (db *KV) Path() string {
	return db.s.path
}

// acquire takes the connection mutex unless this handle is a locked
// view, in which case the outer Lock already holds it.
func (db *KV) acquire() func() {
	if db.locked {
		return func() {}
	}
	db.s.mu.Lock()
	return db.s.mu.Unlock
}

// Get returns the value stored under key. Fails with a key-not-found
// error if the key is absent.
func (db *KV) Get(ctx context.Context, key any) (Value, error) {
	ek, err := encodeKey(key)
	if err != nil {
		return nil, err
	}

	release := db.acquire()
	defer release()

	raw, err := db.s.st.GetRaw(ctx, ek)
	if errors.Is(err, store.ErrNotFound) {
		return nil, newKeyNotFound(ek)
	}
	if err != nil {
		return nil, mapStoreErr("get", err)
	}
	return decodeValue(raw)
}

// Set stores value under key, silently overwriting any previous value.
// The value may be any Go value convertible by FromGo.
func (db *KV) Set(ctx context.Context, key, value any) error {
	ek, err := encodeKey(key)
	if err != nil {
		return err
	}
	v, err := FromGo(value)
	if err != nil {
		return err
	}
	raw, err := encodeValue(v)
	if err != nil {
		return err
	}

	release := db.acquire()
	defer release()

	if err := db.s.st.PutRaw(ctx, ek, raw); err != nil {
		return mapStoreErr("set", err)
	}
	return nil
}

// Delete removes key. Unlike the silent store primitive, deleting an
// absent key is a key-not-found error (mapping semantics).
func (db *KV) Delete(ctx context.Context, key any) error {
	ek, err := encodeKey(key)
	if err != nil {
		return err
	}

	release := db.acquire()
	defer release()

	ok, err := db.s.st.Has(ctx, ek)
	if err != nil {
		return mapStoreErr("delete", err)
	}
	if !ok {
		return newKeyNotFound(ek)
	}
	if err := db.s.st.DeleteRaw(ctx, ek); err != nil {
		return mapStoreErr("delete", err)
	}
	return nil
}

// Has reports whether key is present, without decoding its value.
// Absence is a valid false result, not an error.
func (db *KV) Has(ctx context.Context, key any) (bool, error) {
	ek, err := encodeKey(key)
	if err != nil {
		return false, err
	}

	release := db.acquire()
	defer release()

	ok, err := db.s.st.Has(ctx, ek)
	if err != nil {
		return false, mapStoreErr("has", err)
	}
	return ok, nil
}

// Len returns the number of entries.
func (db *KV) Len(ctx context.Context) (int64, error) {
	release := db.acquire()
	defer release()

	n, err := db.s.st.Count(ctx)
	if err != nil {
		return 0, mapStoreErr("len", err)
	}
	return n, nil
}

// Keys returns all keys in insertion order, decoded to Null, String,
// Int or Float. Each call runs a fresh query.
func (db *KV) Keys(ctx context.Context) ([]Value, error) {
	release := db.acquire()
	defer release()

	raw, err := db.s.st.Keys(ctx)
	if err != nil {
		return nil, mapStoreErr("keys", err)
	}
	keys := make([]Value, len(raw))
	for i, ek := range raw {
		k, err := decodeKey(ek)
		if err != nil {
			return nil, err
		}
		keys[i] = k
	}
	return keys, nil
}

// Items returns all entries in insertion order. Each call runs a fresh
// query.
func (db *KV) Items(ctx context.Context) ([]Item, error) {
	release := db.acquire()
	defer release()

	raw, err := db.s.st.Items(ctx)
	if err != nil {
		return nil, mapStoreErr("items", err)
	}
	items := make([]Item, len(raw))
	for i, it := range raw {
		k, err := decodeKey(it.Key)
		if err != nil {
			return nil, err
		}
		v, err := decodeValue(it.Value)
		if err != nil {
			return nil, err
		}
		items[i] = Item{Key: k, Value: v}
	}
	return items, nil
}

// Values returns all values in insertion order.
func (db *KV) Values(ctx context.Context) ([]Value, error) {
	items, err := db.Items(ctx)
	if err != nil {
		return nil, err
	}
	values := make([]Value, len(items))
	for i, it := range items {
		values[i] = it.Value
	}
	return values, nil
}

// Lock runs fn inside a single transaction: every operation performed on
// the KV passed to fn is part of it. When fn returns nil the transaction
// commits; when fn returns an error or panics, every write in the scope
// is rolled back before the error (or panic) propagates.
//
// Calling Lock on the view inside a scope reuses the open transaction
// instead of beginning a second one; the engine does not support nested
// transactions.
//
// The view must not be used outside fn.
func (db *KV) Lock(ctx context.Context, fn func(*KV) error) error {
	if db.locked {
		return fn(db)
	}

	db.s.mu.Lock()
	defer db.s.mu.Unlock()

	if err := db.s.st.Begin(ctx); err != nil {
		return mapStoreErr("lock", err)
	}
	db.s.inLock.Store(true)

	view := &KV{s: db.s, locked: true}
	var fnErr error
	func() {
		defer func() {
			if p := recover(); p != nil {
				db.s.inLock.Store(false)
				if db.s.st.InTx() {
					_ = db.s.st.Rollback(context.WithoutCancel(ctx))
				}
				panic(p)
			}
		}()
		fnErr = fn(view)
	}()
	db.s.inLock.Store(false)

	// The transaction may already be resolved if fn closed the view with
	// CloseWith(CloseAbandon) or CloseWith(CloseFlush).
	if fnErr != nil {
		if db.s.st.InTx() {
			if rbErr := db.s.st.Rollback(context.WithoutCancel(ctx)); rbErr != nil {
				return errors.Join(fnErr, mapStoreErr("rollback", rbErr))
			}
		}
		return fnErr
	}
	if db.s.st.InTx() {
		if err := db.s.st.Commit(ctx); err != nil {
			// Commit rolls a failed transaction back itself; if it is
			// somehow still open, resolve it here so the scope's writes
			// cannot leak into later operations.
			if db.s.st.InTx() {
				_ = db.s.st.Rollback(context.WithoutCancel(ctx))
			}
			return mapStoreErr("commit", err)
		}
	}
	return nil
}

// Locked reports whether a lock scope is currently open.
func (db *KV) Locked() bool {
	return db.s.inLock.Load()
}

// Close releases the backing connection. Fails if a lock scope is open;
// see CloseWith for the other policies. Idempotent once closed.
func (db *KV) Close() error {
	return db.CloseWith(CloseRaise)
}

// CloseWith releases the backing connection, resolving an open
// transaction according to policy: CloseRaise fails, CloseAbandon rolls
// back, CloseFlush commits. After a successful close the KV is unusable
// and every operation fails with a storage error.
func (db *KV) CloseWith(policy ClosePolicy) error {
	release := db.acquire()
	defer release()

	ctx := context.Background()
	if db.s.st.InTx() {
		switch policy {
		case CloseRaise:
			return newStorageError("database is locked", nil)
		case CloseAbandon:
			if err := db.s.st.Rollback(ctx); err != nil {
				return mapStoreErr("close", err)
			}
		case CloseFlush:
			if err := db.s.st.Commit(ctx); err != nil {
				return mapStoreErr("close", err)
			}
		default:
			return newStorageError("invalid close policy", nil)
		}
		db.s.inLock.Store(false)
	}
	if err := db.s.st.Close(); err != nil {
		return mapStoreErr("close", err)
	}
	return nil
}

// mapStoreErr converts storage-layer failures into the mapping error
// taxonomy: constraint violations become integrity errors, everything
// else a storage error.
func mapStoreErr(op string, err error) error {
	if store.IsConstraint(err) {
		return newIntegrityError(op+" failed", err)
	}
	return newStorageError(op+" failed", err)
}
