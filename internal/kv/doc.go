// Package kv provides a persistent, dictionary-like key/value store
// backed by SQLite.
//
// Keys are text, numbers (integers and floats are distinct) or nil.
// Values are anything representable as JSON, modeled by the sealed Value
// sum type and converted at the boundary with FromGo.
//
//	db, err := kv.Open("/tmp/demo.kv")
//	db.Set(ctx, "hello", "world")
//	db.Set(ctx, 42, []any{"answer", 2, map[string]any{"ultimate": "question"}})
//
// Multi-step read-modify-write sequences run atomically under Lock:
//
//	err = db.Lock(ctx, func(db *kv.KV) error {
//		v, err := db.Get(ctx, 42)
//		if err != nil {
//			return err
//		}
//		return db.Set(ctx, 42, append(v.(kv.Array), kv.String("or is it?")))
//	})
//
// The whole callback commits as one transaction; an error or panic rolls
// every write in the scope back.
//
// # Concurrency
//
// A KV serializes all operations on one mutex guarding the single
// database connection, so it is safe to share between goroutines. Lock
// holds the mutex for the whole scope; the view passed to the callback
// must not escape it.
//
// # Iteration order
//
// Keys, Values and Items return entries in insertion order. Overwriting
// a key keeps its original position. Each call runs a fresh query over a
// consistent snapshot.
package kv
