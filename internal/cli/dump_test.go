package cli

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/litekv/litekv/internal/kv"
)

// TestDump_Golden verifies the dump output byte-for-byte against a
// golden file. The fixture uses the library surface so non-text keys
// appear in the output.
//
// To regenerate the golden file, run:
//
//	go test ./internal/cli -run TestDump_Golden -update
func TestDump_Golden(t *testing.T) {
	ctx := context.Background()
	path := testDBPath(t)

	db, err := kv.Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Set(ctx, "hello", "world"))
	require.NoError(t, db.Set(ctx, 42, []any{"answer", 2, map[string]any{"ultimate": "question"}}))
	require.NoError(t, db.Set(ctx, nil, true))
	require.NoError(t, db.Set(ctx, 2.5, 7))
	require.NoError(t, db.Close())

	out, err := runCommand(t, "--db", path, "dump")
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "dump", []byte(out))
}

func TestDump_Empty(t *testing.T) {
	path := testDBPath(t)

	// dump on a fresh database prints an empty array.
	out, err := runCommand(t, "--db", path, "dump")
	require.NoError(t, err)
	require.Equal(t, "[]\n", out)
}
