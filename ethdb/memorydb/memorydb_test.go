package memorydb

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPutGetHasDelete(t *testing.T) {
	db := New()
	defer db.Close()

	ok, err := db.Has([]byte("k"))
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, db.Put([]byte("k"), []byte("v")))
	ok, err = db.Has([]byte("k"))
	require.NoError(t, err)
	require.True(t, ok)

	v, err := db.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("v"), v)

	require.NoError(t, db.Delete([]byte("k")))
	ok, _ = db.Has([]byte("k"))
	require.False(t, ok)
}

func TestBatchWriteIsAtomic(t *testing.T) {
	db := New()
	defer db.Close()

	b := db.NewBatch()
	require.NoError(t, b.Put([]byte("a"), []byte("1")))
	require.NoError(t, b.Put([]byte("b"), []byte("2")))
	require.Greater(t, b.ValueSize(), 0)

	ok, _ := db.Has([]byte("a"))
	require.False(t, ok, "batch writes must not be visible before Write")

	require.NoError(t, b.Write())
	ok, _ = db.Has([]byte("a"))
	require.True(t, ok)
}

func TestOperationsAfterCloseFail(t *testing.T) {
	db := New()
	require.NoError(t, db.Close())
	_, err := db.Get([]byte("k"))
	require.ErrorIs(t, err, ErrMemorydbClosed)
}
