package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// StoreTestSuite runs every test against a fresh database file.
type StoreTestSuite struct {
	suite.Suite
	path  string
	store *Store
}

func (s *StoreTestSuite) SetupTest() {
	s.path = filepath.Join(s.T().TempDir(), "nested", "moneymike.db")
	st, err := Open(s.path)
	require.NoError(s.T(), err, "failed to open test database")
	s.store = st
}

func (s *StoreTestSuite) TearDownTest() {
	if s.store != nil {
		_ = s.store.Close()
	}
}

func (s *StoreTestSuite) TestGetMissing() {
	v, ok, err := s.store.Get(context.Background(), "nope")
	require.NoError(s.T(), err)
	assert.False(s.T(), ok)
	assert.Nil(s.T(), v)

	_, ok, err = s.store.UpdatedAt(context.Background(), "nope")
	require.NoError(s.T(), err)
	assert.False(s.T(), ok)
}

func (s *StoreTestSuite) TestPutOverwrites() {
	ctx := context.Background()
	require.NoError(s.T(), s.store.Put(ctx, "k", []byte("one")))
	first, ok, err := s.store.UpdatedAt(ctx, "k")
	require.NoError(s.T(), err)
	require.True(s.T(), ok)

	require.NoError(s.T(), s.store.Put(ctx, "k", []byte("two")))
	v, ok, err := s.store.Get(ctx, "k")
	require.NoError(s.T(), err)
	require.True(s.T(), ok)
	assert.Equal(s.T(), "two", string(v))

	second, _, err := s.store.UpdatedAt(ctx, "k")
	require.NoError(s.T(), err)
	assert.False(s.T(), second.Before(first))

	keys, err := s.store.Keys(ctx)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), []string{"k"}, keys)
}

func (s *StoreTestSuite) TestDelete() {
	ctx := context.Background()
	require.NoError(s.T(), s.store.Put(ctx, "k", []byte("v")))
	require.NoError(s.T(), s.store.Delete(ctx, "k"))
	require.NoError(s.T(), s.store.Delete(ctx, "k"))

	_, ok, err := s.store.Get(ctx, "k")
	require.NoError(s.T(), err)
	assert.False(s.T(), ok)
}

func (s *StoreTestSuite) TestReopenKeepsData() {
	ctx := context.Background()
	require.NoError(s.T(), s.store.Put(ctx, "k", []byte("persisted")))
	require.NoError(s.T(), s.store.Close())

	again, err := Open(s.path)
	require.NoError(s.T(), err)
	s.store = again

	v, ok, err := again.Get(ctx, "k")
	require.NoError(s.T(), err)
	require.True(s.T(), ok)
	assert.Equal(s.T(), "persisted", string(v))
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}
