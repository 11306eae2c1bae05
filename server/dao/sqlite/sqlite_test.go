package sqlite

import (
	"context"
	"testing"

	"github.com/dekarrin/flwarrior/server/dao/daotest"
	"github.com/stretchr/testify/assert"
)

func Test_Datastore(t *testing.T) {
	st, err := NewDatastore(t.TempDir())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	defer st.Close()

	daotest.TestStore(t, st)
}

func Test_Datastore_Reopen(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	ctx := context.Background()

	st, err := NewDatastore(dir)
	if !assert.NoError(err) {
		return
	}
	created, err := st.Grammars().Create(ctx, daotest.Grammar("kept"))
	if !assert.NoError(err) {
		return
	}
	assert.NoError(st.Close())

	st, err = NewDatastore(dir)
	if !assert.NoError(err) {
		return
	}
	defer st.Close()

	got, err := st.Grammars().GetByID(ctx, created.ID)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(created.Record, got.Record)
	assert.Equal("REGULAR", got.Record.Type)
}
