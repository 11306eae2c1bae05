// Package daotest has checks that every dao.Store implementation must pass.
package daotest

import (
	"context"
	"testing"

	"github.com/dekarrin/flwarrior/automaton"
	"github.com/dekarrin/flwarrior/grammar"
	"github.com/dekarrin/flwarrior/regex"
	"github.com/dekarrin/flwarrior/server/dao"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// Machine returns a small valid machine record with the given name.
func Machine(name string) automaton.Record {
	return automaton.Record{
		Name: name,
		States: []automaton.StateRecord{
			{ID: "q0", IsEntry: true},
			{ID: "q1", IsExit: true},
		},
		Transitions: []automaton.TransitionRecord{
			{From: "q0", To: automaton.TransitionTarget{NewState: "q1"}, With: automaton.TransitionInput{Head: "a"}},
		},
		EntryAlphabet: []string{"a"},
		Deterministic: true,
	}
}

// Grammar returns a small valid grammar record with the given name.
func Grammar(name string) grammar.Record {
	return grammar.MustParse("S -> a S | b").ToRecord("", name)
}

// Expression returns a small valid expression record with the given name.
func Expression(name string) regex.Record {
	return regex.NewRecord("", name, "(a|b)*")
}

// TestStore runs every check against st. st must be empty.
func TestStore(t *testing.T, st dao.Store) {
	t.Run("machines", func(t *testing.T) {
		TestRepository(t, st.Machines(), dao.MachineKind, Machine)
	})
	t.Run("grammars", func(t *testing.T) {
		TestRepository(t, st.Grammars(), dao.GrammarKind, Grammar)
	})
	t.Run("expressions", func(t *testing.T) {
		TestRepository(t, st.Expressions(), dao.ExpressionKind, Expression)
	})
}

// TestRepository checks the behavior of an empty repo. newRecord must give a
// record with the given name.
func TestRepository[R any](t *testing.T, repo dao.Repository[R], kind dao.Kind[R], newRecord func(name string) R) {
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		assert := assert.New(t)

		created, err := repo.Create(ctx, newRecord("first"))
		if !assert.NoError(err) {
			return
		}
		assert.NotEqual(uuid.Nil, created.ID)
		assert.False(created.Created.IsZero())

		expectRec := newRecord("first")
		kind.SetID(&expectRec, created.ID.String())
		assert.Equal(expectRec, created.Record)

		got, err := repo.GetByID(ctx, created.ID)
		if !assert.NoError(err) {
			return
		}
		assert.Equal(created.ID, got.ID)
		assert.Equal(expectRec, got.Record)

		_, err = repo.Delete(ctx, created.ID)
		assert.NoError(err)
	})

	t.Run("name must be unique ignoring case", func(t *testing.T) {
		assert := assert.New(t)

		first, err := repo.Create(ctx, newRecord("dup"))
		if !assert.NoError(err) {
			return
		}
		defer repo.Delete(ctx, first.ID)

		_, err = repo.Create(ctx, newRecord("DUP"))
		assert.ErrorIs(err, dao.ErrConstraintViolation)

		second, err := repo.Create(ctx, newRecord("other"))
		if !assert.NoError(err) {
			return
		}
		defer repo.Delete(ctx, second.ID)

		_, err = repo.Update(ctx, second.ID, newRecord("dup"))
		assert.ErrorIs(err, dao.ErrConstraintViolation)
	})

	t.Run("update", func(t *testing.T) {
		assert := assert.New(t)

		created, err := repo.Create(ctx, newRecord("before"))
		if !assert.NoError(err) {
			return
		}
		defer repo.Delete(ctx, created.ID)

		updated, err := repo.Update(ctx, created.ID, newRecord("after"))
		if !assert.NoError(err) {
			return
		}
		assert.Equal("after", kind.NameOf(updated.Record))

		// the old name is free again
		again, err := repo.Create(ctx, newRecord("before"))
		if assert.NoError(err) {
			repo.Delete(ctx, again.ID)
		}
	})

	t.Run("get all", func(t *testing.T) {
		assert := assert.New(t)

		for _, name := range []string{"x", "y", "z"} {
			s, err := repo.Create(ctx, newRecord(name))
			if !assert.NoError(err) {
				return
			}
			defer repo.Delete(ctx, s.ID)
		}

		all, err := repo.GetAll(ctx)
		if !assert.NoError(err) {
			return
		}
		if !assert.Len(all, 3) {
			return
		}
		for i := 1; i < len(all); i++ {
			assert.Less(all[i-1].ID.String(), all[i].ID.String())
		}
	})

	t.Run("missing", func(t *testing.T) {
		assert := assert.New(t)

		id := uuid.New()

		_, err := repo.GetByID(ctx, id)
		assert.ErrorIs(err, dao.ErrNotFound)
		_, err = repo.Update(ctx, id, newRecord("nope"))
		assert.ErrorIs(err, dao.ErrNotFound)
		_, err = repo.Delete(ctx, id)
		assert.ErrorIs(err, dao.ErrNotFound)
	})
}
