package flws

import (
	"context"
	"testing"

	"github.com/dekarrin/flwarrior/grammar"
	"github.com/dekarrin/flwarrior/lex"
	"github.com/dekarrin/flwarrior/regex"
	"github.com/dekarrin/flwarrior/server/dao/daotest"
	"github.com/dekarrin/flwarrior/server/dao/inmem"
	"github.com/dekarrin/flwarrior/server/serr"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newService() Service {
	return Service{DB: inmem.NewDatastore()}
}

func Test_Service_Machines(t *testing.T) {
	ctx := context.Background()

	t.Run("create normalizes the record", func(t *testing.T) {
		assert := assert.New(t)
		svc := newService()

		rec := daotest.Machine("m")
		rec.Deterministic = false

		created, err := svc.CreateMachine(ctx, rec)
		if !assert.NoError(err) {
			return
		}
		assert.Equal(created.ID.String(), created.Record.ID)
		assert.True(created.Record.Deterministic)
	})

	t.Run("invalid record", func(t *testing.T) {
		assert := assert.New(t)
		svc := newService()

		rec := daotest.Machine("m")
		rec.Transitions[0].To.NewState = "q9"

		_, err := svc.CreateMachine(ctx, rec)
		assert.ErrorIs(err, serr.ErrInvalidRecord)
		assert.ErrorIs(err, serr.ErrBadArgument)
	})

	t.Run("blank name", func(t *testing.T) {
		_, err := newService().CreateMachine(ctx, daotest.Machine("  "))
		assert.ErrorIs(t, err, serr.ErrBadArgument)
	})

	t.Run("duplicate name", func(t *testing.T) {
		svc := newService()
		_, err := svc.CreateMachine(ctx, daotest.Machine("m"))
		if !assert.NoError(t, err) {
			return
		}
		_, err = svc.CreateMachine(ctx, daotest.Machine("M"))
		assert.ErrorIs(t, err, serr.ErrAlreadyExists)
	})

	t.Run("get with bad ID", func(t *testing.T) {
		_, err := newService().GetMachine(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, serr.ErrBadArgument)
	})

	t.Run("get missing", func(t *testing.T) {
		_, err := newService().GetMachine(ctx, uuid.New().String())
		assert.ErrorIs(t, err, serr.ErrNotFound)
	})

	t.Run("update and delete", func(t *testing.T) {
		assert := assert.New(t)
		svc := newService()

		created, err := svc.CreateMachine(ctx, daotest.Machine("m"))
		if !assert.NoError(err) {
			return
		}

		updated, err := svc.UpdateMachine(ctx, created.ID.String(), daotest.Machine("renamed"))
		if !assert.NoError(err) {
			return
		}
		assert.Equal("renamed", updated.Record.Name)

		_, err = svc.DeleteMachine(ctx, created.ID.String())
		assert.NoError(err)

		all, err := svc.GetAllMachines(ctx)
		assert.NoError(err)
		assert.Empty(all)
	})
}

func Test_Service_MachineOperations(t *testing.T) {
	ctx := context.Background()
	assert := assert.New(t)
	svc := newService()

	nfa := regex.MustCompile("(a|b)*abb").ToRecord("", "ends-abb")
	m1, err := svc.CreateMachine(ctx, nfa)
	if !assert.NoError(err) {
		return
	}
	m2, err := svc.CreateMachine(ctx, daotest.Machine("just-a"))
	if !assert.NoError(err) {
		return
	}

	dfa, err := svc.DeterminizeMachine(ctx, m1.ID.String())
	if assert.NoError(err) {
		assert.True(dfa.Deterministic)
		assert.Equal("", dfa.ID)
		assert.Equal(nfa.Name+"-dfa", dfa.Name)
	}

	res, err := svc.RunMachine(ctx, m2.ID.String(), "a")
	if assert.NoError(err) {
		assert.True(res.Accepted)
		assert.Equal([][]string{{"q0"}, {"q1"}}, res.Trace)
	}

	res, err = svc.RunMachine(ctx, m1.ID.String(), "abab")
	if assert.NoError(err) {
		assert.False(res.Accepted)
		assert.Len(res.Trace, 5)
	}

	union, err := svc.UnionMachines(ctx, m1.ID.String(), m2.ID.String())
	if assert.NoError(err) {
		assert.Equal(nfa.Name+"-or-just-a", union.Name)
		assert.False(union.Deterministic)
	}

	_, err = svc.UnionMachines(ctx, m1.ID.String(), uuid.New().String())
	assert.ErrorIs(err, serr.ErrNotFound)
}

func Test_Service_Grammars(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name      string
		text      string
		transform Transform
		expect    string
		expectErr error
	}{
		{
			name:      "nondeterminism",
			text:      "S -> a A | a B ; A -> a ; B -> b",
			transform: TransformNonDeterminism,
			expect:    "S -> a S_1\nS_1 -> A | B\nA -> a\nB -> b",
		},
		{
			name:      "left recursion",
			text:      "E -> E + T | T ; T -> id",
			transform: TransformLeftRecursion,
			expect:    "E -> T E_1\nE_1 -> + T E_1 | ε\nT -> id",
		},
		{
			name:      "left factor with nothing to do",
			text:      "S -> a S | b",
			transform: TransformLeftFactor,
			expect:    "S -> a S | b",
		},
		{
			name:      "unknown transform",
			text:      "S -> a S | b",
			transform: Transform("reverse"),
			expectErr: serr.ErrBadArgument,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			svc := newService()

			created, err := svc.CreateGrammar(ctx, grammar.MustParse(tc.text).ToRecord("", "g"))
			if !assert.NoError(err) {
				return
			}

			actual, err := svc.TransformGrammar(ctx, created.ID.String(), tc.transform)
			if tc.expectErr != nil {
				assert.ErrorIs(err, tc.expectErr)
				return
			}
			if !assert.NoError(err) {
				return
			}

			g, err := grammar.FromRecord(actual)
			if !assert.NoError(err) {
				return
			}
			assert.Equal(tc.expect, g.String())
			assert.Equal("g-"+string(tc.transform), actual.Name)
		})
	}
}

func Test_Service_ClassifyGrammar(t *testing.T) {
	ctx := context.Background()
	assert := assert.New(t)
	svc := newService()

	created, err := svc.CreateGrammar(ctx, grammar.MustParse("E -> E + T | T ; T -> id").ToRecord("", "expr"))
	if !assert.NoError(err) {
		return
	}
	assert.Equal("CONTEXT_FREE", created.Record.Type)

	typ, err := svc.ClassifyGrammar(ctx, created.ID.String())
	assert.NoError(err)
	assert.Equal(grammar.ContextFree, typ)
}

func Test_Service_Expressions(t *testing.T) {
	ctx := context.Background()

	t.Run("type is filled in", func(t *testing.T) {
		assert := assert.New(t)
		svc := newService()

		created, err := svc.CreateExpression(ctx, regex.Record{RefName: "ab", Body: "ab"})
		if !assert.NoError(err) {
			return
		}
		assert.Equal(regex.TypeRegular, created.Record.Type)
		assert.Equal("ab", created.Record.Name)

		fa, err := svc.CompileExpression(ctx, created.ID.String())
		if !assert.NoError(err) {
			return
		}
		assert.Equal("ab", fa.Name)
	})

	t.Run("bad body", func(t *testing.T) {
		_, err := newService().CreateExpression(ctx, regex.NewRecord("", "bad", "(a"))
		assert.ErrorIs(t, err, serr.ErrInvalidRecord)
	})

	t.Run("bad type", func(t *testing.T) {
		rec := regex.NewRecord("", "cf", "a")
		rec.Type = "cfg"
		_, err := newService().CreateExpression(ctx, rec)
		assert.ErrorIs(t, err, serr.ErrBadArgument)
	})
}

func Test_Service_Lex(t *testing.T) {
	rules := []lex.Rule{
		{Name: "if", Pattern: "if"},
		{Name: "id", Pattern: "(i|f|x)(i|f|x)*"},
	}

	t.Run("tokens and unmatched", func(t *testing.T) {
		assert := assert.New(t)

		res, err := newService().Lex(rules, "if x $")
		if !assert.NoError(err) {
			return
		}
		if assert.Len(res.Tokens, 2) {
			assert.Equal("if", res.Tokens[0].Rule)
			assert.Equal("id", res.Tokens[1].Rule)
		}
		if assert.Len(res.Unmatched, 1) {
			assert.Equal("$", res.Unmatched[0].Lexeme)
		}
	})

	t.Run("no rules", func(t *testing.T) {
		_, err := newService().Lex(nil, "if")
		assert.ErrorIs(t, err, serr.ErrBadArgument)
	})

	t.Run("bad rule", func(t *testing.T) {
		_, err := newService().Lex([]lex.Rule{{Name: "x", Pattern: "(x"}}, "x")
		assert.ErrorIs(t, err, serr.ErrBadArgument)
	})
}
