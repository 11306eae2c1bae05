// Package inmem keeps FLWarrior server records in memory. Nothing is kept once
// the store is closed.
package inmem

import (
	"github.com/dekarrin/flwarrior/automaton"
	"github.com/dekarrin/flwarrior/grammar"
	"github.com/dekarrin/flwarrior/internal/flerrors"
	"github.com/dekarrin/flwarrior/regex"
	"github.com/dekarrin/flwarrior/server/dao"
)

type store struct {
	machines    *RecordsRepository[automaton.Record]
	grammars    *RecordsRepository[grammar.Record]
	expressions *RecordsRepository[regex.Record]
}

func NewDatastore() dao.Store {
	return &store{
		machines:    NewRecordsRepository(dao.MachineKind),
		grammars:    NewRecordsRepository(dao.GrammarKind),
		expressions: NewRecordsRepository(dao.ExpressionKind),
	}
}

func (s *store) Machines() dao.MachineRepository {
	return s.machines
}

func (s *store) Grammars() dao.GrammarRepository {
	return s.grammars
}

func (s *store) Expressions() dao.ExpressionRepository {
	return s.expressions
}

func (s *store) Close() error {
	var err error
	err = flerrors.Append(err, s.machines.Close())
	err = flerrors.Append(err, s.grammars.Close())
	err = flerrors.Append(err, s.expressions.Close())
	return err
}
