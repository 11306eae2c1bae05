package flws

import (
	"context"

	"github.com/dekarrin/flwarrior/alphabet"
	"github.com/dekarrin/flwarrior/automaton"
	"github.com/dekarrin/flwarrior/server/dao"
	"github.com/dekarrin/flwarrior/server/serr"
)

// RunResult is the outcome of running a machine over a word.
type RunResult struct {
	Accepted bool

	// Trace holds the states active at each step, starting with the states
	// active before anything is read. Each set is sorted.
	Trace [][]string
}

// checkMachine builds the machine rec describes and gives the record that
// should be stored for it.
func checkMachine(rec automaton.Record) (automaton.Record, error) {
	fa, err := automaton.FromRecord(rec)
	if err != nil {
		return rec, err
	}
	return fa.ToRecord(rec.ID, rec.Name), nil
}

// GetAllMachines returns all machines currently in persistence.
func (svc Service) GetAllMachines(ctx context.Context) ([]dao.Machine, error) {
	return getAll(ctx, svc.DB.Machines())
}

// GetMachine returns the machine with the given ID.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If no machine with that ID
// exists, it will match serr.ErrNotFound. If the error occurred due to an
// unexpected problem with the DB, it will match serr.ErrDB. Finally, if there
// is an issue with one of the arguments, it will match serr.ErrBadArgument.
func (svc Service) GetMachine(ctx context.Context, id string) (dao.Machine, error) {
	return get(ctx, svc.DB.Machines(), id)
}

// CreateMachine stores a new machine. The record must describe a valid
// machine; its Deterministic field is recomputed.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If a machine with that name
// is already present, it will match serr.ErrAlreadyExists. If the record is
// not valid, it will match serr.ErrInvalidRecord and serr.ErrBadArgument. If
// the error occurred due to an unexpected problem with the DB, it will match
// serr.ErrDB.
func (svc Service) CreateMachine(ctx context.Context, rec automaton.Record) (dao.Machine, error) {
	return create(ctx, svc.DB.Machines(), dao.MachineKind, rec, checkMachine)
}

// UpdateMachine replaces the machine with the given ID. Errors are as for
// CreateMachine, and additionally serr.ErrNotFound if there is no such
// machine.
func (svc Service) UpdateMachine(ctx context.Context, id string, rec automaton.Record) (dao.Machine, error) {
	return update(ctx, svc.DB.Machines(), dao.MachineKind, id, rec, checkMachine)
}

// DeleteMachine deletes the machine with the given ID and returns it as it
// was just before deletion.
func (svc Service) DeleteMachine(ctx context.Context, id string) (dao.Machine, error) {
	return remove(ctx, svc.DB.Machines(), id)
}

func (svc Service) loadMachine(ctx context.Context, id string) (automaton.Automaton, dao.Machine, error) {
	m, err := svc.GetMachine(ctx, id)
	if err != nil {
		return automaton.Automaton{}, m, err
	}
	fa, err := automaton.FromRecord(m.Record)
	if err != nil {
		return fa, m, serr.WrapRecord("stored machine is not valid", err)
	}
	return fa, m, nil
}

// DeterminizeMachine gives a deterministic machine equivalent to the one with
// the given ID. The result is not stored; its ID is empty and its name is
// that of the original with "-dfa" added.
func (svc Service) DeterminizeMachine(ctx context.Context, id string) (automaton.Record, error) {
	fa, m, err := svc.loadMachine(ctx, id)
	if err != nil {
		return automaton.Record{}, err
	}
	return fa.Determinize().ToRecord("", m.Record.Name+"-dfa"), nil
}

// RunMachine runs the machine with the given ID over word, one character per
// symbol.
func (svc Service) RunMachine(ctx context.Context, id string, word string) (RunResult, error) {
	fa, _, err := svc.loadMachine(ctx, id)
	if err != nil {
		return RunResult{}, err
	}

	syms := alphabet.Split(word)
	res := RunResult{Accepted: fa.Accepts(syms)}
	for _, set := range fa.Trace(syms) {
		res.Trace = append(res.Trace, set.Sorted())
	}
	return res, nil
}

// UnionMachines gives a machine accepting the words of either of the machines
// with the given IDs. The result is not stored; its ID is empty and its name
// joins the names of the two with "-or-".
func (svc Service) UnionMachines(ctx context.Context, id1, id2 string) (automaton.Record, error) {
	fa1, m1, err := svc.loadMachine(ctx, id1)
	if err != nil {
		return automaton.Record{}, err
	}
	fa2, m2, err := svc.loadMachine(ctx, id2)
	if err != nil {
		return automaton.Record{}, err
	}
	return fa1.Union(fa2).ToRecord("", m1.Record.Name+"-or-"+m2.Record.Name), nil
}
