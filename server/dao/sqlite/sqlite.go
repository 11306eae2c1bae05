// Package sqlite keeps FLWarrior server records in a SQLite database file.
// Each record is stored REZI-encoded, in base64, alongside its name.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dekarrin/flwarrior/automaton"
	"github.com/dekarrin/flwarrior/grammar"
	"github.com/dekarrin/flwarrior/internal/flerrors"
	"github.com/dekarrin/flwarrior/regex"
	"github.com/dekarrin/flwarrior/server/dao"
	"modernc.org/sqlite"
)

// DBFilename is the name of the file created in the storage directory.
const DBFilename = "flwarrior.db"

type store struct {
	dbFilename string

	db *sql.DB

	machines    *RecordsDB[automaton.Record, *automaton.Record]
	grammars    *RecordsDB[grammar.Record, *grammar.Record]
	expressions *RecordsDB[regex.Record, *regex.Record]
}

func NewDatastore(storageDir string) (dao.Store, error) {
	st := &store{
		dbFilename: DBFilename,
	}

	fileName := filepath.Join(storageDir, st.dbFilename)

	var err error
	st.db, err = sql.Open("sqlite", fileName)
	if err != nil {
		return nil, wrapDBError(err)
	}

	st.machines = &RecordsDB[automaton.Record, *automaton.Record]{db: st.db, kind: dao.MachineKind}
	st.grammars = &RecordsDB[grammar.Record, *grammar.Record]{db: st.db, kind: dao.GrammarKind}
	st.expressions = &RecordsDB[regex.Record, *regex.Record]{db: st.db, kind: dao.ExpressionKind}

	var initErr error
	initErr = flerrors.Append(initErr, st.machines.init())
	initErr = flerrors.Append(initErr, st.grammars.init())
	initErr = flerrors.Append(initErr, st.expressions.init())
	if initErr != nil {
		st.db.Close()
		return nil, fmt.Errorf("create tables: %w", initErr)
	}

	return st, nil
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
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("%s: %w", s.dbFilename, err)
	}
	return nil
}

func wrapDBError(err error) error {
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		// primary code SQLITE_CONSTRAINT, with or without an extended code
		if sqliteErr.Code()&0xff == 19 {
			return dao.ErrConstraintViolation
		}
		return fmt.Errorf("%s", sqlite.ErrorCodeString[sqliteErr.Code()])
	} else if errors.Is(err, sql.ErrNoRows) {
		return dao.ErrNotFound
	}
	return err
}
