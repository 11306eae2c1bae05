package sqlite

import (
	"context"
	"database/sql"
	"encoding"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/dekarrin/flwarrior/server/dao"
	"github.com/google/uuid"
)

// storable is a pointer to a record that can be encoded for storage.
type storable[R any] interface {
	*R
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
}

// RecordsDB keeps records of one kind in a table named for the kind.
type RecordsDB[R any, PR storable[R]] struct {
	db   *sql.DB
	kind dao.Kind[R]
}

func NewRecordsDBConn[R any, PR storable[R]](file string, kind dao.Kind[R]) (*RecordsDB[R, PR], error) {
	repo := &RecordsDB[R, PR]{kind: kind}

	var err error
	repo.db, err = sql.Open("sqlite", file)
	if err != nil {
		return nil, wrapDBError(err)
	}

	return repo, repo.init()
}

func (repo *RecordsDB[R, PR]) init() error {
	stmt := `CREATE TABLE IF NOT EXISTS ` + repo.kind.Table + ` (
		id TEXT NOT NULL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE COLLATE NOCASE,
		data TEXT NOT NULL,
		created INTEGER NOT NULL,
		modified INTEGER NOT NULL
	);`
	_, err := repo.db.Exec(stmt)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *RecordsDB[R, PR]) encode(rec R) (string, error) {
	data, err := PR(&rec).MarshalBinary()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

func (repo *RecordsDB[R, PR]) decode(id string, data string, created, modified int64) (dao.Stored[R], error) {
	var s dao.Stored[R]

	var err error
	s.ID, err = uuid.Parse(id)
	if err != nil {
		return s, fmt.Errorf("stored UUID %q is invalid", id)
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return s, fmt.Errorf("stored data for %s is invalid: %w", id, err)
	}
	if err := PR(&s.Record).UnmarshalBinary(raw); err != nil {
		return s, fmt.Errorf("stored data for %s is invalid: %w", id, err)
	}
	repo.kind.SetID(&s.Record, id)

	s.Created = time.Unix(created, 0)
	s.Modified = time.Unix(modified, 0)

	return s, nil
}

func (repo *RecordsDB[R, PR]) Create(ctx context.Context, rec R) (dao.Stored[R], error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Stored[R]{}, fmt.Errorf("could not generate ID: %w", err)
	}

	repo.kind.SetID(&rec, newUUID.String())
	data, err := repo.encode(rec)
	if err != nil {
		return dao.Stored[R]{}, fmt.Errorf("could not encode record: %w", err)
	}

	stmt, err := repo.db.PrepareContext(ctx, `INSERT INTO `+repo.kind.Table+` (id, name, data, created, modified) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return dao.Stored[R]{}, wrapDBError(err)
	}
	defer stmt.Close()

	now := time.Now()

	_, err = stmt.ExecContext(ctx, newUUID.String(), repo.kind.NameOf(rec), data, now.Unix(), now.Unix())
	if err != nil {
		return dao.Stored[R]{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *RecordsDB[R, PR]) GetAll(ctx context.Context) ([]dao.Stored[R], error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT id, data, created, modified FROM `+repo.kind.Table+` ORDER BY id;`)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.Stored[R]

	for rows.Next() {
		var id string
		var data string
		var created int64
		var modified int64
		err = rows.Scan(
			&id,
			&data,
			&created,
			&modified,
		)
		if err != nil {
			return nil, wrapDBError(err)
		}

		s, err := repo.decode(id, data, created, modified)
		if err != nil {
			return all, err
		}

		all = append(all, s)
	}

	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}

	return all, nil
}

func (repo *RecordsDB[R, PR]) Update(ctx context.Context, id uuid.UUID, rec R) (dao.Stored[R], error) {
	repo.kind.SetID(&rec, id.String())
	data, err := repo.encode(rec)
	if err != nil {
		return dao.Stored[R]{}, fmt.Errorf("could not encode record: %w", err)
	}

	res, err := repo.db.ExecContext(ctx, `UPDATE `+repo.kind.Table+` SET name=?, data=?, modified=? WHERE id=?;`,
		repo.kind.NameOf(rec),
		data,
		time.Now().Unix(),
		id.String(),
	)
	if err != nil {
		return dao.Stored[R]{}, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return dao.Stored[R]{}, wrapDBError(err)
	}
	if rowsAff < 1 {
		return dao.Stored[R]{}, dao.ErrNotFound
	}

	return repo.GetByID(ctx, id)
}

func (repo *RecordsDB[R, PR]) GetByID(ctx context.Context, id uuid.UUID) (dao.Stored[R], error) {
	var data string
	var created int64
	var modified int64

	row := repo.db.QueryRowContext(ctx, `SELECT data, created, modified FROM `+repo.kind.Table+` WHERE id = ?;`,
		id.String(),
	)
	err := row.Scan(
		&data,
		&created,
		&modified,
	)
	if err != nil {
		return dao.Stored[R]{ID: id}, wrapDBError(err)
	}

	return repo.decode(id.String(), data, created, modified)
}

func (repo *RecordsDB[R, PR]) Delete(ctx context.Context, id uuid.UUID) (dao.Stored[R], error) {
	curVal, err := repo.GetByID(ctx, id)
	if err != nil {
		return curVal, err
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM `+repo.kind.Table+` WHERE id = ?`, id.String())
	if err != nil {
		return curVal, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return curVal, wrapDBError(err)
	}
	if rowsAff < 1 {
		return curVal, dao.ErrNotFound
	}

	return curVal, nil
}

// Close closes the underlying DB. When the RecordsDB is part of a store, the
// store closes the DB instead; calling Close on it directly closes it for
// every repository in the store.
func (repo *RecordsDB[R, PR]) Close() error {
	return repo.db.Close()
}
