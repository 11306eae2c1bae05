// Package flws has services for interacting with the FLWarrior server backend
// decoupled from the API that accesses it.
package flws

import (
	"context"
	"errors"
	"strings"

	"github.com/dekarrin/flwarrior/server/dao"
	"github.com/dekarrin/flwarrior/server/serr"
	"github.com/google/uuid"
)

// Service is a service for interacting with and modifying the FLWarrior server
// backend. It performs the actions requested and makes calls to server
// persistence to preserve the backend state.
//
// The zero-value of Service is not ready to be used; assign a valid DAO store
// to DB before attempting to use it.
type Service struct {

	// DB is the persistence store of the service.
	DB dao.Store
}

// The functions below are shared by every kind of record. check builds the
// value a record describes, returning the record as it should be stored.

func getAll[R any](ctx context.Context, repo dao.Repository[R]) ([]dao.Stored[R], error) {
	all, err := repo.GetAll(ctx)
	if err != nil {
		return nil, serr.WrapDB("", err)
	}
	return all, nil
}

func get[R any](ctx context.Context, repo dao.Repository[R], id string) (dao.Stored[R], error) {
	uuidID, err := uuid.Parse(id)
	if err != nil {
		return dao.Stored[R]{}, serr.New("ID is not valid", serr.ErrBadArgument)
	}

	s, err := repo.GetByID(ctx, uuidID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Stored[R]{}, serr.ErrNotFound
		}
		return dao.Stored[R]{}, serr.WrapDB("could not get record", err)
	}

	return s, nil
}

func create[R any](ctx context.Context, repo dao.Repository[R], kind dao.Kind[R], rec R, check func(R) (R, error)) (dao.Stored[R], error) {
	if strings.TrimSpace(kind.NameOf(rec)) == "" {
		return dao.Stored[R]{}, serr.New("name cannot be blank", serr.ErrBadArgument)
	}

	rec, err := check(rec)
	if err != nil {
		return dao.Stored[R]{}, serr.WrapRecord("", err, serr.ErrBadArgument)
	}

	s, err := repo.Create(ctx, rec)
	if err != nil {
		if errors.Is(err, dao.ErrConstraintViolation) {
			return dao.Stored[R]{}, serr.New("a record with that name already exists", serr.ErrAlreadyExists)
		}
		return dao.Stored[R]{}, serr.WrapDB("could not create record", err)
	}

	return s, nil
}

func update[R any](ctx context.Context, repo dao.Repository[R], kind dao.Kind[R], id string, rec R, check func(R) (R, error)) (dao.Stored[R], error) {
	uuidID, err := uuid.Parse(id)
	if err != nil {
		return dao.Stored[R]{}, serr.New("ID is not valid", serr.ErrBadArgument)
	}
	if strings.TrimSpace(kind.NameOf(rec)) == "" {
		return dao.Stored[R]{}, serr.New("name cannot be blank", serr.ErrBadArgument)
	}

	rec, err = check(rec)
	if err != nil {
		return dao.Stored[R]{}, serr.WrapRecord("", err, serr.ErrBadArgument)
	}

	s, err := repo.Update(ctx, uuidID, rec)
	if err != nil {
		if errors.Is(err, dao.ErrConstraintViolation) {
			return dao.Stored[R]{}, serr.New("a record with that name already exists", serr.ErrAlreadyExists)
		} else if errors.Is(err, dao.ErrNotFound) {
			return dao.Stored[R]{}, serr.ErrNotFound
		}
		return dao.Stored[R]{}, serr.WrapDB("could not update record", err)
	}

	return s, nil
}

func remove[R any](ctx context.Context, repo dao.Repository[R], id string) (dao.Stored[R], error) {
	uuidID, err := uuid.Parse(id)
	if err != nil {
		return dao.Stored[R]{}, serr.New("ID is not valid", serr.ErrBadArgument)
	}

	s, err := repo.Delete(ctx, uuidID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Stored[R]{}, serr.ErrNotFound
		}
		return dao.Stored[R]{}, serr.WrapDB("could not delete record", err)
	}

	return s, nil
}
