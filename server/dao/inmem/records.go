package inmem

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dekarrin/flwarrior/internal/util"
	"github.com/dekarrin/flwarrior/server/dao"
	"github.com/google/uuid"
)

func NewRecordsRepository[R any](kind dao.Kind[R]) *RecordsRepository[R] {
	return &RecordsRepository[R]{
		kind:        kind,
		records:     make(map[uuid.UUID]dao.Stored[R]),
		byNameIndex: make(map[string]uuid.UUID),
	}
}

// RecordsRepository keeps records of one kind. It is safe for concurrent use.
type RecordsRepository[R any] struct {
	kind dao.Kind[R]

	mtx         sync.RWMutex
	records     map[uuid.UUID]dao.Stored[R]
	byNameIndex map[string]uuid.UUID
}

func (imr *RecordsRepository[R]) Close() error {
	return nil
}

// nameKey is the key of the name index. Names are compared without regard to
// case.
func (imr *RecordsRepository[R]) nameKey(rec R) string {
	return strings.ToLower(imr.kind.NameOf(rec))
}

func (imr *RecordsRepository[R]) Create(ctx context.Context, rec R) (dao.Stored[R], error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Stored[R]{}, fmt.Errorf("could not generate ID: %w", err)
	}

	imr.mtx.Lock()
	defer imr.mtx.Unlock()

	name := imr.nameKey(rec)
	if _, ok := imr.byNameIndex[name]; ok {
		return dao.Stored[R]{}, dao.ErrConstraintViolation
	}

	now := time.Now()
	imr.kind.SetID(&rec, newUUID.String())

	s := dao.Stored[R]{
		ID:       newUUID,
		Record:   rec,
		Created:  now,
		Modified: now,
	}

	imr.records[s.ID] = s
	imr.byNameIndex[name] = s.ID

	return s, nil
}

func (imr *RecordsRepository[R]) GetAll(ctx context.Context) ([]dao.Stored[R], error) {
	imr.mtx.RLock()
	defer imr.mtx.RUnlock()

	all := make([]dao.Stored[R], 0, len(imr.records))
	for k := range imr.records {
		all = append(all, imr.records[k])
	}

	all = util.SortBy(all, func(l, r dao.Stored[R]) bool {
		return l.ID.String() < r.ID.String()
	})

	return all, nil
}

func (imr *RecordsRepository[R]) Update(ctx context.Context, id uuid.UUID, rec R) (dao.Stored[R], error) {
	imr.mtx.Lock()
	defer imr.mtx.Unlock()

	existing, ok := imr.records[id]
	if !ok {
		return dao.Stored[R]{}, dao.ErrNotFound
	}

	oldName := imr.nameKey(existing.Record)
	newName := imr.nameKey(rec)
	if newName != oldName {
		if _, ok := imr.byNameIndex[newName]; ok {
			return dao.Stored[R]{}, dao.ErrConstraintViolation
		}
	}

	imr.kind.SetID(&rec, id.String())
	existing.Record = rec
	existing.Modified = time.Now()

	imr.records[id] = existing
	if newName != oldName {
		delete(imr.byNameIndex, oldName)
		imr.byNameIndex[newName] = id
	}

	return existing, nil
}

func (imr *RecordsRepository[R]) GetByID(ctx context.Context, id uuid.UUID) (dao.Stored[R], error) {
	imr.mtx.RLock()
	defer imr.mtx.RUnlock()

	s, ok := imr.records[id]
	if !ok {
		return dao.Stored[R]{}, dao.ErrNotFound
	}

	return s, nil
}

func (imr *RecordsRepository[R]) Delete(ctx context.Context, id uuid.UUID) (dao.Stored[R], error) {
	imr.mtx.Lock()
	defer imr.mtx.Unlock()

	s, ok := imr.records[id]
	if !ok {
		return dao.Stored[R]{}, dao.ErrNotFound
	}

	delete(imr.byNameIndex, imr.nameKey(s.Record))
	delete(imr.records, id)

	return s, nil
}
