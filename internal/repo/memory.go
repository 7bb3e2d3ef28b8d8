package repo

import (
	"context"
	"sync"
	"time"

	dom "github.com/meena20221515-star/CHECKPOINT-MASTER/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// MemCheckpointRepo is an in-memory CheckpointRepo for tests. It mimics the
// Postgres implementation's contract, including pgx.ErrNoRows on misses and
// created_at ordering in List.
type MemCheckpointRepo struct {
	mu    sync.Mutex
	byID  map[string]dom.Checkpoint
	order []string
}

// NewMemCheckpointRepo returns an empty in-memory repo.
func NewMemCheckpointRepo() *MemCheckpointRepo {
	return &MemCheckpointRepo{byID: make(map[string]dom.Checkpoint)}
}

func (r *MemCheckpointRepo) Create(ctx context.Context, c dom.Checkpoint) (dom.Checkpoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = uuid.NewString()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	if c.Files == nil {
		c.Files = []dom.Attachment{}
	}
	r.byID[c.ID] = c
	r.order = append(r.order, c.ID)
	return c, nil
}

func (r *MemCheckpointRepo) GetByID(ctx context.Context, id string) (dom.Checkpoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return dom.Checkpoint{}, pgx.ErrNoRows
	}
	return c, nil
}

func (r *MemCheckpointRepo) List(ctx context.Context) ([]dom.Checkpoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]dom.Checkpoint, 0, len(r.order))
	for _, id := range r.order {
		list = append(list, r.byID[id])
	}
	return list, nil
}

func (r *MemCheckpointRepo) Update(ctx context.Context, id string, c dom.Checkpoint) (dom.Checkpoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[id]
	if !ok {
		return dom.Checkpoint{}, pgx.ErrNoRows
	}
	existing.Name = c.Name
	existing.Todos = c.Todos
	existing.Date = c.Date
	existing.Files = c.Files
	if existing.Files == nil {
		existing.Files = []dom.Attachment{}
	}
	r.byID[id] = existing
	return existing, nil
}

func (r *MemCheckpointRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.byID, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
