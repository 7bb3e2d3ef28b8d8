package repo

import (
	"context"
	"encoding/json"
	"fmt"

	dom "github.com/meena20221515-star/CHECKPOINT-MASTER/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CheckpointRepo provides checkpoint persistence.
type CheckpointRepo interface {
	Create(ctx context.Context, c dom.Checkpoint) (dom.Checkpoint, error)
	GetByID(ctx context.Context, id string) (dom.Checkpoint, error)
	List(ctx context.Context) ([]dom.Checkpoint, error)
	// Update replaces the four mutable fields (name, todos, date, files)
	// wholesale. CreatedAt is never touched after Create.
	Update(ctx context.Context, id string, c dom.Checkpoint) (dom.Checkpoint, error)
	Delete(ctx context.Context, id string) error
}

// PGCheckpointRepo implements CheckpointRepo with Postgres. The files list is
// stored as jsonb, todos as text[].
type PGCheckpointRepo struct {
	db *pgxpool.Pool
}

// NewPGCheckpointRepo returns a new PGCheckpointRepo.
func NewPGCheckpointRepo(db *pgxpool.Pool) *PGCheckpointRepo {
	return &PGCheckpointRepo{db: db}
}

func (r *PGCheckpointRepo) Create(ctx context.Context, c dom.Checkpoint) (dom.Checkpoint, error) {
	filesJSON, err := marshalFiles(c.Files)
	if err != nil {
		return dom.Checkpoint{}, err
	}
	query := `
		INSERT INTO checkpoints (id, name, todos, date, files)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, todos, date, files, created_at`
	return scanCheckpoint(r.db.QueryRow(ctx, query, uuid.NewString(), c.Name, c.Todos, c.Date, filesJSON))
}

func (r *PGCheckpointRepo) GetByID(ctx context.Context, id string) (dom.Checkpoint, error) {
	query := `
		SELECT id, name, todos, date, files, created_at
		FROM checkpoints WHERE id = $1`
	return scanCheckpoint(r.db.QueryRow(ctx, query, id))
}

func (r *PGCheckpointRepo) List(ctx context.Context) ([]dom.Checkpoint, error) {
	query := `
		SELECT id, name, todos, date, files, created_at
		FROM checkpoints ORDER BY created_at ASC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Checkpoint
	for rows.Next() {
		c, err := scanCheckpoint(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *PGCheckpointRepo) Update(ctx context.Context, id string, c dom.Checkpoint) (dom.Checkpoint, error) {
	filesJSON, err := marshalFiles(c.Files)
	if err != nil {
		return dom.Checkpoint{}, err
	}
	query := `
		UPDATE checkpoints SET name = $2, todos = $3, date = $4, files = $5
		WHERE id = $1
		RETURNING id, name, todos, date, files, created_at`
	return scanCheckpoint(r.db.QueryRow(ctx, query, id, c.Name, c.Todos, c.Date, filesJSON))
}

func (r *PGCheckpointRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM checkpoints WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func marshalFiles(files []dom.Attachment) ([]byte, error) {
	if files == nil {
		files = []dom.Attachment{}
	}
	b, err := json.Marshal(files)
	if err != nil {
		return nil, fmt.Errorf("marshal files: %w", err)
	}
	return b, nil
}

func scanCheckpoint(row pgx.Row) (dom.Checkpoint, error) {
	var c dom.Checkpoint
	var filesJSON []byte
	if err := row.Scan(&c.ID, &c.Name, &c.Todos, &c.Date, &filesJSON, &c.CreatedAt); err != nil {
		return dom.Checkpoint{}, err
	}
	if err := json.Unmarshal(filesJSON, &c.Files); err != nil {
		return dom.Checkpoint{}, fmt.Errorf("unmarshal files: %w", err)
	}
	return c, nil
}
