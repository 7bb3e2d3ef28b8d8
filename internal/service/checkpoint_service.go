package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	dom "github.com/meena20221515-star/CHECKPOINT-MASTER/internal/domain"
	"github.com/meena20221515-star/CHECKPOINT-MASTER/internal/repo"
	"github.com/meena20221515-star/CHECKPOINT-MASTER/internal/utils"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/singleflight"

	"github.com/meena20221515-star/CHECKPOINT-MASTER/internal/blob"
	"github.com/meena20221515-star/CHECKPOINT-MASTER/internal/cache"
)

var (
	ErrNotFound   = errors.New("checkpoint not found")
	ErrValidation = errors.New("invalid checkpoint")
)

func validationErr(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

// CheckpointService orchestrates the repository and the blob store: it
// validates input, ties uploaded attachments to records, and performs the
// blob-removal side effects when files or whole records are deleted.
type CheckpointService struct {
	repo  repo.CheckpointRepo
	blobs blob.Store
	cache *cache.CheckpointCache
	sf    singleflight.Group
}

// NewCheckpointService creates a CheckpointService. If c is nil, caching is disabled.
func NewCheckpointService(r repo.CheckpointRepo, blobs blob.Store, c *cache.CheckpointCache) *CheckpointService {
	return &CheckpointService{repo: r, blobs: blobs, cache: c}
}

// Create persists a new checkpoint with the given uploaded attachments.
// The blobs are already written by the upload pipeline; a crash between that
// write and this insert leaves orphan blobs with no owning record. There is
// no two-phase commit and no reconciliation sweep.
func (s *CheckpointService) Create(ctx context.Context, name string, todos []string, date time.Time, files []dom.Attachment) (dom.Checkpoint, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return dom.Checkpoint{}, validationErr("name is required")
	}
	if len(todos) == 0 {
		return dom.Checkpoint{}, validationErr("at least one todo is required")
	}
	if date.IsZero() {
		return dom.Checkpoint{}, validationErr("date is required")
	}
	if files == nil {
		files = []dom.Attachment{}
	}

	c, err := s.repo.Create(ctx, dom.Checkpoint{
		Name:  name,
		Todos: todos,
		Date:  date,
		Files: files,
	})
	if err != nil {
		return dom.Checkpoint{}, err
	}
	s.invalidateCache(ctx)
	return c, nil
}

// List returns the full collection; ordering and search are client concerns.
func (s *CheckpointService) List(ctx context.Context) ([]dom.Checkpoint, error) {
	if s.cache != nil {
		v, err, _ := s.sf.Do("list", func() (interface{}, error) {
			if list, err := s.cache.GetList(ctx); err == nil && list != nil {
				return list, nil
			}
			list, err := s.repo.List(ctx)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetList(ctx, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.Checkpoint), nil
	}
	return s.repo.List(ctx)
}

func (s *CheckpointService) GetByID(ctx context.Context, id string) (dom.Checkpoint, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Checkpoint{}, ErrNotFound
		}
		return dom.Checkpoint{}, err
	}
	return c, nil
}

// Update replaces the four mutable fields wholesale. It never deletes blobs
// for attachments dropped from the files list: callers that want the bytes
// gone must call RemoveFile first. CreatedAt is untouched, which is what
// keeps the display order stable across edits.
func (s *CheckpointService) Update(ctx context.Context, id, name string, todos []string, date time.Time, files []dom.Attachment) (dom.Checkpoint, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return dom.Checkpoint{}, validationErr("name is required")
	}
	if len(todos) == 0 {
		return dom.Checkpoint{}, validationErr("at least one todo is required")
	}
	if date.IsZero() {
		return dom.Checkpoint{}, validationErr("date is required")
	}
	if files == nil {
		files = []dom.Attachment{}
	}

	c, err := s.repo.Update(ctx, id, dom.Checkpoint{
		Name:  name,
		Todos: todos,
		Date:  date,
		Files: files,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Checkpoint{}, ErrNotFound
		}
		return dom.Checkpoint{}, err
	}
	s.invalidateCache(ctx)
	return c, nil
}

// Delete removes the record and every owned attachment's blob. Blob deletion
// is best-effort: a blob that is already gone, or fails to delete, never
// blocks removal of the record.
func (s *CheckpointService) Delete(ctx context.Context, id string) error {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	for _, f := range c.Files {
		if f.StorageName == "" {
			continue
		}
		if _, err := s.blobs.Delete(ctx, f.StorageName); err != nil {
			log.Printf("checkpoint %s: delete blob %s: %v", id, f.StorageName, err)
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

// RemoveFile deletes the blob behind accessPath (idempotent: already-gone is
// fine) and, when checkpointID is given, pulls the matching attachment from
// that record's files. An empty checkpointID is the staged-but-never-saved
// case: only the blob goes. A checkpointID that matches no record is a
// silent no-op, like a pull from a missing document.
func (s *CheckpointService) RemoveFile(ctx context.Context, checkpointID, accessPath string) (dom.Checkpoint, error) {
	accessPath = strings.TrimSpace(accessPath)
	if accessPath == "" {
		return dom.Checkpoint{}, validationErr("accessPath is required")
	}

	storageName := utils.StorageNameFromAccessPath(accessPath)
	if _, err := s.blobs.Delete(ctx, storageName); err != nil {
		return dom.Checkpoint{}, err
	}

	if checkpointID == "" {
		return dom.Checkpoint{}, nil
	}

	c, err := s.repo.GetByID(ctx, checkpointID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Checkpoint{}, nil
		}
		return dom.Checkpoint{}, err
	}

	kept := c.Files[:0:0]
	for _, f := range c.Files {
		if f.AccessPath != accessPath {
			kept = append(kept, f)
		}
	}
	c.Files = kept

	updated, err := s.repo.Update(ctx, checkpointID, c)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Checkpoint{}, nil
		}
		return dom.Checkpoint{}, err
	}
	s.invalidateCache(ctx)
	return updated, nil
}

// AddFiles appends attachments to an existing checkpoint. Purely additive,
// never removes anything.
func (s *CheckpointService) AddFiles(ctx context.Context, id string, files []dom.Attachment) (dom.Checkpoint, error) {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return dom.Checkpoint{}, err
	}
	if len(files) == 0 {
		return c, nil
	}
	c.Files = append(c.Files, files...)

	updated, err := s.repo.Update(ctx, id, c)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Checkpoint{}, ErrNotFound
		}
		return dom.Checkpoint{}, err
	}
	s.invalidateCache(ctx)
	return updated, nil
}

func (s *CheckpointService) invalidateCache(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx)
	}
}
