package upload

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	dom "github.com/meena20221515-star/CHECKPOINT-MASTER/internal/domain"

	"github.com/meena20221515-star/CHECKPOINT-MASTER/internal/blob"
)

// MaxFileSize caps a single uploaded file at 10 MiB.
const MaxFileSize = 10 << 20

var (
	ErrNoFile       = errors.New("no file uploaded")
	ErrFileTooLarge = errors.New("file exceeds the 10 MiB limit")
)

// Pipeline turns incoming multipart file parts into stored blobs plus
// attachment metadata.
type Pipeline struct {
	store blob.Store
}

// NewPipeline returns a Pipeline writing to the given store.
func NewPipeline(store blob.Store) *Pipeline {
	return &Pipeline{store: store}
}

// Process stores a batch of files and returns their attachments in arrival
// order. An oversized file fails the whole batch; files stored before the
// failing one stay in the blob store (best-effort boundary, same as the
// transport writing ahead of the limit check).
func (p *Pipeline) Process(ctx context.Context, files []*multipart.FileHeader) ([]dom.Attachment, error) {
	atts := make([]dom.Attachment, 0, len(files))
	for _, fh := range files {
		att, err := p.ProcessOne(ctx, fh)
		if err != nil {
			return nil, err
		}
		atts = append(atts, att)
	}
	return atts, nil
}

// ProcessOne stores a single file and returns its attachment.
func (p *Pipeline) ProcessOne(ctx context.Context, fh *multipart.FileHeader) (dom.Attachment, error) {
	if fh == nil {
		return dom.Attachment{}, ErrNoFile
	}
	if fh.Size > MaxFileSize {
		return dom.Attachment{}, fmt.Errorf("%s: %w", fh.Filename, ErrFileTooLarge)
	}
	f, err := fh.Open()
	if err != nil {
		return dom.Attachment{}, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	name, err := p.store.Put(ctx, f, fh.Filename)
	if err != nil {
		return dom.Attachment{}, fmt.Errorf("store %s: %w", fh.Filename, err)
	}
	return dom.Attachment{
		StorageName:  name,
		OriginalName: fh.Filename,
		Size:         fh.Size,
		AccessPath:   p.store.Resolve(name),
		UploadDate:   time.Now().UTC(),
	}, nil
}
