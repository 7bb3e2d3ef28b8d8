package blob

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/meena20221515-star/CHECKPOINT-MASTER/internal/utils"
)

// Store is byte-level file storage keyed by a generated storage name.
// The storage name is distinct from the user-supplied original filename:
// it is assigned once at Put time and never reused.
type Store interface {
	// Put writes the bytes under a freshly generated unique name derived
	// from the original name's extension. It never overwrites an existing
	// blob and returns the generated name.
	Put(ctx context.Context, r io.Reader, originalName string) (string, error)

	// Delete removes the blob if present and reports whether a removal
	// happened. A missing blob is not an error.
	Delete(ctx context.Context, storageName string) (bool, error)

	// Resolve maps a storage name to the access path the client uses to
	// fetch the bytes. Pure function, no I/O.
	Resolve(storageName string) string
}

// NewStorageName builds a unique storage name: current unix-millis plus a
// random component, suffixed with the original extension so the file type
// hint survives.
func NewStorageName(originalName string) string {
	return fmt.Sprintf("%d-%d%s", time.Now().UnixMilli(), rand.IntN(1_000_000_000), utils.SafeExt(originalName))
}
