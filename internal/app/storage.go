package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

// storageChunk is the read size used when dumping the card file.
const storageChunk = 32

// RunStorageDump logs the contents of name on the removable storage mounted
// at mount. It runs once and does not interact with the other tasks.
func RunStorageDump(ctx context.Context, mount, name string) error {
	path := filepath.Join(mount, name)
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("storage: open %s: %w", path, err)
	}
	defer f.Close()

	log.Printf("storage: dumping %s", path)
	n, err := dumpFile(ctx, f, func(chunk []byte) {
		log.Printf("storage: %q", chunk)
	})
	if err != nil {
		return fmt.Errorf("storage: read %s: %w", path, err)
	}
	log.Printf("storage: %s done, %d bytes", path, n)
	return nil
}

// dumpFile passes r to emit in chunks of at most storageChunk bytes and
// returns the byte count. The chunk is only valid during the call.
func dumpFile(ctx context.Context, r io.Reader, emit func([]byte)) (int64, error) {
	buf := make([]byte, storageChunk)
	var total int64
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		n, err := r.Read(buf)
		if n > 0 {
			emit(buf[:n])
			total += int64(n)
		}
		if errors.Is(err, io.EOF) {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}
