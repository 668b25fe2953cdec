package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gotest.tools/assert"
)

func TestDumpFileChunks(t *testing.T) {
	data := strings.Repeat("0123456789", 7) // 70 bytes
	var chunks []string
	n, err := dumpFile(context.Background(), strings.NewReader(data), func(b []byte) {
		chunks = append(chunks, string(b))
	})
	assert.NilError(t, err)
	assert.Equal(t, n, int64(70))
	assert.Equal(t, len(chunks), 3)
	assert.Equal(t, len(chunks[0]), 32)
	assert.Equal(t, len(chunks[2]), 6)
	assert.Equal(t, strings.Join(chunks, ""), data)
}

func TestDumpFileCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := dumpFile(ctx, strings.NewReader("abc"), func([]byte) {
		t.Fatal("nothing should be emitted")
	})
	assert.Equal(t, err, context.Canceled)
}

func TestRunStorageDump(t *testing.T) {
	dir := t.TempDir()
	assert.NilError(t, os.WriteFile(filepath.Join(dir, "TEST.TXT"), []byte("hello card\n"), 0o644))

	assert.NilError(t, RunStorageDump(context.Background(), dir, "TEST.TXT"))
	assert.ErrorContains(t, RunStorageDump(context.Background(), dir, "MISSING.TXT"), "storage: open")
}
