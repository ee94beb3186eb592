package cas

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/FocuswithJustin/JuniperScore/core/errors"
)

const sonata = `(score (vers 2.0) (instrument (musicData (clef G) (n c4 q) (barline end))))`

func newTestStore(t *testing.T, opts Options) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir(), opts)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store
}

// TestStoreAndRetrieve tests that storing a blob returns the correct hash
// and that retrieving by hash returns the exact same bytes.
func TestStoreAndRetrieve(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"plain", Options{}},
		{"compressed", Options{Compress: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t, tt.opts)
			data := []byte(sonata)

			h := sha256.Sum256(data)
			expectedHash := hex.EncodeToString(h[:])

			hash, err := store.Store(data)
			if err != nil {
				t.Fatalf("failed to store blob: %v", err)
			}
			if hash != expectedHash {
				t.Errorf("hash mismatch: got %s, want %s", hash, expectedHash)
			}

			retrieved, err := store.Retrieve(hash)
			if err != nil {
				t.Fatalf("failed to retrieve blob: %v", err)
			}
			if !bytes.Equal(retrieved, data) {
				t.Errorf("retrieved data mismatch: got %q, want %q", retrieved, data)
			}
		})
	}
}

// TestStoreCompressedOnDisk tests that compressed blobs are not kept as
// plain text.
func TestStoreCompressedOnDisk(t *testing.T) {
	store := newTestStore(t, Options{Compress: true})
	data := []byte(strings.Repeat(sonata, 50))

	hash, err := store.Store(data)
	if err != nil {
		t.Fatalf("failed to store blob: %v", err)
	}

	path := store.pathForHash(hash)
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("uncompressed blob should not exist at %s", path)
	}
	raw, err := os.ReadFile(path + compressedExt)
	if err != nil {
		t.Fatalf("compressed blob missing: %v", err)
	}
	if len(raw) >= len(data) {
		t.Errorf("compressed size %d should be smaller than %d", len(raw), len(data))
	}
	if !store.Exists(hash) {
		t.Error("Exists() should see compressed blobs")
	}
}

// TestStoreDuplicate tests that storing the same content twice returns the same hash
// and doesn't create duplicate files.
func TestStoreDuplicate(t *testing.T) {
	store := newTestStore(t, Options{})
	data := []byte("Duplicate content test")

	hash1, err := store.Store(data)
	if err != nil {
		t.Fatalf("first store failed: %v", err)
	}
	hash2, err := store.Store(data)
	if err != nil {
		t.Fatalf("second store failed: %v", err)
	}
	if hash1 != hash2 {
		t.Errorf("duplicate content produced different hashes: %s vs %s", hash1, hash2)
	}

	entries, err := os.ReadDir(filepath.Dir(store.pathForHash(hash1)))
	if err != nil {
		t.Fatalf("failed to read blob dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 blob file, found %d", len(entries))
	}
}

// TestStoreReadOnly tests that a read-only store refuses writes but still
// serves existing blobs.
func TestStoreReadOnly(t *testing.T) {
	root := t.TempDir()
	rw, err := NewStore(root, Options{})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	hash, err := rw.Store([]byte(sonata))
	if err != nil {
		t.Fatalf("failed to store blob: %v", err)
	}

	ro, err := NewStore(root, Options{ReadOnly: true})
	if err != nil {
		t.Fatalf("failed to open read-only store: %v", err)
	}
	_, err = ro.Store([]byte("new content"))
	var roErr *errors.ReadOnlyError
	if !stderrors.As(err, &roErr) {
		t.Fatalf("expected ReadOnlyError, got %v", err)
	}
	if !stderrors.Is(err, errors.ErrReadOnly) {
		t.Error("error should wrap ErrReadOnly")
	}
	if _, err := ro.StoreWithBlake3([]byte("new content")); err == nil {
		t.Error("StoreWithBlake3 should fail on a read-only store")
	}

	data, err := ro.Retrieve(hash)
	if err != nil || string(data) != sonata {
		t.Errorf("Retrieve() = %q, %v", data, err)
	}
}

// TestRetrieveErrors tests the typed errors returned by Retrieve.
func TestRetrieveErrors(t *testing.T) {
	store := newTestStore(t, Options{})

	tests := []struct {
		name   string
		hash   string
		target error
	}{
		{"missing", strings.Repeat("a", 64), errors.ErrNotFound},
		{"empty", "", errors.ErrInvalidInput},
		{"short", "abc123", errors.ErrInvalidInput},
		{"uppercase", strings.Repeat("A", 64), errors.ErrInvalidInput},
		{"non hex", strings.Repeat("g", 64), errors.ErrInvalidInput},
		{"traversal", "../../../etc/passwd", errors.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Retrieve(tt.hash)
			if !stderrors.Is(err, tt.target) {
				t.Errorf("Retrieve(%q) error = %v, want %v", tt.hash, err, tt.target)
			}
		})
	}
}

// TestRetrieveCorrupted tests that a blob whose content no longer matches
// its hash is rejected.
func TestRetrieveCorrupted(t *testing.T) {
	store := newTestStore(t, Options{})
	hash, err := store.Store([]byte(sonata))
	if err != nil {
		t.Fatalf("failed to store blob: %v", err)
	}
	if err := os.WriteFile(store.pathForHash(hash), []byte("tampered"), 0644); err != nil {
		t.Fatalf("failed to tamper blob: %v", err)
	}

	var valErr *errors.ValidationError
	if _, err := store.Retrieve(hash); !stderrors.As(err, &valErr) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

// TestRetrieveBadCompression tests that a damaged xz blob is reported.
func TestRetrieveBadCompression(t *testing.T) {
	store := newTestStore(t, Options{})
	hash := Hash([]byte(sonata))
	path := store.pathForHash(hash) + compressedExt
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not xz"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := store.Retrieve(hash)
	if err == nil || !strings.Contains(err.Error(), "decompress") {
		t.Errorf("expected decompress error, got %v", err)
	}
}

// TestStoreEmpty tests that storing empty data works correctly.
func TestStoreEmpty(t *testing.T) {
	store := newTestStore(t, Options{Compress: true})

	hash, err := store.Store([]byte{})
	if err != nil {
		t.Fatalf("failed to store empty blob: %v", err)
	}
	expectedHash := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if hash != expectedHash {
		t.Errorf("empty hash mismatch: got %s, want %s", hash, expectedHash)
	}

	retrieved, err := store.Retrieve(hash)
	if err != nil {
		t.Fatalf("failed to retrieve empty blob: %v", err)
	}
	if len(retrieved) != 0 {
		t.Errorf("expected empty data, got %d bytes", len(retrieved))
	}
}

// TestBlobPath tests that blobs are stored in the expected directory structure.
func TestBlobPath(t *testing.T) {
	root := t.TempDir()
	store, err := NewStore(root, Options{})
	if err != nil {
		t.Fatal(err)
	}

	hash, err := store.Store([]byte("Path test content"))
	if err != nil {
		t.Fatalf("failed to store blob: %v", err)
	}

	expectedPath := filepath.Join(root, "blobs", "sha256", hash[:2], hash)
	if _, err := os.Stat(expectedPath); os.IsNotExist(err) {
		t.Errorf("blob not found at expected path: %s", expectedPath)
	}
	if store.Root() != root {
		t.Errorf("Root() = %s, want %s", store.Root(), root)
	}
}

// TestExists tests the Exists method.
func TestExists(t *testing.T) {
	store := newTestStore(t, Options{})
	data := []byte("Exists test")

	if store.Exists(Hash(data)) {
		t.Error("Exists returned true before storing")
	}
	hash, err := store.Store(data)
	if err != nil {
		t.Fatalf("failed to store blob: %v", err)
	}
	if !store.Exists(hash) {
		t.Error("Exists returned false after storing")
	}
	for _, bad := range []string{"", "abc", "../../../etc/passwd"} {
		if store.Exists(bad) {
			t.Errorf("Exists(%q) should be false", bad)
		}
	}
}

// TestNewStoreMkdirError tests NewStore when the root cannot be created.
func TestNewStoreMkdirError(t *testing.T) {
	tempDir := t.TempDir()
	file := filepath.Join(tempDir, "file")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := NewStore(filepath.Join(file, "store"), Options{})
	var ioErr *errors.IOError
	if !stderrors.As(err, &ioErr) {
		t.Errorf("expected IOError, got %v", err)
	}

	// A read-only store never creates directories.
	if _, err := NewStore(filepath.Join(file, "store"), Options{ReadOnly: true}); err != nil {
		t.Errorf("read-only NewStore() error = %v", err)
	}
}

// TestStoreWriteErrors tests the error paths of the atomic write.
func TestStoreWriteErrors(t *testing.T) {
	injected := stderrors.New("injected")

	tests := []struct {
		name  string
		setup func()
	}{
		{"write", func() {
			tempFileWrite = func(*os.File, []byte) (int, error) { return 0, injected }
		}},
		{"close", func() {
			tempFileClose = func(f io.Closer) error {
				f.Close()
				return injected
			}
		}},
		{"rename", func() {
			osRename = func(string, string) error { return injected }
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			origWrite, origClose, origRename := tempFileWrite, tempFileClose, osRename
			defer func() {
				tempFileWrite, tempFileClose, osRename = origWrite, origClose, origRename
			}()
			tt.setup()

			store := newTestStore(t, Options{})
			hash, err := store.Store([]byte(sonata))
			if !stderrors.Is(err, injected) {
				t.Fatalf("Store() error = %v, want injected", err)
			}
			if !strings.Contains(err.Error(), tt.name) {
				t.Errorf("error %q should name the %s step", err, tt.name)
			}
			if hash != "" || store.Exists(Hash([]byte(sonata))) {
				t.Error("failed store must not leave a blob")
			}

			entries, _ := os.ReadDir(filepath.Dir(store.pathForHash(Hash([]byte(sonata)))))
			for _, e := range entries {
				if strings.HasPrefix(e.Name(), ".blob-") {
					t.Errorf("temp file %s left behind", e.Name())
				}
			}
		})
	}
}

// TestStorePrefixDirError tests Store when the prefix directory cannot
// be created.
func TestStorePrefixDirError(t *testing.T) {
	store := newTestStore(t, Options{})
	data := []byte(sonata)
	prefixDir := filepath.Dir(store.pathForHash(Hash(data)))
	if err := os.WriteFile(prefixDir, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := store.Store(data)
	var ioErr *errors.IOError
	if !stderrors.As(err, &ioErr) || ioErr.Operation != "create directory" {
		t.Errorf("expected create directory IOError, got %v", err)
	}
}
