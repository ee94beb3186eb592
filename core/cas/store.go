// Package cas provides content-addressed storage for score source files.
// All blobs are stored by the SHA-256 hash of their uncompressed content,
// ensuring deduplication and enabling verification of content integrity.
// Blobs may be kept xz compressed on disk; callers always see the
// original bytes.
package cas

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/JuniperScore/core/errors"
	"github.com/FocuswithJustin/JuniperScore/internal/logging"
)

// osRename is a variable to allow testing of rename errors.
var osRename = os.Rename

// tempFileWrite is a function variable for writing to temp files (for testing).
var tempFileWrite = func(f *os.File, data []byte) (int, error) {
	return f.Write(data)
}

// tempFileClose is a function variable for closing temp files (for testing).
var tempFileClose = func(f io.Closer) error {
	return f.Close()
}

// sha256Pattern matches a valid lowercase SHA-256 hex string (64 characters).
var sha256Pattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

const compressedExt = ".xz"

// Options configures a store.
type Options struct {
	// Compress writes new blobs xz compressed.
	Compress bool
	// ReadOnly rejects every write.
	ReadOnly bool
}

// Store provides content-addressed storage for blobs using SHA-256 hashing.
type Store struct {
	root string
	opts Options
}

// NewStore creates a new content-addressed store at the given root directory.
// The directory structure will be created if it doesn't exist.
func NewStore(root string, opts Options) (*Store, error) {
	blobDir := filepath.Join(root, "blobs", "sha256")
	if !opts.ReadOnly {
		if err := os.MkdirAll(blobDir, 0755); err != nil {
			return nil, errors.NewIO("create blob directory", blobDir, err)
		}
	}
	return &Store{root: root, opts: opts}, nil
}

// Root returns the store root directory.
func (s *Store) Root() string { return s.root }

// Store stores the given data and returns its SHA-256 hash.
// If the blob already exists (same hash), this is a no-op and returns the hash.
func (s *Store) Store(data []byte) (string, error) {
	hash := Hash(data)
	if s.opts.ReadOnly {
		return "", errors.NewReadOnly("store", "blob "+hash)
	}

	if s.Exists(hash) {
		logging.StoreEvent("blob_deduplicated", hash)
		return hash, nil
	}

	blobPath := s.pathForHash(hash)
	payload := data
	if s.opts.Compress {
		compressed, err := compress(data)
		if err != nil {
			return "", errors.Wrap(err, "compress blob")
		}
		payload = compressed
		blobPath += compressedExt
	}

	if err := writeAtomic(filepath.Dir(blobPath), ".blob-*", blobPath, payload); err != nil {
		return "", err
	}

	logging.StoreEvent("blob_stored", hash, "bytes", len(data), "compressed", s.opts.Compress)
	return hash, nil
}

// writeAtomic writes data to a temp file in dir and renames it to path.
func writeAtomic(dir, pattern, path string, data []byte) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.NewIO("create directory", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return errors.NewIO("create temp file", dir, err)
	}
	tempPath := tempFile.Name()

	if _, err := tempFileWrite(tempFile, data); err != nil {
		tempFileClose(tempFile)
		os.Remove(tempPath)
		return errors.NewIO("write", tempPath, err)
	}

	if err := tempFileClose(tempFile); err != nil {
		os.Remove(tempPath)
		return errors.NewIO("close", tempPath, err)
	}

	// Rename to final path (atomic on POSIX)
	if err := osRename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return errors.NewIO("rename", path, err)
	}
	return nil
}

// Retrieve retrieves the blob with the given SHA-256 hash.
// Returns a *errors.NotFoundError if the blob does not exist and a
// *errors.ValidationError if the hash format is invalid.
func (s *Store) Retrieve(hash string) ([]byte, error) {
	if !isValidHash(hash) {
		return nil, errors.NewValidation("hash", "not a SHA-256 hex string: "+hash)
	}

	blobPath := s.pathForHash(hash)
	data, err := os.ReadFile(blobPath)
	if os.IsNotExist(err) {
		blobPath += compressedExt
		data, err = os.ReadFile(blobPath)
		if err == nil {
			data, err = decompress(data)
			if err != nil {
				return nil, errors.Wrapf(err, "decompress blob %s", hash)
			}
		}
	}
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFound("blob", hash)
		}
		return nil, errors.NewIO("read", blobPath, err)
	}

	if Hash(data) != hash {
		return nil, errors.NewValidation("blob "+hash, "content does not match its hash")
	}
	return data, nil
}

// Exists checks if a blob with the given hash exists in the store.
func (s *Store) Exists(hash string) bool {
	if !isValidHash(hash) {
		return false
	}
	blobPath := s.pathForHash(hash)
	if _, err := os.Stat(blobPath); err == nil {
		return true
	}
	_, err := os.Stat(blobPath + compressedExt)
	return err == nil
}

// pathForHash returns the file path for a blob with the given hash.
// Blobs are stored at: <root>/blobs/sha256/<first2>/<hash>[.xz]
func (s *Store) pathForHash(hash string) string {
	prefix := hash[:2]
	return filepath.Join(s.root, "blobs", "sha256", prefix, hash)
}

// isValidHash checks if a hash string is a valid SHA-256 hex string.
func isValidHash(hash string) bool {
	return sha256Pattern.MatchString(hash)
}

// Hash computes the SHA-256 hash of the given data without storing it.
func Hash(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompress(data []byte) ([]byte, error) {
	r, err := xz.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}
