package cas

import (
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/zeebo/blake3"

	"github.com/FocuswithJustin/JuniperScore/core/errors"
	"github.com/FocuswithJustin/JuniperScore/internal/logging"
)

// A fingerprint is the BLAKE3 digest of a score source. Blobs stay
// addressed by SHA-256; each fingerprint gets a small JSON pointer under
// blobs/blake3/<first2>/<fingerprint>.json naming the blob it belongs to.

// HashResult holds both digests of a stored source.
type HashResult struct {
	SHA256 string `json:"sha256"`
	BLAKE3 string `json:"blake3"`
	Size   int64  `json:"size"`
}

type fingerprintPointer struct {
	SHA256 string `json:"sha256"`
	Size   int64  `json:"size"`
}

// Fingerprint returns the BLAKE3 digest of data as lowercase hex.
func Fingerprint(data []byte) string {
	h := blake3.Sum256(data)
	return hex.EncodeToString(h[:])
}

func (s *Store) pointerPath(fp string) string {
	return filepath.Join(s.root, "blobs", "blake3", fp[:2], fp+".json")
}

// StoreWithBlake3 stores data like Store and records its fingerprint. An
// existing pointer is left as is.
func (s *Store) StoreWithBlake3(data []byte) (*HashResult, error) {
	sha, err := s.Store(data)
	if err != nil {
		return nil, err
	}
	res := &HashResult{SHA256: sha, BLAKE3: Fingerprint(data), Size: int64(len(data))}

	path := s.pointerPath(res.BLAKE3)
	if _, err := os.Stat(path); err == nil {
		return res, nil
	}
	ptr, err := json.Marshal(fingerprintPointer{SHA256: sha, Size: res.Size})
	if err != nil {
		return nil, errors.Wrap(err, "create BLAKE3 pointer")
	}
	if err := writeAtomic(filepath.Dir(path), ".pointer-*", path, ptr); err != nil {
		return nil, errors.Wrap(err, "create BLAKE3 pointer")
	}
	logging.StoreEvent("fingerprint_linked", sha, "blake3", res.BLAKE3)
	return res, nil
}

// LookupBlake3 returns the SHA-256 address of the source with the given
// fingerprint. A pointer whose blob has gone missing is reported as not
// found, the same as a missing pointer.
func (s *Store) LookupBlake3(fp string) (string, error) {
	if !isValidHash(fp) {
		return "", errors.NewValidation("hash", "not a BLAKE3 hex string: "+fp)
	}
	path := s.pointerPath(fp)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewNotFound("fingerprint", fp)
		}
		return "", errors.NewIO("read", path, err)
	}

	var ptr fingerprintPointer
	if err := json.Unmarshal(data, &ptr); err != nil {
		return "", &errors.ParseError{Format: "blake3 pointer", Path: path, Message: err.Error(), Err: err}
	}
	if !isValidHash(ptr.SHA256) {
		return "", errors.NewParse("blake3 pointer", path, "bad sha256 "+ptr.SHA256)
	}
	if !s.Exists(ptr.SHA256) {
		logging.StoreEvent("fingerprint_stale", ptr.SHA256, "blake3", fp)
		return "", errors.NewNotFound("blob", ptr.SHA256)
	}
	return ptr.SHA256, nil
}
