package output

import (
	"os"
	"path/filepath"

	"factoriobp.io/internal/protocol"
)

// WriteFileAtomic writes b to a temp file next to path and renames it into
// place, so readers never see a partial file and a failed write leaves any
// existing file untouched.
func WriteFileAtomic(path string, b []byte) error {
	if path == "" {
		return &protocol.IOError{Op: "write", Err: os.ErrInvalid}
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &protocol.IOError{Op: "mkdir", Path: dir, Err: err}
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &protocol.IOError{Op: "write", Path: path, Err: err}
	}
	tmp := f.Name()
	fail := func(op string, err error) error {
		_ = f.Close()
		_ = os.Remove(tmp)
		return &protocol.IOError{Op: op, Path: path, Err: err}
	}
	if _, err := f.Write(b); err != nil {
		return fail("write", err)
	}
	if err := f.Chmod(0o644); err != nil {
		return fail("chmod", err)
	}
	if err := f.Sync(); err != nil {
		return fail("sync", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return &protocol.IOError{Op: "close", Path: path, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return &protocol.IOError{Op: "rename", Path: path, Err: err}
	}
	return nil
}

// ReadFile reads path, reporting failures as IOError.
func ReadFile(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &protocol.IOError{Op: "read", Path: path, Err: err}
	}
	return b, nil
}
