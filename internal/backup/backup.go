// Package backup keeps a zstd-compressed copy of an image next to it before
// it is overwritten.
package backup

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
)

// Suffix is appended to the image path to name its backup.
const Suffix = ".bak.zst"

// ErrNoBackup is returned by Restore when no backup exists.
var ErrNoBackup = errors.New("backup: no backup found")

// Path returns the backup location for path.
func Path(path string) string { return path + Suffix }

// Write compresses the current content of path into its backup file,
// replacing an older backup. A missing source is not an error.
func Write(path string) (string, error) {
	src, err := os.Open(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("error opening %s: %w", path, err)
	}
	defer src.Close()

	dstPath := Path(path)
	tmp := dstPath + ".tmp"
	dst, err := os.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("error creating backup: %w", err)
	}

	if err := compress(dst, src); err != nil {
		dst.Close()
		os.Remove(tmp)
		return "", err
	}
	if err := dst.Close(); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("error closing backup: %w", err)
	}
	if err := os.Rename(tmp, dstPath); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("error replacing backup: %w", err)
	}
	return dstPath, nil
}

func compress(w io.Writer, r io.Reader) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return fmt.Errorf("error creating compressor: %w", err)
	}
	if _, err := io.Copy(enc, r); err != nil {
		enc.Close()
		return fmt.Errorf("error compressing backup: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("error compressing backup: %w", err)
	}
	return nil
}

// Read returns the decompressed backup of path.
func Read(path string) ([]byte, error) {
	f, err := os.Open(Path(path))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w for %s", ErrNoBackup, path)
	}
	if err != nil {
		return nil, fmt.Errorf("error opening backup: %w", err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("error creating decompressor: %w", err)
	}
	defer dec.Close()

	data, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("error decompressing backup: %w", err)
	}
	return data, nil
}

// Restore overwrites path with its backup.
func Restore(path string) error {
	data, err := Read(path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error restoring %s: %w", path, err)
	}
	return nil
}
