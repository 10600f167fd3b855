package sp3

import (
	"fmt"
	"os"
	"strings"

	"github.com/mholt/archiver/v3"
)

// OpenGzip opens path, transparently decompressing it first if it
// carries a ".gz" suffix, and decodes it as an SP3 record.
func OpenGzip(path string) (*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sp3: open %s: %w", path, err)
	}
	defer f.Close()

	if !isGzipPath(path) {
		return NewDecoder(f).Decode()
	}

	tmp, err := os.CreateTemp("", "sp3-*.sp3")
	if err != nil {
		return nil, fmt.Errorf("sp3: stage decompression of %s: %w", path, err)
	}
	// archiver does not overwrite an existing destination, so only the
	// reserved name is kept.
	tmp.Close()
	os.Remove(tmp.Name())
	defer os.Remove(tmp.Name())

	if err := archiver.DecompressFile(path, tmp.Name()); err != nil {
		return nil, fmt.Errorf("sp3: decompress %s: %w", path, err)
	}

	staged, err := os.Open(tmp.Name())
	if err != nil {
		return nil, fmt.Errorf("sp3: reopen staged %s: %w", tmp.Name(), err)
	}
	defer staged.Close()

	return NewDecoder(staged).Decode()
}

// SaveGzip encodes rec and writes it to path, gzip-compressing the
// result when path carries a ".gz" suffix.
func SaveGzip(path string, rec *Record) error {
	if !isGzipPath(path) {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("sp3: create %s: %w", path, err)
		}
		defer f.Close()
		return NewEncoder(f).Encode(rec)
	}

	tmp, err := os.CreateTemp("", "sp3-*.sp3")
	if err != nil {
		return fmt.Errorf("sp3: stage compression of %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := NewEncoder(tmp).Encode(rec); err != nil {
		tmp.Close()
		return err
	}
	tmp.Close()

	if err := archiver.CompressFile(tmp.Name(), path); err != nil {
		return fmt.Errorf("sp3: compress %s: %w", path, err)
	}

	return nil
}

func isGzipPath(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".gz")
}
