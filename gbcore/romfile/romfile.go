package romfile

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"

	"github.com/valerio/go-gbcore/gbcore/memory"
)

// ErrEmptyArchive is returned for archives without any file in them.
var ErrEmptyArchive = errors.New("archive contains no files")

// Load reads a program image from disk. Files ending in .gz, .zip or .7z
// are decompressed; for archives the first regular file is used. Anything
// else is returned as is.
func Load(filename string) ([]byte, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var decoded []byte
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".gz":
		decoded, err = gunzip(data)
	case ".zip":
		decoded, err = unzip(data)
	case ".7z":
		decoded, err = un7z(data)
	default:
		return data, nil
	}
	if err != nil {
		return nil, fmt.Errorf("decompressing %s: %w", filename, err)
	}

	slog.Debug("Decompressed program", "file", filename, "compressed", len(data), "size", len(decoded))
	return decoded, nil
}

func gunzip(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return readLimited(r)
}

func unzip(data []byte) ([]byte, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		return readArchived(f.Open)
	}
	return nil, ErrEmptyArchive
}

func un7z(data []byte) ([]byte, error) {
	r, err := sevenzip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		return readArchived(f.Open)
	}
	return nil, ErrEmptyArchive
}

func readArchived(open func() (io.ReadCloser, error)) ([]byte, error) {
	rc, err := open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return readLimited(rc)
}

// readLimited reads a decompressed stream, giving up as soon as it outgrows
// the address space.
func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, memory.Size+1))
	if err != nil {
		return nil, err
	}
	if len(data) > memory.Size {
		return nil, memory.ErrProgramTooLarge
	}
	return data, nil
}
