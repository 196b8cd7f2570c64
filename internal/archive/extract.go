// Package archive extracts uploaded project archives into a scratch
// directory for analysis. Zip and tar.gz are supported; entries escaping
// the destination or exceeding the size bound are rejected.
package archive

import (
	"archive/tar"
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// MaxEntrySize bounds a single extracted file (64 MB). Archives are
// untrusted input; without the bound a small archive could expand into
// an arbitrarily large tree.
const MaxEntrySize int64 = 64 << 20

// ExtractZip unpacks a zip archive into dest, which must already exist.
func ExtractZip(archivePath, dest string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("archive: open zip: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		target, err := safePath(dest, f.Name)
		if err != nil {
			return err
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("archive: mkdir %s: %w", f.Name, err)
			}
			continue
		}
		if !f.FileInfo().Mode().IsRegular() {
			continue // symlinks and devices are never extracted
		}
		if int64(f.UncompressedSize64) > MaxEntrySize {
			return fmt.Errorf("archive: entry %s exceeds size limit", f.Name)
		}

		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("archive: open entry %s: %w", f.Name, err)
		}
		err = writeEntry(target, rc)
		rc.Close()
		if err != nil {
			return fmt.Errorf("archive: extract %s: %w", f.Name, err)
		}
	}

	return nil
}

// ExtractTarGz unpacks a gzip-compressed tarball into dest.
func ExtractTarGz(archivePath, dest string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("archive: open tarball: %w", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("archive: gzip: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("archive: read tar: %w", err)
		}

		target, err := safePath(dest, hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("archive: mkdir %s: %w", hdr.Name, err)
			}
		case tar.TypeReg:
			if hdr.Size > MaxEntrySize {
				return fmt.Errorf("archive: entry %s exceeds size limit", hdr.Name)
			}
			if err := writeEntry(target, tr); err != nil {
				return fmt.Errorf("archive: extract %s: %w", hdr.Name, err)
			}
		default:
			// Symlinks, hard links, and special files are skipped.
		}
	}
}

// Extract dispatches on the archive filename extension.
func Extract(archivePath, dest string) error {
	name := strings.ToLower(archivePath)
	switch {
	case strings.HasSuffix(name, ".zip"):
		return ExtractZip(archivePath, dest)
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		return ExtractTarGz(archivePath, dest)
	default:
		return fmt.Errorf("archive: unsupported format: %s", filepath.Base(archivePath))
	}
}

// safePath joins an archive entry name onto dest, rejecting entries that
// would escape it (the classic zip-slip attack).
func safePath(dest, name string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(name))
	if !filepath.IsLocal(cleaned) {
		return "", fmt.Errorf("archive: illegal entry path: %s", name)
	}
	return filepath.Join(dest, cleaned), nil
}

// writeEntry streams an entry to disk with the size bound enforced even
// when the archive header lies about the uncompressed size.
func writeEntry(target string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, io.LimitReader(r, MaxEntrySize+1)); err != nil {
		return err
	}
	info, err := out.Stat()
	if err != nil {
		return err
	}
	if info.Size() > MaxEntrySize {
		return fmt.Errorf("entry exceeds size limit")
	}
	return nil
}
