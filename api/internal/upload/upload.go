// Package upload owns the temp files of one multipart request.
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"food-lens/api/internal/foodcheck"
	"food-lens/api/internal/util"
)

// File is one uploaded image spooled to disk.
type File struct {
	Path string
	Name string
	MIME string
	Size int64
}

// Batch holds every temp file written for a request. Release must be called on every exit path.
type Batch struct {
	Files []File
	log   *zap.Logger
}

// Receive copies each part into a uuid-named file under dir. On failure the files already
// written are removed before returning.
func Receive(dir string, headers []*multipart.FileHeader, log *zap.Logger) (*Batch, error) {
	if log == nil {
		log = zap.NewNop()
	}
	b := &Batch{Files: make([]File, 0, len(headers)), log: log}
	if len(headers) == 0 {
		return b, nil
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("upload dir %s: %w", dir, err)
	}

	for _, fh := range headers {
		f, err := spool(dir, fh)
		if err != nil {
			b.Release()
			return nil, err
		}
		b.Files = append(b.Files, f)
	}
	return b, nil
}

func spool(dir string, fh *multipart.FileHeader) (File, error) {
	src, err := fh.Open()
	if err != nil {
		return File{}, fmt.Errorf("open %q: %w", fh.Filename, err)
	}
	defer src.Close()

	path := filepath.Join(dir, uuid.NewString()+filepath.Ext(filepath.Base(fh.Filename)))
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return File{}, fmt.Errorf("create temp file: %w", err)
	}

	head := make([]byte, 512)
	n, _ := io.ReadFull(src, head)
	head = head[:n]
	if _, err = dst.Write(head); err == nil {
		_, err = io.Copy(dst, src)
	}
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return File{}, fmt.Errorf("write %q: %w", fh.Filename, err)
	}

	return File{
		Path: path,
		Name: fh.Filename,
		MIME: util.PickMIME(fh.Header.Get("Content-Type"), "", head),
		Size: fh.Size,
	}, nil
}

// Images reads the spooled files back in upload order.
func (b *Batch) Images() ([]foodcheck.Image, error) {
	out := make([]foodcheck.Image, 0, len(b.Files))
	for _, f := range b.Files {
		data, err := os.ReadFile(f.Path)
		if err != nil {
			return nil, fmt.Errorf("read %q: %w", f.Name, err)
		}
		out = append(out, foodcheck.Image{Name: f.Name, MIME: f.MIME, Data: data})
	}
	return out, nil
}

// Release removes every temp file. Removal errors are logged, never returned.
// Calling it more than once is harmless.
func (b *Batch) Release() {
	if b == nil {
		return
	}
	for _, f := range b.Files {
		if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			b.log.Warn("temp file cleanup failed", zap.String("path", f.Path), zap.Error(err))
		}
	}
	b.Files = nil
}
