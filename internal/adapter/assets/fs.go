package assets

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/niksmo/shop-admin/internal/core/domain"
	"github.com/niksmo/shop-admin/internal/core/port"
	"github.com/spf13/afero"
)

var _ port.AssetUploader = (*FSStore)(nil)

// FSStore keeps image assets in a file system under root.
type FSStore struct {
	fs   afero.Fs
	root string
}

func NewFSStore(fs afero.Fs, root string) FSStore {
	return FSStore{fs, root}
}

func NewOSStore(root string) FSStore {
	return NewFSStore(afero.NewOsFs(), root)
}

func (s FSStore) UploadImage(
	ctx context.Context, f domain.ImageFile,
) (domain.AssetRef, error) {
	const op = "FSStore.UploadImage"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	ref, data, err := describe(f)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	name, err := ref.FileName()
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	path := filepath.Join(s.root, name)

	exists, err := afero.Exists(s.fs, path)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		log.Debug("asset already stored", "imageRef", ref)
		return ref, nil
	}

	if err := s.fs.MkdirAll(s.root, 0o755); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := afero.WriteFile(s.fs, path, data, 0o644); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	log.Info("asset stored", "imageRef", ref, "bytes", len(data))
	return ref, nil
}

// Handler serves stored assets by file name.
func (s FSStore) Handler() http.Handler {
	return http.FileServer(afero.NewHttpFs(s.fs).Dir(s.root))
}
