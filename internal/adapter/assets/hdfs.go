package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"time"

	"github.com/colinmarc/hdfs/v2"
	"github.com/niksmo/shop-admin/internal/core/domain"
	"github.com/niksmo/shop-admin/internal/core/port"
	"github.com/niksmo/shop-admin/pkg/retry"
)

var _ port.AssetUploader = (*HDFSStore)(nil)

type hdfsStorage interface {
	Create(name string) (io.WriteCloser, error)
	Stat(name string) (os.FileInfo, error)
	MkdirAll(dirname string, perm os.FileMode) error
	Close() error
}

type hdfsClient struct {
	*hdfs.Client
}

func (c hdfsClient) Create(name string) (io.WriteCloser, error) {
	return c.Client.Create(name)
}

// HDFSStore keeps image assets in HDFS under root.
type HDFSStore struct {
	hdfs hdfsStorage
	root string
}

func NewHDFSStore(addr, user, root string) (HDFSStore, error) {
	const op = "NewHDFSStore"

	cl, err := hdfs.NewClient(hdfs.ClientOptions{
		Addresses: []string{addr},
		User:      user,
	})
	if err != nil {
		return HDFSStore{}, fmt.Errorf("%s: %w", op, err)
	}
	return HDFSStore{hdfsClient{cl}, root}, nil
}

func (s HDFSStore) UploadImage(
	ctx context.Context, f domain.ImageFile,
) (domain.AssetRef, error) {
	const op = "HDFSStore.UploadImage"
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
	filepath := path.Join(s.root, name)

	_, err = s.hdfs.Stat(filepath)
	if err == nil {
		log.Debug("asset already stored", "imageRef", ref)
		return ref, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := s.hdfs.MkdirAll(s.root, 0o755); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	w, err := s.hdfs.Create(filepath)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := s.closeWriter(ctx, w); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	log.Info("asset stored", "imageRef", ref, "bytes", len(data))
	return ref, nil
}

func (s HDFSStore) Close() {
	const op = "HDFSStore.Close"
	log := slog.With("op", op)

	if err := s.hdfs.Close(); err != nil {
		log.Error("failed to close hdfs client", "err", err)
		return
	}
	log.Info("hdfs client is closed")
}

func (s HDFSStore) closeWriter(ctx context.Context, w io.WriteCloser) error {
	retryCfg := retry.Config{
		MaxAttempts: 5,
		Backoff:     retry.LinearBackoff(50 * time.Millisecond),
		ShouldRetry: func(err error) bool {
			return errors.Is(err, hdfs.ErrReplicating)
		},
	}
	return retry.Do(ctx, retryCfg, w.Close)
}
