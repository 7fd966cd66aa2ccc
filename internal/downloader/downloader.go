// Package downloader streams listed report objects into a local directory, one at a time.
package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"usagereports/internal/errs"
	"usagereports/internal/models"
	"usagereports/internal/storage"
	"usagereports/pkg/utils"
)

// ChunkSize is the read and write unit of every transfer.
const ChunkSize = 1 << 20

// Predicate selects which listed objects are downloaded. A nil Predicate selects all.
type Predicate func(obj models.RemoteObject) bool

type Options struct {
	DestDir  string
	Mode     Mode
	FailFast bool
	DryRun   bool
}

type Downloader struct {
	store  storage.ObjectStore
	opts   Options
	out    io.Writer
	logger *zap.Logger
}

func New(store storage.ObjectStore, opts Options, out io.Writer, logger *zap.Logger) *Downloader {
	if opts.Mode.Name == nil {
		opts.Mode = AllReports
	}
	return &Downloader{store: store, opts: opts, out: out, logger: logger}
}

// Run downloads every object accepted by match, in listing order. A failed object does not
// stop the batch unless FailFast is set; all failures are returned joined. Files already
// written stay in place, including a partial file from a failed transfer.
func (d *Downloader) Run(ctx context.Context, objects []models.RemoteObject, match Predicate) (*models.DownloadResult, error) {
	startTime := time.Now()
	result := &models.DownloadResult{
		Destination:   d.opts.DestDir,
		DryRun:        d.opts.DryRun,
		Items:         []models.DownloadItem{},
		OperationTime: utils.FormatTime(startTime),
	}

	if err := os.MkdirAll(d.opts.DestDir, 0755); err != nil {
		return result, errs.Wrap(errs.CodeDownload, "create destination directory", err)
	}

	var failures []error
	for _, obj := range objects {
		if err := ctx.Err(); err != nil {
			failures = append(failures, errs.Wrap(errs.CodeDownload, "download reports", err))
			break
		}

		if match != nil && !match(obj) {
			result.Skipped++
			d.logger.Debug("skipping report", zap.String("name", obj.Name), zap.Time("time_created", obj.TimeCreated))
			continue
		}

		item, err := d.downloadOne(ctx, obj)
		if err != nil {
			d.logger.Error("report download failed", zap.String("name", obj.Name), zap.Error(err))
			result.Failed = append(result.Failed, models.FailedItem{RemotePath: obj.Name, Error: err.Error()})
			failures = append(failures, err)
			if d.opts.FailFast {
				break
			}
			continue
		}

		result.Items = append(result.Items, *item)
		result.TotalSizeBytes += item.Size
	}

	result.TotalFiles = len(result.Items)
	result.TotalSizeHuman = utils.FormatBytes(result.TotalSizeBytes)
	result.DownloadDuration = time.Since(startTime).String()

	return result, errors.Join(failures...)
}

func (d *Downloader) downloadOne(ctx context.Context, obj models.RemoteObject) (*models.DownloadItem, error) {
	filename, err := d.opts.Mode.Name(obj)
	if err != nil {
		return nil, err
	}
	localPath := filepath.Join(d.opts.DestDir, filename)

	fmt.Fprintln(d.out, d.opts.Mode.Started(obj))

	item := &models.DownloadItem{
		RemotePath:  obj.Name,
		LocalPath:   localPath,
		Size:        obj.Size,
		TimeCreated: utils.FormatDate(obj.TimeCreated),
	}

	if d.opts.DryRun {
		fmt.Fprintf(d.out, "(dry run) would write '%s'\n", localPath)
		return item, nil
	}

	written, err := d.fetchToFile(ctx, obj.Name, localPath)
	if err != nil {
		return nil, err
	}
	item.Size = written

	fmt.Fprintln(d.out, d.opts.Mode.Done(obj, localPath))
	d.logger.Info("report downloaded",
		zap.String("name", obj.Name),
		zap.String("path", localPath),
		zap.Int64("bytes", written),
	)

	return item, nil
}

func (d *Downloader) fetchToFile(ctx context.Context, name, localPath string) (int64, error) {
	body, err := d.store.Fetch(ctx, name)
	if err != nil {
		return 0, err
	}
	defer body.Close()

	file, err := os.Create(localPath)
	if err != nil {
		return 0, errs.Wrap(errs.CodeDownload, "create local file", err)
	}

	written, copyErr := copyChunks(file, body, make([]byte, ChunkSize))
	closeErr := file.Close()
	if copyErr != nil {
		return written, errs.Wrap(errs.CodeDownload, "write "+localPath, copyErr)
	}
	if closeErr != nil {
		return written, errs.Wrap(errs.CodeDownload, "close "+localPath, closeErr)
	}
	return written, nil
}

// copyChunks copies src to dst one buffer at a time, without re-encoding.
// io.Copy would hand the transfer to (*os.File).ReadFrom and ignore buf.
func copyChunks(dst io.Writer, src io.Reader, buf []byte) (int64, error) {
	var written int64
	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			w, err := dst.Write(buf[:n])
			written += int64(w)
			if err != nil {
				return written, err
			}
			if w != n {
				return written, io.ErrShortWrite
			}
		}
		if readErr == io.EOF {
			return written, nil
		}
		if readErr != nil {
			return written, readErr
		}
	}
}
