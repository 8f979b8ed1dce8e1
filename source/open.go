package source

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"colselect-go/config"
	"colselect-go/logging"
	"colselect-go/schema"
)

// Opener reads tables from local files or s3:// objects.
type Opener struct {
	cfg    *config.Config
	logger log.Logger
	s3     S3API
}

func NewOpener(cfg *config.Config, logger log.Logger) *Opener {
	if cfg == nil {
		cfg = config.GetConfig()
	}
	return &Opener{cfg: cfg, logger: logging.OrNop(logger)}
}

// WithS3 replaces the client built lazily from the s3 config section.
func (o *Opener) WithS3(client S3API) *Opener {
	o.s3 = client
	return o
}

func (o *Opener) Open(ctx context.Context, uri string) (*Table, error) {
	format, err := FormatOf(uri)
	if err != nil {
		return nil, err
	}
	if strings.HasPrefix(uri, "s3://") {
		return o.openS3(ctx, uri, format)
	}

	level.Debug(o.logger).Log("msg", "opening file", "path", uri, "format", format)
	f, err := os.Open(uri)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return o.read(ctx, f, format)
}

// OpenTree opens uri and returns just its schema tree.
func (o *Opener) OpenTree(ctx context.Context, uri string) (*schema.Node, error) {
	t, err := o.Open(ctx, uri)
	if err != nil {
		return nil, err
	}
	defer t.Release()
	return t.Tree()
}

func (o *Opener) openS3(ctx context.Context, uri string, format Format) (*Table, error) {
	bucket, key, err := ParseS3URI(uri, o.cfg.S3.Bucket)
	if err != nil {
		return nil, err
	}
	if o.s3 == nil {
		o.s3 = NewS3Client(o.cfg)
	}
	r, err := download(ctx, o.s3, bucket, key, o.cfg.MaxDownloadBytes())
	if err != nil {
		return nil, err
	}
	level.Info(o.logger).Log("msg", "downloaded object", "bucket", bucket, "key", key, "size", humanize.Bytes(uint64(r.Size())))
	return o.read(ctx, r, format)
}

type readAtSeeker interface {
	io.Reader
	io.ReaderAt
	io.Seeker
}

func (o *Opener) read(ctx context.Context, r readAtSeeker, format Format) (*Table, error) {
	switch format {
	case Parquet:
		return ReadParquet(ctx, r, o.cfg.Source.ParquetBatchSize)
	case IPCFile:
		return ReadIPCFile(r)
	case IPCStream:
		return ReadIPCStream(r)
	}
	return ReadCSV(r, CSVOptions{
		HasHeader:     o.cfg.Source.CSVHasHeader,
		InferenceRows: o.cfg.Source.CSVInferenceRows,
	})
}
