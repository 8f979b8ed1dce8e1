package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/csv"
	"github.com/apache/arrow/go/v17/arrow/ipc"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/apache/arrow/go/v17/parquet"
	"github.com/apache/arrow/go/v17/parquet/file"
	"github.com/apache/arrow/go/v17/parquet/pqarrow"

	"colselect-go/schema"
)

var (
	ErrUnknownFormat = func(name string) error {
		return fmt.Errorf("cannot tell the format of %q from its suffix", name)
	}
	ErrEmptyCSV = errors.New("csv source has no rows to infer a schema from")
)

type Format int

const (
	Parquet Format = iota + 1
	IPCFile
	IPCStream
	CSV
)

func (f Format) String() string {
	switch f {
	case Parquet:
		return "parquet"
	case IPCFile:
		return "arrow"
	case IPCStream:
		return "arrows"
	case CSV:
		return "csv"
	}
	return "unknown"
}

// FormatOf picks the reader for a file or object name by its suffix.
func FormatOf(name string) (Format, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".parquet", ".pq":
		return Parquet, nil
	case ".arrow", ".ipc", ".feather":
		return IPCFile, nil
	case ".arrows":
		return IPCStream, nil
	case ".csv":
		return CSV, nil
	}
	return 0, ErrUnknownFormat(name)
}

// Table is what a source yields: its schema and, when the source has rows,
// its first record batch.
type Table struct {
	Schema *arrow.Schema
	Sample arrow.Record
}

// Tree builds the schema tree of the table.
func (t *Table) Tree() (*schema.Node, error) {
	return schema.FromArrow(t.Schema)
}

func (t *Table) Release() {
	if t.Sample != nil {
		t.Sample.Release()
		t.Sample = nil
	}
}

func ReadParquet(ctx context.Context, r parquet.ReaderAtSeeker, batchSize int) (*Table, error) {
	allocator := memory.NewGoAllocator()
	fileReader, err := file.NewParquetReader(r)
	if err != nil {
		return nil, err
	}
	defer fileReader.Close()

	arrowReader, err := pqarrow.NewFileReader(
		fileReader,
		pqarrow.ArrowReadProperties{Parallel: true, BatchSize: int64(batchSize)},
		allocator,
	)
	if err != nil {
		return nil, err
	}
	s, err := arrowReader.Schema()
	if err != nil {
		return nil, err
	}
	rdr, err := arrowReader.GetRecordReader(ctx, nil, nil)
	if err != nil {
		return nil, err
	}
	defer rdr.Release()

	t := &Table{Schema: s}
	if rdr.Next() {
		t.Sample = rdr.Record()
		t.Sample.Retain()
	}
	if err := rdr.Err(); err != nil && !errors.Is(err, io.EOF) {
		t.Release()
		return nil, err
	}
	return t, nil
}

func ReadIPCFile(r ipc.ReadAtSeeker) (*Table, error) {
	fr, err := ipc.NewFileReader(r)
	if err != nil {
		return nil, err
	}
	defer fr.Close()

	t := &Table{Schema: fr.Schema()}
	if fr.NumRecords() > 0 {
		rec, err := fr.Record(0)
		if err != nil {
			return nil, err
		}
		rec.Retain()
		t.Sample = rec
	}
	return t, nil
}

func ReadIPCStream(r io.Reader) (*Table, error) {
	rdr, err := ipc.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer rdr.Release()

	t := &Table{Schema: rdr.Schema()}
	if rdr.Next() {
		t.Sample = rdr.Record()
		t.Sample.Retain()
	}
	if err := rdr.Err(); err != nil && !errors.Is(err, io.EOF) {
		t.Release()
		return nil, err
	}
	return t, nil
}

type CSVOptions struct {
	HasHeader     bool
	InferenceRows int
}

// ReadCSV infers column types from the first InferenceRows rows. The sample
// holds those rows.
func ReadCSV(r io.Reader, opts CSVOptions) (*Table, error) {
	chunk := opts.InferenceRows
	if chunk <= 0 {
		chunk = 100
	}
	rdr := csv.NewInferringReader(r,
		csv.WithHeader(opts.HasHeader),
		csv.WithChunk(chunk),
		csv.WithAllocator(memory.NewGoAllocator()),
	)
	defer rdr.Release()

	if !rdr.Next() {
		if err := rdr.Err(); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		return nil, ErrEmptyCSV
	}
	rec := rdr.Record()
	rec.Retain()
	return &Table{Schema: rdr.Schema(), Sample: rec}, nil
}
