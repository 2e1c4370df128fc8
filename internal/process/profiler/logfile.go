package profiler

import (
	"bytes"
	"os"
	"strings"
	"sync"

	"mishell/internal/process/result"
	pkgerrors "mishell/pkg/errors"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Codec selects how records are framed in a log file.
type Codec int

const (
	CodecPlain Codec = iota
	CodecGzip
	CodecZstd
)

func (c Codec) String() string {
	switch c {
	case CodecGzip:
		return "gzip"
	case CodecZstd:
		return "zstd"
	default:
		return "plain"
	}
}

// CodecForPath picks the codec from the file extension.
func CodecForPath(path string) Codec {
	switch {
	case strings.HasSuffix(path, ".gz"):
		return CodecGzip
	case strings.HasSuffix(path, ".zst"):
		return CodecZstd
	default:
		return CodecPlain
	}
}

// LogFile is an append-only profiling log. Compressed logs hold one
// independent gzip member or zstd frame per record, so the file is never
// rewritten and decompresses as one concatenated stream.
type LogFile struct {
	mu    sync.Mutex
	path  string
	codec Codec
	file  *os.File
	zenc  *zstd.Encoder
}

// OpenLog opens path for appending, creating it if needed.
func OpenLog(path string) (*LogFile, error) {
	if path == "" {
		return nil, pkgerrors.ValidationError("logfile", "is required")
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, pkgerrors.LogOpenFailed, "open log %s: %v", path, err)
	}
	l := &LogFile{path: path, codec: CodecForPath(path), file: f}
	if l.codec == CodecZstd {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			_ = f.Close()
			return nil, pkgerrors.Wrapf(err, pkgerrors.LogOpenFailed, "create zstd encoder: %v", err)
		}
		l.zenc = enc
	}
	return l, nil
}

// Path returns the file name the log was opened with.
func (l *LogFile) Path() string {
	return l.path
}

// Codec returns the record framing in use.
func (l *LogFile) Codec() Codec {
	return l.codec
}

// Append writes one record for r and syncs it to disk.
func (l *LogFile) Append(r result.UsageReport) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return pkgerrors.Newf(pkgerrors.LogAppendFailed, "log %s is closed", l.path)
	}
	payload, err := l.encode([]byte(FormatRecord(r)))
	if err != nil {
		return pkgerrors.Wrapf(err, pkgerrors.LogAppendFailed, "encode record: %v", err)
	}
	if _, err := l.file.Write(payload); err != nil {
		return pkgerrors.Wrapf(err, pkgerrors.LogAppendFailed, "append to %s: %v", l.path, err)
	}
	if err := l.file.Sync(); err != nil {
		return pkgerrors.Wrapf(err, pkgerrors.LogAppendFailed, "sync %s: %v", l.path, err)
	}
	return nil
}

func (l *LogFile) encode(record []byte) ([]byte, error) {
	switch l.codec {
	case CodecGzip:
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write(record); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case CodecZstd:
		return l.zenc.EncodeAll(record, nil), nil
	default:
		return record, nil
	}
}

// Close releases the file. Closing twice is a no-op.
func (l *LogFile) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	if l.zenc != nil {
		_ = l.zenc.Close()
		l.zenc = nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
