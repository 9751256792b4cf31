package matchlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"orbduel-server/internal/protocol"
)

// Journal appends terminal summaries as zstd-compressed JSONL, rotated by
// day. This is the feed the external settlement collaborator consumes; the
// simulation never depends on a write succeeding.
type Journal struct {
	baseDir string

	mu     sync.Mutex
	curDay string
	f      *os.File
	enc    *zstd.Encoder
	w      *bufio.Writer
}

func NewJournal(baseDir string) *Journal {
	return &Journal{baseDir: baseDir}
}

// entry wraps a summary with its write timestamp.
type entry struct {
	RecordedAt string                `json:"recorded_at"`
	Summary    protocol.FinalSummary `json:"summary"`
}

// Append writes one summary line. Rotation happens when the UTC day rolls
// over.
func (j *Journal) Append(sum protocol.FinalSummary) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := time.Now().UTC()
	day := now.Format("2006-01-02")
	if day != j.curDay {
		if err := j.rotateLocked(day); err != nil {
			return err
		}
	}

	b, err := json.Marshal(entry{
		RecordedAt: now.Format(time.RFC3339),
		Summary:    sum,
	})
	if err != nil {
		return err
	}
	if _, err := j.w.Write(b); err != nil {
		return err
	}
	if err := j.w.WriteByte('\n'); err != nil {
		return err
	}
	return j.w.Flush()
}

func (j *Journal) rotateLocked(day string) error {
	if err := j.closeLocked(); err != nil {
		return err
	}
	if err := os.MkdirAll(j.baseDir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(j.baseDir, fmt.Sprintf("matches-%s.jsonl.zst", day))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	j.f = f
	j.enc = enc
	j.w = bufio.NewWriterSize(enc, 64*1024)
	j.curDay = day
	return nil
}

func (j *Journal) closeLocked() error {
	var err error
	if j.w != nil {
		_ = j.w.Flush()
	}
	if j.enc != nil {
		err = j.enc.Close()
		j.enc = nil
	}
	if j.f != nil {
		_ = j.f.Close()
		j.f = nil
	}
	j.w = nil
	return err
}

func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.closeLocked()
}
