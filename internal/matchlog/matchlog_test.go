package matchlog

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"

	"orbduel-server/internal/protocol"
)

func TestJournal_AppendAndReadBack(t *testing.T) {
	dir := t.TempDir()
	j := NewJournal(dir)

	for _, id := range []string{"m1", "m2"} {
		err := j.Append(protocol.FinalSummary{
			MatchID: id,
			Winner:  "alice",
			Loser:   "bob",
			Reason:  protocol.ReasonTimeLimit,
			Stake:   "1",
		})
		if err != nil {
			t.Fatalf("append %s: %v", id, err)
		}
	}
	if err := j.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	files, err := filepath.Glob(filepath.Join(dir, "matches-*.jsonl.zst"))
	if err != nil || len(files) != 1 {
		t.Fatalf("journal files = %v (err %v)", files, err)
	}

	f, err := os.Open(files[0])
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		t.Fatalf("zstd: %v", err)
	}
	defer dec.Close()

	var ids []string
	sc := bufio.NewScanner(dec)
	for sc.Scan() {
		var e entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			t.Fatalf("line decode: %v", err)
		}
		if e.RecordedAt == "" {
			t.Fatal("entry missing timestamp")
		}
		ids = append(ids, e.Summary.MatchID)
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(ids) != 2 || ids[0] != "m1" || ids[1] != "m2" {
		t.Fatalf("read back %v, want [m1 m2]", ids)
	}
}
