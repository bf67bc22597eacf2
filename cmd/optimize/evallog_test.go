package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEvalLog_HeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "optimize_log.csv")
	l, err := NewEvalLog(path)
	if err != nil {
		t.Fatalf("NewEvalLog: %v", err)
	}
	for i := 1; i <= 2; i++ {
		if err := l.Append(NewEvalRecord(i, -0.5, []float64{1, 2, 3, 4, 5})); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), data)
	}
	if want := "eval,fitness,cohesion_bias,separation_bias,alignment_bias,target_bias,perception_radius"; lines[0] != want {
		t.Errorf("header = %q, want %q", lines[0], want)
	}
	if !strings.HasPrefix(lines[2], "2,") {
		t.Errorf("last row = %q, want eval 2", lines[2])
	}
}
