package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
)

func TestRunScript(t *testing.T) {
	t.Setenv("ENGINE_HASH_MB", "1")
	t.Setenv("ENGINE_LOG_LEVEL", "error")

	var out, logs bytes.Buffer
	script := "uci\nisready\nposition startpos moves e2e4\ngo depth 3\n"
	if err := run(context.Background(), strings.NewReader(script), &out, &logs); err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, want := range []string{"uciok", "readyok", "info depth 3 ", "bestmove "} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("output missing %q:\n%s", want, out.String())
		}
	}
	if logs.Len() != 0 {
		t.Fatalf("unexpected logs at error level:\n%s", logs.String())
	}
}

func TestRunRejectsBadConfig(t *testing.T) {
	t.Setenv("ENGINE_HASH_MB", "many")
	if err := run(context.Background(), strings.NewReader(""), io.Discard, io.Discard); err == nil {
		t.Fatalf("expected a config error")
	}
}

func BenchmarkMain(b *testing.B) {
	b.Setenv("ENGINE_HASH_MB", "16")
	b.Setenv("ENGINE_LOG_LEVEL", "error")
	for i := 0; i < b.N; i++ {
		script := strings.NewReader("position startpos\ngo depth 6\n")
		if err := run(context.Background(), script, io.Discard, io.Discard); err != nil {
			b.Fatalf("run: %v", err)
		}
	}
}
