package whispercpp

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

// Transcribe shells out to whisper.cpp and then reads its JSON artifact.
// Pointing the binary at /bin/true and pre-writing the artifact exercises
// the parsing without the real model.
func TestTranscribe_ParsesOutput(t *testing.T) {
	t.Parallel()

	cacheDir := t.TempDir()
	artifact := `{
		"segments": [
			{"start": 0, "end": 4.2, "text": "  hello there  ",
			 "words": [{"start": 0, "end": 1, "word": " hello "}]},
			{"start": 4.2, "end": 8, "text": "general kenobi"}
		]
	}`
	if err := os.WriteFile(filepath.Join(cacheDir, "whisper.json"), []byte(artifact), 0o644); err != nil {
		t.Fatal(err)
	}

	a := New("/bin/true", "model.bin")
	tr, err := a.Transcribe(context.Background(), "audio.wav", cacheDir)
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}

	if len(tr.Segments) != 2 {
		t.Fatalf("segments = %+v", tr.Segments)
	}
	if tr.Segments[0].Text != "hello there" {
		t.Errorf("segment text not trimmed: %q", tr.Segments[0].Text)
	}
	if tr.Segments[0].Words[0].Word != "hello" {
		t.Errorf("word not trimmed: %q", tr.Segments[0].Words[0].Word)
	}
	if tr.Text != "hello there general kenobi" {
		t.Errorf("full text = %q", tr.Text)
	}
}

func TestTranscribe_BinaryFailure(t *testing.T) {
	t.Parallel()

	a := New("/bin/false", "model.bin")
	if _, err := a.Transcribe(context.Background(), "audio.wav", t.TempDir()); err == nil {
		t.Fatal("expected error from failing binary")
	}
}
