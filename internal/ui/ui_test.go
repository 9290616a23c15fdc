package ui

import (
	"bytes"
	stdErrors "errors"
	"strings"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"modelfetch/internal/fetcher"
	"modelfetch/internal/history"
	"modelfetch/internal/manifest"
)

func TestPrintSummary(t *testing.T) {
	c := qt.New(t)

	var buf bytes.Buffer
	p := NewPrinter(&buf)

	started := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p.PrintSummary(fetcher.Summary{
		RunID:      "run-42",
		Model:      "whisper-tiny-en",
		StartedAt:  started,
		FinishedAt: started.Add(1500 * time.Millisecond),
		Results: []fetcher.Result{
			{Entry: fetcher.Entry{RelPath: "config.json"}, Status: fetcher.StatusSucceeded, Bytes: 2048},
			{Entry: fetcher.Entry{RelPath: "onnx/encoder_model_quantized.onnx"}, Status: fetcher.StatusFailed, Err: stdErrors.New("HTTP 404 Not Found")},
		},
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	c.Assert(lines, qt.DeepEquals, []string{
		"whisper-tiny-en (run run-42)",
		"FILE                               STATUS   DETAIL",
		"config.json                        success  2.0 KiB",
		"onnx/encoder_model_quantized.onnx  failed   HTTP 404 Not Found",
		"1 succeeded, 1 failed, 2.0 KiB in 1.5s",
	})
}

func TestPrintRuns(t *testing.T) {
	c := qt.New(t)

	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRuns(nil)
	c.Assert(buf.String(), qt.Equals, "No runs recorded.\n")

	buf.Reset()
	p.PrintRuns([]history.RunRecord{{
		ID:        "abc",
		Model:     "whisper-tiny-en",
		StartedAt: time.Now(),
		Total:     7,
		Succeeded: 6,
		Bytes:     1 << 20,
	}})
	out := buf.String()
	c.Assert(out, qt.Contains, "MODEL")
	c.Assert(out, qt.Contains, "6/7")
	c.Assert(out, qt.Contains, "1.0 MiB")
	c.Assert(out, qt.Contains, "abc")
}

func TestFormatModelItemsAlignsNames(t *testing.T) {
	c := qt.New(t)

	items := FormatModelItems([]manifest.Model{
		{Name: "whisper-tiny-en", DestinationRoot: "public/models/whisper-tiny-en", Files: make([]string, 7)},
		{Name: "模型", DestinationRoot: "out", Files: make([]string, 1)},
	})
	c.Assert(items, qt.DeepEquals, []string{
		"whisper-tiny-en  7 files -> public/models/whisper-tiny-en",
		"模型             1 files -> out",
	})
}

func TestPromptSelectorRejectsEmpty(t *testing.T) {
	c := qt.New(t)

	_, err := PromptSelector{}.Select(nil)
	c.Assert(err, qt.ErrorMatches, "no models to select from")
}

func TestConsoleProgressReporter(t *testing.T) {
	c := qt.New(t)

	var buf bytes.Buffer
	r := NewConsoleProgressReporter(&buf)
	r.interval = 0
	entry := fetcher.Entry{RelPath: "tokenizer.json"}

	r.Started(entry, 4096)
	r.Advanced(entry, 2048, 4096)
	r.Finished(entry, 4096, time.Second)

	out := buf.String()
	c.Assert(out, qt.Contains, "tokenizer.json: starting download (4.0 KiB)")
	c.Assert(out, qt.Contains, " 50.0% (2.0 KiB/4.0 KiB) ")
	c.Assert(out, qt.Contains, "[==============================] 100.0% (4.0 KiB) 4.0 KiB/s\n")

	buf.Reset()
	r.Started(fetcher.Entry{RelPath: "stream.bin"}, -1)
	r.Advanced(fetcher.Entry{RelPath: "stream.bin"}, 1024, -1)
	c.Assert(buf.String(), qt.Contains, "size unknown")
	c.Assert(buf.String(), qt.Contains, "stream.bin: 1.0 KiB downloaded")
}

func TestBar(t *testing.T) {
	c := qt.New(t)

	c.Assert(bar(0), qt.Equals, ">"+strings.Repeat(" ", 29))
	c.Assert(bar(0.5), qt.Equals, strings.Repeat("=", 15)+">"+strings.Repeat(" ", 14))
	c.Assert(bar(2), qt.Equals, strings.Repeat("=", 30))
}
