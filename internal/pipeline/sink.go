package pipeline

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"declscan/internal/report"
)

// Sink is a worker-private, append-only record store. Exactly one worker
// appends to a sink; after Finalize, ownership passes to the merger, which
// reads everything back with Records.
type Sink interface {
	Append(rec report.Record) error
	Finalize() error
	Records() ([]report.Record, error)
}

// SinkFactory builds one fresh sink per shard before any worker spawns.
type SinkFactory func(shard int) (Sink, error)

// MemorySinks keeps records in process memory. The default.
func MemorySinks() SinkFactory {
	return func(shard int) (Sink, error) { return &memorySink{}, nil }
}

type memorySink struct {
	records   []report.Record
	finalized bool
}

func (s *memorySink) Append(rec report.Record) error {
	if s.finalized {
		return errors.New("append to finalized sink")
	}
	s.records = append(s.records, rec)
	return nil
}

func (s *memorySink) Finalize() error {
	s.finalized = true
	return nil
}

func (s *memorySink) Records() ([]report.Record, error) {
	if !s.finalized {
		return nil, errors.New("sink read before finalize")
	}
	return s.records, nil
}

// FileSinks spills each shard's records to a uniquely named JSON-lines file
// under dir, keeping peak memory flat on large corpora. Spill files stay on
// disk after the run.
func FileSinks(dir string) SinkFactory {
	return func(shard int) (Sink, error) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create sink dir: %w", err)
		}
		path := filepath.Join(dir, fmt.Sprintf("shard-%d-%s.jsonl", shard, uuid.NewString()))
		f, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("create sink file: %w", err)
		}
		w := bufio.NewWriter(f)
		return &fileSink{path: path, f: f, w: w, enc: json.NewEncoder(w)}, nil
	}
}

type fileSink struct {
	path      string
	f         *os.File
	w         *bufio.Writer
	enc       *json.Encoder
	finalized bool
}

func (s *fileSink) Append(rec report.Record) error {
	if s.finalized {
		return fmt.Errorf("append to finalized sink %s", s.path)
	}
	if err := s.enc.Encode(rec); err != nil {
		return fmt.Errorf("write sink %s: %w", s.path, err)
	}
	return nil
}

func (s *fileSink) Finalize() error {
	if s.finalized {
		return nil
	}
	s.finalized = true
	if err := s.w.Flush(); err != nil {
		s.f.Close()
		return fmt.Errorf("flush sink %s: %w", s.path, err)
	}
	if err := s.f.Close(); err != nil {
		return fmt.Errorf("close sink %s: %w", s.path, err)
	}
	return nil
}

func (s *fileSink) Records() ([]report.Record, error) {
	if !s.finalized {
		return nil, fmt.Errorf("sink %s read before finalize", s.path)
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("reopen sink: %w", err)
	}
	defer f.Close()

	var records []report.Record
	dec := json.NewDecoder(bufio.NewReader(f))
	for {
		var rec report.Record
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("decode sink %s: %w", s.path, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
