package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// File keeps the whole database document in memory and rewrites the JSON
// file after every successful write. Top-level keys whose value is not an
// array are kept verbatim and written back untouched.
type File struct {
	mu    sync.RWMutex
	path  string
	data  map[string][]Record
	other map[string]json.RawMessage
	log   *zap.Logger
}

// NewMemory returns a File that never touches the disk.
func NewMemory() *File {
	return &File{
		data:  map[string][]Record{},
		other: map[string]json.RawMessage{},
		log:   zap.NewNop(),
	}
}

// OpenFile loads the document at path. A missing file yields an empty
// document that is created on the first write.
func OpenFile(path string, log *zap.Logger) (*File, error) {
	if log == nil {
		log = zap.NewNop()
	}
	f := NewMemory()
	f.path = path
	f.log = log

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Info("data file not found, starting empty", zap.String("path", path))
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return f, nil
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for name, body := range doc {
		trimmed := bytes.TrimSpace(body)
		if len(trimmed) == 0 || trimmed[0] != '[' {
			f.other[name] = body
			continue
		}
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.UseNumber()
		var recs []Record
		if err := dec.Decode(&recs); err != nil {
			return nil, fmt.Errorf("parse collection %q: %w", name, err)
		}
		f.data[name] = recs
	}
	log.Info("data file loaded", zap.String("path", path), zap.Int("collections", len(f.data)))
	return f, nil
}

func (f *File) Get(_ context.Context, collection string, id int64) (Record, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	i := f.indexOf(collection, id)
	if i < 0 {
		return nil, ErrNotFound
	}
	return f.data[collection][i].Clone(), nil
}

func (f *File) Find(ctx context.Context, collection string, q Query) (Record, error) {
	if _, err := q.fields(); err != nil {
		return nil, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, rec := range f.data[collection] {
		if q.Matches(rec) {
			return rec.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

func (f *File) Filter(_ context.Context, collection string, q Query) ([]Record, error) {
	if _, err := q.fields(); err != nil {
		return nil, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]Record, 0)
	for _, rec := range f.data[collection] {
		if q.Matches(rec) {
			out = append(out, rec.Clone())
		}
	}
	return out, nil
}

func (f *File) Append(_ context.Context, collection string, rec Record) (Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored := rec.Clone()
	if stored == nil {
		stored = Record{}
	}
	id, ok := stored.ID()
	if !ok || id == 0 {
		id = f.nextID(collection)
	} else if f.indexOf(collection, id) >= 0 {
		return nil, ErrDuplicateID
	}
	stored["id"] = id

	prev := f.data[collection]
	next := make([]Record, len(prev), len(prev)+1)
	copy(next, prev)
	next = append(next, stored)
	if err := f.commit(collection, prev, next); err != nil {
		return nil, err
	}
	return stored.Clone(), nil
}

func (f *File) Update(_ context.Context, collection string, id int64, patch Record) (Record, error) {
	return f.mutate(collection, id, func(cur Record) Record {
		out := cur.merge(patch)
		out["id"] = id
		return out
	})
}

func (f *File) Replace(_ context.Context, collection string, id int64, rec Record) (Record, error) {
	return f.mutate(collection, id, func(Record) Record {
		out := rec.Clone()
		if out == nil {
			out = Record{}
		}
		out["id"] = id
		return out
	})
}

func (f *File) Delete(_ context.Context, collection string, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.indexOf(collection, id)
	if i < 0 {
		return ErrNotFound
	}
	prev := f.data[collection]
	next := make([]Record, 0, len(prev)-1)
	next = append(next, prev[:i]...)
	next = append(next, prev[i+1:]...)
	return f.commit(collection, prev, next)
}

// Close is a no-op; every write is already on disk.
func (f *File) Close() error { return nil }

func (f *File) mutate(collection string, id int64, fn func(Record) Record) (Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.indexOf(collection, id)
	if i < 0 {
		return nil, ErrNotFound
	}
	prev := f.data[collection]
	next := make([]Record, len(prev))
	copy(next, prev)
	next[i] = fn(prev[i])
	if err := f.commit(collection, prev, next); err != nil {
		return nil, err
	}
	return next[i].Clone(), nil
}

// commit installs next and flushes; on a failed flush prev is restored.
// Caller holds f.mu.
func (f *File) commit(collection string, prev, next []Record) error {
	f.data[collection] = next
	if err := f.flush(); err != nil {
		f.data[collection] = prev
		return err
	}
	return nil
}

// indexOf returns the slice position of id or -1. Caller holds f.mu.
func (f *File) indexOf(collection string, id int64) int {
	for i, rec := range f.data[collection] {
		if rid, ok := rec.ID(); ok && rid == id {
			return i
		}
	}
	return -1
}

// nextID is one past the highest id in use. Caller holds f.mu.
func (f *File) nextID(collection string) int64 {
	var top int64
	for _, rec := range f.data[collection] {
		if id, ok := rec.ID(); ok && id > top {
			top = id
		}
	}
	return top + 1
}

// flush writes the document to a temp file and renames it over the
// original. Caller holds f.mu.
func (f *File) flush() error {
	if f.path == "" {
		return nil
	}
	doc := make(map[string]any, len(f.data)+len(f.other))
	for k, v := range f.other {
		doc[k] = v
	}
	for k, v := range f.data {
		doc[k] = v
	}
	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, body, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}
