package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/iliyamo/hotel-management/internal/model"
	"github.com/iliyamo/hotel-management/internal/store"
)

// collection is the typed CRUD shared by every repository.
type collection[T any] struct {
	st   store.Store
	name string
}

func (c collection[T]) get(ctx context.Context, id int64) (T, error) {
	var zero T
	rec, err := c.st.Get(ctx, c.name, id)
	if err != nil {
		return zero, err
	}
	return decode[T](c.name, rec)
}

func (c collection[T]) find(ctx context.Context, q store.Query) (T, error) {
	var zero T
	rec, err := c.st.Find(ctx, c.name, q)
	if err != nil {
		return zero, err
	}
	return decode[T](c.name, rec)
}

func (c collection[T]) list(ctx context.Context, q store.Query) ([]T, error) {
	recs, err := c.st.Filter(ctx, c.name, q)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(recs))
	for _, rec := range recs {
		v, err := decode[T](c.name, rec)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (c collection[T]) create(ctx context.Context, v T) (T, error) {
	var zero T
	rec, err := encode(v)
	if err != nil {
		return zero, err
	}
	stored, err := c.st.Append(ctx, c.name, rec)
	if err != nil {
		return zero, err
	}
	return decode[T](c.name, stored)
}

func (c collection[T]) update(ctx context.Context, id int64, patch store.Record) (T, error) {
	var zero T
	rec, err := c.st.Update(ctx, c.name, id, patch)
	if err != nil {
		return zero, err
	}
	return decode[T](c.name, rec)
}

// decode converts a record to T. For models that keep unknown attributes
// the keys T does not encode are handed over as Extra.
func decode[T any](name string, rec store.Record) (T, error) {
	var v T
	raw, err := json.Marshal(rec)
	if err != nil {
		return v, fmt.Errorf("%w: %s: %v", ErrMalformed, name, err)
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		id, _ := rec.ID()
		return v, fmt.Errorf("%w: %s/%d: %v", ErrMalformed, name, id, err)
	}
	if ext, ok := any(&v).(model.Extensible); ok {
		known, err := encode(v)
		if err != nil {
			return v, err
		}
		extra := model.Extra{}
		for k, val := range rec {
			if _, ok := known[k]; !ok {
				extra[k] = val
			}
		}
		if len(extra) > 0 {
			ext.SetExtra(extra)
		}
	}
	return v, nil
}

// encode turns a model into a record with the same number handling as the
// file store.
func encode(v any) (store.Record, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var rec store.Record
	if err := dec.Decode(&rec); err != nil {
		return nil, err
	}
	return rec, nil
}
