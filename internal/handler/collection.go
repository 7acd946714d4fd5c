package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-management/internal/middleware"
	"github.com/iliyamo/hotel-management/internal/model"
	"github.com/iliyamo/hotel-management/internal/store"
	"github.com/iliyamo/hotel-management/internal/tenant"
)

// collections served by the generic REST routes.
var collections = map[string]bool{
	model.CollUsers:           true,
	model.CollRooms:           true,
	model.CollBookings:        true,
	model.CollDevices:         true,
	model.CollServiceRequests: true,
	model.CollStaffRequests:   true,
	model.CollNotifications:   true,
	model.CollPreferences:     true,
	model.CollHotels:          true,
}

// PasswordHasher hashes passwords written through /users.
type PasswordHasher interface {
	HashPassword(plain string) (string, error)
}

// CollectionHandler is plain CRUD over the record store for every
// collection in the allow-list.
type CollectionHandler struct {
	Store  store.Store
	Hasher PasswordHasher
	Log    *zap.Logger
}

func NewCollectionHandler(st store.Store, h PasswordHasher, log *zap.Logger) *CollectionHandler {
	return &CollectionHandler{Store: st, Hasher: h, Log: log}
}

func collectionParam(c echo.Context) (string, error) {
	name := c.Param("collection")
	if !collections[name] {
		return "", fmt.Errorf("%w: %q", ErrUnknownCollection, name)
	}
	return name, nil
}

// List returns the collection filtered by the query string. Keys starting
// with "_" are reserved and ignored, as are keys that cannot name a field.
// Scoped collections are restricted to the request's tenant.
func (h *CollectionHandler) List(c echo.Context) error {
	name, err := collectionParam(c)
	if err != nil {
		return err
	}
	q := store.Query{Where: map[string]string{}}
	for k, vals := range c.QueryParams() {
		if strings.HasPrefix(k, "_") || !store.ValidField(k) || len(vals) == 0 {
			continue
		}
		q.Where[k] = vals[0]
	}
	if tenant.Scoped(name) {
		q = q.Scoped(middleware.TenantFrom(c))
	}
	recs, err := h.Store.Filter(c.Request().Context(), name, q)
	if err != nil {
		return err
	}
	for _, rec := range recs {
		sanitize(name, rec)
	}
	return c.JSON(http.StatusOK, recs)
}

func (h *CollectionHandler) Get(c echo.Context) error {
	name, err := collectionParam(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, store.ErrNotFound)
	if err != nil {
		return err
	}
	rec, err := h.Store.Get(c.Request().Context(), name, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sanitize(name, rec))
}

func (h *CollectionHandler) Create(c echo.Context) error {
	name, err := collectionParam(c)
	if err != nil {
		return err
	}
	rec, err := h.decode(c, name)
	if err != nil {
		return err
	}
	out, err := h.Store.Append(c.Request().Context(), name, rec)
	if err != nil {
		return err
	}
	id, _ := out.ID()
	h.Log.Info("record created", zap.String("collection", name), zap.Int64("id", id))
	return c.JSON(http.StatusCreated, sanitize(name, out))
}

// Replace: PUT swaps the whole record.
func (h *CollectionHandler) Replace(c echo.Context) error {
	return h.write(c, h.Store.Replace)
}

// Patch merges the body's top-level keys into the record.
func (h *CollectionHandler) Patch(c echo.Context) error {
	return h.write(c, h.Store.Update)
}

func (h *CollectionHandler) Delete(c echo.Context) error {
	name, err := collectionParam(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, store.ErrNotFound)
	if err != nil {
		return err
	}
	if err := h.Store.Delete(c.Request().Context(), name, id); err != nil {
		return err
	}
	h.Log.Info("record deleted", zap.String("collection", name), zap.Int64("id", id))
	return c.JSON(http.StatusOK, echo.Map{})
}

type writeFunc func(ctx context.Context, collection string, id int64, rec store.Record) (store.Record, error)

func (h *CollectionHandler) write(c echo.Context, fn writeFunc) error {
	name, err := collectionParam(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, store.ErrNotFound)
	if err != nil {
		return err
	}
	rec, err := h.decode(c, name)
	if err != nil {
		return err
	}
	delete(rec, "id")
	ctx := c.Request().Context()
	if name == model.CollUsers {
		if err := h.keepPasswordHash(ctx, id, rec); err != nil {
			return err
		}
	}
	out, err := fn(ctx, name, id, rec)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sanitize(name, out))
}

// decode reads a JSON object keeping numbers exact. Passwords sent for
// users are replaced by their hash.
func (h *CollectionHandler) decode(c echo.Context, name string) (store.Record, error) {
	dec := json.NewDecoder(c.Request().Body)
	dec.UseNumber()
	var rec store.Record
	if err := dec.Decode(&rec); err != nil {
		if errors.Is(err, io.EOF) {
			return store.Record{}, nil
		}
		return nil, errInvalidBody.WithInternal(err)
	}
	if rec == nil {
		rec = store.Record{}
	}
	if name != model.CollUsers {
		return rec, nil
	}
	delete(rec, "passwordHash")
	if pw, ok := rec["password"].(string); ok && pw != "" {
		hash, err := h.Hasher.HashPassword(pw)
		if err != nil {
			return nil, err
		}
		rec["passwordHash"] = hash
	}
	delete(rec, "password")
	return rec, nil
}

// keepPasswordHash carries the stored hash over when the body sets no new
// password, so replacing a user does not lock them out.
func (h *CollectionHandler) keepPasswordHash(ctx context.Context, id int64, rec store.Record) error {
	if _, ok := rec["passwordHash"]; ok {
		return nil
	}
	cur, err := h.Store.Get(ctx, model.CollUsers, id)
	if err != nil {
		return err
	}
	if hash, ok := cur["passwordHash"]; ok {
		rec["passwordHash"] = hash
	}
	return nil
}

// sanitize strips password material from user records in place.
func sanitize(collection string, rec store.Record) store.Record {
	if collection == model.CollUsers {
		delete(rec, "password")
		delete(rec, "passwordHash")
	}
	return rec
}
