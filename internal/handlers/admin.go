package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/city-directory/internal/db"
	"github.com/ukydev/city-directory/internal/events"
	"github.com/ukydev/city-directory/internal/middleware"
	"github.com/ukydev/city-directory/internal/proximity"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ReferenceReloader is the write side of the reference table cache.
type ReferenceReloader interface {
	Load(ctx context.Context) ([]proximity.Reference, error)
	Invalidate()
}

// ChangeNotifier announces admin writes so every instance can drop
// stale cached data.
type ChangeNotifier struct {
	bus        events.Bus
	references ReferenceReloader
	source     string
}

// NewChangeNotifier creates a notifier publishing on bus as source.
func NewChangeNotifier(bus events.Bus, references ReferenceReloader, source string) *ChangeNotifier {
	return &ChangeNotifier{bus: bus, references: references, source: source}
}

// Changed invalidates local caches for collection and publishes the event.
// Publish failures are logged; the write has already happened.
func (n *ChangeNotifier) Changed(ctx context.Context, eventType, collection, id string) {
	if n == nil {
		return
	}
	if collection == db.ReferenceShopsCollection && n.references != nil {
		n.references.Invalidate()
	}
	n.publish(ctx, eventType, collection, id)
}

func (n *ChangeNotifier) publish(ctx context.Context, eventType, collection, id string) {
	if n == nil || n.bus == nil {
		return
	}
	e := events.Event{Type: eventType, Collection: collection, ID: id, Source: n.source, At: time.Now().UTC()}
	if err := n.bus.Publish(ctx, e); err != nil {
		log.WithError(err).WithFields(log.Fields{"collection": collection, "type": eventType}).Warn("Failed to publish change event")
	}
}

// ResourceHandler exposes admin CRUD for one collection.
type ResourceHandler[T any] struct {
	name       string
	collection string
	store      db.Repository[T]
	validate   func(*T) error
	notifier   *ChangeNotifier
}

// NewResourceHandler creates CRUD handlers over store. validate may be nil.
func NewResourceHandler[T any](name, collection string, store db.Repository[T], validate func(*T) error, notifier *ChangeNotifier) *ResourceHandler[T] {
	return &ResourceHandler[T]{
		name:       name,
		collection: collection,
		store:      store,
		validate:   validate,
		notifier:   notifier,
	}
}

// Register mounts the CRUD routes on r, which is expected to be prefixed
// with the collection path.
func (h *ResourceHandler[T]) Register(r *mux.Router) {
	r.HandleFunc("", h.List).Methods(http.MethodGet)
	r.HandleFunc("", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/{id}", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/{id}", h.Update).Methods(http.MethodPut)
	r.HandleFunc("/{id}", h.Delete).Methods(http.MethodDelete)
}

func (h *ResourceHandler[T]) List(w http.ResponseWriter, r *http.Request) {
	limit, err := optionalInt(r, "limit")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	docs, err := h.store.Find(r.Context(), bson.M{}, opts)
	if err != nil {
		writeStoreError(w, r, err, h.name)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

func (h *ResourceHandler[T]) Get(w http.ResponseWriter, r *http.Request) {
	doc, err := h.store.FindByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeStoreError(w, r, err, h.name)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *ResourceHandler[T]) Create(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.decode(w, r)
	if !ok {
		return
	}

	id, err := h.store.Insert(r.Context(), doc)
	if err != nil {
		writeStoreError(w, r, err, h.name)
		return
	}

	h.audit(r, "created", id)
	h.notifier.Changed(r.Context(), events.TypeCreated, h.collection, id)
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *ResourceHandler[T]) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	doc, ok := h.decode(w, r)
	if !ok {
		return
	}

	if err := h.store.Update(r.Context(), id, doc); err != nil {
		writeStoreError(w, r, err, h.name)
		return
	}

	h.audit(r, "updated", id)
	h.notifier.Changed(r.Context(), events.TypeUpdated, h.collection, id)
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

func (h *ResourceHandler[T]) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.store.Delete(r.Context(), id); err != nil {
		writeStoreError(w, r, err, h.name)
		return
	}

	h.audit(r, "deleted", id)
	h.notifier.Changed(r.Context(), events.TypeDeleted, h.collection, id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *ResourceHandler[T]) decode(w http.ResponseWriter, r *http.Request) (T, bool) {
	var doc T
	if !decodeBody(w, r, &doc) {
		return doc, false
	}
	if h.validate != nil {
		if err := h.validate(&doc); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return doc, false
		}
	}
	return doc, true
}

func (h *ResourceHandler[T]) audit(r *http.Request, action, id string) {
	fields := log.Fields{"collection": h.collection, "id": id}
	if claims, ok := middleware.GetUserFromContext(r.Context()); ok {
		fields["user"] = claims.Username
	}
	log.WithFields(fields).Infof("Admin %s %s", action, h.name)
}

// ReferenceAdmin serves the reference table maintenance endpoints that sit
// beside plain CRUD.
type ReferenceAdmin struct {
	references ReferenceReloader
	notifier   *ChangeNotifier
}

// NewReferenceAdmin creates a new reference admin handler
func NewReferenceAdmin(references ReferenceReloader, notifier *ChangeNotifier) *ReferenceAdmin {
	return &ReferenceAdmin{references: references, notifier: notifier}
}

// Reload forces the reference table to be fetched again and tells the
// other instances to drop theirs.
func (h *ReferenceAdmin) Reload(w http.ResponseWriter, r *http.Request) {
	table, err := h.references.Load(r.Context())
	if err != nil {
		log.WithError(err).Error("Reference table reload failed")
		http.Error(w, "Failed to reload reference table", http.StatusInternalServerError)
		return
	}

	h.notifier.publish(r.Context(), events.TypeReloaded, db.ReferenceShopsCollection, "")
	writeJSON(w, http.StatusOK, map[string]int{"count": len(table)})
}
