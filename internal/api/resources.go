package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/movie-catalog/internal/audit"
	"github.com/nerrad567/movie-catalog/internal/auth"
	"github.com/nerrad567/movie-catalog/internal/crud"
)

// entityService is the service surface a resource route set needs.
// *crud.Service[E] and the services that embed it satisfy it.
type entityService[E any] interface {
	List(ctx context.Context, filter crud.Filter) ([]E, error)
	Get(ctx context.Context, id int64) (*E, error)
	Create(ctx context.Context, entity *E) error
	Update(ctx context.Context, id int64, patch crud.Patch[E]) (int64, error)
	Delete(ctx context.Context, id int64) error
}

// resource serves the five CRUD routes for one entity type.
type resource[E any] struct {
	server *Server
	name   string
	path   string
	svc    entityService[E]
	id     func(*E) *int64

	// list overrides the default unfiltered listing. It may return
	// fieldErrors to reject the query.
	list func(r *http.Request) ([]E, error)

	// read and write gate the routes.
	read  auth.Requirement
	write auth.Requirement
}

// routes mounts the resource on r. Numeric ids only; anything else is 404.
func (res *resource[E]) routes(r chi.Router) {
	r.With(res.server.require(res.read)).Get("/", res.handleList)
	r.With(res.server.require(res.write)).Post("/", res.handleCreate)

	r.Route("/{id:[0-9]+}", func(r chi.Router) {
		r.With(res.server.require(res.read)).Get("/", res.handleGet)
		r.With(res.server.require(res.write)).Put("/", res.handleUpdate)
		r.With(res.server.require(res.write)).Delete("/", res.handleDelete)
	})
}

func (res *resource[E]) handleList(w http.ResponseWriter, r *http.Request) {
	var (
		items []E
		err   error
	)
	if res.list != nil {
		items, err = res.list(r)
	} else {
		items, err = res.svc.List(r.Context(), nil)
	}

	var fe fieldErrors
	if errors.As(err, &fe) {
		writeJSON(w, http.StatusBadRequest, fe)
		return
	}
	if err != nil {
		res.server.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (res *resource[E]) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := res.idParam(w, r)
	if !ok {
		return
	}

	item, err := res.svc.Get(r.Context(), id)
	if err != nil {
		res.server.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (res *resource[E]) handleCreate(w http.ResponseWriter, r *http.Request) {
	var item E
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := res.svc.Create(r.Context(), &item); err != nil {
		res.server.writeDomainError(w, r, err)
		return
	}

	id := *res.id(&item)
	res.audit(r, audit.ActionCreate, id)
	w.Header().Set("Location", fmt.Sprintf("%s/%d", res.path, id))
	writeJSON(w, http.StatusCreated, item)
}

// handleUpdate writes the body under the service's update policy. It
// answers 204 when no row was changed, otherwise 200 with the stored entity.
func (res *resource[E]) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := res.idParam(w, r)
	if !ok {
		return
	}

	patch, err := crud.DecodePatch[E](r.Body)
	if err != nil {
		res.server.writeDomainError(w, r, err)
		return
	}

	n, err := res.svc.Update(r.Context(), id, patch)
	if err != nil {
		res.server.writeDomainError(w, r, err)
		return
	}
	if n == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	res.audit(r, audit.ActionUpdate, id)

	item, err := res.svc.Get(r.Context(), id)
	if err != nil {
		res.server.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (res *resource[E]) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := res.idParam(w, r)
	if !ok {
		return
	}

	if err := res.svc.Delete(r.Context(), id); err != nil {
		res.server.writeDomainError(w, r, err)
		return
	}
	res.audit(r, audit.ActionDelete, id)
	w.WriteHeader(http.StatusNoContent)
}

// idParam parses the {id} URL parameter. The route pattern guarantees
// digits, so only overflow can fail here.
func (res *resource[E]) idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, ErrCodeNotFound, fmt.Sprintf("no %s found with id %s", res.name, chi.URLParam(r, "id")))
		return 0, false
	}
	return id, true
}

// audit logs a successful write and appends it to the audit trail. A trail
// failure is logged but does not fail the request, which has already
// committed.
func (res *resource[E]) audit(r *http.Request, action string, id int64) {
	actor := ""
	if claims := claimsFromContext(r.Context()); claims != nil {
		actor = claims.Username
	}
	requestID := requestIDFrom(r.Context())

	res.server.logger.Info("resource written",
		"entity", res.name,
		"action", action,
		"id", id,
		"actor", actor,
		"request_id", requestID,
	)

	if res.server.audit == nil {
		return
	}
	entry := &audit.Entry{
		Action:     action,
		EntityType: res.name,
		EntityID:   id,
		Actor:      actor,
		RequestID:  requestID,
	}
	if err := res.server.audit.Record(r.Context(), entry); err != nil {
		res.server.logger.Error("recording audit entry failed",
			"entity", res.name,
			"id", id,
			"request_id", requestID,
			"error", err,
		)
	}
}
