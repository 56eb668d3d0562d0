package search

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2beens/gymlog/internal/catalog"
	"github.com/2beens/gymlog/internal/telemetry/tracing"
	"github.com/2beens/gymlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type SessionResponse struct {
	ID      string   `json:"id"`
	Session Snapshot `json:"session"`
}

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{
		store: store,
	}
}

func (handler *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.search.create")
	defer span.End()

	id, session := handler.store.Create()
	log.Debugf("search session created: %s", id)
	writeSession(w, id, session, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, session, ok := handler.session(w, r)
	if !ok {
		return
	}
	writeSession(w, id, session, http.StatusOK)
}

func (handler *Handler) HandleQuery(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.search.query")
	defer span.End()

	id, session, ok := handler.session(w, r)
	if !ok {
		return
	}

	var params catalog.SearchParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		http.Error(w, "error, invalid search params", http.StatusBadRequest)
		return
	}

	if err := session.Search(ctx, params); err != nil {
		writeFetchError(w, err)
		return
	}
	writeSession(w, id, session, http.StatusOK)
}

func (handler *Handler) HandleMore(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.search.more")
	defer span.End()

	id, session, ok := handler.session(w, r)
	if !ok {
		return
	}

	if err := session.More(ctx); err != nil && !errors.Is(err, ErrNoMorePages) {
		writeFetchError(w, err)
		return
	}
	writeSession(w, id, session, http.StatusOK)
}

func (handler *Handler) HandleClear(w http.ResponseWriter, r *http.Request) {
	id, session, ok := handler.session(w, r)
	if !ok {
		return
	}
	session.Clear()
	writeSession(w, id, session, http.StatusOK)
}

func (handler *Handler) HandleDrop(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !handler.store.Drop(id) {
		http.Error(w, "search session not found", http.StatusNotFound)
		return
	}
	pkg.WriteResponse(w, pkg.ContentType.Text, "deleted:"+id, http.StatusOK)
}

func (handler *Handler) session(w http.ResponseWriter, r *http.Request) (string, *Session, bool) {
	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "error, session id empty", http.StatusBadRequest)
		return "", nil, false
	}
	session, found := handler.store.Get(id)
	if !found {
		http.Error(w, "search session not found", http.StatusNotFound)
		return "", nil, false
	}
	return id, session, true
}

func writeFetchError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrFetchInFlight):
		http.Error(w, "a search is already in progress", http.StatusConflict)
	case errors.Is(err, catalog.ErrCatalogUnavailable):
		http.Error(w, "exercise catalog unavailable, try again", http.StatusBadGateway)
	default:
		http.Error(w, "search failed", http.StatusInternalServerError)
	}
}

func writeSession(w http.ResponseWriter, id string, session *Session, status int) {
	respJson, err := json.Marshal(SessionResponse{
		ID:      id,
		Session: session.Snapshot(),
	})
	if err != nil {
		log.Errorf("marshal search session %s: %s", id, err)
		http.Error(w, "failed to marshal search session", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, status)
}
