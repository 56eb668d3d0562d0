package logsession

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
	_ "time/tzdata" // client zones resolve without a system zoneinfo

	"github.com/2beens/gymlog/internal/geocode"
	"github.com/2beens/gymlog/internal/gymlog/sets"
	"github.com/2beens/gymlog/internal/telemetry/tracing"
	"github.com/2beens/gymlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// OpenRequest carries the client's calendar day, as a date or an IANA time zone,
// so sessions opened around midnight default to the device's day.
type OpenRequest struct {
	Exercise  Exercise `json:"exercise"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Date      string   `json:"date"`
	TimeZone  string   `json:"timeZone"`
}

// LocalNow moves now onto the client's day. An explicit date wins over the time zone;
// with neither set, now is returned as is.
func (r OpenRequest) LocalNow(now time.Time) (time.Time, error) {
	if r.Date != "" {
		date, err := sets.NormalizeDate(r.Date)
		if err != nil {
			return time.Time{}, err
		}
		return time.Parse(sets.DateLayout, date)
	}
	if r.TimeZone != "" {
		loc, err := time.LoadLocation(r.TimeZone)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid time zone [%s]: %w", r.TimeZone, err)
		}
		return now.In(loc), nil
	}
	return now, nil
}

func (r OpenRequest) Coordinates() *geocode.Coordinates {
	if r.Latitude == nil || r.Longitude == nil {
		return nil
	}
	return &geocode.Coordinates{
		Latitude:  *r.Latitude,
		Longitude: *r.Longitude,
	}
}

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

func (handler *Handler) HandleOpen(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.logsession.open")
	defer span.End()

	var req OpenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "error, invalid request body", http.StatusBadRequest)
		return
	}
	if req.Exercise.Name == "" {
		http.Error(w, "error, exercise name empty", http.StatusBadRequest)
		return
	}

	clientIP, err := pkg.ReadUserIP(r)
	if err != nil {
		log.Debugf("open logging session, client ip: %s", err)
	}

	now, err := req.LocalNow(handler.store.now())
	if err != nil {
		http.Error(w, "error, "+err.Error(), http.StatusBadRequest)
		return
	}

	id, session := handler.store.Open(ctx, req.Exercise, now, req.Coordinates(), clientIP)
	log.Debugf("logging session opened for [%s]: %s", req.Exercise.Name, id)
	writeSession(w, id, session.Snapshot(), http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, session, ok := handler.session(w, r)
	if !ok {
		return
	}
	writeSession(w, id, session.Snapshot(), http.StatusOK)
}

func (handler *Handler) HandleSetFields(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.logsession.setFields")
	defer span.End()

	id, session, ok := handler.session(w, r)
	if !ok {
		return
	}

	var update FieldsUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "error, invalid request body", http.StatusBadRequest)
		return
	}

	snapshot, err := session.SetFields(ctx, update)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	writeSession(w, id, snapshot, http.StatusOK)
}

func (handler *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.logsession.save")
	defer span.End()

	id, session, ok := handler.session(w, r)
	if !ok {
		return
	}

	snapshot, err := session.Save(ctx)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, ErrSessionClosed):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			log.Errorf("save set of logging session %s: %s", id, err)
			http.Error(w, "failed to save set, try again", http.StatusInternalServerError)
		}
		return
	}
	writeSession(w, id, snapshot, http.StatusOK)
}

func (handler *Handler) HandleClose(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	snapshot, found := handler.store.Close(id)
	if !found {
		http.Error(w, "logging session not found", http.StatusNotFound)
		return
	}
	writeSession(w, id, snapshot, http.StatusOK)
}

func (handler *Handler) session(w http.ResponseWriter, r *http.Request) (string, *Session, bool) {
	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "error, session id empty", http.StatusBadRequest)
		return "", nil, false
	}
	session, found := handler.store.Get(id)
	if !found {
		http.Error(w, "logging session not found", http.StatusNotFound)
		return "", nil, false
	}
	return id, session, true
}

func writeSession(w http.ResponseWriter, id string, snapshot Snapshot, status int) {
	respJson, err := json.Marshal(SessionResponse{
		ID:      id,
		Session: snapshot,
	})
	if err != nil {
		log.Errorf("marshal logging session %s: %s", id, err)
		http.Error(w, "failed to marshal logging session", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, status)
}
