package sets

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/2beens/gymlog/internal/telemetry/tracing"
	"github.com/2beens/gymlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=sets_test

type setsService interface {
	List(ctx context.Context, filter Filter) ([]LoggedSet, error)
	Import(ctx context.Context, set LoggedSet) (*LoggedSet, error)
	CorrectWeightLog(ctx context.Context, id int, weightLog string) error
	Find(ctx context.Context, name, date, location string) (*LoggedSet, error)
}

type ListResponse struct {
	Sets  []LoggedSet `json:"sets"`
	Total int         `json:"total"`
}

type UpdateWeightLogRequest struct {
	WeightLog string `json:"weightLog"`
}

type Handler struct {
	service setsService
}

func NewHandler(service setsService) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sets.list")
	defer span.End()

	filter, ok := filterFromRequest(w, r)
	if !ok {
		return
	}

	loggedSets, err := handler.service.List(ctx, filter)
	if err != nil {
		log.Errorf("list logged sets: %s", err)
		http.Error(w, "failed to get logged sets", http.StatusInternalServerError)
		return
	}

	resp := ListResponse{
		Sets:  loggedSets,
		Total: len(loggedSets),
	}
	respJson, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("marshal logged sets: %s", err)
		http.Error(w, "failed to marshal logged sets", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func (handler *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sets.export")
	defer span.End()

	filter, ok := filterFromRequest(w, r)
	if !ok {
		return
	}

	loggedSets, err := handler.service.List(ctx, filter)
	if err != nil {
		log.Errorf("export logged sets: %s", err)
		http.Error(w, "failed to export logged sets", http.StatusInternalServerError)
		return
	}

	csvBytes, err := ToCSV(loggedSets)
	if err != nil {
		log.Errorf("export logged sets, write csv: %s", err)
		http.Error(w, "failed to export logged sets", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="gymlog.csv"`)
	pkg.WriteResponseBytesOK(w, pkg.ContentType.CSV, csvBytes)
}

func (handler *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sets.import")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var set LoggedSet
	if err := json.NewDecoder(r.Body).Decode(&set); err != nil {
		log.Errorf("import logged set, unmarshal json: %s", err)
		http.Error(w, "import logged set failed", http.StatusBadRequest)
		return
	}
	if set.Name == "" || set.Location == "" || set.WeightLog == "" {
		http.Error(w, "error, name, location or weight log empty", http.StatusBadRequest)
		return
	}

	added, err := handler.service.Import(ctx, set)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidDate):
			http.Error(w, "error, invalid date", http.StatusBadRequest)
		case errors.Is(err, ErrLoggedSetExists):
			http.Error(w, "error, set already logged for that exercise, date and location", http.StatusConflict)
		default:
			log.Errorf("import logged set [%s] [%s]: %s", set.Name, set.Date, err)
			http.Error(w, "error, failed to import logged set", http.StatusInternalServerError)
		}
		return
	}

	addedJson, err := json.Marshal(added)
	if err != nil {
		log.Errorf("marshal imported set: %s", err)
		http.Error(w, "error, failed to import logged set", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedJson, http.StatusCreated)
}

func (handler *Handler) HandleUpdateWeightLog(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sets.updateWeightLog")
	defer span.End()

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	var req UpdateWeightLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "error, invalid request body", http.StatusBadRequest)
		return
	}
	if req.WeightLog == "" {
		http.Error(w, "error, weight log empty", http.StatusBadRequest)
		return
	}

	if err := handler.service.CorrectWeightLog(ctx, id, req.WeightLog); err != nil {
		if errors.Is(err, ErrLoggedSetNotFound) {
			http.Error(w, "logged set not found", http.StatusNotFound)
			return
		}
		log.Errorf("update weight log of set %d: %s", id, err)
		http.Error(w, "error, weight log not updated", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponse(w, pkg.ContentType.Text, "updated:"+strconv.Itoa(id), http.StatusOK)
}

func (handler *Handler) HandleFind(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sets.find")
	defer span.End()

	query := r.URL.Query()
	name, date, location := query.Get("name"), query.Get("date"), query.Get("location")
	if name == "" || date == "" || location == "" {
		http.Error(w, "error, name, date and location are required", http.StatusBadRequest)
		return
	}

	set, err := handler.service.Find(ctx, name, date, location)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidDate):
			http.Error(w, "error, invalid date", http.StatusBadRequest)
		case errors.Is(err, ErrLoggedSetNotFound):
			http.Error(w, "logged set not found", http.StatusNotFound)
		default:
			log.Errorf("find logged set [%s] [%s] [%s]: %s", name, date, location, err)
			http.Error(w, "failed to find logged set", http.StatusInternalServerError)
		}
		return
	}

	setJson, err := json.Marshal(set)
	if err != nil {
		log.Errorf("marshal logged set: %s", err)
		http.Error(w, "failed to marshal logged set", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, setJson)
}

// ToCSV writes one row per weight log entry, so spreadsheets get a flat table.
func ToCSV(loggedSets []LoggedSet) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write([]string{"date", "location", "exercise", "set", "entry"}); err != nil {
		return nil, err
	}

	for _, set := range loggedSets {
		for i, entry := range set.Entries() {
			record := []string{set.Date, set.Location, set.Name, strconv.Itoa(i + 1), entry}
			if err := writer.Write(record); err != nil {
				return nil, err
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func filterFromRequest(w http.ResponseWriter, r *http.Request) (Filter, bool) {
	query := r.URL.Query()
	filter, err := ParseFilter(query.Get("from"), query.Get("until"))
	if err != nil {
		log.Debugf("invalid sets filter: %s", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return Filter{}, false
	}
	return filter, true
}
