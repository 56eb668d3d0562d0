package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2beens/gymlog/internal/catalog"
	"github.com/2beens/gymlog/internal/telemetry/tracing"
	"github.com/2beens/gymlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=favorites_test

type favoritesService interface {
	Add(ctx context.Context, exercise catalog.Exercise) (*Favorite, error)
	Remove(ctx context.Context, exerciseID string) (bool, error)
	List(ctx context.Context) ([]Favorite, error)
}

// favoriteMarker flips the favorite flag of an exercise in the results of a search session.
type favoriteMarker interface {
	MarkFavorite(sessionID, exerciseID string, isFavorite bool) bool
}

type AddRequest struct {
	Exercise        catalog.Exercise `json:"exercise"`
	SearchSessionID string           `json:"searchSessionId"`
}

type RemoveResponse struct {
	ExerciseID string `json:"exerciseId"`
	Removed    bool   `json:"removed"`
}

type Handler struct {
	service favoritesService
	lookups *catalog.Lookups
	marker  favoriteMarker
}

func NewHandler(service favoritesService, lookups *catalog.Lookups, marker favoriteMarker) *Handler {
	return &Handler{
		service: service,
		lookups: lookups,
		marker:  marker,
	}
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.favorites.list")
	defer span.End()

	favorites, err := handler.service.List(ctx)
	if err != nil {
		log.Errorf("list favorites: %s", err)
		http.Error(w, "failed to get favorites", http.StatusInternalServerError)
		return
	}

	labeled := make([]LabeledFavorite, 0, len(favorites))
	for _, f := range favorites {
		labeled = append(labeled, LabeledFavorite{
			Favorite:       f,
			CategoryLabel:  handler.lookups.CategoryLabel(f.Category),
			EquipmentLabel: handler.lookups.EquipmentLabels(f.Equipment),
		})
	}

	favoritesJson, err := json.Marshal(labeled)
	if err != nil {
		log.Errorf("marshal favorites: %s", err)
		http.Error(w, "failed to marshal favorites", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, favoritesJson)
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.favorites.add")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req AddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("add favorite, unmarshal json params: %s", err)
		http.Error(w, "add favorite failed", http.StatusBadRequest)
		return
	}
	if req.Exercise.ID <= 0 || req.Exercise.Name == "" {
		http.Error(w, "error, exercise id or name empty", http.StatusBadRequest)
		return
	}

	added, err := handler.service.Add(ctx, req.Exercise)
	if err != nil {
		if errors.Is(err, ErrFavoriteExists) {
			http.Error(w, "exercise already in favorites", http.StatusConflict)
			return
		}
		log.Errorf("add favorite [%d]: %s", req.Exercise.ID, err)
		http.Error(w, "error, failed to add favorite", http.StatusInternalServerError)
		return
	}

	handler.mark(req.SearchSessionID, added.ExerciseID, true)

	addedJson, err := json.Marshal(added)
	if err != nil {
		log.Errorf("marshal added favorite: %s", err)
		http.Error(w, "error, failed to add favorite", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedJson, http.StatusCreated)
}

func (handler *Handler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.favorites.remove")
	defer span.End()

	exerciseID := mux.Vars(r)["exerciseId"]
	if exerciseID == "" {
		http.Error(w, "error, exercise id empty", http.StatusBadRequest)
		return
	}

	removed, err := handler.service.Remove(ctx, exerciseID)
	if err != nil {
		log.Errorf("remove favorite [%s]: %s", exerciseID, err)
		http.Error(w, "error, favorite not removed", http.StatusInternalServerError)
		return
	}

	// nothing stored, nothing to reconcile
	if removed {
		handler.mark(r.URL.Query().Get("searchSessionId"), exerciseID, false)
	}

	respJson, err := json.Marshal(RemoveResponse{
		ExerciseID: exerciseID,
		Removed:    removed,
	})
	if err != nil {
		log.Errorf("marshal remove favorite response: %s", err)
		http.Error(w, "error, failed to marshal response", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func (handler *Handler) mark(searchSessionID, exerciseID string, isFavorite bool) {
	if searchSessionID == "" || handler.marker == nil {
		return
	}
	if !handler.marker.MarkFavorite(searchSessionID, exerciseID, isFavorite) {
		log.Debugf("search session [%s] gone, favorite flag of [%s] not updated", searchSessionID, exerciseID)
	}
}
