package catalog

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/2beens/gymlog/internal/telemetry/tracing"
	"github.com/2beens/gymlog/pkg"

	log "github.com/sirupsen/logrus"
)

type Handler struct {
	client  lookupLister
	lookups *Lookups
}

func NewHandler(client lookupLister, lookups *Lookups) *Handler {
	return &Handler{
		client:  client,
		lookups: lookups,
	}
}

func (h *Handler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.categories")
	defer span.End()

	h.writeLookups(w, "categories", func() ([]Lookup, error) {
		return h.client.ListCategories(ctx)
	}, h.lookups.SetCategories, h.lookups.Categories)
}

func (h *Handler) HandleEquipment(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.equipment")
	defer span.End()

	h.writeLookups(w, "equipment", func() ([]Lookup, error) {
		return h.client.ListEquipment(ctx)
	}, h.lookups.SetEquipment, h.lookups.Equipment)
}

// writeLookups serves a fresh list when the catalog answers, otherwise the last known one.
func (h *Handler) writeLookups(
	w http.ResponseWriter,
	name string,
	fetch func() ([]Lookup, error),
	store func([]Lookup),
	fallback func() []Lookup,
) {
	lookups, err := fetch()
	if err != nil {
		log.Errorf("list %s: %s; serving last known list", name, err)
		lookups = fallback()
		w.Header().Set("X-Catalog-Fallback", "true")
	} else {
		store(lookups)
	}

	lookupsJson, err := json.Marshal(lookups)
	if err != nil {
		log.Errorf("marshal %s: %s", name, err)
		http.Error(w, "failed to marshal "+name, http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, lookupsJson)
}

// RefreshLookups is used at startup to warm the label lookups.
func RefreshLookups(ctx context.Context, client lookupLister, lookups *Lookups) {
	if err := lookups.Refresh(ctx, client); err != nil {
		log.Warnf("catalog lookups not refreshed, using defaults: %s", err)
	}
}
