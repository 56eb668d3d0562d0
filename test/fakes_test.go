//go:build integration_test || all_tests

package test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/2beens/gymlog/internal/catalog"

	"github.com/brianvoe/gofakeit/v6"
)

const fakeCatalogPageSize = 10

// fakeCatalog serves the subset of the wger api the service uses, paginated
// the same way: absolute next urls with an offset query param.
type fakeCatalog struct {
	server *httptest.Server

	mu        sync.Mutex
	exercises []catalog.Exercise
	requests  int
}

func newFakeCatalog() *fakeCatalog {
	faker := gofakeit.New(42)

	fc := &fakeCatalog{}
	for i := 1; i <= 25; i++ {
		fc.exercises = append(fc.exercises, catalog.Exercise{
			ID:          1000 + i,
			Name:        fmt.Sprintf("Press %02d %s", i, faker.Word()),
			Description: "<p>" + faker.Sentence(6) + "</p>",
			Category:    10 + i%3,
			Equipment:   []int{1 + i%4},
		})
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/exercisecategory/", fc.lookups([]string{"Abs", "Arms", "Chest"}, 10))
	mux.HandleFunc("/equipment/", fc.lookups([]string{"Barbell", "Bench", "Dumbbell", "Kettlebell"}, 1))
	mux.HandleFunc("/exercise/", fc.handleExercises)
	fc.server = httptest.NewServer(mux)

	return fc
}

func (fc *fakeCatalog) URL() string {
	return fc.server.URL
}

func (fc *fakeCatalog) Close() {
	fc.server.Close()
}

func (fc *fakeCatalog) Requests() int {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.requests
}

func (fc *fakeCatalog) lookups(names []string, firstID int) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		type record struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		}
		results := make([]record, 0, len(names))
		for i, n := range names {
			results = append(results, record{ID: firstID + i, Name: n})
		}
		writeJSON(w, map[string]any{
			"count":   len(results),
			"next":    nil,
			"results": results,
		})
	}
}

func (fc *fakeCatalog) handleExercises(w http.ResponseWriter, r *http.Request) {
	fc.mu.Lock()
	fc.requests++
	fc.mu.Unlock()

	q := r.URL.Query()
	name := strings.ToLower(q.Get("name"))
	category := q.Get("category")

	matching := make([]catalog.Exercise, 0, len(fc.exercises))
	for _, e := range fc.exercises {
		if name != "" && !strings.Contains(strings.ToLower(e.Name), name) {
			continue
		}
		if category != "" && strconv.Itoa(e.Category) != category {
			continue
		}
		matching = append(matching, e)
	}

	offset, _ := strconv.Atoi(q.Get("offset"))
	end := min(offset+fakeCatalogPageSize, len(matching))
	if offset > end {
		offset = end
	}

	var next *string
	if end < len(matching) {
		nq := r.URL.Query()
		nq.Set("offset", strconv.Itoa(end))
		nextURL := fc.server.URL + r.URL.Path + "?" + nq.Encode()
		next = &nextURL
	}

	writeJSON(w, catalog.Page{
		Count:   len(matching),
		Next:    next,
		Results: matching[offset:end],
	})
}

// newFakeGeocoder answers every nominatim reverse lookup with the same address.
func newFakeGeocoder() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reverse" {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, map[string]any{
			"display_name": "Gym Street 5, Belgrade, Serbia",
			"address": map[string]string{
				"road":         "Gym Street",
				"house_number": "5",
				"city":         "Belgrade",
				"country":      "Serbia",
			},
		})
	}))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
