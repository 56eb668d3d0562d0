package search

import (
	"github.com/2beens/gymlog/internal/catalog"
	"github.com/2beens/gymlog/internal/gymlog/favorites"
)

// Snapshot is the client visible state of a search session.
type Snapshot struct {
	Params      catalog.SearchParams          `json:"params"`
	Results     []favorites.AnnotatedExercise `json:"results"`
	Count       int                           `json:"count"`
	Next        *string                       `json:"next"`
	Loading     bool                          `json:"loading"`
	LoadingMore bool                          `json:"loadingMore"`
}

type state struct {
	Snapshot
	// bumped by every new search and clear; results of an older fetch are dropped
	generation int
}

type action interface {
	isAction()
}

type searchStarted struct{}

type searchSucceeded struct {
	generation int
	params     catalog.SearchParams
	count      int
	next       *string
	results    []favorites.AnnotatedExercise
}

type searchFinished struct{}

type moreStarted struct{}

type moreSucceeded struct {
	generation int
	count      int
	next       *string
	results    []favorites.AnnotatedExercise
}

type moreFinished struct{}

type cleared struct{}

type favoriteMarked struct {
	exerciseID string
	isFavorite bool
}

func (searchStarted) isAction()   {}
func (searchSucceeded) isAction() {}
func (searchFinished) isAction()  {}
func (moreStarted) isAction()     {}
func (moreSucceeded) isAction()   {}
func (moreFinished) isAction()    {}
func (cleared) isAction()         {}
func (favoriteMarked) isAction()  {}

func initialState() state {
	return state{
		Snapshot: Snapshot{
			Results: []favorites.AnnotatedExercise{},
		},
	}
}

// reduce returns the state after applying a; s is never modified in place.
func reduce(s state, a action) state {
	switch a := a.(type) {
	case searchStarted:
		s.generation++
		s.Loading = true
	case searchSucceeded:
		if a.generation != s.generation {
			return s
		}
		s.Params = a.params
		s.Count = a.count
		s.Next = a.next
		s.Results = append([]favorites.AnnotatedExercise{}, a.results...)
	case searchFinished:
		s.Loading = false
	case moreStarted:
		s.LoadingMore = true
	case moreSucceeded:
		if a.generation != s.generation {
			return s
		}
		results := make([]favorites.AnnotatedExercise, 0, len(s.Results)+len(a.results))
		results = append(results, s.Results...)
		s.Results = append(results, a.results...)
		s.Count = a.count
		s.Next = a.next
	case moreFinished:
		s.LoadingMore = false
	case cleared:
		s.generation++
		s.Params = catalog.SearchParams{}
		s.Results = []favorites.AnnotatedExercise{}
		s.Count = 0
		s.Next = nil
	case favoriteMarked:
		results := make([]favorites.AnnotatedExercise, len(s.Results))
		copy(results, s.Results)
		for i := range results {
			if results[i].IDString() == a.exerciseID {
				results[i].IsFavorite = a.isFavorite
			}
		}
		s.Results = results
	}
	return s
}
