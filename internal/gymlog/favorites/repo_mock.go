package favorites

import (
	"context"
	"sort"
	"sync"
)

type repoMock struct {
	mu        sync.Mutex
	lastID    int
	favorites map[string]Favorite
}

func NewMockFavoritesRepo() *repoMock {
	return &repoMock{
		favorites: make(map[string]Favorite),
	}
}

func (r *repoMock) Add(_ context.Context, favorite Favorite) (*Favorite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.favorites[favorite.ExerciseID]; ok {
		return nil, ErrFavoriteExists
	}
	r.lastID++
	favorite.ID = r.lastID
	if favorite.Equipment == nil {
		favorite.Equipment = []string{}
	}
	r.favorites[favorite.ExerciseID] = favorite
	return &favorite, nil
}

func (r *repoMock) DeleteByExerciseID(_ context.Context, exerciseID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.favorites[exerciseID]; !ok {
		return 0, nil
	}
	delete(r.favorites, exerciseID)
	return 1, nil
}

func (r *repoMock) ExerciseIDs(context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.favorites))
	for id := range r.favorites {
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *repoMock) List(context.Context) ([]Favorite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	favorites := make([]Favorite, 0, len(r.favorites))
	for _, f := range r.favorites {
		favorites = append(favorites, f)
	}
	sort.Slice(favorites, func(i, j int) bool {
		return favorites[i].Name < favorites[j].Name
	})
	return favorites, nil
}
