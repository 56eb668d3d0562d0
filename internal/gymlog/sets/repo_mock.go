package sets

import (
	"context"
	"sort"
	"sync"
)

// repoMock is an in-memory logged sets store, keyed the same way as the exercises table.
type repoMock struct {
	mu     sync.Mutex
	lastID int
	sets   map[int]*LoggedSet
}

func NewMockSetsRepo() *repoMock {
	return &repoMock{
		sets: make(map[int]*LoggedSet),
	}
}

func (r *repoMock) Add(_ context.Context, set LoggedSet) (*LoggedSet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findLocked(set.Name, set.Date, set.Location) != nil {
		return nil, ErrLoggedSetExists
	}
	r.lastID++
	set.ID = r.lastID
	r.sets[set.ID] = &set
	stored := set
	return &stored, nil
}

func (r *repoMock) UpdateWeightLog(_ context.Context, id int, weightLog string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.sets[id]
	if !ok {
		return ErrLoggedSetNotFound
	}
	set.WeightLog = weightLog
	return nil
}

func (r *repoMock) FindByKey(_ context.Context, name, date, location string) (*LoggedSet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set := r.findLocked(name, date, location)
	if set == nil {
		return nil, ErrLoggedSetNotFound
	}
	found := *set
	return &found, nil
}

func (r *repoMock) Upsert(_ context.Context, set LoggedSet) (*LoggedSet, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing := r.findLocked(set.Name, set.Date, set.Location); existing != nil {
		existing.WeightLog = existing.WeightLog + "\n" + set.WeightLog
		stored := *existing
		return &stored, true, nil
	}

	r.lastID++
	set.ID = r.lastID
	r.sets[set.ID] = &set
	stored := set
	return &stored, false, nil
}

func (r *repoMock) List(_ context.Context, filter Filter) ([]LoggedSet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	loggedSets := make([]LoggedSet, 0, len(r.sets))
	for _, set := range r.sets {
		if filter.IsSet() && (set.Date < CanonicalDate(*filter.From) || set.Date > CanonicalDate(*filter.Until)) {
			continue
		}
		loggedSets = append(loggedSets, *set)
	}

	sort.Slice(loggedSets, func(i, j int) bool {
		a, b := loggedSets[i], loggedSets[j]
		if a.Date != b.Date {
			return a.Date > b.Date
		}
		if a.Location != b.Location {
			return a.Location < b.Location
		}
		return a.Name < b.Name
	})

	return loggedSets, nil
}

func (r *repoMock) findLocked(name, date, location string) *LoggedSet {
	for _, set := range r.sets {
		if set.Name == name && set.Date == date && set.Location == location {
			return set
		}
	}
	return nil
}
