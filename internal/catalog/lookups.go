package catalog

import (
	"context"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Lookups holds the category and equipment lists used for label resolution.
// It starts with built-in defaults and is replaced on every successful refresh.
type Lookups struct {
	mu         sync.RWMutex
	categories []Lookup
	equipment  []Lookup
}

type lookupLister interface {
	ListCategories(ctx context.Context) ([]Lookup, error)
	ListEquipment(ctx context.Context) ([]Lookup, error)
}

func NewLookups() *Lookups {
	return &Lookups{
		categories: DefaultCategories(),
		equipment:  DefaultEquipment(),
	}
}

// Refresh reloads both lists; a list that fails to load keeps its previous value.
func (l *Lookups) Refresh(ctx context.Context, lister lookupLister) error {
	categories, catErr := lister.ListCategories(ctx)
	if catErr != nil {
		log.Errorf("refresh categories: %s", catErr)
	} else {
		l.SetCategories(categories)
	}

	equipment, eqErr := lister.ListEquipment(ctx)
	if eqErr != nil {
		log.Errorf("refresh equipment: %s", eqErr)
	} else {
		l.SetEquipment(equipment)
	}

	if catErr != nil {
		return catErr
	}
	return eqErr
}

func (l *Lookups) SetCategories(categories []Lookup) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.categories = categories
}

func (l *Lookups) SetEquipment(equipment []Lookup) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.equipment = equipment
}

func (l *Lookups) Categories() []Lookup {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Lookup(nil), l.categories...)
}

func (l *Lookups) Equipment() []Lookup {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Lookup(nil), l.equipment...)
}

// CategoryLabel resolves a category id; unknown ids resolve to themselves.
func (l *Lookups) CategoryLabel(key string) string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if label, ok := findLabel(l.categories, key); ok {
		return label
	}
	return key
}

// EquipmentLabels resolves equipment ids and joins the known labels with "+".
func (l *Lookups) EquipmentLabels(keys []string) string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	labels := make([]string, 0, len(keys))
	for _, key := range keys {
		if label, ok := findLabel(l.equipment, key); ok {
			labels = append(labels, label)
		}
	}
	return strings.Join(labels, "+")
}

func findLabel(lookups []Lookup, key string) (string, bool) {
	for _, lk := range lookups {
		if lk.Value != nil && *lk.Value == key {
			return lk.Label, true
		}
	}
	return "", false
}

func DefaultCategories() []Lookup {
	return []Lookup{
		{Label: SelectItemLabel},
		{Label: "Abs", Value: strPtr("10")},
		{Label: "Arms", Value: strPtr("8")},
		{Label: "Back", Value: strPtr("12")},
		{Label: "Calves", Value: strPtr("14")},
		{Label: "Chest", Value: strPtr("11")},
		{Label: "Legs", Value: strPtr("9")},
		{Label: "Shoulders", Value: strPtr("13")},
	}
}

func DefaultEquipment() []Lookup {
	return []Lookup{
		{Label: SelectItemLabel},
		{Label: "Barbell", Value: strPtr("1")},
		{Label: "Bench", Value: strPtr("8")},
		{Label: "Dumbbell", Value: strPtr("3")},
		{Label: "Gym mat", Value: strPtr("4")},
		{Label: "Incline bench", Value: strPtr("9")},
		{Label: "Kettlebell", Value: strPtr("10")},
		{Label: "none (bodyweight exercise)", Value: strPtr("7")},
		{Label: "Pull-up bar", Value: strPtr("6")},
		{Label: "Swiss Ball", Value: strPtr("5")},
		{Label: "SZ-Bar", Value: strPtr("2")},
	}
}

func strPtr(s string) *string {
	return &s
}
