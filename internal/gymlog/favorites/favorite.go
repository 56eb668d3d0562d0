package favorites

import (
	"errors"

	"github.com/2beens/gymlog/internal/catalog"
)

var ErrFavoriteExists = errors.New("exercise already in favorites")

// Favorite is a catalog exercise the user starred. Equipment keeps the catalog
// equipment ids in their original order.
type Favorite struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	ExerciseID  string   `json:"exerciseId"`
	Category    string   `json:"category"`
	Equipment   []string `json:"equipment"`
}

func FromExercise(e catalog.Exercise) Favorite {
	return Favorite{
		Name:        e.Name,
		Description: e.Description,
		ExerciseID:  e.IDString(),
		Category:    e.CategoryString(),
		Equipment:   e.EquipmentStrings(),
	}
}

// LabeledFavorite is a favorite with its category and equipment ids resolved for display.
type LabeledFavorite struct {
	Favorite
	CategoryLabel  string `json:"categoryLabel"`
	EquipmentLabel string `json:"equipmentLabel"`
}

type AnnotatedExercise struct {
	catalog.Exercise
	IsFavorite bool `json:"isFavorite"`
}

// Annotate flags each search result whose id is among favoriteIDs. Output keeps
// the input order and length.
func Annotate(results []catalog.Exercise, favoriteIDs []string) []AnnotatedExercise {
	ids := make(map[string]struct{}, len(favoriteIDs))
	for _, id := range favoriteIDs {
		ids[id] = struct{}{}
	}

	annotated := make([]AnnotatedExercise, 0, len(results))
	for _, e := range results {
		_, isFavorite := ids[e.IDString()]
		annotated = append(annotated, AnnotatedExercise{
			Exercise:   e,
			IsFavorite: isFavorite,
		})
	}
	return annotated
}
