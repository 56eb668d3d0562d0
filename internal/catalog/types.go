package catalog

import "strconv"

// Exercise is a single catalog record, as returned by the wger exercise endpoint.
type Exercise struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"` // HTML
	Category    int    `json:"category"`
	Equipment   []int  `json:"equipment"`
}

func (e Exercise) IDString() string {
	return strconv.Itoa(e.ID)
}

func (e Exercise) CategoryString() string {
	return strconv.Itoa(e.Category)
}

func (e Exercise) EquipmentStrings() []string {
	ids := make([]string, 0, len(e.Equipment))
	for _, id := range e.Equipment {
		ids = append(ids, strconv.Itoa(id))
	}
	return ids
}

// Page is one page of search results. Next is nil on the last page.
type Page struct {
	Count   int        `json:"count"`
	Next    *string    `json:"next"`
	Results []Exercise `json:"results"`
}

// Lookup is a label/value pair of a category or equipment list.
// The leading "Select item" entry has a nil value.
type Lookup struct {
	Label string  `json:"label"`
	Value *string `json:"value"`
}

type SearchParams struct {
	Name      string `json:"name"`
	Category  string `json:"category"`
	Equipment string `json:"equipment"`
}

type lookupRecord struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type lookupPage struct {
	Count   int            `json:"count"`
	Next    *string        `json:"next"`
	Results []lookupRecord `json:"results"`
}
