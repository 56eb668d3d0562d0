//go:build integration_test || all_tests

package test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/2beens/gymlog/internal/catalog"
	"github.com/2beens/gymlog/internal/gymlog/favorites"
	"github.com/2beens/gymlog/internal/gymlog/logsession"
	"github.com/2beens/gymlog/internal/gymlog/search"
	"github.com/2beens/gymlog/internal/gymlog/sets"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) doRequest(method, path string, body any) (int, []byte) {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		s.Require().NoError(err)
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(s.T().Context(), method, serverEndpoint+path, reqBody)
	s.Require().NoError(err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("User-Agent", "test-agent")

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return resp.StatusCode, respBytes
}

func (s *IntegrationTestSuite) searchSession(method, path string, body any) (int, search.SessionResponse) {
	status, respBytes := s.doRequest(method, path, body)
	var resp search.SessionResponse
	if status == http.StatusOK || status == http.StatusCreated {
		s.Require().NoError(json.Unmarshal(respBytes, &resp), string(respBytes))
	}
	return status, resp
}

func (s *IntegrationTestSuite) logSession(method, path string, body any) (int, logsession.SessionResponse) {
	status, respBytes := s.doRequest(method, path, body)
	var resp logsession.SessionResponse
	if status == http.StatusOK || status == http.StatusCreated {
		s.Require().NoError(json.Unmarshal(respBytes, &resp), string(respBytes))
	}
	return status, resp
}

func (s *IntegrationTestSuite) TestRootAndVersion() {
	t := s.T()

	status, body := s.doRequest(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "I'm OK, thanks ;)", string(body))

	status, body = s.doRequest(http.MethodGet, "/version", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "test-version-info", string(body))
}

func (s *IntegrationTestSuite) TestCatalogLookups() {
	t := s.T()

	status, body := s.doRequest(http.MethodGet, "/catalog/categories", nil)
	require.Equal(t, http.StatusOK, status)
	var categories []catalog.Lookup
	require.NoError(t, json.Unmarshal(body, &categories))
	require.Len(t, categories, 4)
	assert.Equal(t, catalog.SelectItemLabel, categories[0].Label)
	assert.Nil(t, categories[0].Value)
	assert.Equal(t, "Abs", categories[1].Label)
	require.NotNil(t, categories[1].Value)
	assert.Equal(t, "10", *categories[1].Value)

	status, body = s.doRequest(http.MethodGet, "/catalog/equipment", nil)
	require.Equal(t, http.StatusOK, status)
	var equipment []catalog.Lookup
	require.NoError(t, json.Unmarshal(body, &equipment))
	require.Len(t, equipment, 5)
	assert.Equal(t, "Barbell", equipment[1].Label)
}

func (s *IntegrationTestSuite) TestSearchPaging() {
	t := s.T()

	status, created := s.searchSession(http.MethodPost, "/search/sessions", nil)
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, created.ID)
	assert.Empty(t, created.Session.Results)
	assert.Nil(t, created.Session.Next)
	sessionPath := "/search/sessions/" + created.ID

	status, resp := s.searchSession(http.MethodPost, sessionPath+"/query", catalog.SearchParams{Name: "press"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 25, resp.Session.Count)
	assert.Len(t, resp.Session.Results, 10)
	require.NotNil(t, resp.Session.Next)
	assert.False(t, resp.Session.Loading)

	status, resp = s.searchSession(http.MethodPost, sessionPath+"/more", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, resp.Session.Results, 20)
	require.NotNil(t, resp.Session.Next)

	status, resp = s.searchSession(http.MethodPost, sessionPath+"/more", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, resp.Session.Results, 25)
	assert.Nil(t, resp.Session.Next)
	assert.False(t, resp.Session.LoadingMore)

	// no next page: no catalog call, snapshot unchanged
	requestsBefore := s.fakeCatalog.Requests()
	status, resp = s.searchSession(http.MethodPost, sessionPath+"/more", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, resp.Session.Results, 25)
	assert.Equal(t, requestsBefore, s.fakeCatalog.Requests())

	// results are in catalog order without duplicates
	seen := map[int]bool{}
	for i, r := range resp.Session.Results {
		assert.False(t, seen[r.ID], "duplicate result %d", r.ID)
		seen[r.ID] = true
		assert.Equal(t, 1001+i, r.ID)
	}

	status, resp = s.searchSession(http.MethodDelete, sessionPath+"/results", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, resp.Session.Results)
	assert.Zero(t, resp.Session.Count)
	assert.Nil(t, resp.Session.Next)

	status, body := s.doRequest(http.MethodDelete, sessionPath, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "deleted:"+created.ID, string(body))

	status, _ = s.doRequest(http.MethodGet, sessionPath, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func (s *IntegrationTestSuite) TestFavorites() {
	t := s.T()
	s.deleteAll()

	_, created := s.searchSession(http.MethodPost, "/search/sessions", nil)
	sessionPath := "/search/sessions/" + created.ID
	status, resp := s.searchSession(http.MethodPost, sessionPath+"/query", catalog.SearchParams{Name: "press 01"})
	require.Equal(t, http.StatusOK, status)
	require.Len(t, resp.Session.Results, 1)
	exercise := resp.Session.Results[0].Exercise
	assert.False(t, resp.Session.Results[0].IsFavorite)

	addReq := favorites.AddRequest{Exercise: exercise, SearchSessionID: created.ID}
	status, body := s.doRequest(http.MethodPost, "/favorites", addReq)
	require.Equal(t, http.StatusCreated, status, string(body))
	var added favorites.Favorite
	require.NoError(t, json.Unmarshal(body, &added))
	assert.Equal(t, exercise.IDString(), added.ExerciseID)
	assert.Equal(t, exercise.EquipmentStrings(), added.Equipment)

	_, resp = s.searchSession(http.MethodGet, sessionPath, nil)
	assert.True(t, resp.Session.Results[0].IsFavorite)

	status, _ = s.doRequest(http.MethodPost, "/favorites", addReq)
	assert.Equal(t, http.StatusConflict, status)

	status, body = s.doRequest(http.MethodGet, "/favorites", nil)
	require.Equal(t, http.StatusOK, status)
	var list []favorites.LabeledFavorite
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 1)
	assert.Equal(t, exercise.Name, list[0].Name)
	// exercise 1001 is in category 11 with equipment 2
	assert.Equal(t, "Arms", list[0].CategoryLabel)
	assert.Equal(t, "Bench", list[0].EquipmentLabel)

	// a new search sees the stored flag
	status, resp = s.searchSession(http.MethodPost, sessionPath+"/query", catalog.SearchParams{Name: "press 01"})
	require.Equal(t, http.StatusOK, status)
	assert.True(t, resp.Session.Results[0].IsFavorite)

	status, body = s.doRequest(http.MethodDelete, "/favorites/"+added.ExerciseID+"?searchSessionId="+created.ID, nil)
	require.Equal(t, http.StatusOK, status)
	var removed favorites.RemoveResponse
	require.NoError(t, json.Unmarshal(body, &removed))
	assert.True(t, removed.Removed)

	_, resp = s.searchSession(http.MethodGet, sessionPath, nil)
	assert.False(t, resp.Session.Results[0].IsFavorite)

	// favorite again, then remove it without naming the session: the session keeps its flag
	status, _ = s.doRequest(http.MethodPost, "/favorites", addReq)
	require.Equal(t, http.StatusCreated, status)
	status, _ = s.doRequest(http.MethodDelete, "/favorites/"+added.ExerciseID, nil)
	require.Equal(t, http.StatusOK, status)
	_, resp = s.searchSession(http.MethodGet, sessionPath, nil)
	require.True(t, resp.Session.Results[0].IsFavorite)

	// removing an id that is no longer stored changes nothing
	status, body = s.doRequest(http.MethodDelete, "/favorites/"+added.ExerciseID+"?searchSessionId="+created.ID, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &removed))
	assert.False(t, removed.Removed)
	_, resp = s.searchSession(http.MethodGet, sessionPath, nil)
	assert.True(t, resp.Session.Results[0].IsFavorite)
}

func (s *IntegrationTestSuite) TestLoggingSession() {
	t := s.T()
	s.deleteAll()

	lat, lon := 44.8125, 20.4612
	openReq := logsession.OpenRequest{
		Exercise:  logsession.Exercise{Name: "Bench Press", Description: "flat bench"},
		Latitude:  &lat,
		Longitude: &lon,
	}
	status, opened := s.logSession(http.MethodPost, "/log/sessions", openReq)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, logsession.StateEditing, opened.Session.State)
	assert.Equal(t, "Gym Street 5 Belgrade", opened.Session.Fields.Address)
	assert.Equal(t, sets.CanonicalDate(time.Now()), opened.Session.Fields.Date)
	assert.Nil(t, opened.Session.Logged)
	sessionPath := "/log/sessions/" + opened.ID

	// nothing is written while fields are missing
	status, _ = s.doRequest(http.MethodPost, sessionPath+"/save", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	weight, reps := "80", "8"
	status, resp := s.logSession(http.MethodPut, sessionPath, logsession.FieldsUpdate{Weight: &weight, Reps: &reps})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "80", resp.Session.Fields.Weight)

	status, resp = s.logSession(http.MethodPost, sessionPath+"/save", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, resp.Session.Saves)
	require.NotNil(t, resp.Session.Logged)
	assert.Equal(t, "80 kg x 8", resp.Session.Logged.WeightLog)

	weight = "85"
	_, _ = s.logSession(http.MethodPut, sessionPath, logsession.FieldsUpdate{Weight: &weight})
	status, resp = s.logSession(http.MethodPost, sessionPath+"/save", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2, resp.Session.Saves)
	assert.Equal(t, "80 kg x 8\n85 kg x 8", resp.Session.Logged.WeightLog)

	status, resp = s.logSession(http.MethodDelete, sessionPath, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, logsession.StateSaved, resp.Session.State)

	status, _ = s.doRequest(http.MethodGet, sessionPath, nil)
	assert.Equal(t, http.StatusNotFound, status)

	// one row per (name, date, location)
	var rows int
	require.NoError(t, s.DB.QueryRow("SELECT COUNT(*) FROM exercises").Scan(&rows))
	assert.Equal(t, 1, rows)

	status, body := s.doRequest(http.MethodGet, "/sets", nil)
	require.Equal(t, http.StatusOK, status)
	var list sets.ListResponse
	require.NoError(t, json.Unmarshal(body, &list))
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "Bench Press", list.Sets[0].Name)
	assert.Equal(t, "Gym Street 5 Belgrade", list.Sets[0].Location)

	status, body = s.doRequest(http.MethodGet, "/sets/export", nil)
	require.Equal(t, http.StatusOK, status)
	csvLines := strings.Split(strings.TrimSpace(string(body)), "\n")
	require.Len(t, csvLines, 3)
	assert.Equal(t, "date,location,exercise,set,entry", csvLines[0])
	assert.Contains(t, csvLines[2], "85 kg x 8")
}

func (s *IntegrationTestSuite) TestLoggingSessionCancelled() {
	t := s.T()

	status, opened := s.logSession(http.MethodPost, "/log/sessions", logsession.OpenRequest{
		Exercise: logsession.Exercise{Name: "Deadlift"},
	})
	require.Equal(t, http.StatusCreated, status)
	// no coordinates and no ip resolver: the address stays empty
	assert.Empty(t, opened.Session.Fields.Address)

	status, resp := s.logSession(http.MethodDelete, "/log/sessions/"+opened.ID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, logsession.StateCancelled, resp.Session.State)
	assert.Zero(t, resp.Session.Saves)
}

func (s *IntegrationTestSuite) TestSetsImportAndFilter() {
	t := s.T()
	s.deleteAll()

	for _, set := range []sets.LoggedSet{
		{Name: "Squat", Date: "2024-03-01", Location: "Home", WeightLog: "100 kg x 5"},
		{Name: "Squat", Date: "2024-03-10", Location: "Home", WeightLog: "105 kg x 5"},
		{Name: "Row", Date: "2024-04-02", Location: "Gym", WeightLog: "60 kg x 10"},
	} {
		status, body := s.doRequest(http.MethodPost, "/sets", set)
		require.Equal(t, http.StatusCreated, status, string(body))
	}

	status, _ := s.doRequest(http.MethodPost, "/sets", sets.LoggedSet{
		Name: "Squat", Date: "2024-03-01", Location: "Home", WeightLog: "1 kg x 1",
	})
	assert.Equal(t, http.StatusConflict, status)

	status, body := s.doRequest(http.MethodGet, "/sets?from=2024-03-01&until=2024-03-31", nil)
	require.Equal(t, http.StatusOK, status)
	var list sets.ListResponse
	require.NoError(t, json.Unmarshal(body, &list))
	require.Equal(t, 2, list.Total)
	assert.Equal(t, "2024-03-10", list.Sets[0].Date)
	assert.Equal(t, "2024-03-01", list.Sets[1].Date)

	status, _ = s.doRequest(http.MethodGet, "/sets?from=2024-03-01", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = s.doRequest(http.MethodGet, "/sets/find?name=Row&date=2024-04-02&location=Gym", nil)
	require.Equal(t, http.StatusOK, status)
	var found sets.LoggedSet
	require.NoError(t, json.Unmarshal(body, &found))
	assert.Equal(t, "60 kg x 10", found.WeightLog)

	status, _ = s.doRequest(http.MethodGet, "/sets/find?name=Row&date=2024-04-03&location=Gym", nil)
	assert.Equal(t, http.StatusNotFound, status)
}
