package baserow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRows_FollowsPagination(t *testing.T) {
	var baseURL string
	var requests int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		require.Equal(t, "Token tok-123", r.Header.Get("Authorization"))

		q := r.URL.Query()
		if q.Get("page") == "2" {
			fmt.Fprint(w, `{"count": 3, "next": null, "results": [{"id": 3, "order": "3.0", "name": "c"}]}`)
			return
		}

		assert.Equal(t, "true", q.Get("user_field_names"))
		assert.Equal(t, "200", q.Get("size"))
		next, _ := json.Marshal(baseURL + "/api/database/rows/table/77/?page=2&user_field_names=true")
		fmt.Fprintf(w, `{"count": 3, "next": %s, "results": [{"id": 1, "name": "a"}, {"id": 2, "name": "b"}]}`, next)
	}))
	defer srv.Close()
	baseURL = srv.URL

	table := NewClient(srv.URL, "tok-123").Table(77)
	rows, err := table.Rows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, 2, requests)

	assert.Equal(t, int64(1), rows[0].ID)
	assert.Equal(t, "a", rows[0].Str("name"))
	assert.Equal(t, "c", rows[2].Str("name"))
}

func TestRows_SendsFilters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "", q.Get("filter__phone__not_empty"))
		assert.True(t, q.Has("filter__phone__not_empty"))
		assert.Equal(t, "42", q.Get("filter__status__single_select_equal"))
		fmt.Fprint(w, `{"count": 0, "next": null, "results": []}`)
	}))
	defer srv.Close()

	table := NewClient(srv.URL, "tok").Table(1)
	_, err := table.Rows(context.Background(), NotEmpty("phone"), SingleSelectEqual("status", 42))
	require.NoError(t, err)
}

func TestGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/database/rows/table/9/5/" {
			fmt.Fprint(w, `{"id": 5, "name": "found"}`)
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	table := NewClient(srv.URL, "tok").Table(9)

	row, err := table.Get(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), row.ID)
	assert.Equal(t, "found", row.Str("name"))

	_, err = table.Get(context.Background(), 6)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestUpdate_PatchesOnlyChangedFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/api/database/rows/table/3/11/", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"email": "a@b.c"}, body)

		fmt.Fprint(w, `{"id": 11, "email": "a@b.c", "name": "unchanged"}`)
	}))
	defer srv.Close()

	table := NewClient(srv.URL, "tok").Table(3)
	row := NewRow(11, map[string]any{"email": "", "name": "unchanged"})

	row.Set("email", "a@b.c")
	require.True(t, row.Changed())

	require.NoError(t, table.Update(context.Background(), row))
	assert.False(t, row.Changed())
	assert.Equal(t, "a@b.c", row.Str("email"))
}

func TestUpdate_NoChangesIsNoop(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected request for a row with no staged changes")
	}))
	defer srv.Close()

	table := NewClient(srv.URL, "tok").Table(3)
	require.NoError(t, table.Update(context.Background(), NewRow(1, nil)))
}

func TestUpdate_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "ERROR_REQUEST_BODY_VALIDATION"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	table := NewClient(srv.URL, "tok").Table(3)
	row := NewRow(1, nil)
	row.Set("name", "x")

	err := table.Update(context.Background(), row)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "ERROR_REQUEST_BODY_VALIDATION")
}

func TestRow_Accessors(t *testing.T) {
	raw := json.RawMessage(`{
		"id": 7,
		"order": "7.00",
		"name": "Dana",
		"count": 3,
		"score": 2.5,
		"active": true,
		"status": {"id": 12, "value": "approved", "color": "green"},
		"linked": [{"id": 1, "value": "first"}, {"id": 2, "value": "second"}],
		"empty": null
	}`)

	row, err := decodeRow(raw)
	require.NoError(t, err)

	assert.Equal(t, int64(7), row.ID)
	assert.Equal(t, "Dana", row.Str("name"))
	assert.Equal(t, "3", row.Str("count"))
	assert.Equal(t, "2.5", row.Str("score"))
	assert.Equal(t, "true", row.Str("active"))
	assert.Equal(t, "approved", row.Str("status"))
	assert.Equal(t, []string{"first", "second"}, row.List("linked"))
	assert.Equal(t, "", row.Str("empty"))
	assert.Equal(t, "", row.Str("missing"))
	assert.False(t, row.Bool("name"))
	assert.True(t, row.Bool("active"))

	cols := row.Columns()
	assert.Contains(t, cols, "name")
	assert.NotContains(t, cols, "id")
	assert.NotContains(t, cols, "order")
}
