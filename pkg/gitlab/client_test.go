package gitlab_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code-review-pipeline/pkg/gitlab"
)

func TestClient(t *testing.T) {
	var changeCalls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("PRIVATE-TOKEN") != "tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch r.URL.Path {
		case "/api/v4/projects/1/merge_requests/2":
			w.Write([]byte(`{"iid":2,"title":"Fix","source_branch":"fix","target_branch":"main","author":{"name":"Ann"}}`))
		case "/api/v4/projects/1/merge_requests/2/changes":
			if changeCalls.Add(1) < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			w.Write([]byte(`{"iid":2,"changes":[{"new_path":"a.go","diff":"@@"},{"new_path":"b.go","deleted_file":true}]}`))
		case "/api/v4/projects/1/merge_requests/2/notes":
			var req map[string]string
			json.NewDecoder(r.Body).Decode(&req)
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]any{"id": 10, "body": req["body"]})
		case "/api/v4/projects/1":
			w.Write([]byte(`{"id":1,"name":"api","http_url_to_repo":"https://git.example.com/g/api.git"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ts.Close()

	c, err := gitlab.New(ts.URL+"/", "tok")
	require.NoError(t, err)
	c.WithRetry(3, time.Millisecond)
	ctx := t.Context()

	t.Run("GetMergeRequest", func(t *testing.T) {
		mr, err := c.GetMergeRequest(ctx, 1, 2)
		require.NoError(t, err)
		assert.Equal(t, "Fix", mr.Title)
		assert.Equal(t, "Ann", mr.Author.Name)
	})

	t.Run("GetMergeRequestChanges retries transient failures", func(t *testing.T) {
		changes, err := c.GetMergeRequestChanges(ctx, 1, 2)
		require.NoError(t, err)
		require.Len(t, changes.Changes, 2)
		assert.True(t, changes.Changes[1].DeletedFile)
		assert.Equal(t, int32(3), changeCalls.Load())
	})

	t.Run("CreateMergeRequestNote", func(t *testing.T) {
		note, err := c.CreateMergeRequestNote(ctx, 1, 2, "LGTM")
		require.NoError(t, err)
		assert.Equal(t, "LGTM", note.Body)
	})

	t.Run("GetProject", func(t *testing.T) {
		p, err := c.GetProject(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "https://git.example.com/g/api.git", p.HTTPURLToRepo)
	})

	t.Run("NotFound is not retried", func(t *testing.T) {
		_, err := c.GetMergeRequest(ctx, 9, 9)
		assert.ErrorIs(t, err, gitlab.ErrNotFound)
	})

	t.Run("Client errors surface as APIError", func(t *testing.T) {
		bad, err := gitlab.New(ts.URL, "wrong")
		require.NoError(t, err)
		_, err = bad.WithRetry(1, 0).GetProject(ctx, 1)
		var apiErr *gitlab.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	})
}

func TestNew_RequiresToken(t *testing.T) {
	_, err := gitlab.New("", "")
	assert.ErrorIs(t, err, gitlab.ErrTokenRequired)
}
