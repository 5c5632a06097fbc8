package vw_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gromk/ugmirror"
	"github.com/gromk/ugmirror/vw"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newContentClient starts a fake service whose topic endpoint runs the given
// handler and returns a client against it.
func newContentClient(t *testing.T, topic http.HandlerFunc) *vw.Client {
	t.Helper()

	mux := http.NewServeMux()
	registerLogin(t, mux, false)
	mux.HandleFunc("GET /api/web/V6/topic", topic)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := vw.NewClient(
		ugmirror.VehicleRef{Identifier: testVIN, Language: testLang},
		vw.WithBaseURL(server.URL),
	)
	require.NoError(t, err)
	return client
}

func TestClient_FetchFragment(t *testing.T) {
	t.Parallel()

	node := &ugmirror.ChapterNode{ID: "A1", Title: "Chapter A1", LinkTarget: "link-a1"}

	t.Run("returns fetched fragment with links", func(t *testing.T) {
		t.Parallel()

		client := newContentClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "link-a1", r.URL.Query().Get("key"))
			assert.Equal(t, testLang, r.URL.Query().Get("language"))
			_, _ = w.Write([]byte(`{
				"bodyHtml":"<div class=\"content\">Seat belts</div>",
				"linkState":{"lnk1":{"target":"A2"},"lnk2":{"target":null}}
			}`))
		})

		frag := client.FetchFragment(context.Background(), node)
		assert.Equal(t, ugmirror.StatusFetched, frag.Status)
		assert.Equal(t, "A1", frag.NodeID)
		assert.Equal(t, `<div class="content">Seat belts</div>`, frag.HTML)
		assert.NotEmpty(t, frag.Hash)
		assert.Equal(t, map[string]string{"lnk1": "A2"}, frag.Links)
		assert.NoError(t, frag.Err)
	})

	t.Run("unwraps html envelope", func(t *testing.T) {
		t.Parallel()

		client := newContentClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"bodyHtml":"<html lang=\"fr\"><body><p>Airbags</p></body></html>"}`))
		})

		frag := client.FetchFragment(context.Background(), node)
		assert.Equal(t, ugmirror.StatusFetched, frag.Status)
		assert.Equal(t, "<body><p>Airbags</p></body>", frag.HTML)
	})

	t.Run("empty body is missing", func(t *testing.T) {
		t.Parallel()

		client := newContentClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"bodyHtml":""}`))
		})

		frag := client.FetchFragment(context.Background(), node)
		assert.Equal(t, ugmirror.StatusMissing, frag.Status)
		assert.NoError(t, frag.Err)
	})

	t.Run("chapter without content key is missing", func(t *testing.T) {
		t.Parallel()

		client := newContentClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected for a chapter without a content key")
		})

		frag := client.FetchFragment(context.Background(), &ugmirror.ChapterNode{ID: "A", Title: "Chapter A"})
		assert.Equal(t, ugmirror.StatusMissing, frag.Status)
	})

	t.Run("HTTP error is failed, not propagated", func(t *testing.T) {
		t.Parallel()

		client := newContentClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		frag := client.FetchFragment(context.Background(), node)
		assert.Equal(t, ugmirror.StatusFailed, frag.Status)
		require.Error(t, frag.Err)
		assert.Equal(t, ugmirror.EUNAVAILABLE, ugmirror.ErrorCode(frag.Err))
	})

	t.Run("undecodable body is failed", func(t *testing.T) {
		t.Parallel()

		client := newContentClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		})

		frag := client.FetchFragment(context.Background(), node)
		assert.Equal(t, ugmirror.StatusFailed, frag.Status)
		require.Error(t, frag.Err)
		assert.Equal(t, ugmirror.EMALFORMED, ugmirror.ErrorCode(frag.Err))
	})
}
