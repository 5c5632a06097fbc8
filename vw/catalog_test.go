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

// newCatalogClient starts a fake service whose topic endpoint serves the
// given body and returns a logged-in client against it.
func newCatalogClient(t *testing.T, topicBody string) *vw.Client {
	t.Helper()

	mux := http.NewServeMux()
	registerLogin(t, mux, false)
	mux.HandleFunc("GET /api/web/V6/search", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(searchResponse))
	})
	mux.HandleFunc("GET /api/web/V6/topic", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(topicBody))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := vw.NewClient(
		ugmirror.VehicleRef{Identifier: testVIN, Language: testLang},
		vw.WithBaseURL(server.URL),
	)
	require.NoError(t, err)
	return client
}

func TestClient_ListManuals(t *testing.T) {
	t.Parallel()

	t.Run("returns available manuals", func(t *testing.T) {
		t.Parallel()

		client := newCatalogClient(t, `{}`)
		manuals, err := client.ListManuals(context.Background())
		require.NoError(t, err)
		require.Len(t, manuals, 1)
		assert.Equal(t, "manual-1", manuals[0].TopicID)
		assert.Equal(t, "Owner's Manual", manuals[0].Title)
	})

	t.Run("empty result is not found", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		registerLogin(t, mux, false)
		mux.HandleFunc("GET /api/web/V6/search", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"results":[]}`))
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		client, err := vw.NewClient(
			ugmirror.VehicleRef{Identifier: testVIN, Language: testLang},
			vw.WithBaseURL(server.URL),
		)
		require.NoError(t, err)

		_, err = client.ListManuals(context.Background())
		require.Error(t, err)
		assert.Equal(t, ugmirror.ENOTFOUND, ugmirror.ErrorCode(err))
	})
}

func TestClient_Resolve(t *testing.T) {
	t.Parallel()

	manual := ugmirror.ManualInfo{TopicID: "manual-1", Title: "Owner's Manual"}

	t.Run("parses nested chapters into the arena", func(t *testing.T) {
		t.Parallel()

		client := newCatalogClient(t, `{
			"trees":[{"children":[
				{"nodeId":"A","label":"Chapter A","linkTarget":"","children":[
					{"nodeId":"A1","label":"Chapter A1","linkTarget":"link-a1","children":[]},
					{"nodeId":"A2","label":"Chapter A2","linkTarget":"link-a2","children":[]}
				]},
				{"nodeId":"B","label":"Chapter B","linkTarget":"link-b","children":[]}
			]}],
			"abstractText":"<div><span data-class=\"vw-modell-bez\">Tiguan</span><span data-class=\"vw-modell-variante\">11.2020</span></div>"
		}`)

		tree, err := client.Resolve(context.Background(), manual)
		require.NoError(t, err)

		assert.Equal(t, 5, tree.Len())
		assert.Equal(t, "Owner's Manual", tree.Title)
		assert.Equal(t, "Tiguan", tree.Model)
		assert.Equal(t, "11.2020", tree.Variant)

		var order []string
		tree.Walk(func(idx int, node *ugmirror.ChapterNode, depth int) {
			order = append(order, node.ID)
		})
		assert.Equal(t, []string{"manual-1", "A", "A1", "A2", "B"}, order)

		bIdx, ok := tree.Lookup("B")
		require.True(t, ok)
		assert.Equal(t, "link-b", tree.Node(bIdx).LinkTarget)
	})

	t.Run("duplicate chapter ids are malformed", func(t *testing.T) {
		t.Parallel()

		client := newCatalogClient(t, `{
			"trees":[{"children":[
				{"nodeId":"A","label":"Chapter A","linkTarget":"","children":[]},
				{"nodeId":"A","label":"Chapter A again","linkTarget":"","children":[]}
			]}]
		}`)

		_, err := client.Resolve(context.Background(), manual)
		require.Error(t, err)
		assert.Equal(t, ugmirror.EMALFORMED, ugmirror.ErrorCode(err))
	})

	t.Run("missing node id is malformed", func(t *testing.T) {
		t.Parallel()

		client := newCatalogClient(t, `{
			"trees":[{"children":[
				{"label":"No ID","linkTarget":"","children":[]}
			]}]
		}`)

		_, err := client.Resolve(context.Background(), manual)
		require.Error(t, err)
		assert.Equal(t, ugmirror.EMALFORMED, ugmirror.ErrorCode(err))
	})

	t.Run("empty tree is malformed", func(t *testing.T) {
		t.Parallel()

		client := newCatalogClient(t, `{"trees":[]}`)

		_, err := client.Resolve(context.Background(), manual)
		require.Error(t, err)
		assert.Equal(t, ugmirror.EMALFORMED, ugmirror.ErrorCode(err))
	})

	t.Run("unparseable body is malformed", func(t *testing.T) {
		t.Parallel()

		client := newCatalogClient(t, `<html>maintenance page</html>`)

		_, err := client.Resolve(context.Background(), manual)
		require.Error(t, err)
		assert.Equal(t, ugmirror.EMALFORMED, ugmirror.ErrorCode(err))
	})

	t.Run("transport failure is unavailable", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		registerLogin(t, mux, false)
		mux.HandleFunc("GET /api/web/V6/topic", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		client, err := vw.NewClient(
			ugmirror.VehicleRef{Identifier: testVIN, Language: testLang},
			vw.WithBaseURL(server.URL),
		)
		require.NoError(t, err)

		_, err = client.Resolve(context.Background(), manual)
		require.Error(t, err)
		assert.Equal(t, ugmirror.EUNAVAILABLE, ugmirror.ErrorCode(err))
	})
}
