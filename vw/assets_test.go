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

func TestClient_FetchAsset(t *testing.T) {
	t.Parallel()

	t.Run("resolves service-relative URLs", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		registerLogin(t, mux, false)
		mux.HandleFunc("GET /api/web/V6/media", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "img-1", r.URL.Query().Get("key"))
			_, _ = w.Write([]byte("PNGDATA"))
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		client, err := vw.NewClient(
			ugmirror.VehicleRef{Identifier: testVIN, Language: testLang},
			vw.WithBaseURL(server.URL),
		)
		require.NoError(t, err)

		data, err := client.FetchAsset(context.Background(), "/api/web/V6/media?key=img-1")
		require.NoError(t, err)
		assert.Equal(t, []byte("PNGDATA"), data)
	})

	t.Run("missing asset is unavailable", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		registerLogin(t, mux, false)
		server := httptest.NewServer(mux)
		defer server.Close()

		client, err := vw.NewClient(
			ugmirror.VehicleRef{Identifier: testVIN, Language: testLang},
			vw.WithBaseURL(server.URL),
		)
		require.NoError(t, err)

		_, err = client.FetchAsset(context.Background(), "/img/nope.png")
		require.Error(t, err)
		assert.Equal(t, ugmirror.EUNAVAILABLE, ugmirror.ErrorCode(err))
	})
}

func TestClient_Strings(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	registerLogin(t, mux, false)
	mux.HandleFunc("GET /w/"+testLang+"/welcome/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><script>
			strings["tab.directory"] = "Sommaire";
			strings["label.open.web"] = "Ouvrir en ligne";
		</script></html>`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client, err := vw.NewClient(
		ugmirror.VehicleRef{Identifier: testVIN, Language: testLang},
		vw.WithBaseURL(server.URL),
	)
	require.NoError(t, err)

	labels, err := client.Strings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Sommaire", labels["tab.directory"])
	assert.Equal(t, "Ouvrir en ligne", labels["label.open.web"])
}
