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

const (
	testVIN  = "WVGZZZ1TZBW000000"
	testLang = "fr_FR"
)

// registerLogin wires the login endpoint onto a mux. When legacy is true the
// handler redirects into the /legacy tree, as the real service does for
// older-generation vehicles.
func registerLogin(t *testing.T, mux *http.ServeMux, legacy bool) {
	t.Helper()

	mux.HandleFunc("POST /public/vin/login/"+testLang, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.NotEmpty(t, r.PostForm.Get("vin"))
		if legacy {
			http.Redirect(w, r, "/legacy/w/"+testLang+"/welcome/", http.StatusFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	if legacy {
		mux.HandleFunc("GET /legacy/w/"+testLang+"/welcome/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	}
}

// searchResponse is a minimal one-manual search result.
const searchResponse = `{"results":[{"topicId":"manual-1","title":"Owner's Manual"}]}`

func TestClient_Login(t *testing.T) {
	t.Parallel()

	t.Run("VIN login establishes session", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		registerLogin(t, mux, false)
		mux.HandleFunc("GET /api/web/V6/search", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(searchResponse))
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		client, err := vw.NewClient(
			ugmirror.VehicleRef{Identifier: testVIN, Language: testLang},
			vw.WithBaseURL(server.URL),
		)
		require.NoError(t, err)

		_, err = client.ListManuals(context.Background())
		require.NoError(t, err)
		assert.Equal(t, testVIN, client.VIN())
	})

	t.Run("legacy redirect switches API prefix", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		registerLogin(t, mux, true)
		mux.HandleFunc("GET /legacy/api/web/V6/search", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(searchResponse))
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		client, err := vw.NewClient(
			ugmirror.VehicleRef{Identifier: testVIN, Language: testLang},
			vw.WithBaseURL(server.URL),
		)
		require.NoError(t, err)

		manuals, err := client.ListManuals(context.Background())
		require.NoError(t, err)
		assert.Len(t, manuals, 1)
	})

	t.Run("rejects VIN of another brand", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.NewServeMux())
		defer server.Close()

		client, err := vw.NewClient(
			ugmirror.VehicleRef{Identifier: "ZFAZZZ1TZBW000000", Language: testLang},
			vw.WithBaseURL(server.URL),
		)
		require.NoError(t, err)

		_, err = client.ListManuals(context.Background())
		require.Error(t, err)
		assert.Equal(t, ugmirror.EINVALID, ugmirror.ErrorCode(err))
	})

	t.Run("login failure is unavailable", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("POST /public/vin/login/"+testLang, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
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
		assert.Equal(t, ugmirror.EUNAVAILABLE, ugmirror.ErrorCode(err))
	})
}

func TestClient_PlateLookup(t *testing.T) {
	t.Parallel()

	t.Run("translates plate to VIN before login", func(t *testing.T) {
		t.Parallel()

		vrmMux := http.NewServeMux()
		vrmMux.HandleFunc("GET /AB12CDE", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"error":null,"vehicleDetails":{"vin":"` + testVIN + `"}}`))
		})
		vrmServer := httptest.NewServer(vrmMux)
		defer vrmServer.Close()

		mux := http.NewServeMux()
		registerLogin(t, mux, false)
		mux.HandleFunc("GET /api/web/V6/search", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(searchResponse))
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		client, err := vw.NewClient(
			ugmirror.VehicleRef{Identifier: "ab12cde", Language: testLang},
			vw.WithBaseURL(server.URL),
			vw.WithVRMLookupURL(vrmServer.URL),
		)
		require.NoError(t, err)

		_, err = client.ListManuals(context.Background())
		require.NoError(t, err)
		assert.Equal(t, testVIN, client.VIN())
	})

	t.Run("unknown plate is not found", func(t *testing.T) {
		t.Parallel()

		vrmMux := http.NewServeMux()
		vrmMux.HandleFunc("GET /ZZ99ZZZ", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"error":"not in database","vehicleDetails":null}`))
		})
		vrmServer := httptest.NewServer(vrmMux)
		defer vrmServer.Close()

		client, err := vw.NewClient(
			ugmirror.VehicleRef{Identifier: "ZZ99ZZZ", Language: testLang},
			vw.WithVRMLookupURL(vrmServer.URL),
		)
		require.NoError(t, err)

		_, err = client.ListManuals(context.Background())
		require.Error(t, err)
		assert.Equal(t, ugmirror.ENOTFOUND, ugmirror.ErrorCode(err))
	})
}
