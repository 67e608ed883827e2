package http_client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/specialistvlad/casegrid/internal/model"
	"github.com/specialistvlad/casegrid/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.WriteHeader(http.StatusOK)
		case "/created":
			if r.Method != http.MethodPost {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			w.WriteHeader(http.StatusCreated)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	tests := []struct {
		name string
		args map[string]string
		want model.Status
	}{
		{name: "default expectation", args: map[string]string{"url": srv.URL + "/ok"}, want: model.Success},
		{name: "custom method and status", args: map[string]string{"url": srv.URL + "/created", "method": "POST", "expect": "201"}, want: model.Success},
		{name: "unexpected status", args: map[string]string{"url": srv.URL + "/missing"}, want: model.Failure},
		{name: "expected 404", args: map[string]string{"url": srv.URL + "/missing", "expect": "404"}, want: model.Success},
		{name: "bad expectation", args: map[string]string{"url": srv.URL + "/ok", "expect": "ok"}, want: model.Failure},
		{name: "no url", args: nil, want: model.Failure},
		{name: "unreachable", args: map[string]string{"url": "http://127.0.0.1:1/"}, want: model.Failure},
	}
	fn := Request(NewClient(0))
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// --- Arrange ---
			c := model.NewRun("r").AddGroup("G").AddCase("req", nil)
			c.Args = tc.args

			// --- Act ---
			st := fn(context.Background(), c)

			// --- Assert ---
			assert.Equal(t, tc.want, st)
		})
	}
}

func TestNewClient(t *testing.T) {
	assert.Equal(t, DefaultTimeout, NewClient(0).Timeout)
	assert.Equal(t, 42*time.Millisecond, NewClient(42*time.Millisecond).Timeout)

	r := registry.New()
	r.RegisterModules(&Module{})
	_, ok := r.Lookup("http")
	require.True(t, ok)
}
