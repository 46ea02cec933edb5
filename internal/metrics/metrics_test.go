package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/roleviews/internal/roles"
)

func TestObserveDispatch_CountsByHookAndOutcome(t *testing.T) {
	m, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	m.ObserveDispatch(roles.Decision{Hook: "get_queryset", Outcome: roles.OutcomeOverride})
	m.ObserveDispatch(roles.Decision{Hook: "get_queryset", Outcome: roles.OutcomeOverride})
	m.ObserveDispatch(roles.Decision{Hook: "get_queryset", Outcome: roles.OutcomeAmbiguous})

	require.Equal(t, 2.0, testutil.ToFloat64(m.DispatchTotal.WithLabelValues("get_queryset", "override")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.DispatchTotal.WithLabelValues("get_queryset", "ambiguous")))
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	m, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/articles/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/articles/123", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)

	require.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/articles/{id}", "418")))

	out := httptest.NewRecorder()
	m.Handler().ServeHTTP(out, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Contains(t, out.Body.String(), `http_requests_total{method="GET",route="/articles/{id}",status="418"} 1`)
}
