package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/samcharles93/xckit/internal/logger"
	"github.com/samcharles93/xckit/internal/xc"
)

func newTestServer(cfg Config) (*Server, *echo.Echo) {
	if cfg.Engine == nil {
		cfg.Engine = xc.New(2, logger.Discard())
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.NewRegistry()
	}
	server := NewServer(cfg)
	e := echo.New()
	server.Register(e)
	return server, e
}

func newTestEcho() *echo.Echo {
	_, e := newTestServer(Config{})
	return e
}

func doJSON(t *testing.T, e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return out
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	body := decodeBody[struct {
		Error ErrorBody `json:"error"`
	}](t, rec)
	return body.Error.Code
}

const slaterBody = `{"functionals":[{"name":"lda_x"}],"spin":"unpolarized","deriv":1,"np":2,"ncomp":1,"up":[0.5,1.0]}`

func TestEvalGetDeleteLifecycle(t *testing.T) {
	t.Parallel()

	e := newTestEcho()
	rec := doJSON(t, e, http.MethodPost, "/v1/eval", slaterBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("eval status: got %d body=%s", rec.Code, rec.Body.String())
	}
	created := decodeBody[EvalResponse](t, rec)
	if !strings.HasPrefix(created.ID, "eval_") {
		t.Fatalf("unexpected id %q", created.ID)
	}
	if created.NVar != 1 || len(created.Output) != 4 {
		t.Fatalf("nvar=%d output=%v", created.NVar, created.Output)
	}
	if len(created.Terms) != 1 || created.Terms[0].Name != "lda_x" || created.Terms[0].Weight != 1 {
		t.Fatalf("terms = %+v", created.Terms)
	}
	if len(created.Segments) != 2 || created.Segments[1].Offset != 2 || created.Segments[1].Length != 2 {
		t.Fatalf("segments = %+v", created.Segments)
	}
	for i := range 2 {
		if created.Output[i] >= 0 {
			t.Fatalf("exchange energy density should be negative, got %v", created.Output)
		}
	}

	getRec := doJSON(t, e, http.MethodGet, "/v1/eval/"+created.ID, "")
	if getRec.Code != http.StatusOK {
		t.Fatalf("get status: got %d", getRec.Code)
	}
	got := decodeBody[EvalResponse](t, getRec)
	if got.ID != created.ID || len(got.Output) != len(created.Output) {
		t.Fatalf("stored result differs: %+v", got)
	}

	delRec := doJSON(t, e, http.MethodDelete, "/v1/eval/"+created.ID, "")
	if delRec.Code != http.StatusOK {
		t.Fatalf("delete status: got %d", delRec.Code)
	}
	if rec := doJSON(t, e, http.MethodGet, "/v1/eval/"+created.ID, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete: got %d", rec.Code)
	}
	if rec := doJSON(t, e, http.MethodDelete, "/v1/eval/"+created.ID, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("second delete: got %d", rec.Code)
	}
}

func TestEvalWithoutStore(t *testing.T) {
	t.Parallel()

	e := newTestEcho()
	body := strings.Replace(slaterBody, `"np":2`, `"store":false,"np":2`, 1)
	rec := doJSON(t, e, http.MethodPost, "/v1/eval", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("eval status: got %d body=%s", rec.Code, rec.Body.String())
	}
	created := decodeBody[EvalResponse](t, rec)
	if rec := doJSON(t, e, http.MethodGet, "/v1/eval/"+created.ID, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("unstored result was retrievable: %d", rec.Code)
	}
}

func TestEvalMixedCombination(t *testing.T) {
	t.Parallel()

	e := newTestEcho()
	body := `{"functionals":[{"id":1,"weight":0.5},{"name":"gga_x_pbe","weight":0.5}],
		"spin":"polarized","deriv":2,"np":3,"ncomp":4,
		"up":[0.3,0.4,0.5, 0.1,0.1,0.1, 0,0,0, 0,0,0],
		"down":[0.2,0.3,0.4, 0,0.1,0, 0.1,0,0, 0,0,0.1]}`
	rec := doJSON(t, e, http.MethodPost, "/v1/eval", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("eval status: got %d body=%s", rec.Code, rec.Body.String())
	}
	got := decodeBody[EvalResponse](t, rec)
	if got.NVar != 5 {
		t.Fatalf("nvar = %d, want 5", got.NVar)
	}
	if want := 3 * xc.OutputLength(5, 2); len(got.Output) != want {
		t.Fatalf("output length %d, want %d", len(got.Output), want)
	}
	if got.Spin != "polarized" {
		t.Fatalf("spin = %q", got.Spin)
	}
}

func TestEvalErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"bad json", `{"functionals":`, http.StatusBadRequest, ""},
		{"unknown field", `{"functionals":[{"id":1}],"bogus":1}`, http.StatusBadRequest, ""},
		{"no functionals", `{"np":1,"ncomp":1,"up":[1]}`, http.StatusBadRequest, "invalid_request"},
		{"bad spin", `{"functionals":[{"id":1}],"spin":"sideways","np":1,"ncomp":1,"up":[1]}`, http.StatusBadRequest, "invalid_request"},
		{"unknown name", `{"functionals":[{"name":"nope"}],"np":1,"ncomp":1,"up":[1]}`, http.StatusBadRequest, "invalid_request"},
		{"unknown id", `{"functionals":[{"id":99999}],"np":1,"ncomp":1,"up":[1]}`, http.StatusBadRequest, "unknown_functional"},
		{"deriv range", `{"functionals":[{"id":1}],"deriv":4,"np":1,"ncomp":1,"up":[1]}`, http.StatusBadRequest, "deriv_out_of_range"},
		{"mgga third order", `{"functionals":[{"name":"mgga_x_ms0"}],"deriv":3,"np":1,"ncomp":6,"up":[1,0,0,0,0,1]}`, http.StatusUnprocessableEntity, "unsupported_deriv"},
		{"unsupported family", `{"functionals":[{"name":"lca_omc"}],"np":1,"ncomp":1,"up":[1]}`, http.StatusUnprocessableEntity, "unsupported_family"},
		{"short density", `{"functionals":[{"name":"gga_x_pbe"}],"np":1,"ncomp":1,"up":[1]}`, http.StatusBadRequest, "short_density"},
		{"negative np", `{"functionals":[{"id":1}],"np":-1,"ncomp":1,"up":[]}`, http.StatusBadRequest, "invalid_request"},
	}
	e := newTestEcho()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, e, http.MethodPost, "/v1/eval", tc.body)
			if rec.Code != tc.status {
				t.Fatalf("status: got %d want %d body=%s", rec.Code, tc.status, rec.Body.String())
			}
			if tc.code != "" {
				if got := errorCode(t, rec); got != tc.code {
					t.Fatalf("code: got %q want %q", got, tc.code)
				}
			}
		})
	}
}

func TestEvalMaxPoints(t *testing.T) {
	t.Parallel()

	_, e := newTestServer(Config{MaxPoints: 1})
	rec := doJSON(t, e, http.MethodPost, "/v1/eval", slaterBody)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
	}
	body := decodeBody[struct {
		Error ErrorBody `json:"error"`
	}](t, rec)
	if body.Error.Param != "np" {
		t.Fatalf("param = %q, want np", body.Error.Param)
	}
}

func TestEvalRateLimited(t *testing.T) {
	t.Parallel()

	_, e := newTestServer(Config{Limiter: NewLimiter(0.001, 1)})
	if rec := doJSON(t, e, http.MethodPost, "/v1/eval", slaterBody); rec.Code != http.StatusOK {
		t.Fatalf("first request: got %d", rec.Code)
	}
	rec := doJSON(t, e, http.MethodPost, "/v1/eval", slaterBody)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("missing Retry-After header")
	}
	if got := errorCode(t, rec); got != "rate_limited" {
		t.Fatalf("code = %q", got)
	}
}

func TestNewLimiterDisabled(t *testing.T) {
	t.Parallel()
	if NewLimiter(0, 10) != nil {
		t.Fatal("zero rate should disable limiting")
	}
	s := NewServer(Config{Registry: prometheus.NewRegistry()})
	s.SetRateLimit(5, 1)
	if s.limiter != nil {
		t.Fatal("SetRateLimit must not create a limiter")
	}
	if r, b := s.RateLimit(); r != 0 || b != 0 {
		t.Fatalf("RateLimit() = %g, %d without a limiter", r, b)
	}
}

func TestSetRateLimitKeepsUnsetValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		perSecond float64
		burst     int
		wantRate  float64
		wantBurst int
	}{
		{"rate only", 20, 0, 20, 10},
		{"burst only", 0, 3, 5, 3},
		{"both", 7, 2, 7, 2},
		{"neither", -1, -1, 5, 10},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := NewServer(Config{Limiter: NewLimiter(5, 10), Registry: prometheus.NewRegistry()})
			s.SetRateLimit(tc.perSecond, tc.burst)
			if r, b := s.RateLimit(); r != tc.wantRate || b != tc.wantBurst {
				t.Fatalf("RateLimit() = %g, %d; want %g, %d", r, b, tc.wantRate, tc.wantBurst)
			}
		})
	}
}

func TestListFunctionals(t *testing.T) {
	t.Parallel()

	e := newTestEcho()
	rec := doJSON(t, e, http.MethodGet, "/v1/functionals", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	all := decodeBody[FunctionalList](t, rec)
	if all.Object != "list" || len(all.Data) < 10 || all.Library == "" {
		t.Fatalf("unexpected list: %d entries, library %q", len(all.Data), all.Library)
	}

	rec = doJSON(t, e, http.MethodGet, "/v1/functionals?family=gga", "")
	ggas := decodeBody[FunctionalList](t, rec)
	if len(ggas.Data) == 0 || len(ggas.Data) >= len(all.Data) {
		t.Fatalf("gga filter returned %d of %d", len(ggas.Data), len(all.Data))
	}
	for _, f := range ggas.Data {
		if !strings.Contains(f.Family, "gga") || strings.Contains(f.Family, "mgga") {
			t.Fatalf("filter leaked %s (%s)", f.Name, f.Family)
		}
	}
}

func TestGetFunctional(t *testing.T) {
	t.Parallel()

	e := newTestEcho()
	byID := decodeBody[FunctionalInfo](t, doJSON(t, e, http.MethodGet, "/v1/functionals/178", ""))
	byName := decodeBody[FunctionalInfo](t, doJSON(t, e, http.MethodGet, "/v1/functionals/hyb_lda_xc_cam_lda0", ""))
	if byID.Name != "hyb_lda_xc_cam_lda0" || byName.ID != 178 {
		t.Fatalf("lookup mismatch: %+v / %+v", byID, byName)
	}
	if byID.Hybrid != "cam" || byID.Omega == 0 {
		t.Fatalf("CAM parameters missing: %+v", byID)
	}

	pbe := decodeBody[FunctionalInfo](t, doJSON(t, e, http.MethodGet, "/v1/functionals/gga_x_pbe", ""))
	if pbe.MaxDeriv != 3 || pbe.NeedsTau || pbe.Hybrid != "" {
		t.Fatalf("pbe info: %+v", pbe)
	}

	if rec := doJSON(t, e, http.MethodGet, "/v1/functionals/nope", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown name: got %d", rec.Code)
	}
	if rec := doJSON(t, e, http.MethodGet, "/v1/functionals/424242", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown id: got %d", rec.Code)
	}
}

func TestLayout(t *testing.T) {
	t.Parallel()

	e := newTestEcho()
	rec := doJSON(t, e, http.MethodGet, "/v1/layout?nvar=5&deriv=2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	got := decodeBody[LayoutResponse](t, rec)
	if got.Length != 21 || len(got.Segments) != 3 {
		t.Fatalf("layout = %+v", got)
	}
	if got.Segments[2].Offset != 6 || got.Segments[2].Length != 15 {
		t.Fatalf("second order segment = %+v", got.Segments[2])
	}

	for _, q := range []string{"nvar=0&deriv=1", "nvar=10&deriv=1", "nvar=2&deriv=4", "nvar=x"} {
		if rec := doJSON(t, e, http.MethodGet, "/v1/layout?"+q, ""); rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: got %d", q, rec.Code)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	e := newTestEcho()
	doJSON(t, e, http.MethodPost, "/v1/eval", slaterBody)
	doJSON(t, e, http.MethodPost, "/v1/eval", `{"functionals":[{"id":99999}],"np":1,"ncomp":1,"up":[1]}`)

	rec := doJSON(t, e, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`xckit_evaluations_total{code="ok"} 1`,
		`xckit_evaluations_total{code="unknown_functional"} 1`,
		`xckit_grid_points_total 2`,
		`xckit_stored_results 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics missing %q:\n%s", want, body)
		}
	}
}

func TestVersionAndHealth(t *testing.T) {
	t.Parallel()

	e := newTestEcho()
	if rec := doJSON(t, e, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Fatalf("healthz: got %d", rec.Code)
	}
	rec := doJSON(t, e, http.MethodGet, "/v1/version", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("version: got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"version"`) {
		t.Fatalf("version body: %s", rec.Body.String())
	}
}
