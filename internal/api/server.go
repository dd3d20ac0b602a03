// Package api serves functional evaluation over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/labstack/echo/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/samcharles93/xckit/internal/logger"
	"github.com/samcharles93/xckit/internal/version"
	"github.com/samcharles93/xckit/internal/xc"
	"github.com/samcharles93/xckit/internal/xclib"
)

// Evaluator runs evaluation requests. *xc.Engine implements it.
type Evaluator interface {
	Run(ctx context.Context, req xc.Request) (xc.Result, error)
}

// Catalog resolves and describes functionals. *xclib.Registry implements it.
type Catalog interface {
	Numbers() []int
	Describe(id int) (*xclib.Func, error)
	Lookup(name string) (int, bool)
}

// Config wires a Server.
type Config struct {
	Engine  Evaluator
	Catalog Catalog
	Store   *ResultStore
	Limiter *rate.Limiter
	Log     logger.Logger

	// Registry receives the server metrics and backs /metrics. Nil means a
	// private registry.
	Registry *prometheus.Registry

	// MaxPoints bounds the grid size of one request. Zero means unbounded.
	MaxPoints int
}

type Server struct {
	engine    Evaluator
	catalog   Catalog
	store     *ResultStore
	limiter   *rate.Limiter
	log       logger.Logger
	registry  *prometheus.Registry
	metrics   *metrics
	maxPoints int
	clock     func() time.Time
}

func NewServer(cfg Config) *Server {
	s := &Server{
		engine:    cfg.Engine,
		catalog:   cfg.Catalog,
		store:     cfg.Store,
		limiter:   cfg.Limiter,
		log:       cfg.Log,
		registry:  cfg.Registry,
		maxPoints: cfg.MaxPoints,
		clock:     time.Now,
	}
	if s.catalog == nil {
		s.catalog = xclib.Builtin
	}
	if s.store == nil {
		s.store = NewResultStore(256)
	}
	if s.log == nil {
		s.log = logger.Discard()
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}
	if s.engine == nil {
		s.engine = xc.New(0, s.log)
	}
	s.metrics = newMetrics(s.registry)
	return s
}

func (s *Server) Register(e *echo.Echo) {
	e.POST("/v1/eval", s.rateLimit(s.handleEval))
	e.GET("/v1/eval/:id", s.handleGetEval)
	e.DELETE("/v1/eval/:id", s.handleDeleteEval)
	e.GET("/v1/functionals", s.handleListFunctionals)
	e.GET("/v1/functionals/:id", s.handleGetFunctional)
	e.GET("/v1/layout", s.handleLayout)
	e.GET("/v1/version", s.handleVersion)

	metricsHandler := promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
	e.GET("/metrics", func(c *echo.Context) error {
		metricsHandler.ServeHTTP(c.Response(), c.Request())
		return nil
	})
	e.GET("/healthz", func(c *echo.Context) error {
		return writeJSON(c, http.StatusOK, map[string]string{"status": "ok"})
	})
}

func (s *Server) handleEval(c *echo.Context) error {
	req, err := decodeJSON[EvalRequest](c.Request().Body)
	if err != nil {
		s.metrics.evaluations.WithLabelValues("invalid_json").Inc()
		return writeBadRequest(c, "invalid JSON body: "+err.Error())
	}
	xreq, terms, err := s.buildRequest(&req)
	if err != nil {
		return s.writeEvalError(c, err)
	}

	start := s.clock()
	res, err := s.engine.Run(c.Request().Context(), xreq)
	elapsed := s.clock().Sub(start)
	if err != nil {
		return s.writeEvalError(c, err)
	}
	out, nvar := res.Output, res.NVar

	s.metrics.evaluations.WithLabelValues("ok").Inc()
	s.metrics.duration.WithLabelValues(xreq.Spin.String(), strconv.Itoa(xreq.Deriv)).Observe(elapsed.Seconds())
	s.metrics.points.Add(float64(xreq.Density.NP))

	resp := &EvalResponse{
		ID:        "eval_" + uuid.NewString(),
		Object:    "evaluation",
		CreatedAt: start.Unix(),
		Spin:      xreq.Spin.String(),
		Deriv:     xreq.Deriv,
		NP:        xreq.Density.NP,
		NVar:      nvar,
		Terms:     terms,
		Segments:  segments(nvar, xreq.Deriv, xreq.Density.NP),
		Output:    out,
		ElapsedMS: float64(elapsed.Microseconds()) / 1000,
	}
	if out == nil {
		resp.Output = []float64{}
	}
	if req.Store == nil || *req.Store {
		s.store.Put(resp)
		s.metrics.stored.Set(float64(s.store.Len()))
	}
	s.log.Debug("evaluation served", "id", resp.ID, "points", resp.NP, "nvar", nvar, "elapsed", elapsed)
	return writeJSON(c, http.StatusOK, resp)
}

func (s *Server) buildRequest(req *EvalRequest) (xc.Request, []Term, error) {
	spin, err := xclib.ParseSpin(req.Spin)
	if err != nil {
		return xc.Request{}, nil, newInvalidRequest("spin", err.Error())
	}
	if len(req.Functionals) == 0 {
		return xc.Request{}, nil, newInvalidRequest("functionals", "at least one functional is required")
	}
	if req.NP < 0 {
		return xc.Request{}, nil, newInvalidRequest("np", fmt.Sprintf("np must be non-negative, got %d", req.NP))
	}
	if s.maxPoints > 0 && req.NP > s.maxPoints {
		return xc.Request{}, nil, newInvalidRequest("np", fmt.Sprintf("np %d exceeds the limit of %d", req.NP, s.maxPoints))
	}

	xterms := make([]xc.Term, 0, len(req.Functionals))
	terms := make([]Term, 0, len(req.Functionals))
	for i, f := range req.Functionals {
		id := f.ID
		if f.Name != "" {
			var ok bool
			if id, ok = s.catalog.Lookup(f.Name); !ok {
				return xc.Request{}, nil, newInvalidRequest(fmt.Sprintf("functionals[%d].name", i), "unknown functional "+strconv.Quote(f.Name))
			}
		}
		w := 1.0
		if f.Weight != nil {
			w = *f.Weight
		}
		name := ""
		if d, err := s.catalog.Describe(id); err == nil {
			name = d.Info.Name
		}
		xterms = append(xterms, xc.Term{ID: id, Weight: w, Omega: f.Omega})
		terms = append(terms, Term{ID: id, Name: name, Weight: w, Omega: f.Omega})
	}

	return xc.Request{
		Terms: xterms,
		Spin:  spin,
		Deriv: req.Deriv,
		Density: xc.Density{
			NP:    req.NP,
			NComp: req.NComp,
			Up:    req.Up,
			Down:  req.Down,
		},
	}, terms, nil
}

func (s *Server) writeEvalError(c *echo.Context, err error) error {
	status, code := classify(err)
	s.metrics.evaluations.WithLabelValues(code).Inc()
	param := ""
	var ire invalidRequestError
	if errors.As(err, &ire) {
		param = ire.param
	}
	if status >= http.StatusInternalServerError {
		s.log.Error("evaluation failed", "error", err)
		return writeError(c, status, "server_error", err.Error(), param, code)
	}
	return writeError(c, status, "invalid_request_error", err.Error(), param, code)
}

func (s *Server) handleGetEval(c *echo.Context) error {
	r, ok := s.store.Get(c.Param("id"))
	if !ok {
		return writeNotFound(c, "evaluation not found")
	}
	return writeJSON(c, http.StatusOK, r)
}

func (s *Server) handleDeleteEval(c *echo.Context) error {
	id := c.Param("id")
	if !s.store.Delete(id) {
		return writeNotFound(c, "evaluation not found")
	}
	s.metrics.stored.Set(float64(s.store.Len()))
	return writeJSON(c, http.StatusOK, map[string]any{"id": id, "object": "evaluation.deleted", "deleted": true})
}

func (s *Server) handleListFunctionals(c *echo.Context) error {
	family := strings.ToLower(c.QueryParam("family"))
	list := FunctionalList{Object: "list", Data: []FunctionalInfo{}, Library: xclib.Version()}
	for _, id := range s.catalog.Numbers() {
		f, err := s.catalog.Describe(id)
		if err != nil {
			continue
		}
		if family != "" && f.Info.Family.String() != family && f.Info.Family.Base().String() != family {
			continue
		}
		list.Data = append(list.Data, describe(f))
	}
	return writeJSON(c, http.StatusOK, list)
}

func (s *Server) handleGetFunctional(c *echo.Context) error {
	key := c.Param("id")
	id, err := strconv.Atoi(key)
	if err != nil {
		var ok bool
		if id, ok = s.catalog.Lookup(key); !ok {
			return writeNotFound(c, "unknown functional "+strconv.Quote(key))
		}
	}
	f, err := s.catalog.Describe(id)
	if err != nil {
		return writeNotFound(c, err.Error())
	}
	return writeJSON(c, http.StatusOK, describe(f))
}

func (s *Server) handleLayout(c *echo.Context) error {
	nvar, err1 := strconv.Atoi(c.QueryParam("nvar"))
	deriv, err2 := strconv.Atoi(c.QueryParam("deriv"))
	if err1 != nil || err2 != nil || nvar < 1 || nvar > xc.MaxNVar || deriv < 0 || deriv > xc.MaxDeriv {
		return writeBadRequest(c, fmt.Sprintf("nvar must be 1..%d and deriv 0..%d", xc.MaxNVar, xc.MaxDeriv))
	}
	return writeJSON(c, http.StatusOK, LayoutResponse{
		NVar:     nvar,
		Deriv:    deriv,
		Length:   xc.OutputLength(nvar, deriv),
		Segments: segments(nvar, deriv, 1),
	})
}

func (s *Server) handleVersion(c *echo.Context) error {
	return writeJSON(c, http.StatusOK, version.Resolve())
}

func describe(f *xclib.Func) FunctionalInfo {
	info := FunctionalInfo{
		ID:             f.Info.Number,
		Name:           f.Info.Name,
		Description:    f.Info.Description,
		Kind:           f.Info.Kind.String(),
		Family:         f.Info.Family.String(),
		MaxDeriv:       f.MaxDerivOrder(),
		NeedsLaplacian: f.NeedsLaplacian(),
		NeedsTau:       f.NeedsTau(),
	}
	switch {
	case f.IsCAMRSH():
		info.Hybrid = "cam"
		info.Omega, info.Alpha, info.Beta = f.RSHCoeff()
	case f.IsHybrid():
		info.Hybrid = "global"
		info.ExxCoeff = f.HybridCoeff()
	}
	for _, r := range f.Info.Refs {
		info.References = append(info.References, Reference{Text: r.Text, DOI: r.DOI})
	}
	return info
}

// segments lists the order segments of an output with np points.
func segments(nvar, deriv, np int) []Segment {
	if nvar == 0 {
		return []Segment{}
	}
	out := make([]Segment, 0, deriv+1)
	for k := 0; k <= deriv; k++ {
		out = append(out, Segment{
			Order:  k,
			Offset: np * xc.SegmentOffset(nvar, k),
			Length: np * xc.SegmentLength(nvar, k),
		})
	}
	return out
}

func writeBadRequest(c *echo.Context, msg string) error {
	return writeError(c, http.StatusBadRequest, "invalid_request_error", msg, "", "")
}

func writeNotFound(c *echo.Context, msg string) error {
	return writeError(c, http.StatusNotFound, "not_found_error", msg, "", "")
}

func writeError(c *echo.Context, status int, errType, msg, param, code string) error {
	return writeJSON(c, status, map[string]any{
		"error": ErrorBody{Message: msg, Type: errType, Code: code, Param: param},
	})
}

func writeJSON(c *echo.Context, status int, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	res.WriteHeader(status)
	_, err = res.Write(b)
	return err
}

func decodeJSON[T any](r io.Reader) (T, error) {
	var out T
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}
