package api

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/matzehuels/opgraph/pkg/buildinfo"
	"github.com/matzehuels/opgraph/pkg/dag"
	"github.com/matzehuels/opgraph/pkg/errors"
	"github.com/matzehuels/opgraph/pkg/graph"
	"github.com/matzehuels/opgraph/pkg/pipeline"
	"github.com/matzehuels/opgraph/pkg/render/nodelink"
	"github.com/matzehuels/opgraph/pkg/viewer"
)

// OrderResponse is returned by /v1/schedule when a single order is requested.
type OrderResponse struct {
	Graph     string          `json:"graph"`
	GraphHash string          `json:"graph_hash"`
	Order     string          `json:"order"`
	Nodes     []dag.NodeIndex `json:"nodes"`
	Roots     []dag.NodeIndex `json:"roots"`
	Cached    bool            `json:"cached"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody describes a failed request.
type ErrorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	var (
		order    viewer.ExecutionOrder
		oneOrder bool
	)
	if q := r.URL.Query().Get("order"); q != "" {
		o, err := viewer.ParseExecutionOrder(q)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		order, oneOrder = o, true
	}

	res, ok := s.schedule(w, r)
	if !ok {
		return
	}
	w.Header().Set("X-Cache", cacheHeader(res.CacheHit))

	if !oneOrder {
		writeJSON(w, http.StatusOK, res.Schedule)
		return
	}
	nodes, err := res.Schedule.Order(order)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, OrderResponse{
		Graph:     res.Schedule.Graph,
		GraphHash: res.Schedule.GraphHash,
		Order:     order.String(),
		Nodes:     nodes,
		Roots:     res.Schedule.Roots,
		Cached:    res.CacheHit,
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	detailed := false
	if q := r.URL.Query().Get("detailed"); q != "" {
		b, err := strconv.ParseBool(q)
		if err != nil {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidArgument, "invalid detailed flag %q", q))
			return
		}
		detailed = b
	}
	direction := r.URL.Query().Get("direction")
	if !nodelink.ValidDirection(direction) {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidArgument, "unknown direction %q", direction))
		return
	}

	g, err := s.decodeBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.runner.Schedule(r.Context(), g, pipeline.Options{})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	dot := nodelink.ToDOT(g, res.Schedule, nodelink.Options{Detailed: detailed, Direction: direction})
	svg, err := nodelink.RenderSVG(r.Context(), dot)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "render diagram"))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(svg)
}

func (s *Server) schedule(w http.ResponseWriter, r *http.Request) (*pipeline.Result, bool) {
	g, err := s.decodeBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	res, err := s.runner.Schedule(r.Context(), g, pipeline.Options{})
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return res, true
}

func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request) (*dag.Graph, error) {
	format := graph.FormatJSON
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid content type")
		}
		switch mt {
		case "application/json":
		case "application/toml":
			format = graph.FormatTOML
		case "application/yaml", "application/x-yaml":
			format = graph.FormatYAML
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported content type %q", mt)
		}
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return nil, errors.New(errors.ErrCodeTooLarge, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read request body")
	}
	return graph.ReadGraph(bytes.NewReader(data), format)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "id", RequestIDFromContext(r.Context()), "error", err)
	}
	writeJSON(w, status, ErrorResponse{Error: ErrorBody{
		Code:    string(code),
		Message: errors.UserMessage(err),
		Details: errors.Details(err),
	}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func cacheHeader(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}
