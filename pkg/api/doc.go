// Package api serves execution schedules over HTTP.
//
// Routes:
//
//	GET  /health                                  liveness check and build info
//	POST /v1/schedule[?order=default|priority]    graph document -> schedule
//	POST /v1/render[?detailed=true&direction=LR]  graph document -> SVG diagram
//
// Request bodies are graph documents in JSON, or TOML and YAML when the
// request's Content-Type is application/toml or application/yaml. Errors
// are returned as
//
//	{"error": {"code": "GRAPH_INTEGRITY", "message": "..."}}
//
// with the status code chosen by [errors.HTTPStatus]. Every response carries
// an X-Request-ID header, echoed from the request when present.
//
// [errors.HTTPStatus]: github.com/matzehuels/opgraph/pkg/errors
package api
