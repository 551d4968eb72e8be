package handler

import (
	"net/http"

	"github.com/pkordes/planit/backend/spec"
)

// GetOpenAPISpec serves the embedded openapi.yaml so the spec and the running
// code are always the same version.
func (s *Server) GetOpenAPISpec(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(spec.OpenAPI)
}

// scalarPage loads the Scalar API reference UI pointed at /openapi.yaml.
const scalarPage = `<!doctype html>
<html>
  <head>
    <title>PlanIt API Reference</title>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
  </head>
  <body>
    <script id="api-reference" data-url="/openapi.yaml"></script>
    <script src="https://cdn.jsdelivr.net/npm/@scalar/api-reference"></script>
  </body>
</html>`

// GetDocs serves the interactive API documentation UI.
func (s *Server) GetDocs(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(scalarPage))
}
