package handlers

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"html/template"
	"net/http"
	"path"
	"sync"
)

//go:embed openapi.json
var openAPISpec []byte

var docsPage = template.Must(template.New("docs").Parse(`<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="utf-8" />
    <title>{{.Title}} docs</title>
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <style>body { margin: 0; } redoc { display: block; height: 100vh; }</style>
  </head>
  <body>
    <redoc spec-url="{{.SpecURL}}"></redoc>
    <script src="https://cdn.jsdelivr.net/npm/redoc@2.2.0/bundles/redoc.standalone.js"></script>
  </body>
</html>`))

var apiTitle = sync.OnceValue(func() string {
	var doc struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
	}
	if err := json.Unmarshal(openAPISpec, &doc); err != nil || doc.Info.Title == "" {
		return "API"
	}
	return doc.Info.Title
})

// OpenAPIJSON serves the embedded OpenAPI document.
func (a *App) OpenAPIJSON(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(openAPISpec)
}

// OpenAPIDocs renders a Redoc page for the document served next to it, so
// the page keeps working under whatever prefix the router mounts it.
func (a *App) OpenAPIDocs(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	err := docsPage.Execute(&buf, struct{ Title, SpecURL string }{
		Title:   apiTitle(),
		SpecURL: path.Join(path.Dir(r.URL.Path), "openapi.json"),
	})
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal_error", "render docs failed")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
