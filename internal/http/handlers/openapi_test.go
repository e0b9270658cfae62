package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOpenAPIDocsUsesDocumentTitleAndSiblingSpec(t *testing.T) {
	app := &App{}
	for target, wantSpec := range map[string]string{
		"/v1/docs":     `spec-url="/v1/openapi.json"`,
		"/api/v2/docs": `spec-url="/api/v2/openapi.json"`,
	} {
		rec := httptest.NewRecorder()
		app.OpenAPIDocs(rec, httptest.NewRequest(http.MethodGet, target, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status = %d", target, rec.Code)
		}
		body := rec.Body.String()
		if !strings.Contains(body, "<title>MerchMagic API docs</title>") {
			t.Fatalf("%s: title missing in %s", target, body)
		}
		if !strings.Contains(body, wantSpec) {
			t.Fatalf("%s: want %s in %s", target, wantSpec, body)
		}
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
			t.Fatalf("%s: content type %q", target, ct)
		}
	}
}

func TestOpenAPIJSONServesEmbeddedDocument(t *testing.T) {
	rec := httptest.NewRecorder()
	(&App{}).OpenAPIJSON(rec, httptest.NewRequest(http.MethodGet, "/v1/openapi.json", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Body.Len(); got != len(openAPISpec) {
		t.Fatalf("body length = %d, want %d", got, len(openAPISpec))
	}
	if apiTitle() != "MerchMagic API" {
		t.Fatalf("title = %q", apiTitle())
	}
}
