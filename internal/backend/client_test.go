package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"canvasstudio/internal/canvas"
)

func TestListTemplatesSendsAuthAndFilter(t *testing.T) {
	var gotAuth, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.Query().Get("app_type")
		_ = json.NewEncoder(w).Encode([]TemplateSummary{{ID: "t1", Name: "Bold Quote", AppType: "quote"}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "tok123")
	list, err := c.ListTemplates(context.Background(), "quote")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if gotAuth != "Bearer tok123" {
		t.Fatalf("auth header: %q", gotAuth)
	}
	if gotQuery != "quote" {
		t.Fatalf("app_type filter: %q", gotQuery)
	}
	if len(list) != 1 || list[0].ID != "t1" {
		t.Fatalf("list result: %v", list)
	}
}

func TestGetTemplateDecodesDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/templates/t1" {
			t.Errorf("path: %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(canvas.Template{
			ID: "t1", Name: "Bold Quote", Type: canvas.TemplateStatic, AppType: canvas.AppQuote,
			CanvasDimensions: canvas.Dimensions{Width: 1080, Height: 1080},
		})
	}))
	defer srv.Close()

	tpl, err := NewClient(srv.URL, "").GetTemplate(context.Background(), "t1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if tpl.Name != "Bold Quote" || tpl.CanvasDimensions.Width != 1080 {
		t.Fatalf("decoded template: %+v", tpl)
	}
}

func TestPushTemplatePostsJSON(t *testing.T) {
	var got canvas.Template
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method: %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type: %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tpl := &canvas.Template{ID: "t9", Name: "Reel Cover", AppType: canvas.AppReel}
	if err := NewClient(srv.URL, "").PushTemplate(context.Background(), tpl); err != nil {
		t.Fatalf("push: %v", err)
	}
	if got.ID != "t9" {
		t.Fatalf("server received: %+v", got)
	}
}

func TestClientSurfacesHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL, "").GetTemplate(context.Background(), "x"); err == nil {
		t.Fatalf("403 must surface as error")
	}
}

func TestSearchImagesEncodesQuery(t *testing.T) {
	var q, limit string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q = r.URL.Query().Get("q")
		limit = r.URL.Query().Get("limit")
		_ = json.NewEncoder(w).Encode([]ImageResult{{URL: "https://img/1.jpg", Width: 800, Height: 600}})
	}))
	defer srv.Close()

	hits, err := NewClient(srv.URL, "").SearchImages(context.Background(), "sunset beach", 5)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if q != "sunset beach" || limit != "5" {
		t.Fatalf("query params: q=%q limit=%q", q, limit)
	}
	if len(hits) != 1 || hits[0].Width != 800 {
		t.Fatalf("hits: %v", hits)
	}
}

func TestFeedbackAndWaitlistValidation(t *testing.T) {
	c := NewClient("http://unused.invalid", "")
	if err := c.SubmitFeedback(context.Background(), Feedback{Subject: "hi"}); err == nil {
		t.Fatalf("empty message must be rejected before any request")
	}
	if err := c.JoinWaitlist(context.Background(), "  "); err == nil {
		t.Fatalf("blank email must be rejected before any request")
	}
}
