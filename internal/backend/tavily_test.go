// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTavilyScoresMapped(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[
			{"title":"a","url":"https://a.example","content":"c","score":0.87},
			{"title":"b","url":"https://b.example","content":"c","score":1.7}
		]}`))
	}))
	defer ts.Close()

	old := tavilyAPIBase
	tavilyAPIBase = ts.URL
	defer func() { tavilyAPIBase = old }()

	b := &Tavily{Client: ts.Client(), APIKey: "k"}
	results, err := b.Search(context.Background(), "x", 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if results[0].RelevanceScore != 87 {
		t.Errorf("score = %d, want 87", results[0].RelevanceScore)
	}
	if results[1].RelevanceScore != 100 {
		t.Errorf("score = %d, want clamped 100", results[1].RelevanceScore)
	}
}
