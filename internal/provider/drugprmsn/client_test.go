package drugprmsn

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestSearchPagesUntilEmptyAndFilters(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		q := r.URL.Query()
		if q.Get("serviceKey") != "test-key" || q.Get("numOfRows") != "100" {
			t.Errorf("unexpected query %v", q)
		}
		w.Header().Set("Content-Type", "application/json")
		switch q.Get("pageNo") {
		case "1":
			_, _ = w.Write([]byte(`{"header":{"resultCode":"00"},"body":{"items":[
  {"ITEM_SEQ":"200003092","ITEM_NAME":"타이레놀정 500밀리그람","ITEM_ENG_NAME":"Tylenol Tab. 500mg","ENTP_NAME":"한국얀센","ITEM_INGR_NAME":"아세트아미노펜","CHART":"흰색 장방형 정제","ETC_OTC_NAME":"일반의약품"},
  {"ITEM_SEQ":"199900001","ITEM_NAME":"게보린정","ITEM_INGR_NAME":"아세트아미노펜/이소프로필안티피린"}
]}}`))
		case "2":
			_, _ = w.Write([]byte(`{"header":{"resultCode":"00"},"body":{"items":[
  {"ITEM_SEQ":"201100002","ITEM_NAME":"판콜에이내복액","ITEM_INGR_NAME":"클로르페니라민"}
]}}`))
		default:
			_, _ = w.Write([]byte(`{"header":{"resultCode":"00"},"body":{"items":[]}}`))
		}
	}))
	defer ts.Close()

	c := &Client{APIKey: "test-key", BaseURL: ts.URL, HTTPClient: ts.Client()}
	got, err := c.Search(context.Background(), "타이레놀 정", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || got[0].Seq != "200003092" {
		t.Fatalf("unexpected matches %+v", got)
	}
	if n := calls.Load(); n != 3 {
		t.Fatalf("expected paging to stop at the first empty page, got %d calls", n)
	}

	byIngredient, err := c.Search(context.Background(), "아세트아미노펜", 1)
	if err != nil {
		t.Fatalf("search by ingredient: %v", err)
	}
	if len(byIngredient) != 2 {
		t.Fatalf("expected two ingredient matches on page 1, got %+v", byIngredient)
	}

	fav := got[0].Favorite()
	if fav.ID != "200003092" || fav.Company != "한국얀센" || fav.Dosage != "흰색 장방형 정제" || fav.Usage != "일반의약품" {
		t.Fatalf("unexpected favorite %+v", fav)
	}
}

func TestMatchesIgnoresCaseAndPunctuation(t *testing.T) {
	t.Parallel()
	p := Product{Name: "타이레놀정 500밀리그람", EngName: "Tylenol Tab. 500mg"}
	for _, keyword := range []string{"tylenol", "TYLENOL TAB", "tab.500", "500밀리"} {
		if !p.Matches(keyword) {
			t.Fatalf("expected %q to match", keyword)
		}
	}
	if p.Matches("aspirin") {
		t.Fatalf("expected aspirin not to match")
	}
}

func TestPageReportsFailures(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, "boom")
	}))
	defer ts.Close()

	c := &Client{APIKey: "k", BaseURL: ts.URL, HTTPClient: ts.Client()}
	if _, err := c.Page(context.Background(), 1, 10); err == nil {
		t.Fatalf("expected status error")
	}
	if _, err := (&Client{}).Page(context.Background(), 1, 10); err == nil {
		t.Fatalf("expected missing key error")
	}
}
