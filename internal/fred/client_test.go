package fred

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFetchSeries(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"id":   r.URL.Query().Get("id"),
			"cosd": r.URL.Query().Get("cosd"),
			"coed": r.URL.Query().Get("coed"),
		}
		w.Write([]byte("DATE,DEXUSEU\n2024-05-10,1.0852\n2024-05-11,.\n2024-05-13,1.0871\n"))
	}))
	defer srv.Close()

	points, err := NewClient(srv.URL).FetchSeries(context.Background(), "DEXUSEU", day(2024, time.May, 10), day(2024, time.May, 13))
	if err != nil {
		t.Fatal(err)
	}

	if gotQuery["id"] != "DEXUSEU" || gotQuery["cosd"] != "2024-05-10" || gotQuery["coed"] != "2024-05-13" {
		t.Errorf("unexpected query params: %v", gotQuery)
	}
	if len(points) != 2 {
		t.Fatalf("got %d points, want 2 (missing observation skipped)", len(points))
	}
	if !points[0].Date.Equal(day(2024, time.May, 10)) || points[0].Rate.String() != "1.0852" {
		t.Errorf("first point = %+v", points[0])
	}
	if !points[1].Date.Equal(day(2024, time.May, 13)) || points[1].Rate.String() != "1.0871" {
		t.Errorf("second point = %+v", points[1])
	}
}

func TestFetchSeriesStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "series does not exist", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).FetchSeries(context.Background(), "BOGUS", day(2024, time.January, 1), day(2024, time.February, 1))
	if err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestFetchSeriesBadRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("DATE,DEXUSUK\n2024-05-10,abc\n"))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).FetchSeries(context.Background(), "DEXUSUK", day(2024, time.May, 10), day(2024, time.May, 10))
	if err == nil {
		t.Fatal("expected error for unparseable rate")
	}
}
