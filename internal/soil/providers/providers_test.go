package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/agrimitra/agridata/internal/fetch"
	"github.com/agrimitra/agridata/internal/soil"
)

func TestSoilGridsFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/properties/query" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("value") != "mean" {
			t.Errorf("expected value=mean, got %q", q.Get("value"))
		}
		if got := len(q["property"]); got != len(soil.Properties) {
			t.Errorf("expected %d property params, got %d", len(soil.Properties), got)
		}
		if got := len(q["depth"]); got != len(soil.DepthLabels) {
			t.Errorf("expected %d depth params, got %d", len(soil.DepthLabels), got)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"properties":{"layers":[
			{"name":"phh2o","depths":[
				{"label":"0-5cm","values":{"mean":68}},
				{"label":"5-15cm","values":{"mean":66}}]},
			{"name":"clay","depths":[
				{"label":"0-5cm","values":{"mean":312}}]}
		]}}`))
	}))
	defer srv.Close()

	p := NewSoilGridsProvider(srv.Client(), srv.URL)
	prof, err := p.Fetch(context.Background(), 11.0168, 76.9558)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got, _ := prof.Lookup(soil.PropPH, "0-5cm"); got != 68 {
		t.Fatalf("expected pH 68, got %v", got)
	}
	if got, _ := prof.Lookup(soil.PropClay, "5-15cm"); got != soil.Defaults[soil.PropClay] {
		t.Fatalf("expected default clay for missing band, got %v", got)
	}
	if got, _ := prof.Lookup(soil.PropCEC, "0-5cm"); got != soil.Defaults[soil.PropCEC] {
		t.Fatalf("expected default cec for missing property, got %v", got)
	}
}

func TestSoilGridsMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>gateway error</html>`))
	}))
	defer srv.Close()

	p := NewSoilGridsProvider(srv.Client(), srv.URL)
	_, err := p.Fetch(context.Background(), 11.0168, 76.9558)

	var pe *fetch.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestOpenLandMapConversion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/query/point" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("coll") != "sol" {
			t.Errorf("expected coll=sol")
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"lon": 76.9558,
			"lat": 11.0168,
			"coll": "sol",
			"sol_ph.h2o_0..5cm_mean": 6.5,
			"sol_clay.wfraction_0..5cm_mean": 0.5,
			"sol_sand.wfraction_0..5cm_mean": 0.25
		}`))
	}))
	defer srv.Close()

	p := NewOpenLandMapProvider(srv.Client(), srv.URL)
	prof, err := p.Fetch(context.Background(), 11.0168, 76.9558)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// pH 6.5 -> 65 (pH*10), clay fraction 0.5 -> 500 g/kg.
	if got, _ := prof.Lookup(soil.PropPH, "0-5cm"); got != 65 {
		t.Fatalf("expected converted pH 65, got %v", got)
	}
	if got, _ := prof.Lookup(soil.PropClay, "0-5cm"); got != 500 {
		t.Fatalf("expected converted clay 500, got %v", got)
	}
	// Fields the backup omitted fall back to canonical defaults.
	if got, _ := prof.Lookup(soil.PropNitrogen, "0-5cm"); got != soil.Defaults[soil.PropNitrogen] {
		t.Fatalf("expected default nitrogen, got %v", got)
	}
}

func TestProviderStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewOpenLandMapProvider(srv.Client(), srv.URL)
	_, err := p.Fetch(context.Background(), 11.0168, 76.9558)
	if !fetch.IsClientError(err) {
		t.Fatalf("expected client error for 404, got %v", err)
	}
}
