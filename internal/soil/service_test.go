package soil

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agrimitra/agridata/internal/fetch"
)

type fakeProvider struct {
	name    string
	profile Profile
	err     error
	calls   int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Fetch(context.Context, float64, float64) (Profile, error) {
	f.calls++
	if f.err != nil {
		return Profile{}, f.err
	}
	return f.profile, nil
}

func fastService(primary, backup Provider) *Service {
	s := NewService(primary, backup)
	s.primaryPolicy = fetch.Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, Factor: 2}
	s.backupPolicy = fetch.Policy{MaxAttempts: 2, BaseDelay: time.Millisecond, Factor: 2}
	return s
}

func TestGetSoilDataPrimary(t *testing.T) {
	primary := &fakeProvider{name: "soilgrids", profile: DefaultProfile()}
	backup := &fakeProvider{name: "openlandmap"}

	res, err := fastService(primary, backup).GetSoilData(context.Background(), 11.0168, 76.9558)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Source != "primary" {
		t.Fatalf("expected source primary, got %q", res.Source)
	}
	if backup.calls != 0 {
		t.Fatal("backup must not be consulted when primary succeeds")
	}
}

func TestGetSoilDataFallsBackToBackup(t *testing.T) {
	primary := &fakeProvider{name: "soilgrids", err: &fetch.StatusError{Status: 503}}
	backup := &fakeProvider{name: "openlandmap", profile: DefaultProfile()}

	res, err := fastService(primary, backup).GetSoilData(context.Background(), 11.0168, 76.9558)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Source != "backup" {
		t.Fatalf("expected source backup, got %q", res.Source)
	}
	if primary.calls != 3 {
		t.Fatalf("expected primary to be retried 3 times, got %d", primary.calls)
	}
}

func TestGetSoilDataClientErrorSkipsRetries(t *testing.T) {
	primary := &fakeProvider{name: "soilgrids", err: &fetch.StatusError{Status: 404}}
	backup := &fakeProvider{name: "openlandmap", profile: DefaultProfile()}

	res, err := fastService(primary, backup).GetSoilData(context.Background(), 11.0168, 76.9558)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if primary.calls != 1 {
		t.Fatalf("404 must abort primary after a single attempt, got %d", primary.calls)
	}
	if res.Source != "backup" {
		t.Fatalf("expected source backup, got %q", res.Source)
	}
}

func TestGetSoilDataAllSourcesDown(t *testing.T) {
	primary := &fakeProvider{name: "soilgrids", err: &fetch.StatusError{Status: 500}}
	backup := &fakeProvider{name: "openlandmap", err: errors.New("connection refused")}

	_, err := fastService(primary, backup).GetSoilData(context.Background(), 11.0168, 76.9558)
	if !errors.Is(err, ErrAllSourcesUnavailable) {
		t.Fatalf("expected ErrAllSourcesUnavailable, got %v", err)
	}
	if primary.calls != 3 || backup.calls != 2 {
		t.Fatalf("expected 3 primary and 2 backup attempts, got %d and %d", primary.calls, backup.calls)
	}
}

func TestMergeFillsDefaults(t *testing.T) {
	prof := Merge(map[string]map[string]float64{
		PropPH: {"0-5cm": 72},
	})

	if got, _ := prof.Lookup(PropPH, "0-5cm"); got != 72 {
		t.Fatalf("expected supplied pH value 72, got %v", got)
	}
	if got, _ := prof.Lookup(PropPH, "5-15cm"); got != Defaults[PropPH] {
		t.Fatalf("expected default pH for missing band, got %v", got)
	}

	if len(prof.Properties) != len(Properties) {
		t.Fatalf("canonical profile must carry all %d properties, got %d", len(Properties), len(prof.Properties))
	}
	for i, name := range Properties {
		if prof.Properties[i].Name != name {
			t.Fatalf("property order broken at %d: expected %s got %s", i, name, prof.Properties[i].Name)
		}
		if len(prof.Properties[i].Depths) != len(DepthLabels) {
			t.Fatalf("property %s missing depth bands", name)
		}
	}
}
