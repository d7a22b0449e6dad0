package dashui

import (
	"strings"
	"testing"

	"github.com/verte-zerg/hublog/internal/logparse"
	"github.com/verte-zerg/hublog/internal/model"
)

func dashModel(t *testing.T) *Model {
	t.Helper()
	log := strings.Join([]string{
		"SAMPLE|TEMP|21.0|0",
		"SAMPLE|TEMP|21.4|500",
		"SAMPLE|HUM|50.0|0",
		"ALERT|TEMP|25.0|900|high",
		"GARBAGE|x",
	}, "\n")
	parsed, err := logparse.ParseReader(strings.NewReader(log))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return NewModel("hub.log", parsed, model.CheckConfig{
		Rates:      model.DefaultRates(),
		Window:     model.DefaultWindow,
		DurationMs: 1000,
	})
}

func TestRenderOverviewCountsAndChecks(t *testing.T) {
	m := dashModel(t)
	out := m.renderOverview(100)
	for _, want := range []string{"Samples", "3", "Alerts", "Skipped", "TEMP", "expected >= 1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("overview missing %q:\n%s", want, out)
		}
	}
}

func TestRenderSeriesSkipsEmptySensors(t *testing.T) {
	m := dashModel(t)
	out := m.renderSeries(80)
	if !strings.Contains(out, "TEMP") || !strings.Contains(out, "HUM") {
		t.Fatalf("expected TEMP and HUM plots:\n%s", out)
	}
	if strings.Contains(out, "PRESS") {
		t.Fatalf("PRESS has no samples and must be skipped:\n%s", out)
	}
}

func TestWindowStepRecomputes(t *testing.T) {
	m := dashModel(t)
	before := m.cfg.Window
	m.cfg.Window++
	m.recompute()
	if m.cfg.Window != before+1 {
		t.Fatalf("expected window %d, got %d", before+1, m.cfg.Window)
	}
	if len(m.rows) == 0 {
		t.Fatalf("expected summary rows after recompute")
	}
}
