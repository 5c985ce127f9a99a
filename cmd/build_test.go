package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jatakam/dashatree/internal/chart"
)

const testChart = `
[person]
name = "Test Subject"

[birth]
datetime = "1976-09-06 11:20:00"

[vimsottari]
start_lord = "Ke"

[chara]
progression = ["Cn", "Le", "Vi", "Li", "Sc", "Sg", "Cp", "Aq", "Pi", "Ar", "Ta", "Ge"]

[chara.years]
Cn = 7
Le = 9
Vi = 5
Li = 11
Sc = 3
Sg = 8
Cp = 10
Aq = 6
Pi = 4
Ar = 12
Ta = 2
Ge = 1
`

func loadTestChart(t *testing.T) *chart.Chart {
	t.Helper()
	path := filepath.Join(t.TempDir(), "subject.toml")
	if err := os.WriteFile(path, []byte(testChart), 0o644); err != nil {
		t.Fatalf("writing chart fixture: %v", err)
	}
	c, err := chart.Load(path)
	if err != nil {
		t.Fatalf("chart.Load: %v", err)
	}
	return c
}

func TestResolveSystems(t *testing.T) {
	t.Parallel()
	c := loadTestChart(t)

	t.Run("all", func(t *testing.T) {
		systems, err := resolveSystems(c, "all", 120, 96)
		if err != nil {
			t.Fatalf("resolveSystems: %v", err)
		}
		if len(systems) != 2 {
			t.Fatalf("got %d systems, want 2", len(systems))
		}
		if systems[0].Sys.Name != "Vimsottari Dasa" || systems[0].Horizon != 120 {
			t.Errorf("first system = %s/%v", systems[0].Sys.Name, systems[0].Horizon)
		}
		if systems[1].Sys.Name != "K.N. Rao Chara Dasa" || systems[1].Horizon != 96 {
			t.Errorf("second system = %s/%v", systems[1].Sys.Name, systems[1].Horizon)
		}
	})

	t.Run("vimsottari only", func(t *testing.T) {
		systems, err := resolveSystems(c, "vimsottari", 120, 96)
		if err != nil {
			t.Fatalf("resolveSystems: %v", err)
		}
		if len(systems) != 1 || systems[0].Sys.Name != "Vimsottari Dasa" {
			t.Fatalf("got %+v, want only Vimsottari", systems)
		}
	})

	t.Run("unknown selector", func(t *testing.T) {
		if _, err := resolveSystems(c, "yogini", 120, 96); err == nil {
			t.Fatal("expected error for unknown selector")
		}
	})
}
