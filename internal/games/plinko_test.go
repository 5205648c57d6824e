package games_test

import (
	"math"
	"testing"

	"casino-engine-backend/internal/fair"
	"casino-engine-backend/internal/games"
	"casino-engine-backend/internal/models"
)

// Every normalized table must average to the configured RTP exactly.
func TestPlinkoTablesNormalizedToRTP(t *testing.T) {
	tables := games.NewPlinkoTables(testRTP)

	risks := []models.PlinkoRisk{models.PlinkoRiskLow, models.PlinkoRiskMedium, models.PlinkoRiskHigh}
	for _, risk := range risks {
		for _, rows := range []int{8, 12, 16} {
			mean := tables.MeanMultiplier(risk, rows)
			if math.Abs(mean-testRTP) > 1e-6 {
				t.Errorf("%s/%d rows: weighted mean %v differs from RTP %v", risk, rows, mean, testRTP)
			}
		}
	}
}

func TestPlayPlinko(t *testing.T) {
	tables := games.NewPlinkoTables(testRTP)
	p := models.PlinkoParams{Rows: 8, Risk: models.PlinkoRiskLow}

	floats := fair.DeriveFloats("plinko-server", "client", 5, 0, 8)

	a, multA := games.PlayPlinko(p, floats, tables)
	b, multB := games.PlayPlinko(p, floats, tables)

	if multA != multB || a.Bucket != b.Bucket {
		t.Error("plinko outcome not deterministic for the same floats")
	}

	if len(a.Path) != 8 {
		t.Fatalf("expected 8 path steps, got %d", len(a.Path))
	}

	rights := 0
	for _, step := range a.Path {
		if step != 0 && step != 1 {
			t.Errorf("path step must be 0 or 1, got %d", step)
		}
		rights += step
	}
	if a.Bucket != rights {
		t.Errorf("bucket %d does not match %d right steps", a.Bucket, rights)
	}

	if multA != tables.Multiplier(p.Risk, p.Rows, a.Bucket) {
		t.Errorf("returned multiplier %v does not match table", multA)
	}
}

func TestPlinkoEdgeBuckets(t *testing.T) {
	tables := games.NewPlinkoTables(testRTP)
	p := models.PlinkoParams{Rows: 8, Risk: models.PlinkoRiskHigh}

	allLeft := make([]float64, 8)
	res, _ := games.PlayPlinko(p, allLeft, tables)
	if res.Bucket != 0 {
		t.Errorf("all-left path should land bucket 0, got %d", res.Bucket)
	}

	allRight := []float64{0.9, 0.9, 0.9, 0.9, 0.9, 0.9, 0.9, 0.9}
	res, _ = games.PlayPlinko(p, allRight, tables)
	if res.Bucket != 8 {
		t.Errorf("all-right path should land bucket 8, got %d", res.Bucket)
	}
}

func TestPlinkoValidation(t *testing.T) {
	bad := []models.PlinkoParams{
		{Rows: 9, Risk: models.PlinkoRiskLow},
		{Rows: 0, Risk: models.PlinkoRiskLow},
		{Rows: 8, Risk: "extreme"},
	}
	for _, p := range bad {
		if err := games.Validate(models.GameTypePlinko, models.GameParams{Plinko: &p}); err == nil {
			t.Errorf("params %+v should be rejected", p)
		}
	}
}
