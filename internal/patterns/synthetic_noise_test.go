package patterns

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"walkrisk-engine/internal/models"
)

// residualStddev measures the spread of relative deviations between a
// generated close series and its noiseless counterpart.
func residualStddev(base, got []float64) float64 {
	residuals := make([]float64, len(base))
	var mean float64
	for i := range base {
		residuals[i] = (got[i] - base[i]) / base[i]
		mean += residuals[i]
	}
	mean /= float64(len(base))

	var variance float64
	for _, r := range residuals {
		d := r - mean
		variance += d * d
	}
	return math.Sqrt(variance / float64(len(base)))
}

func TestNoiseScalesWithDifficulty(t *testing.T) {
	for _, seed := range []int64{1, 7, 42} {
		noiseless := DefaultPresets()
		noiseless.HeadShoulders.Noise = 0
		clean := NewGenerator(noiseless, NewLibrary(), rand.New(rand.NewSource(seed)))
		cleanCandles, _, err := clean.Generate(HeadAndShoulders, 0)
		if err != nil {
			t.Fatalf("seed %d: Generate noiseless: %v", seed, err)
		}
		base := models.Closes(cleanCandles)

		// Same seed keeps the draw sequence aligned across runs, so the
		// only difference between the series is the noise level.
		easy := NewGenerator(DefaultPresets(), NewLibrary(), rand.New(rand.NewSource(seed)))
		easyCandles, _, err := easy.Generate(HeadAndShoulders, 0)
		if err != nil {
			t.Fatalf("seed %d: Generate difficulty 0: %v", seed, err)
		}

		hard := NewGenerator(DefaultPresets(), NewLibrary(), rand.New(rand.NewSource(seed)))
		hardCandles, _, err := hard.Generate(HeadAndShoulders, 1)
		if err != nil {
			t.Fatalf("seed %d: Generate difficulty 1: %v", seed, err)
		}

		if len(easyCandles) != len(base) || len(hardCandles) != len(base) {
			t.Fatalf("seed %d: series lengths diverge: %d/%d/%d",
				seed, len(base), len(easyCandles), len(hardCandles))
		}

		easySD := residualStddev(base, models.Closes(easyCandles))
		hardSD := residualStddev(base, models.Closes(hardCandles))

		if easySD <= 0 {
			t.Errorf("seed %d: difficulty 0 residual stddev %f, want positive", seed, easySD)
		}
		if hardSD <= easySD {
			t.Errorf("seed %d: residual stddev %f at difficulty 1 not above %f at difficulty 0",
				seed, hardSD, easySD)
		}
	}
}

func TestDetectFindsGeneratedHeadAndShoulders(t *testing.T) {
	// Pronounced shoulders keep every peak above the recognizer's
	// prominence threshold even through the intrabar high wiggle.
	presets := GeneratorPresets{
		BasePrice: 100,
		HeadShoulders: HeadShouldersPreset{
			Days:          60,
			LeftShoulder:  1.3,
			Head:          1.6,
			RightShoulder: 1.28,
			Valley:        0.9,
			Noise:         0,
		},
	}
	g := NewGenerator(presets, NewLibrary(), rand.New(rand.NewSource(3)))

	candles, truth, err := g.Generate(HeadAndShoulders, 0)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	r := NewRecognizer(NewLibrary(), zerolog.Nop())
	matches := r.Detect(HeadAndShoulders, candles)
	if len(matches) != 1 {
		t.Fatalf("Detect found %d head and shoulders, want 1", len(matches))
	}

	m := matches[0]
	if m.Signal != SignalBearish {
		t.Errorf("signal = %s, want %s", m.Signal, SignalBearish)
	}

	prices := map[string]float64{}
	for _, kp := range m.KeyPoints {
		prices[kp.Role] = kp.Price
	}
	for _, role := range []string{"left_shoulder", "head", "right_shoulder"} {
		if _, ok := prices[role]; !ok {
			t.Fatalf("detected pattern missing %s key point", role)
		}
	}
	if prices["head"] <= prices["left_shoulder"] || prices["head"] <= prices["right_shoulder"] {
		t.Errorf("head %f not above shoulders %f/%f",
			prices["head"], prices["left_shoulder"], prices["right_shoulder"])
	}

	// The detected head must land on the generated head bar.
	var truthHead time.Time
	for _, kp := range truth.KeyPoints {
		if kp.Role == "head" {
			truthHead = kp.Timestamp
		}
	}
	var detectedHead time.Time
	for _, kp := range m.KeyPoints {
		if kp.Role == "head" {
			detectedHead = kp.Timestamp
		}
	}
	if !detectedHead.Equal(truthHead) {
		t.Errorf("detected head at %s, generated head at %s", detectedHead, truthHead)
	}

	if len(m.SupportLevels) == 0 || m.TargetPrice >= m.SupportLevels[0] {
		t.Errorf("target %f not below neckline %v", m.TargetPrice, m.SupportLevels)
	}
}
