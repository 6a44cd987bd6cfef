package indicators

import (
	"math"
	"testing"
	"time"
)

func TestLibraryCatalog(t *testing.T) {
	lib := NewLibrary()

	for _, typ := range AllTypes() {
		info, ok := lib.Info(typ)
		if !ok {
			t.Errorf("no catalog entry for %s", typ)
			continue
		}
		if info.Name == "" || info.Category == "" || len(info.DefaultParams) == 0 {
			t.Errorf("%s entry incomplete: %+v", typ, info)
		}
		if info.Reliability <= 0 || info.Reliability > 1 {
			t.Errorf("%s reliability out of range: %f", typ, info.Reliability)
		}
	}

	rsi, _ := lib.Info(TypeRSI)
	if !rsi.Bounded || rsi.RangeMax != 100 || rsi.OverboughtLevel != 70 {
		t.Errorf("RSI catalog entry wrong: %+v", rsi)
	}
}

func TestLibraryBeginnerTypes(t *testing.T) {
	lib := NewLibrary()

	beginner := lib.BeginnerTypes()
	want := map[Type]bool{TypeRSI: true, TypeMovingAverage: true}
	if len(beginner) != len(want) {
		t.Fatalf("beginner types = %v", beginner)
	}
	for _, typ := range beginner {
		if !want[typ] {
			t.Errorf("unexpected beginner type %s", typ)
		}
	}
}

func TestLibraryTypesByCategory(t *testing.T) {
	lib := NewLibrary()

	momentum := lib.TypesByCategory("momentum")
	// MACD's trend_momentum category also matches.
	if len(momentum) != 3 {
		t.Errorf("momentum types = %v, want RSI, MACD and Stochastic", momentum)
	}

	volatility := lib.TypesByCategory("volatility")
	if len(volatility) != 2 {
		t.Errorf("volatility types = %v, want Bollinger and ATR", volatility)
	}
}

func TestLibraryCombination(t *testing.T) {
	lib := NewLibrary()

	combo := lib.Combination("mean_reversion")
	if len(combo) != 3 || combo[0] != TypeRSI {
		t.Errorf("mean_reversion combination = %v", combo)
	}
	if lib.Combination("astrology") != nil {
		t.Error("unknown style should return nil")
	}
}

func TestLibraryCorrelations(t *testing.T) {
	lib := NewLibrary()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	a := &Indicator{Type: TypeRSI, Name: "RSI"}
	b := &Indicator{Type: TypeStochastic, Name: "Stochastic", componentOrder: []string{"percent_k"}}
	for i := 0; i < 20; i++ {
		ts := base.AddDate(0, 0, i)
		v := float64(i)
		a.Values = append(a.Values, Value{Timestamp: ts, Value: v})
		b.Values = append(b.Values, Value{Timestamp: ts, Components: map[string]float64{"percent_k": 2 * v}})
	}

	out := lib.Correlations([]*Indicator{a, b})
	corr, ok := out["RSI_vs_Stochastic"]
	if !ok {
		t.Fatalf("no correlation computed: %v", out)
	}
	if math.Abs(corr-1) > 1e-9 {
		t.Errorf("correlation of linearly related series = %f, want 1", corr)
	}
}

func TestSignalAccuracy(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	ind := &Indicator{Type: TypeRSI, Name: "RSI"}
	signals := []Signal{SignalBuy, SignalHold, SignalSell, SignalBuy, SignalHold, SignalHold}
	for i, sig := range signals {
		ind.Values = append(ind.Values, Value{Timestamp: base.AddDate(0, 0, i), Signal: sig})
	}

	// BUY at 0 (future +2, right), SELL at 2 (future +1, wrong),
	// BUY at 3 (future -1, wrong).
	returns := []float64{1, 1, 1, 0, -1, 0}
	got := ind.SignalAccuracy(returns, 2)
	want := 1.0 / 3.0
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("accuracy = %f, want %f", got, want)
	}

	if (&Indicator{}).SignalAccuracy(returns, 2) != 0 {
		t.Error("empty indicator should report zero accuracy")
	}
}
