package indicators

import (
	"fmt"

	"github.com/rs/zerolog"

	apperrors "walkrisk-engine/internal/errors"
	"walkrisk-engine/internal/logging"
	"walkrisk-engine/internal/models"
)

// computeFunc computes one indicator series from candles.
type computeFunc func(candles []models.Candle, params map[string]float64) (*Indicator, error)

// Calculator dispatches indicator computation through a registration
// table keyed by indicator type.
type Calculator struct {
	log      zerolog.Logger
	registry map[Type]computeFunc
}

// NewCalculator creates a calculator with all supported indicators
// registered.
func NewCalculator(log zerolog.Logger) *Calculator {
	c := &Calculator{
		log:      log.With().Str("component", "indicator_calculator").Logger(),
		registry: make(map[Type]computeFunc),
	}
	c.registry[TypeMovingAverage] = computeMovingAverage
	c.registry[TypeRSI] = computeRSI
	c.registry[TypeMACD] = computeMACD
	c.registry[TypeBollingerBands] = computeBollingerBands
	c.registry[TypeStochastic] = computeStochastic
	c.registry[TypeATR] = computeATR
	return c
}

// Supported returns the registered indicator types.
func (c *Calculator) Supported() []Type {
	types := make([]Type, 0, len(c.registry))
	for _, t := range AllTypes() {
		if _, ok := c.registry[t]; ok {
			types = append(types, t)
		}
	}
	return types
}

// Calculate computes a single indicator. A panic inside the compute
// function is recovered and returned as a ComputationError so one bad
// indicator cannot take down a whole analysis pass.
func (c *Calculator) Calculate(typ Type, candles []models.Candle, params map[string]float64) (ind *Indicator, err error) {
	fn, ok := c.registry[typ]
	if !ok {
		return nil, apperrors.NewValidationError("indicator_type", string(typ), "unsupported indicator type")
	}

	defer func() {
		if r := recover(); r != nil {
			err = apperrors.NewComputationError(string(typ), "calculate", fmt.Errorf("panic: %v", r))
			ind = nil
		}
	}()

	ind, err = fn(candles, params)
	if err != nil {
		return nil, apperrors.Wrapf(err, "calculating %s", typ)
	}
	return ind, nil
}

// CalculateAll computes every requested indicator, skipping the ones
// that fail and logging the failure. The result keeps request order.
func (c *Calculator) CalculateAll(types []Type, candles []models.Candle) []*Indicator {
	out := make([]*Indicator, 0, len(types))
	for _, t := range types {
		ind, err := c.Calculate(t, candles, nil)
		if err != nil {
			logging.LogComputationFailure(c.log, string(t), "calculate_all", err)
			continue
		}
		out = append(out, ind)
	}
	return out
}

// param reads a named parameter with a fallback default.
func param(params map[string]float64, key string, def float64) float64 {
	if params == nil {
		return def
	}
	if v, ok := params[key]; ok && v != 0 {
		return v
	}
	return def
}
