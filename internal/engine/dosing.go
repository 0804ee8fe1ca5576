package engine

import (
	"fmt"
	"math"
	"pedtriage/internal/model"
	"pedtriage/internal/protocol"
)

// ComputeDose applies the weight-based rule of one drug: amount is
// weight times perKg, clamped into [minDose, maxDose] strictly after the
// multiplication, then rounded to the drug's declared precision. Volume
// is amount over concentration, rounded to two decimals.
//
// The function is pure; it never touches session state.
func ComputeDose(pack *protocol.Pack, drugID string, weightKg float64, optionKey string) (model.Dose, error) {
	if weightKg <= 0 {
		return model.Dose{}, ErrInvalidWeight
	}
	spec := pack.Drug(drugID)
	if spec == nil {
		return model.Dose{}, fmt.Errorf("%w: %q", ErrUnknownDrug, drugID)
	}

	perKg := spec.PerKg
	minDose := spec.MinDose
	maxDose := spec.MaxDose
	route := spec.Route
	option := ""
	if optionKey != "" {
		opt := spec.OptionByKey(optionKey)
		if opt == nil {
			return model.Dose{}, fmt.Errorf("%w: %q for drug %q", ErrUnknownDoseKey, optionKey, drugID)
		}
		perKg = opt.PerKg
		maxDose = opt.MaxDose
		if opt.MinDose > 0 {
			minDose = opt.MinDose
		}
		if opt.Route != "" {
			route = opt.Route
		}
		option = opt.Key
	}

	amount := weightKg * perKg
	if minDose > 0 && amount < minDose {
		amount = minDose
	}
	if amount > maxDose {
		amount = maxDose
	}
	amount = round(amount, spec.Precision)
	volume := round(amount/spec.Concentration, 2)

	monitoring := make([]string, len(spec.Monitoring))
	copy(monitoring, spec.Monitoring)

	return model.Dose{
		DrugID:           spec.ID,
		DrugName:         spec.Name,
		Option:           option,
		Indication:       spec.Indication,
		WeightKg:         weightKg,
		Amount:           amount,
		Unit:             spec.DoseUnit,
		VolumeML:         volume,
		Concentration:    spec.ConcLabel,
		Route:            route,
		Monitoring:       monitoring,
		ReassessAfterSec: spec.ReassessAfterSec,
	}, nil
}

// Dose computes a dose for the session's current patient weight.
func (e *Engine) Dose(drugID, optionKey string) (model.Dose, error) {
	return ComputeDose(e.pack, drugID, e.state.Session.Patient.WeightKg, optionKey)
}

func round(v float64, decimals int) float64 {
	p := math.Pow10(decimals)
	return math.Round(v*p) / p
}
