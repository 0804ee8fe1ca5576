package model

// DoseSpec is a weight-based dosing rule from the drug table. Amounts are
// expressed in DoseUnit; Concentration is DoseUnit per mL.
type DoseSpec struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Indication       string       `json:"indication"`
	PerKg            float64      `json:"perKg"`
	DoseUnit         string       `json:"doseUnit"`
	MinDose          float64      `json:"minDose,omitempty"`
	MaxDose          float64      `json:"maxDose"`
	Concentration    float64      `json:"concentration"`
	ConcLabel        string       `json:"concLabel"`
	Route            string       `json:"route"`
	Precision        int          `json:"precision"`
	Monitoring       []string     `json:"monitoring"`
	ReassessAfterSec int          `json:"reassessAfterSec"`
	Options          []DoseOption `json:"options,omitempty"`
}

// DoseOption is a closed variant of a drug (second dose, alternate route).
// A zero field keeps the parent spec's value, except PerKg and MaxDose
// which every option must set.
type DoseOption struct {
	Key     string  `json:"key"`
	Label   string  `json:"label"`
	PerKg   float64 `json:"perKg"`
	MinDose float64 `json:"minDose,omitempty"`
	MaxDose float64 `json:"maxDose"`
	Route   string  `json:"route,omitempty"`
}

// OptionByKey returns the named dose option, or nil.
func (d *DoseSpec) OptionByKey(key string) *DoseOption {
	for i := range d.Options {
		if d.Options[i].Key == key {
			return &d.Options[i]
		}
	}
	return nil
}

// Dose is a computed, ready-to-display dose. It is derived output and is
// never stored independent of the weight it was computed from.
type Dose struct {
	DrugID           string   `json:"drugId"`
	DrugName         string   `json:"drugName"`
	Option           string   `json:"option,omitempty"`
	Indication       string   `json:"indication"`
	WeightKg         float64  `json:"weightKg"`
	Amount           float64  `json:"amount"`
	Unit             string   `json:"unit"`
	VolumeML         float64  `json:"volumeMl"`
	Concentration    string   `json:"concentration"`
	Route            string   `json:"route"`
	Monitoring       []string `json:"monitoring"`
	ReassessAfterSec int      `json:"reassessAfterSec"`
}
