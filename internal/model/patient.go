package model

import "time"

// AgeCategory selects the vital-sign reference band and a few protocol
// branches. It is coarse on purpose: the engine never infers it from weight.
type AgeCategory string

const (
	AgeNeonate AgeCategory = "neonate" // under 28 days
	AgeChild   AgeCategory = "child"
	AgeAdult   AgeCategory = "adult"
)

// PatientContext is the per-encounter patient input. Immutable after session
// start except through an explicit, logged edit.
type PatientContext struct {
	AgeCategory AgeCategory `json:"ageCategory" bson:"ageCategory"`
	WeightKg    float64     `json:"weightKg" bson:"weightKg"`
	// Preterm is a gestational flag, meaningful for neonates only.
	Preterm    bool `json:"preterm,omitempty" bson:"preterm,omitempty"`
	Postpartum bool `json:"postpartum,omitempty" bson:"postpartum,omitempty"`
}

func (p PatientContext) Valid() bool {
	if p.WeightKg <= 0 {
		return false
	}
	switch p.AgeCategory {
	case AgeNeonate, AgeChild, AgeAdult:
		return true
	}
	return false
}

// VitalRange is an age-banded normal range used by the phase validator to
// flag abnormal (not critical) vitals.
type VitalRange struct {
	AgeCategory AgeCategory `json:"ageCategory"`
	HRMin       float64     `json:"hrMin"`
	HRMax       float64     `json:"hrMax"`
	RRMin       float64     `json:"rrMin"`
	RRMax       float64     `json:"rrMax"`
	SBPMin      float64     `json:"sbpMin"`
}

// PatientEdit is a logged change to the patient context after session start.
type PatientEdit struct {
	Before   PatientContext `json:"before" bson:"before"`
	After    PatientContext `json:"after" bson:"after"`
	Reason   string         `json:"reason" bson:"reason"`
	EditedBy string         `json:"editedBy" bson:"editedBy"`
	EditedAt time.Time      `json:"editedAt" bson:"editedAt"`
}
