package protocol

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"pedtriage/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reparse round-trips the embedded pack through a mutation and parses the
// result.
func reparse(t *testing.T, mutate func(doc map[string]any)) (*Pack, error) {
	t.Helper()
	var doc map[string]any
	require.NoError(t, json.Unmarshal(pediatricJSON, &doc))
	mutate(doc)
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	return Parse(data)
}

func issuesOf(t *testing.T, mutate func(doc map[string]any)) []string {
	t.Helper()
	_, err := reparse(t, mutate)
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	return verr.Issues
}

func drugDoc(doc map[string]any, i int) map[string]any {
	return doc["drugs"].([]any)[i].(map[string]any)
}

func phaseDoc(doc map[string]any, i int) map[string]any {
	return doc["phases"].([]any)[i].(map[string]any)
}

func TestDefaultPackParses(t *testing.T) {
	pack, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "Pediatric emergency triage", pack.Name)
	assert.Equal(t, "2026.2", pack.Version)
	assert.Len(t, pack.Critical, 3)
	assert.Len(t, pack.Drugs, 13)
	assert.Len(t, pack.Differentials, 14)
	assert.Len(t, pack.AllQuestions(), 21)

	require.NotNil(t, pack.Question("main_problem"))
	q := pack.Question("cap_refill")
	require.NotNil(t, q)
	assert.Equal(t, model.Pathway("shock"), q.Pathway)
	assert.Nil(t, pack.Question("nope"))

	d := pack.Drug("EPI-CA")
	require.NotNil(t, d)
	assert.Equal(t, 0.01, d.PerKg)
	assert.Nil(t, pack.Drug("VANCO"))

	require.NotNil(t, pack.Phase(model.PhaseDisability))
	_, ok := pack.VitalRange(model.AgeNeonate)
	assert.True(t, ok)
	_, ok = pack.VitalRange(model.AgeCategory("toddler"))
	assert.False(t, ok)
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	_, err := Parse([]byte(`{"name":`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode content pack")
}

func TestValidationIssuesNameTheOffendingPath(t *testing.T) {
	breakSelector := func(doc map[string]any) {
		doc["selector"].(map[string]any)["options"].([]any)[3].(map[string]any)["value"] = "cardiac"
	}

	cases := []struct {
		name   string
		mutate func(doc map[string]any)
		want   string
	}{
		{
			name:   "critical prefix must stay three questions",
			mutate: func(doc map[string]any) { doc["critical"] = doc["critical"].([]any)[:2] },
			want:   "critical: must contain exactly 3 questions, got 2",
		},
		{
			name: "pathway needs two or three questions",
			mutate: func(doc map[string]any) {
				pws := doc["pathways"].(map[string]any)
				pws["shock"] = pws["shock"].([]any)[:1]
			},
			want: "pathways[shock]: must hold 2 or 3 questions, got 1",
		},
		{
			name:   "selector option must name a pathway",
			mutate: breakSelector,
			want:   `selector: option "cardiac" does not name a pathway`,
		},
		{
			name:   "stranded pathway is reported too",
			mutate: breakSelector,
			want:   "pathways[trauma]: not reachable from the selector",
		},
		{
			name:   "per kg rate must be positive",
			mutate: func(doc map[string]any) { drugDoc(doc, 0)["perKg"] = 0 },
			want:   "drugs[0]: perKg must be positive",
		},
		{
			name:   "duplicate drug id",
			mutate: func(doc map[string]any) { drugDoc(doc, 1)["id"] = "EPI-CA" },
			want:   `drugs[1]: duplicate drug id "EPI-CA"`,
		},
		{
			name:   "precision is one or two decimals",
			mutate: func(doc map[string]any) { drugDoc(doc, 0)["precision"] = 3 },
			want:   "drugs[0]: precision must be 1 or 2",
		},
		{
			name:   "clamp bound must survive rounding",
			mutate: func(doc map[string]any) { drugDoc(doc, 2)["maxDose"] = 4.25 },
			want:   "drugs[2]: maxDose 4.25 not representable at precision 1",
		},
		{
			name:   "min clamp below max clamp",
			mutate: func(doc map[string]any) { drugDoc(doc, 0)["minDose"] = 2 },
			want:   "drugs[0]: minDose must stay below maxDose",
		},
		{
			name: "check field must be declared on the phase",
			mutate: func(doc map[string]any) {
				phaseDoc(doc, 1)["checks"].([]any)[0].(map[string]any)["field"] = "saturation"
			},
			want: `phases[1].checks[0]: field "saturation" is not declared on the phase`,
		},
		{
			name: "phase order is fixed",
			mutate: func(doc map[string]any) {
				phases := doc["phases"].([]any)
				phases[0], phases[1] = phases[1], phases[0]
			},
			want: "phases[0]: expected airway, got breathing",
		},
		{
			name:   "vital ranges must cover every age category",
			mutate: func(doc map[string]any) { doc["vitals"] = doc["vitals"].([]any)[:2] },
			want:   `vitals: missing age category "adult"`,
		},
		{
			name: "vital check needs a number field",
			mutate: func(doc map[string]any) {
				phaseDoc(doc, 1)["vitals"].([]any)[0].(map[string]any)["field"] = "adequate"
			},
			want: "phases[1].vitals[0]: vital checks apply to number fields",
		},
		{
			name: "differential evidence must be producible",
			mutate: func(doc map[string]any) {
				d := doc["differentials"].([]any)[0].(map[string]any)
				d["evidence"] = append(d["evidence"].([]any), "martian_flu")
			},
			want: `differentials[0]: evidence key "martian_flu" is never produced by the pack`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Contains(t, issuesOf(t, tc.mutate), tc.want)
		})
	}
}

func TestInvalidPackIsRejectedWhole(t *testing.T) {
	pack, err := reparse(t, func(doc map[string]any) {
		drugDoc(doc, 0)["perKg"] = 0
		doc["vitals"] = doc["vitals"].([]any)[:2]
	})
	assert.Nil(t, pack)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.GreaterOrEqual(t, len(verr.Issues), 2)
	assert.Contains(t, err.Error(), "invalid content pack")
}

func TestFromSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pack.json")
	require.NoError(t, os.WriteFile(path, pediatricJSON, 0o600))

	pack, err := FromSource(context.Background(), FileSource{Path: path})
	require.NoError(t, err)
	assert.Equal(t, "Pediatric emergency triage", pack.Name)

	_, err = FromSource(context.Background(), FileSource{Path: filepath.Join(dir, "missing.json")})
	assert.Error(t, err)

	pack, err = FromSource(context.Background(), EmbeddedSource{})
	require.NoError(t, err)
	assert.Equal(t, "2026.2", pack.Version)
}
