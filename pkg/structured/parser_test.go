package structured

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfreeman451/perimeter/pkg/models"
)

var defaultAssessment = models.ThreatAssessment{
	ThreatLevel: models.ThreatMedium,
	Summary:     "manual review",
	Confidence:  0,
}

const fullAssessment = `{"threatLevel":"high","summary":"Coordinated probe","recommendations":["Deploy drone"],` +
	`"correlatedAlerts":["gun and footsteps"],"patternAnalysis":"east side","estimatedRisk":"elevated","confidence":80}`

func TestParse_EmbeddedObject(t *testing.T) {
	got := Parse("here is json: "+fullAssessment+" thanks", defaultAssessment)

	assert.Equal(t, models.ThreatHigh, got.ThreatLevel)
	assert.Equal(t, "Coordinated probe", got.Summary)
	assert.Equal(t, []string{"Deploy drone"}, got.Recommendations)
	assert.InDelta(t, 80, got.Confidence, 0.001)
}

func TestParse_FallsBackToDefault(t *testing.T) {
	tests := []struct {
		name string
		text string
		err  error
	}{
		{"no object", "not json at all", ErrNoObject},
		{"broken json", "{\"threatLevel\": }", ErrDecode},
		{"missing keys", `{"threatLevel":"high","summary":"x"}`, ErrMissingKeys},
		{"bad enum", `{"threatLevel":"apocalyptic","summary":"x","recommendations":[],"correlatedAlerts":[],` +
			`"patternAnalysis":"","estimatedRisk":"","confidence":10}`, ErrInvalidPayload},
		{"confidence out of range", `{"threatLevel":"low","summary":"x","recommendations":[],"correlatedAlerts":[],` +
			`"patternAnalysis":"","estimatedRisk":"","confidence":250}`, ErrInvalidPayload},
		{"wrong field type", `{"threatLevel":"low","summary":"x","recommendations":"one","correlatedAlerts":[],` +
			`"patternAnalysis":"","estimatedRisk":"","confidence":10}`, ErrDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode[models.ThreatAssessment](tt.text)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.err)

			assert.Equal(t, defaultAssessment, Parse(tt.text, defaultAssessment))
		})
	}
}

func TestDecode_MarkdownFence(t *testing.T) {
	text := "```json\n{\"isAnomaly\":true,\"explanation\":\"spike\",\"confidence\":70,\"suggestedActions\":[\"patrol\"]}\n```"

	got, err := Decode[models.AnomalyVerdict](text)
	require.NoError(t, err)
	assert.True(t, got.IsAnomaly)
	assert.Equal(t, []string{"patrol"}, got.SuggestedActions)
}

func TestDecode_NonStructTarget(t *testing.T) {
	got, err := Decode[map[string]any](`prefix {"a":1} suffix`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": float64(1)}, got)
}

func TestRequiredKeys(t *testing.T) {
	assert.Equal(t, []string{"isAnomaly", "explanation", "confidence", "suggestedActions"},
		RequiredKeys[models.AnomalyVerdict]())
	assert.Nil(t, RequiredKeys[string]())
}

func TestExtractObject(t *testing.T) {
	span, ok := ExtractObject("a {b} c {d} e")
	assert.True(t, ok)
	assert.Equal(t, "{b} c {d}", span)

	_, ok = ExtractObject("} backwards {")
	assert.False(t, ok)
}

func TestParseList(t *testing.T) {
	text := `Here are my recommendations:
1. Deploy Eagle Eye Alpha to Sector A
2.   Recharge node2
- Verify gateway link
* Brief the duty officer
Some closing prose.
3. Review footage
4. Sixth item dropped`

	assert.Equal(t, []string{
		"Deploy Eagle Eye Alpha to Sector A",
		"Recharge node2",
		"Verify gateway link",
		"Brief the duty officer",
		"Review footage",
	}, ParseList(text, 5))

	assert.Empty(t, ParseList("no list here\n1.\n-", 5))
	assert.Empty(t, ParseList("2025 was a year", 5))
}
