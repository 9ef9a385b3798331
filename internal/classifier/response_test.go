package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/hr-triage-service/internal/domain"
)

func TestParseResponseShapes(t *testing.T) {
	cases := []struct {
		name string
		body string
		want domain.Classification
	}{
		{
			name: "flat list",
			body: `[{"label":"PTO","score":0.91},{"label":"General","score":0.05}]`,
			want: domain.Classification{Category: domain.CategoryPTO, Confidence: 0.91},
		},
		{
			name: "nested list",
			body: `[[{"label":"Payroll","score":0.7},{"label":"PTO","score":0.2}]]`,
			want: domain.Classification{Category: domain.CategoryPayroll, Confidence: 0.7},
		},
		{
			name: "parallel arrays",
			body: `{"sequence":"x","labels":["Complaint","General"],"scores":[0.66,0.1]}`,
			want: domain.Classification{Category: domain.CategoryComplaint, Confidence: 0.66},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseResponse([]byte(tc.body))
			require.NoError(t, err)
			assert.Equal(t, tc.want.Category, got.Category)
			assert.InDelta(t, tc.want.Confidence, got.Confidence, 1e-9)
		})
	}
}

func TestParseResponseRejectsUnknownShapes(t *testing.T) {
	for _, body := range []string{
		``,
		`[]`,
		`[[]]`,
		`{"error":"Model is loading"}`,
		`{"labels":[],"scores":[]}`,
		`[{"name":"PTO"}]`,
		`"PTO"`,
		`{"labels":`,
	} {
		_, err := parseResponse([]byte(body))
		assert.Error(t, err, body)
	}
}
