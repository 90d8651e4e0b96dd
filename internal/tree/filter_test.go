package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchIDs(t *testing.T) {
	tr := Build("app", discoveryEvents(sampleListing))

	tests := []struct {
		name    string
		pattern string
		want    []string
	}{
		{
			name:    "wildcard on suite name",
			pattern: "*UserTest*",
			want: []string{
				"Tests/Unit/UserTest/testCreate",
				"Tests/Unit/UserTest/testDelete",
			},
		},
		{
			name:    "wildcard on method prefix",
			pattern: "testL*",
			want:    []string{"Tests/Feature/LoginTest/testLogin"},
		},
		{
			name:    "plain substring",
			pattern: "Delete",
			want:    []string{"Tests/Unit/UserTest/testDelete"},
		},
		{
			name:    "no match",
			pattern: "*Payment*",
			want:    nil,
		},
		{
			name:    "empty pattern selects nothing",
			pattern: "",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchIDs(tr, tt.pattern))
		})
	}
}
