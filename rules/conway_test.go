package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		neighbors int
		alive     bool
		want      Transition
	}{
		{"lonely live cell", 0, true, Underpopulation},
		{"single neighbor", 1, true, Underpopulation},
		{"two neighbors survive", 2, true, Survival},
		{"three neighbors survive", 3, true, Survival},
		{"crowded", 4, true, Overpopulation},
		{"fully surrounded", 8, true, Overpopulation},
		{"dead with three", 3, false, Birth},
		{"dead with two", 2, false, Unchanged},
		{"dead with four", 4, false, Unchanged},
		{"dead with none", 0, false, Unchanged},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.neighbors, tt.alive)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, ApplyConwayRules(tt.neighbors, tt.alive), got.Alive())
		})
	}
}

func TestClassify_AgreesWithApplyConwayRules(t *testing.T) {
	for n := 0; n <= 8; n++ {
		for _, alive := range []bool{true, false} {
			assert.Equal(t, ApplyConwayRules(n, alive), Classify(n, alive).Alive(),
				"neighbors=%d alive=%v", n, alive)
		}
	}
}

func TestTransitionString(t *testing.T) {
	assert.Equal(t, "birth", Birth.String())
	assert.Equal(t, "overpopulation", Overpopulation.String())
	assert.Equal(t, "unknown", Transition(42).String())
}
