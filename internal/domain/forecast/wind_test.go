package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyWind(t *testing.T) {
	cases := []struct {
		name        string
		orientation float64
		from        float64
		want        WindType
	}{
		{"straight in", 160, 160, WindOnshore},
		{"from behind", 160, 340, WindOffshore},
		{"side on", 160, 250, WindCrossed},
		{"offshore boundary stays crossed", 160, 285, WindCrossed},
		{"crossed boundary stays onshore", 160, 225, WindOnshore},
		{"just past crossed boundary", 160, 225.5, WindCrossed},
		{"wraps through north", 10, 350, WindOnshore},
		{"wraps the other way", 350, 170, WindOffshore},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyWind(tc.orientation, tc.from))
		})
	}
}
