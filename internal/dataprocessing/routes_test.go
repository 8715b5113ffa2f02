package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProcessRoutes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"two branded routes", "CityLink BLUE, CityLink GOLD", "CityLink Blue, CityLink Gold"},
		{"single branded route", "CityLink BLUE", "CityLink Blue"},
		{"numeric route", "80", "80"},
		{"lower case", "light rail", "Light Rail"},
		{"irregular spacing", "  CityLink  RED ,80 ,  LocalLink 21", "CityLink Red, 80, LocalLink 21"},
		{"empty segments dropped", "80,, ,54", "80, 54"},
		{"empty input", "", ""},
		{"already canonical", "CityLink Blue, 80", "CityLink Blue, 80"},
		{"hyphen splits words", "MTA-BUS", "Mta-Bus"},
		{"slash splits words", "route/LINE", "Route/Line"},
		{"mixed part kept", "MARC/CityLink", "Marc/CityLink"},
		{"apostrophe stays in word", "o'NEIL", "o'NEIL"},
		{"trailing separator", "LINE-", "Line-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ProcessRoutes(tt.in))
		})
	}
}

func TestProcessRoutes_Idempotent(t *testing.T) {
	inputs := []string{
		"CityLink BLUE, CityLink GOLD",
		"light rail,METRO subway",
		"  80 , 54,,",
		"MARC/BWI express",
		"Commuter Bus 410",
		"MTA-BUS, route/LINE",
		"o'NEIL",
	}

	for _, in := range inputs {
		once := ProcessRoutes(in)
		assert.Equal(t, once, ProcessRoutes(once), "input %q", in)
	}
}

func TestIsMixedCase(t *testing.T) {
	assert.True(t, isMixedCase("CityLink"))
	assert.True(t, isMixedCase("Blue"))
	assert.False(t, isMixedCase("BLUE"))
	assert.False(t, isMixedCase("blue"))
	assert.False(t, isMixedCase("80"))
}
