package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZoneFor(t *testing.T) {
	tests := []struct {
		name   string
		point  Point
		want   string
		wantOK bool
	}{
		{name: "north band", point: Point{Lat: 14.11, Lon: -87.20}, want: "Zona 1", wantOK: true},
		{name: "center", point: Point{Lat: 14.08, Lon: -87.20}, want: "Zona 2", wantOK: true},
		{name: "east", point: Point{Lat: 14.08, Lon: -87.15}, want: "Zona 3", wantOK: true},
		{name: "west", point: Point{Lat: 14.08, Lon: -87.26}, want: "Zona 4", wantOK: true},
		{name: "south", point: Point{Lat: 14.04, Lon: -87.20}, want: "Zona 5", wantOK: true},
		{name: "far north", point: Point{Lat: 14.18, Lon: -87.50}, want: "Zona 6", wantOK: true},
		{name: "far west strip", point: Point{Lat: 14.08, Lon: -87.29}, want: "Zona 7", wantOK: true},
		{name: "outside", point: Point{Lat: 15.5, Lon: -88.0}, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			z, ok := ZoneFor(tt.point)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, z.Name)
			}
		})
	}
}

func TestZones(t *testing.T) {
	zs := Zones()
	assert.Len(t, zs, 7)
	for _, z := range zs {
		assert.Len(t, z.Coordinates, 4, z.Name)
		assert.NotEmpty(t, z.Color)
	}
}
