package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComposeAddress(t *testing.T) {
	assert.Equal(t, "Casa 12 calle 3, Colonia Palmira",
		ComposeAddress(" Casa 12 calle 3 ", "Colonia Palmira", ""))
	assert.Equal(t, "Casa 12, Lomas del Guijarro (portón verde)",
		ComposeAddress("Casa 12", "Lomas del Guijarro", "portón verde"))
}

func TestAreaOf(t *testing.T) {
	tests := []struct {
		address string
		want    string
	}{
		{"Casa 12, Colonia Palmira", "colonia palmira"},
		{"Casa 12, Lomas del Guijarro, Tegucigalpa, Honduras (portón verde)", "lomas del guijarro"},
		{"Casa 12, Colonia Kennedy (frente a pulpería, casa azul)", "colonia kennedy"},
		{"Colonia Miraflores (al lado del parque)", "colonia miraflores"},
		{"Sin comas", "sin comas"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.address, func(t *testing.T) {
			assert.Equal(t, tt.want, AreaOf(tt.address))
		})
	}
}
