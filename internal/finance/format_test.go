package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatter(t *testing.T) {
	f := DefaultFormatter()

	assert.Contains(t, f.Money(dec("1234.5")), "R$")
	assert.Contains(t, f.Money(dec("-10")), "R$")
	assert.Equal(t, "42%", f.Percent(42.4))
	assert.Equal(t, "05/03/2026", f.Date(day("2026-03-05")))
}

func TestNewFormatterFromConfig_FallsBack(t *testing.T) {
	f := NewFormatterFromConfig("not a locale!!", "???")
	assert.Contains(t, f.Money(dec("1")), "R$")
}
