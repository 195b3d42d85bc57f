package main

import (
	"testing"

	"map-composer/internal/config"
	"map-composer/internal/render"

	"github.com/stretchr/testify/assert"
)

func TestStyleOfFallsBackToDefault(t *testing.T) {
	s := config.Default()
	s.DeskColour = "not a colour"
	assert.Equal(t, render.DefaultStyle(), styleOf(s))
}

func TestStyleOfUsesSettings(t *testing.T) {
	s := config.Default()
	s.DeskColour = "#102030"
	st := styleOf(s)
	assert.Equal(t, uint8(0x10), st.DeskColour.R)
	assert.Equal(t, uint8(0x30), st.DeskColour.B)
}
