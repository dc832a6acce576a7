package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContactNumberFromJID(t *testing.T) {
	cases := map[string]string{
		"33612345678@s.whatsapp.net":   "33612345678",
		"33612345678:12@s.whatsapp.net": "33612345678",
		"120363025246125486@g.us":      "120363025246125486",
		"33612345678":                  "33612345678",
		"":                             "",
	}
	for in, want := range cases {
		assert.Equal(t, want, ContactNumberFromJID(in), in)
	}
}

func TestIsGroupJID(t *testing.T) {
	assert.True(t, IsGroupJID("120363025246125486@g.us"))
	assert.False(t, IsGroupJID("33612345678@s.whatsapp.net"))
}

func TestNumberToJID(t *testing.T) {
	assert.Equal(t, "33612345678@s.whatsapp.net", NumberToJID("+33 6 12 34 56 78"))
	assert.Equal(t, "553198296801@s.whatsapp.net", NumberToJID("553198296801@s.whatsapp.net"))
	assert.Equal(t, "", NumberToJID("  "))
}
