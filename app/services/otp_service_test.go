package services

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOTPGenerator(t *testing.T) {
	tests := []struct {
		name    string
		length  int
		pattern string
	}{
		{name: "default length", length: 0, pattern: `^[0-9]{6}$`},
		{name: "six digits", length: 6, pattern: `^[0-9]{6}$`},
		{name: "four digits", length: 4, pattern: `^[0-9]{4}$`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := NewOTPGenerator(tt.length)
			re := regexp.MustCompile(tt.pattern)
			for i := 0; i < 200; i++ {
				assert.Regexp(t, re, gen.Generate())
			}
		})
	}
}
