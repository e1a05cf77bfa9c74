package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeGenerator(t *testing.T) {
	gen := NewCodeGenerator()
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := gen.Generate()
		require.NoError(t, err)
		assert.Regexp(t, `^[0-9A-F]{12}$`, code)
		assert.False(t, seen[code])
		seen[code] = true
	}
}

func TestLogMailerNeverFails(t *testing.T) {
	mailer := NewLogMailer("noreply@example.com", testLogger())
	assert.NoError(t, mailer.SendConfirmationCode(context.Background(), "ann@example.com", "ann", "ABCDEF012345"))
}
