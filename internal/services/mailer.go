package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// CodeGenerator produces confirmation codes.
type CodeGenerator interface {
	Generate() (string, error)
}

// CodeGeneratorFunc adapts a function to CodeGenerator.
type CodeGeneratorFunc func() (string, error)

func (f CodeGeneratorFunc) Generate() (string, error) { return f() }

type uuidCodeGenerator struct{}

// NewCodeGenerator returns a generator of 12-character upper-case hex codes
// drawn from random UUIDs.
func NewCodeGenerator() CodeGenerator {
	return uuidCodeGenerator{}
}

func (uuidCodeGenerator) Generate() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:12]), nil
}

// Mailer delivers a confirmation code out of band.
type Mailer interface {
	SendConfirmationCode(ctx context.Context, email, username, code string) error
}

// logMailer writes codes to the log instead of sending mail.
type logMailer struct {
	from   string
	logger *logrus.Logger
}

func NewLogMailer(from string, logger *logrus.Logger) Mailer {
	return &logMailer{from: from, logger: logger}
}

func (m *logMailer) SendConfirmationCode(_ context.Context, email, username, code string) error {
	m.logger.WithFields(logrus.Fields{
		"from":              m.from,
		"to":                email,
		"username":          username,
		"confirmation_code": code,
	}).Info("Confirmation code issued")
	return nil
}
