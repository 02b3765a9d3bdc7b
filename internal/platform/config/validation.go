package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(authRules, AuthConfig{})
	v.RegisterStructValidation(storeRules, StoreConfig{})

	return v
}

// Validate reports every invalid key at once. The service and the CLI refuse
// to start on error.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationErrors(err)
	}

	if c.App.IsProduction() && c.Auth.Mode == "static" && c.Auth.CookieSecret == DevCookieSecret {
		return errors.New("config validation failed:\n  auth.cookie_secret must be set in prod")
	}

	return nil
}

func authRules(sl validator.StructLevel) {
	a, _ := sl.Current().Interface().(AuthConfig)

	switch a.Mode {
	case "static":
		if a.Password == "" && a.PasswordHash == "" {
			sl.ReportError(a.Password, "Password", "Password", "required_without", "PasswordHash")
		}
	case "hosted":
		if a.Hosted.JWTSecret == "" {
			sl.ReportError(a.Hosted.JWTSecret, "Hosted.JWTSecret", "JWTSecret", "required_if", "Mode hosted")
		}
	}
}

func storeRules(sl validator.StructLevel) {
	s, _ := sl.Current().Interface().(StoreConfig)

	if s.Driver == "postgres" && s.Postgres.DSN == "" {
		sl.ReportError(s.Postgres.DSN, "Postgres.DSN", "DSN", "required_if", "Driver postgres")
	}
}

// ruleTemplates phrase a failed tag; %[1]s is the field path and %[2]s the
// tag parameter.
var ruleTemplates = map[string]string{
	"required":         "%[1]s is required",
	"required_if":      "%[1]s is required when %[2]s",
	"required_unless":  "%[1]s is required unless %[2]s",
	"required_without": "%[1]s is required without %[2]s",
	"min":              "%[1]s must be at least %[2]s",
	"max":              "%[1]s must be at most %[2]s",
	"oneof":            "%[1]s must be one of: %[2]s",
	"url":              "%[1]s must be a valid URL",
	"startswith":       "%[1]s must start with %[2]s",
}

func formatValidationErrors(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	var b strings.Builder

	b.WriteString("config validation failed:")

	for _, fe := range fieldErrs {
		b.WriteString("\n  ")
		b.WriteString(describe(fe))
	}

	return errors.New(b.String())
}

func describe(fe validator.FieldError) string {
	path := formatFieldPath(fe.Namespace())

	tmpl, ok := ruleTemplates[fe.Tag()]
	if !ok {
		return fmt.Sprintf("%s failed validation: %s", path, fe.Tag())
	}

	return fmt.Sprintf(tmpl, path, fe.Param())
}

// formatFieldPath turns "Config.Server.Port" into "server.port".
func formatFieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		namespace = rest
	}

	return strings.ToLower(namespace)
}
