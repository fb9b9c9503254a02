// Winspy - Windows Event Transcript Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/winspy

package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// getValidator returns the shared validator instance.
// struct info is cached by the validator, so one instance is reused.
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := getValidator().Struct(c); err != nil {
		return translateValidationError(err)
	}

	if err := c.validateOutput(); err != nil {
		return err
	}

	return c.validatePublish()
}

// validateOutput ensures at least one sink receives the events.
func (c *Config) validateOutput() error {
	if !c.Output.Console && c.Output.Path == "" && !c.Publish.Enabled() {
		return fmt.Errorf("no output configured: enable output.console, set output.path or publish.url")
	}
	return nil
}

// validatePublish validates the NATS publisher settings (only if enabled)
func (c *Config) validatePublish() error {
	if !c.Publish.Enabled() {
		return nil
	}
	if !strings.HasPrefix(c.Publish.URL, "nats://") && !strings.HasPrefix(c.Publish.URL, "tls://") {
		return fmt.Errorf("publish.url must use the nats:// or tls:// scheme, got %q", c.Publish.URL)
	}
	if strings.ContainsAny(c.Publish.Topic, " \t*>") {
		return fmt.Errorf("publish.topic %q must be a literal NATS subject", c.Publish.Topic)
	}
	return nil
}

// translateValidationError turns validator output into one readable error
// that names every failing field by its config path.
func translateValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := configPath(fe.Namespace())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s], got %q", field, fe.Param(), fe.Value()))
		case "url":
			msgs = append(msgs, fmt.Sprintf("%s must be a valid URL", field))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", field, fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

// configPath converts a validator namespace such as "Config.Logging.Level"
// into the koanf path users write ("logging.level").
func configPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		parts[i] = toSnake(p)
	}
	return strings.Join(parts, ".")
}

func toSnake(s string) string {
	var b strings.Builder
	prevLower := false
	for _, r := range s {
		upper := r >= 'A' && r <= 'Z'
		if upper {
			if prevLower {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		prevLower = !upper
		b.WriteRune(r)
	}
	return b.String()
}
