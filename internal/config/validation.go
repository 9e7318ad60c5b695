package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// Validate checks the configuration for required fields and valid values.
func (c *Config) Validate() error {
	var errors ValidationErrors

	if err := c.validateTargets(); err != nil {
		errors = append(errors, err...)
	}

	if err := c.validateFilters(); err != nil {
		errors = append(errors, err...)
	}

	if err := c.validateScan(); err != nil {
		errors = append(errors, err...)
	}

	if c.Notify.Enabled {
		if err := c.validateNotify(); err != nil {
			errors = append(errors, err...)
		}
	}

	if c.History.Enabled {
		if err := c.validateHistory(); err != nil {
			errors = append(errors, err...)
		}
	}

	if err := c.validateLogging(); err != nil {
		errors = append(errors, err...)
	}

	if len(errors) > 0 {
		return errors
	}
	return nil
}

func (c *Config) validateTargets() ValidationErrors {
	var errors ValidationErrors

	switch c.Targets.Source {
	case "static":
		if len(c.Targets.Static) == 0 {
			errors = append(errors, ValidationError{
				Field:   "targets.static",
				Message: "at least one target is required when source is 'static'",
			})
		}
	case "ldap":
		if c.Targets.LDAP.URL == "" {
			errors = append(errors, ValidationError{
				Field:   "targets.ldap.url",
				Message: "url is required when source is 'ldap'",
			})
		}
		if c.Targets.LDAP.BaseDN == "" {
			errors = append(errors, ValidationError{
				Field:   "targets.ldap.base_dn",
				Message: "base_dn is required when source is 'ldap'",
			})
		}
	default:
		errors = append(errors, ValidationError{
			Field:   "targets.source",
			Message: "source must be 'static' or 'ldap'",
		})
	}

	return errors
}

func (c *Config) validateFilters() ValidationErrors {
	var errors ValidationErrors

	if len(c.Filters) == 0 {
		errors = append(errors, ValidationError{
			Field:   "filters",
			Message: "at least one filter must be defined",
		})
	}

	seen := make(map[string]bool, len(c.Filters))
	for i, f := range c.Filters {
		prefix := fmt.Sprintf("filters[%d]", i)

		if f.Root == "" {
			errors = append(errors, ValidationError{
				Field:   prefix + ".root",
				Message: "root path is required",
			})
		}

		if seen[f.Root] {
			errors = append(errors, ValidationError{
				Field:   prefix + ".root",
				Message: fmt.Sprintf("duplicate root path %q", f.Root),
			})
		}
		seen[f.Root] = true

		if len(f.Extensions) == 0 {
			errors = append(errors, ValidationError{
				Field:   prefix + ".extensions",
				Message: "at least one extension is required",
			})
		}

		for j, ext := range f.Extensions {
			if !strings.HasPrefix(ext, ".") {
				errors = append(errors, ValidationError{
					Field:   fmt.Sprintf("%s.extensions[%d]", prefix, j),
					Message: fmt.Sprintf("extension %q must begin with '.'", ext),
				})
			}
		}
	}

	return errors
}

func (c *Config) validateScan() ValidationErrors {
	var errors ValidationErrors

	if c.Scan.Concurrency < 1 {
		errors = append(errors, ValidationError{
			Field:   "scan.concurrency",
			Message: "concurrency must be at least 1",
		})
	}

	validTransports := map[string]bool{"http": true, "local": true}
	if !validTransports[c.Scan.Transport] {
		errors = append(errors, ValidationError{
			Field:   "scan.transport",
			Message: "transport must be 'http' or 'local'",
		})
	}

	if c.Scan.Transport == "http" {
		if c.Scan.AgentPort <= 0 || c.Scan.AgentPort > 65535 {
			errors = append(errors, ValidationError{
				Field:   "scan.agent_port",
				Message: "agent_port must be between 1 and 65535",
			})
		}
	}

	if c.Scan.RequestTimeoutSeconds < 0 {
		errors = append(errors, ValidationError{
			Field:   "scan.request_timeout_seconds",
			Message: "request_timeout_seconds cannot be negative",
		})
	}

	return errors
}

func (c *Config) validateNotify() ValidationErrors {
	var errors ValidationErrors

	if c.Notify.SMTP.Host == "" {
		errors = append(errors, ValidationError{
			Field:   "notify.smtp.host",
			Message: "host is required when notify is enabled",
		})
	}

	if c.Notify.SMTP.Port <= 0 || c.Notify.SMTP.Port > 65535 {
		errors = append(errors, ValidationError{
			Field:   "notify.smtp.port",
			Message: "port must be between 1 and 65535",
		})
	}

	if c.Notify.SMTP.From == "" {
		errors = append(errors, ValidationError{
			Field:   "notify.smtp.from",
			Message: "from address is required when notify is enabled",
		})
	}

	if len(c.Notify.Recipients) == 0 {
		errors = append(errors, ValidationError{
			Field:   "notify.recipients",
			Message: "at least one recipient is required when notify is enabled",
		})
	}

	if len(c.Notify.AdminRecipients) == 0 {
		errors = append(errors, ValidationError{
			Field:   "notify.admin_recipients",
			Message: "at least one admin recipient is required when notify is enabled",
		})
	}

	return errors
}

func (c *Config) validateHistory() ValidationErrors {
	var errors ValidationErrors

	if c.History.Host == "" {
		errors = append(errors, ValidationError{
			Field:   "history.host",
			Message: "host is required when history is enabled",
		})
	}

	if c.History.Port <= 0 || c.History.Port > 65535 {
		errors = append(errors, ValidationError{
			Field:   "history.port",
			Message: "port must be between 1 and 65535",
		})
	}

	if c.History.User == "" {
		errors = append(errors, ValidationError{
			Field:   "history.user",
			Message: "user is required when history is enabled",
		})
	}

	if c.History.Database == "" {
		errors = append(errors, ValidationError{
			Field:   "history.database",
			Message: "database name is required when history is enabled",
		})
	}

	if c.History.Table == "" {
		errors = append(errors, ValidationError{
			Field:   "history.table",
			Message: "table name is required when history is enabled",
		})
	}

	validTLS := map[string]bool{"disable": true, "preferred": true, "required": true, "": true}
	if !validTLS[c.History.TLS] {
		errors = append(errors, ValidationError{
			Field:   "history.tls",
			Message: "tls must be 'disable', 'preferred', or 'required'",
		})
	}

	if c.History.MaxConnections < 0 {
		errors = append(errors, ValidationError{
			Field:   "history.max_connections",
			Message: "max_connections cannot be negative",
		})
	}

	if c.History.MaxIdleConnections < 0 {
		errors = append(errors, ValidationError{
			Field:   "history.max_idle_connections",
			Message: "max_idle_connections cannot be negative",
		})
	}

	return errors
}

func (c *Config) validateLogging() ValidationErrors {
	var errors ValidationErrors

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "": true}
	if !validLevels[c.Logging.Level] {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Message: "level must be 'debug', 'info', 'warn', or 'error'",
		})
	}

	validFormats := map[string]bool{"json": true, "text": true, "": true}
	if !validFormats[c.Logging.Format] {
		errors = append(errors, ValidationError{
			Field:   "logging.format",
			Message: "format must be 'json' or 'text'",
		})
	}

	return errors
}
