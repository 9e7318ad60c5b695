package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "static", cfg.Targets.Source)
	assert.Equal(t, DefaultLDAPFilter, cfg.Targets.LDAP.Filter)
	assert.Equal(t, DefaultLDAPAttribute, cfg.Targets.LDAP.Attribute)

	assert.Equal(t, 4, cfg.Scan.Concurrency)
	assert.Equal(t, "http", cfg.Scan.Transport)
	assert.Equal(t, 8321, cfg.Scan.AgentPort)
	assert.Equal(t, 300, cfg.Scan.RequestTimeoutSeconds)

	assert.Equal(t, ".", cfg.Report.OutputDir)

	assert.False(t, cfg.Notify.Enabled)
	assert.Equal(t, 25, cfg.Notify.SMTP.Port)

	assert.False(t, cfg.History.Enabled)
	assert.Equal(t, 3306, cfg.History.Port)
	assert.Equal(t, "scan_runs", cfg.History.Table)
	assert.Equal(t, "preferred", cfg.History.TLS)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "stdout", cfg.Logging.Output)
}

func TestLDAPFilterFallback(t *testing.T) {
	cfg := DefaultConfig()

	cfg.Targets.LDAP.Filter = ""
	assert.Equal(t, DefaultLDAPFilter, cfg.LDAPFilter())

	cfg.Targets.LDAP.Filter = "(operatingSystem=Windows*)"
	assert.Equal(t, "(operatingSystem=Windows*)", cfg.LDAPFilter())
}

func TestLDAPAttributeFallback(t *testing.T) {
	cfg := DefaultConfig()

	cfg.Targets.LDAP.Attribute = ""
	assert.Equal(t, DefaultLDAPAttribute, cfg.LDAPAttribute())

	cfg.Targets.LDAP.Attribute = "dNSHostName"
	assert.Equal(t, "dNSHostName", cfg.LDAPAttribute())
}
