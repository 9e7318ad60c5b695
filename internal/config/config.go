// Package config provides configuration structures and loading for gosweep.
package config

// Config represents the complete application configuration.
type Config struct {
	Targets TargetsConfig  `yaml:"targets" mapstructure:"targets"`
	Filters []FilterConfig `yaml:"filters" mapstructure:"filters"`
	Scan    ScanConfig     `yaml:"scan" mapstructure:"scan"`
	Report  ReportConfig   `yaml:"report" mapstructure:"report"`
	Notify  NotifyConfig   `yaml:"notify" mapstructure:"notify"`
	History HistoryConfig  `yaml:"history" mapstructure:"history"`
	Logging LoggingConfig  `yaml:"logging" mapstructure:"logging"`
}

// TargetsConfig describes how the target list is resolved for a run.
type TargetsConfig struct {
	Source string     `yaml:"source" mapstructure:"source"` // static or ldap
	Static []string   `yaml:"static" mapstructure:"static"`
	LDAP   LDAPConfig `yaml:"ldap" mapstructure:"ldap"`
}

// LDAPConfig represents a directory-service lookup for target enumeration.
type LDAPConfig struct {
	URL          string `yaml:"url" mapstructure:"url"` // ldap:// or ldaps://
	BaseDN       string `yaml:"base_dn" mapstructure:"base_dn"`
	BindDN       string `yaml:"bind_dn" mapstructure:"bind_dn"`
	BindPassword string `yaml:"bind_password" mapstructure:"bind_password"`
	Filter       string `yaml:"filter" mapstructure:"filter"`       // defaults to (objectClass=computer)
	Attribute    string `yaml:"attribute" mapstructure:"attribute"` // defaults to cn
}

// FilterConfig represents one root path and the extension suffixes searched under it.
type FilterConfig struct {
	Root       string   `yaml:"root" mapstructure:"root"`
	Extensions []string `yaml:"extensions" mapstructure:"extensions"`
}

// ScanConfig represents fan-out and transport settings.
type ScanConfig struct {
	Concurrency           int    `yaml:"concurrency" mapstructure:"concurrency"`
	Transport             string `yaml:"transport" mapstructure:"transport"` // http or local
	AgentPort             int    `yaml:"agent_port" mapstructure:"agent_port"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds" mapstructure:"request_timeout_seconds"`
}

// ReportConfig represents report artifact settings.
type ReportConfig struct {
	OutputDir string `yaml:"output_dir" mapstructure:"output_dir"`
}

// NotifyConfig represents mail notification settings.
type NotifyConfig struct {
	Enabled         bool       `yaml:"enabled" mapstructure:"enabled"`
	SMTP            SMTPConfig `yaml:"smtp" mapstructure:"smtp"`
	Recipients      []string   `yaml:"recipients" mapstructure:"recipients"`
	AdminRecipients []string   `yaml:"admin_recipients" mapstructure:"admin_recipients"`
}

// SMTPConfig represents an SMTP server connection configuration.
type SMTPConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`
	From     string `yaml:"from" mapstructure:"from"`
}

// HistoryConfig represents the optional MySQL run-history store.
type HistoryConfig struct {
	Enabled            bool   `yaml:"enabled" mapstructure:"enabled"`
	Host               string `yaml:"host" mapstructure:"host"`
	Port               int    `yaml:"port" mapstructure:"port"`
	User               string `yaml:"user" mapstructure:"user"`
	Password           string `yaml:"password" mapstructure:"password"`
	Database           string `yaml:"database" mapstructure:"database"`
	Table              string `yaml:"table" mapstructure:"table"` // defaults to scan_runs
	TLS                string `yaml:"tls" mapstructure:"tls"`     // disable, preferred, required
	MaxConnections     int    `yaml:"max_connections" mapstructure:"max_connections"`
	MaxIdleConnections int    `yaml:"max_idle_connections" mapstructure:"max_idle_connections"`
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or text
	Output string `yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
}

// DefaultLDAPFilter is applied when targets.ldap.filter is empty.
const DefaultLDAPFilter = "(objectClass=computer)"

// DefaultLDAPAttribute is the entry attribute read as the target identity.
const DefaultLDAPAttribute = "cn"

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Targets: TargetsConfig{
			Source: "static",
			LDAP: LDAPConfig{
				Filter:    DefaultLDAPFilter,
				Attribute: DefaultLDAPAttribute,
			},
		},
		Scan: ScanConfig{
			Concurrency:           4,
			Transport:             "http",
			AgentPort:             8321,
			RequestTimeoutSeconds: 300,
		},
		Report: ReportConfig{
			OutputDir: ".",
		},
		Notify: NotifyConfig{
			Enabled: false,
			SMTP: SMTPConfig{
				Port: 25,
			},
		},
		History: HistoryConfig{
			Enabled:            false,
			Port:               3306,
			Table:              "scan_runs",
			TLS:                "preferred",
			MaxConnections:     10,
			MaxIdleConnections: 5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// LDAPFilter returns the configured LDAP search filter or the default.
func (c *Config) LDAPFilter() string {
	if c.Targets.LDAP.Filter == "" {
		return DefaultLDAPFilter
	}
	return c.Targets.LDAP.Filter
}

// LDAPAttribute returns the configured LDAP identity attribute or the default.
func (c *Config) LDAPAttribute() string {
	if c.Targets.LDAP.Attribute == "" {
		return DefaultLDAPAttribute
	}
	return c.Targets.LDAP.Attribute
}
