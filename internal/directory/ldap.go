package directory

import (
	"context"
	"fmt"
	"sort"

	"github.com/go-ldap/ldap/v3"

	"github.com/dbsmedya/gosweep/internal/config"
	"github.com/dbsmedya/gosweep/internal/logger"
)

// LDAPResolver enumerates targets from a directory-service organizational
// unit. Entries are read from the configured attribute and sorted so runs
// over the same OU are deterministic.
type LDAPResolver struct {
	cfg       config.LDAPConfig
	filter    string
	attribute string
	logger    *logger.Logger
}

// NewLDAPResolver creates an LDAPResolver from configuration.
func NewLDAPResolver(cfg config.LDAPConfig, filter, attribute string, log *logger.Logger) (*LDAPResolver, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("ldap url is required")
	}
	if cfg.BaseDN == "" {
		return nil, fmt.Errorf("ldap base_dn is required")
	}
	if filter == "" {
		filter = config.DefaultLDAPFilter
	}
	if attribute == "" {
		attribute = config.DefaultLDAPAttribute
	}
	if log == nil {
		log = logger.NewDefault()
	}
	return &LDAPResolver{
		cfg:       cfg,
		filter:    filter,
		attribute: attribute,
		logger:    log,
	}, nil
}

// Resolve binds to the directory, searches the base DN subtree with the
// configured filter, and returns the sorted attribute values. An empty
// result is not an error.
func (r *LDAPResolver) Resolve(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	conn, err := ldap.DialURL(r.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to directory %s: %w", r.cfg.URL, err)
	}
	defer conn.Close()

	if r.cfg.BindDN != "" {
		if err := conn.Bind(r.cfg.BindDN, r.cfg.BindPassword); err != nil {
			return nil, fmt.Errorf("directory bind failed for %s: %w", r.cfg.BindDN, err)
		}
	}

	request := ldap.NewSearchRequest(
		r.cfg.BaseDN,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		0, 0, false,
		r.filter,
		[]string{r.attribute},
		nil,
	)

	response, err := conn.Search(request)
	if err != nil {
		return nil, fmt.Errorf("directory search under %s failed: %w", r.cfg.BaseDN, err)
	}

	targets := make([]string, 0, len(response.Entries))
	for _, entry := range response.Entries {
		value := entry.GetAttributeValue(r.attribute)
		if value == "" {
			continue
		}
		targets = append(targets, value)
	}
	sort.Strings(targets)

	r.logger.Infow("Directory lookup complete",
		"base_dn", r.cfg.BaseDN,
		"filter", r.filter,
		"targets", len(targets),
	)

	return targets, nil
}
