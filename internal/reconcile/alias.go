package reconcile

import (
	"github.com/pierre-delecto/stash-theporndb-scraper/internal/textutil"
)

// AliasRegistry maps a canonical performer name to alternate names confirmed
// during the run. It lives for the process lifetime only; confirmed aliases
// that should persist are written back to the stored performer instead.
type AliasRegistry struct {
	entries map[string][]string
}

// NewAliasRegistry returns an empty registry.
func NewAliasRegistry() *AliasRegistry {
	return &AliasRegistry{entries: make(map[string][]string)}
}

// Add records alias as a confirmed alternate name for canonical. A
// site-scoped alias is recorded as "name (site)".
func (r *AliasRegistry) Add(canonical, alias string) {
	for _, existing := range r.entries[canonical] {
		if textutil.FoldEqual(existing, alias) {
			return
		}
	}
	r.entries[canonical] = append(r.entries[canonical], alias)
}

// Aliases returns the confirmed alternate names for canonical.
func (r *AliasRegistry) Aliases(canonical string) []string {
	return r.entries[canonical]
}

// RegistryCommand is an alias-registry mutation decided during identity
// resolution. The resolver returns it instead of mutating the registry so
// the run context stays the single writer.
type RegistryCommand struct {
	Canonical string
	Alias     string
}

// Apply executes the mutation.
func (r *AliasRegistry) Apply(cmd *RegistryCommand) {
	if cmd == nil {
		return
	}
	r.Add(cmd.Canonical, cmd.Alias)
}
