package reconcile

import "testing"

func TestAliasRegistryAddAndLookup(t *testing.T) {
	registry := NewAliasRegistry()
	registry.Add("Jane Doe", "Nova Star")
	registry.Add("Jane Doe", "nova star")
	registry.Add("Jane Doe", "Luna Sky (Site)")

	aliases := registry.Aliases("Jane Doe")
	if len(aliases) != 2 {
		t.Fatalf("duplicate alias should be ignored: %v", aliases)
	}
	if got := registry.Aliases("Nobody"); len(got) != 0 {
		t.Fatalf("unknown canonical should be empty: %v", got)
	}
}

func TestAliasRegistryApplyCommand(t *testing.T) {
	registry := NewAliasRegistry()
	registry.Apply(nil)
	registry.Apply(&RegistryCommand{Canonical: "Jane Doe", Alias: "Nova Star"})
	if aliases := registry.Aliases("Jane Doe"); len(aliases) != 1 || aliases[0] != "Nova Star" {
		t.Fatalf("aliases = %v", aliases)
	}
}
