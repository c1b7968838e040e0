package style

import "github.com/bmatcuk/doublestar/v4"

// GroupRule assigns every identifier matching one of Patterns to the
// subgraph Name, together with optional node attributes.
type GroupRule struct {
	Name     string     `toml:"name" json:"name" yaml:"name"`
	Patterns []string   `toml:"patterns" json:"patterns" yaml:"patterns"`
	Attrs    Attributes `toml:"attrs" json:"attrs,omitempty" yaml:"attrs,omitempty"`
}

// GroupRules builds a NodeAttributesFunc from rules. Patterns use
// [doublestar.Match] syntax, so "**" spans directories, and rules are tried
// in order; the first match wins. Malformed patterns never match. It returns nil when rules is empty.
func GroupRules(rules []GroupRule) NodeAttributesFunc {
	if len(rules) == 0 {
		return nil
	}
	return func(id string) (NodeAttributes, bool) {
		for _, r := range rules {
			for _, p := range r.Patterns {
				if ok, err := doublestar.Match(p, id); err == nil && ok {
					return NodeAttributes{Group: r.Name, Attrs: r.Attrs.Clone()}, true
				}
			}
		}
		return NodeAttributes{}, false
	}
}
