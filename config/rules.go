package config

// AddRule enables the (source, tag) rule, appending it if absent.
// Returns true when the config changed.
func (c *Config) AddRule(source string, tag string) bool {
	for i, r := range c.AutoTagRules {
		if r.Source == source && r.Tag == tag {
			if r.Enabled {
				return false
			}
			c.AutoTagRules[i].Enabled = true
			return true
		}
	}
	c.AutoTagRules = append(c.AutoTagRules, AutoTagRule{Source: source, Tag: tag, Enabled: true})
	return true
}

func (c *Config) RemoveRule(source string, tag string) bool {
	kept := c.AutoTagRules[:0]
	removed := false
	for _, r := range c.AutoTagRules {
		if r.Source == source && r.Tag == tag {
			removed = true
			continue
		}
		kept = append(kept, r)
	}
	c.AutoTagRules = kept
	return removed
}

func (c *Config) SetRuleEnabled(source string, tag string, enabled bool) bool {
	for i, r := range c.AutoTagRules {
		if r.Source == source && r.Tag == tag {
			if r.Enabled == enabled {
				return false
			}
			c.AutoTagRules[i].Enabled = enabled
			return true
		}
	}
	return false
}
