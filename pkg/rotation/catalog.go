package rotation

// Catalog maps qualification pool keys to the people qualified for them.
// Built once per run and read-only afterwards.
type Catalog struct {
	pools map[string]map[string]bool
}

// NewCatalog builds a catalog from pool membership lists. A pool that is
// missing or empty simply yields no qualified people; that is a legitimate
// "nobody can fill this role" state, not an error.
func NewCatalog(pools map[string][]string) *Catalog {
	c := &Catalog{pools: make(map[string]map[string]bool, len(pools))}
	for key, members := range pools {
		set := make(map[string]bool, len(members))
		for _, name := range members {
			if name != "" {
				set[name] = true
			}
		}
		c.pools[key] = set
	}
	return c
}

// Qualified reports whether person belongs to the named pool.
func (c *Catalog) Qualified(pool, person string) bool {
	return c.pools[pool][person]
}

// QualifiedPeople filters people down to the members of the named pool,
// preserving input order.
func (c *Catalog) QualifiedPeople(pool string, people []string) []string {
	set := c.pools[pool]
	if len(set) == 0 {
		return nil
	}
	var out []string
	for _, p := range people {
		if set[p] {
			out = append(out, p)
		}
	}
	return out
}

// PoolSize returns the number of people qualified for the named pool.
func (c *Catalog) PoolSize(pool string) int {
	return len(c.pools[pool])
}
