package subst

import "strconv"

// Fresh returns base if it is not in avoid, else the first of base_0,
// base_1, base_2, … that is not. Deterministic and stable across runs.
func Fresh(base string, avoid map[string]struct{}) string {
	if _, taken := avoid[base]; !taken {
		return base
	}
	for i := 0; ; i++ {
		candidate := base + "_" + strconv.Itoa(i)
		if _, taken := avoid[candidate]; !taken {
			return candidate
		}
	}
}
