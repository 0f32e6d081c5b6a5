package skemapi

import (
	"strconv"
	"strings"
)

// Presence is the bit flag collected by WithMeta APIs.
type Presence uint8

const (
	PresenceSeen           Presence = 1 << iota // Field appeared in the input.
	PresenceWasNull                             // Field value was null.
	PresenceDefaultApplied                      // Default value was applied.
)

// PresenceMap maps JSON Pointers to Presence flags.
type PresenceMap map[string]Presence

// Decoded carries the parsed value along with presence metadata.
type Decoded[T any] struct {
	Value    T
	Presence PresenceMap
}

// Seen reports whether the field at pointer p appeared in the input.
func (pm PresenceMap) Seen(p string) bool { return pm[p]&PresenceSeen != 0 }

// DefaultOnly reports whether p was filled by a default and never appeared.
func (pm PresenceMap) DefaultOnly(p string) bool {
	v := pm[p]
	return v&PresenceDefaultApplied != 0 && v&(PresenceSeen|PresenceWasNull) == 0
}

// Rebase returns a copy of pm with every pointer nested under prefix
// (for example "/item"). The root entry "/" maps onto prefix itself.
func (pm PresenceMap) Rebase(prefix string) PresenceMap {
	if pm == nil {
		return nil
	}
	out := make(PresenceMap, len(pm))
	for k, v := range pm {
		if k == "/" {
			out[prefix] |= v
			continue
		}
		out[prefix+k] |= v
	}
	return out
}

// Merge ORs the flags of other into pm, allocating pm when nil.
func (pm PresenceMap) Merge(other PresenceMap) PresenceMap {
	if pm == nil {
		pm = make(PresenceMap, len(other))
	}
	for k, v := range other {
		pm[k] |= v
	}
	return pm
}

func applyPresenceOptions(pm PresenceMap, popt PresenceOpt) PresenceMap {
	if pm == nil || !popt.Collect {
		return nil
	}
	if len(popt.Include) == 0 && len(popt.Exclude) == 0 {
		return pm
	}
	shouldInclude := func(path string) bool {
		if len(popt.Include) > 0 {
			ok := false
			for _, p := range popt.Include {
				if strings.HasPrefix(path, p) {
					ok = true
					break
				}
			}
			if !ok {
				return false
			}
		}
		for _, p := range popt.Exclude {
			if strings.HasPrefix(path, p) {
				return false
			}
		}
		return true
	}
	filtered := make(PresenceMap, len(pm))
	for k, v := range pm {
		if shouldInclude(k) {
			filtered[k] = v
		}
	}
	return filtered
}

// collectPresenceMapFromValue walks a decoded value and collects JSON Pointer paths
// for objects (map[string]any) and arrays ([]any). Root path "/" is always marked seen.
func collectPresenceMapFromValue(v any) PresenceMap {
	pm := make(PresenceMap)
	pm["/"] = PresenceSeen
	collectPresenceRecurse(v, "", pm)
	return pm
}

func collectPresenceRecurse(v any, cur string, pm PresenceMap) {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			p := cur + "/" + pointerEscaper.Replace(k)
			pm[p] |= PresenceSeen
			if val == nil {
				pm[p] |= PresenceWasNull
			}
			collectPresenceRecurse(val, p, pm)
		}
	case []any:
		for i, val := range t {
			p := cur + "/" + strconv.Itoa(i)
			pm[p] |= PresenceSeen
			collectPresenceRecurse(val, p, pm)
		}
	}
}
