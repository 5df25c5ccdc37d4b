package extractor

import "github.com/lukegackle/Netdata-Docker-Integration/pkg/netdata"

// buildNameMap scans the cgroup charts for renamed entries and returns a
// mapping from raw hex identifier to friendly name. A chart keyed
// cgroup_0434f3dc6d06.cpu may carry name "cgroup_nextcloud.cpu" when the
// cgroup renaming plugin is active; that name field is the only reliable
// source of friendly names. The family and title fields hold metric-family
// strings like "eth0" or "cpu" and must not be used.
//
// When several charts disagree on the name for one identifier, the longest
// candidate wins, ties broken lexicographically, so the result does not
// depend on map iteration order.
func buildNameMap(p netdata.Payload) map[string]string {
	idToName := map[string]string{}

	for _, key := range p.Keys() {
		m := reCgroup.FindStringSubmatch(key)
		if m == nil {
			continue
		}
		rawID := m[1]
		if !isHexID(rawID) {
			// The key already carries a friendly name.
			continue
		}

		m2 := reCgroup.FindStringSubmatch(p[key].Name)
		if m2 == nil {
			continue
		}
		candidate := m2[1]
		if candidate == rawID || isHexID(candidate) {
			continue
		}
		if better(candidate, idToName[rawID]) {
			idToName[rawID] = candidate
		}
	}
	return idToName
}

func better(candidate, current string) bool {
	if len(candidate) != len(current) {
		return len(candidate) > len(current)
	}
	return candidate < current
}

// resolveName maps a raw cgroup identifier to the display name: friendly
// names pass through unchanged, hex identifiers resolve through the name
// map and fall back to the 12-char short ID verbatim.
func resolveName(rawID string, names map[string]string) string {
	if !isHexID(rawID) {
		return rawID
	}
	if name, ok := names[rawID]; ok {
		return name
	}
	return rawID[:12]
}
