package extractor

import (
	"regexp"
	"sort"
	"strings"

	"github.com/lukegackle/Netdata-Docker-Integration/pkg/container"
	"github.com/lukegackle/Netdata-Docker-Integration/pkg/netdata"
)

// Netdata reports container data under two chart families:
//
//   docker_local.container_<name>_state / _health_status
//     The container name is embedded in the key and the active state is
//     the dimension whose value is 1.
//
//   cgroup_<ident>.<metric>
//     The ident is either a friendly name or a 12-char hex short ID. When
//     it is a hex ID the chart's "name" field may carry a renamed version
//     with the friendly name.
var (
	reDockerState  = regexp.MustCompile(`^docker_local\.container_(.+?)_state$`)
	reDockerHealth = regexp.MustCompile(`^docker_local\.container_(.+?)_health_status$`)
	reCgroup       = regexp.MustCompile(`^cgroup_(.+?)\.(.+)$`)
	reHexID        = regexp.MustCompile(`^[0-9a-f]{12,}$`)
)

// Memory dimensions arrive in bytes, network dimensions in bytes per
// second. Conversions use fixed factors: bytes -> MiB via /1048576,
// bytes/s -> kilobits/s via *8/1000.
const bytesPerMiB = 1 << 20

func toKbps(bytesPerSec float64) float64 {
	return bytesPerSec * 8 / 1000
}

func isHexID(s string) bool {
	return reHexID.MatchString(s)
}

// Extract maps one allmetrics payload to container records, one per
// distinct container discovered in either chart family. It is pure and
// deterministic: chart keys are walked in sorted order and the result is
// sorted by display name, then identifier. A container missing a given
// sub-metric keeps that field at its unknown sentinel; a container is only
// absent from the result if it contributed no recognized chart at all.
func Extract(p netdata.Payload) []container.Record {
	names := buildNameMap(p)
	records := map[string]*container.Record{}

	getOrCreate := func(displayName, rawID string) *container.Record {
		rec, ok := records[displayName]
		if !ok {
			r := container.NewRecord(displayName, shortID(rawID))
			records[displayName] = &r
			rec = &r
		}
		if rec.Identifier == "" && isHexID(rawID) {
			rec.Identifier = shortID(rawID)
		}
		return rec
	}

	keys := p.Keys()

	// docker_local family: state and health.
	for _, key := range keys {
		chart := p[key]

		if m := reDockerState.FindStringSubmatch(key); m != nil {
			rec := getOrCreate(m[1], "")
			if active, ok := chart.ActiveDimension(); ok {
				rec.Status = active
			}
			continue
		}
		if m := reDockerHealth.FindStringSubmatch(key); m != nil {
			rec := getOrCreate(m[1], "")
			if active, ok := chart.ActiveDimension(); ok {
				rec.Health = active
			}
		}
	}

	// cgroup family: resource metrics.
	for _, key := range keys {
		m := reCgroup.FindStringSubmatch(key)
		if m == nil {
			continue
		}
		rawID, metric := m[1], m[2]
		ch := p[key]
		rec := getOrCreate(resolveName(rawID, names), rawID)

		switch {
		case metric == "cpu":
			user, userOK := ch.Value("user")
			system, systemOK := ch.Value("system")
			if userOK || systemOK {
				rec.CPUPercent = container.Known(user + system)
			}

		case metric == "mem_usage":
			ram, ok := ch.Value("ram")
			if !ok {
				ram, ok = ch.Value("mem")
			}
			if ok {
				rec.MemoryResidentMiB = container.Known(ram / bytesPerMiB)
			}

		case metric == "mem_utilization":
			if util, ok := ch.Value("utilization"); ok {
				rec.MemoryPercent = container.Known(util)
			}

		case metric == "pids_current":
			if pids, ok := ch.Value("pids"); ok {
				rec.PIDCount = container.KnownCount(int64(pids))
			}

		case strings.HasPrefix(metric, "net_") && strings.Count(metric, "_") == 1:
			// Only the per-interface bandwidth charts (net_eth0), not
			// net_packets_eth0 and friends. Multiple interfaces accumulate.
			if rx, ok := ch.Value("received"); ok {
				rec.NetworkInKbps = accumulate(rec.NetworkInKbps, toKbps(rx))
			}
			if tx, ok := ch.Value("sent"); ok {
				if tx < 0 {
					tx = -tx
				}
				rec.NetworkOutKbps = accumulate(rec.NetworkOutKbps, toKbps(tx))
			}
		}
	}

	out := make([]container.Record, 0, len(records))
	for _, rec := range records {
		out = append(out, *rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayName != out[j].DisplayName {
			return out[i].DisplayName < out[j].DisplayName
		}
		return out[i].Identifier < out[j].Identifier
	})
	return out
}

func accumulate(m container.Metric, v float64) container.Metric {
	if m.Known {
		return container.Known(m.Value + v)
	}
	return container.Known(v)
}

func shortID(rawID string) string {
	if !isHexID(rawID) {
		return ""
	}
	return rawID[:12]
}
