package tripletmap

import "github.com/homier/tripletmap/arena"

type Stats struct {
	Size       int
	Capacity   int
	Threshold  int
	LoadFactor int
	Grows      int

	// Probe distances of occupied slots.
	MaxProbeDistance  int
	MeanProbeDistance float64

	Arena arena.Stats
}

// Stats scans the whole table, don't call it on a hot path.
func (m *Map) Stats() Stats {
	stats := Stats{
		Size:       m.size,
		Capacity:   len(m.slots),
		Threshold:  m.threshold,
		LoadFactor: m.loadFactor,
		Grows:      m.grows,
		Arena:      m.arena.Stats(),
	}

	total := 0
	for i := range m.slots {
		e := &m.slots[i]
		if e.Hash == 0 {
			continue
		}

		d := int(m.distance(e.Hash, uint32(i)))
		total += d
		stats.MaxProbeDistance = max(stats.MaxProbeDistance, d)
	}

	if m.size > 0 {
		stats.MeanProbeDistance = float64(total) / float64(m.size)
	}

	return stats
}
