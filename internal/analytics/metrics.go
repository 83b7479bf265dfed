package analytics

import "github.com/thisdougb/fleetcheck/internal/record"

// MetricsSummary is a snapshot computed from a single bucket.
type MetricsSummary struct {
	TotalChecks   int
	UpCount       int
	CriticalCount int // checks where the server was down
	WarningCount  int // status WARNING, whether or not the server was up
	AvgCPU        float64
	MaxCPU        int
	AvgDisk       float64
	MaxDisk       int
	UptimePct     float64
}

// ComputeMetrics summarizes any bucket, whatever dimension produced it.
// Averages and maxima only use present readings and are 0 when there are
// none. UptimePct is 0 for an empty bucket.
func ComputeMetrics(b *Bucket) MetricsSummary {
	var m MetricsSummary
	if b == nil {
		return m
	}

	var cpu, disk []int
	for _, r := range b.Records {
		if r.IsUp {
			m.UpCount++
		} else {
			m.CriticalCount++
		}

		if r.Status == record.StatusWarning {
			m.WarningCount++
		}

		if r.CPU.Present {
			cpu = append(cpu, r.CPU.Value)
		}
		if r.Disk.Present {
			disk = append(disk, r.Disk.Value)
		}
	}

	m.TotalChecks = len(b.Records)
	m.AvgCPU, m.MaxCPU = avgMax(cpu)
	m.AvgDisk, m.MaxDisk = avgMax(disk)

	if m.TotalChecks > 0 {
		m.UptimePct = 100 * float64(m.UpCount) / float64(m.TotalChecks)
	}

	return m
}

func avgMax(values []int) (float64, int) {
	if len(values) == 0 {
		return 0, 0
	}

	total, highest := 0, values[0]
	for _, v := range values {
		total += v
		if v > highest {
			highest = v
		}
	}
	return float64(total) / float64(len(values)), highest
}
