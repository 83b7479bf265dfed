package record

import "strconv"

// Status is the health label computed when a check is taken. The analytics
// code treats it as an opaque string, so unknown labels pass through.
type Status string

const (
	StatusGood     Status = "GOOD"
	StatusWarning  Status = "WARNING"
	StatusCritical Status = "CRITICAL"
)

// absentToken marks a reading that does not apply (the server was down).
const absentToken = "N/A"

// Usage is an optional percentage reading. An absent reading is not the
// same as a reading of zero.
type Usage struct {
	Value   int
	Present bool
}

// Reading returns a present Usage.
func Reading(v int) Usage {
	return Usage{Value: v, Present: true}
}

// Absent returns a Usage with no value.
func Absent() Usage {
	return Usage{}
}

func (u Usage) String() string {
	if !u.Present {
		return absentToken
	}
	return strconv.Itoa(u.Value)
}

// HealthRecord is one observation of one server at one instant.
// When IsUp is false, CPU and Disk are absent.
type HealthRecord struct {
	Timestamp   string // ISO-8601, kept as written
	Server      string
	Environment string
	IsUp        bool
	CPU         Usage
	Disk        Usage
	Status      Status
}
