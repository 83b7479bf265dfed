package record

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// FieldCount is the number of comma separated fields in a log line.
const FieldCount = 7

// ErrMalformedRecord is matched by every decoding failure.
var ErrMalformedRecord = errors.New("malformed record")

// MalformedRecordError describes a line that could not be decoded.
type MalformedRecordError struct {
	Line   int // 1-based, 0 when unknown
	Text   string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed record at line %d: %s", e.Line, e.Reason)
	}
	return "malformed record: " + e.Reason
}

func (e *MalformedRecordError) Unwrap() error {
	return ErrMalformedRecord
}

// ParseLine decodes one log line:
//
//	timestamp, server, environment, isUp, cpu, disk, status
//
// Surrounding whitespace on every field is ignored. The isUp field is
// lenient: only the exact literal "True" means up, every other spelling
// (including "true") is read as down without an error. Numeric fields
// accept "N/A" for absent or a base-10 integer.
func ParseLine(line string) (HealthRecord, error) {
	parts := strings.Split(strings.TrimSpace(line), ",")
	if len(parts) != FieldCount {
		return HealthRecord{}, &MalformedRecordError{
			Text:   line,
			Reason: fmt.Sprintf("expected %d fields, got %d", FieldCount, len(parts)),
		}
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	cpu, err := parseUsage(parts[4])
	if err != nil {
		return HealthRecord{}, &MalformedRecordError{Text: line, Reason: "cpu: " + err.Error()}
	}
	disk, err := parseUsage(parts[5])
	if err != nil {
		return HealthRecord{}, &MalformedRecordError{Text: line, Reason: "disk: " + err.Error()}
	}

	return HealthRecord{
		Timestamp:   parts[0],
		Server:      parts[1],
		Environment: parts[2],
		IsUp:        parts[3] == "True",
		CPU:         cpu,
		Disk:        disk,
		Status:      Status(parts[6]),
	}, nil
}

func parseUsage(s string) (Usage, error) {
	if s == absentToken {
		return Absent(), nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return Usage{}, fmt.Errorf("%q is not an integer", s)
	}
	return Reading(v), nil
}

// Format encodes r the way the check simulator appends it to the log.
func Format(r HealthRecord) string {
	up := "False"
	if r.IsUp {
		up = "True"
	}
	return strings.Join([]string{
		r.Timestamp,
		r.Server,
		r.Environment,
		up,
		r.CPU.String(),
		r.Disk.String(),
		string(r.Status),
	}, ", ")
}

// Decoder reads records line by line. Blank lines are skipped. Lines have
// no length limit; an oversized line is just another malformed record.
type Decoder struct {
	reader *bufio.Reader
	line   int
	eof    bool
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{reader: bufio.NewReader(r)}
}

// Decode returns the next record, io.EOF at the end of input, or a
// *MalformedRecordError for a bad line. Decoding can continue after a
// malformed line.
func (d *Decoder) Decode() (HealthRecord, error) {
	for !d.eof {
		text, err := d.reader.ReadString('\n')
		if err == io.EOF {
			d.eof = true
		} else if err != nil {
			return HealthRecord{}, err
		}
		if text == "" && d.eof {
			break
		}
		d.line++

		text = strings.TrimRight(text, "\r\n")
		if strings.TrimSpace(text) == "" {
			continue
		}

		rec, err := ParseLine(text)
		if err != nil {
			var me *MalformedRecordError
			if errors.As(err, &me) {
				me.Line = d.line
			}
			return HealthRecord{}, err
		}
		return rec, nil
	}
	return HealthRecord{}, io.EOF
}

// ReadAll decodes every line of r. Malformed lines are returned alongside
// the good records instead of aborting the read; err is only set for I/O
// failures.
func ReadAll(r io.Reader) (records []HealthRecord, malformed []*MalformedRecordError, err error) {
	dec := NewDecoder(r)
	for {
		rec, err := dec.Decode()
		if err == io.EOF {
			return records, malformed, nil
		}
		var me *MalformedRecordError
		if errors.As(err, &me) {
			malformed = append(malformed, me)
			continue
		}
		if err != nil {
			return records, malformed, err
		}
		records = append(records, rec)
	}
}
