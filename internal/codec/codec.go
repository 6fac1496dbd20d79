// Package codec converts student records to and from the single-line
// text form used by the flat-file store:
//
//	roll|name|marks
//
// roll is a base-10 integer, marks is written with two fraction digits.
package codec

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/aanand-mishra/student-records/internal/types"
)

// Delimiter separates the fields of an encoded record.
const Delimiter = "|"

// ErrMalformed is returned by Decode for a line that is not a record.
var ErrMalformed = errors.New("malformed record")

// Encode renders st as one store line (without the trailing newline).
//
// The name is written verbatim. It must already be free of the delimiter;
// types.NewStudent takes care of that.
func Encode(st types.Student) string {
	return fmt.Sprintf("%d%s%s%s%.2f", st.Roll, Delimiter, st.Name, Delimiter, st.Marks)
}

// Decode parses one store line.
//
// The line must split into exactly three fields. Whitespace around roll
// and marks is ignored, the name is kept as written. A trailing carriage
// return (files edited on Windows) is dropped.
func Decode(line string) (types.Student, error) {
	line = strings.TrimSuffix(line, "\r")

	fields := strings.Split(line, Delimiter)
	if len(fields) != 3 {
		return types.Student{}, fmt.Errorf("%w: want 3 fields, got %d", ErrMalformed, len(fields))
	}

	roll, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return types.Student{}, fmt.Errorf("%w: roll %q", ErrMalformed, fields[0])
	}

	name := fields[1]
	if name == "" {
		return types.Student{}, fmt.Errorf("%w: empty name", ErrMalformed)
	}

	marks, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
	if err != nil || math.IsNaN(marks) || math.IsInf(marks, 0) {
		return types.Student{}, fmt.Errorf("%w: marks %q", ErrMalformed, fields[2])
	}

	return types.Student{Roll: roll, Name: name, Marks: marks}, nil
}
