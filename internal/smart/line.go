package smart

import (
	"strconv"
	"strings"

	"check-smartmon/pkg/types"
)

// Column positions of `smartctl -A` output:
// ID# ATTRIBUTE_NAME FLAG VALUE WORST THRESH TYPE UPDATED WHEN_FAILED RAW_VALUE
const (
	colID = iota
	colName
	colFlag
	colValue
	colWorst
	colThresh
	colType
	colUpdated
	colWhenFailed
	colRawValue

	attributeColumns
)

// AttributeLine is one whitespace-tokenized line of the attribute table
type AttributeLine struct {
	fields []string
	text   string
	lineNo int
}

// NewAttributeLine tokenizes a raw line. lineNo is 1-based and only used in errors.
func NewAttributeLine(text string, lineNo int) AttributeLine {
	return AttributeLine{
		fields: strings.Fields(text),
		text:   text,
		lineNo: lineNo,
	}
}

// Blank reports whether the line has no fields
func (l AttributeLine) Blank() bool {
	return len(l.fields) == 0
}

// ID returns the attribute identifier. ok is false for header and free-text lines.
func (l AttributeLine) ID() (id types.AttributeID, ok bool) {
	if l.Blank() {
		return 0, false
	}
	n, err := strconv.Atoi(l.fields[colID])
	// only canonical decimal ids ("5", not "05" or "+5")
	if err != nil || strconv.Itoa(n) != l.fields[colID] {
		return 0, false
	}
	return types.AttributeID(n), true
}

// RawValue parses the RAW_VALUE column
func (l AttributeLine) RawValue() (int64, error) {
	if len(l.fields) < attributeColumns {
		return 0, l.formatError(ErrTruncatedAttributeLine)
	}
	v, err := strconv.ParseInt(l.fields[colRawValue], 10, 64)
	if err != nil {
		return 0, l.formatError(ErrInvalidRawValue)
	}
	return v, nil
}

func (l AttributeLine) formatError(reason error) *FormatError {
	return &FormatError{
		Reason: reason,
		LineNo: l.lineNo,
		Line:   l.text,
		Fields: len(l.fields),
	}
}
