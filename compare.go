package logtrap

import (
	"fmt"
	"strings"

	"github.com/roadrunner-server/errors"
)

// compareRecords compares two record sequences element by element. Records
// are flat triples, so equality is direct per field with no recursive
// descent. On divergence the error names the first differing index with the
// expected and captured values; on a length mismatch it renders both
// sequences in full.
func compareRecords(expected, actual []Record) error {
	const op = errors.Op("logtrap_check")

	if len(expected) != len(actual) {
		return errors.E(op, errors.Errorf(
			"sequence lengths differ: expected %d entries, captured %d\nexpected:\n%s\ncaptured:\n%s",
			len(expected), len(actual), renderSeq(expected), renderSeq(actual)))
	}

	for i := range expected {
		if expected[i] != actual[i] {
			return errors.E(op, errors.Errorf(
				"sequences differ at entry %d:\nexpected: %s\ncaptured: %s",
				i, renderRecord(expected[i]), renderRecord(actual[i])))
		}
	}

	return nil
}

func renderRecord(r Record) string {
	return fmt.Sprintf("(%q, %q, %q)", r.Channel, r.Level, r.Message)
}

func renderSeq(records []Record) string {
	if len(records) == 0 {
		return "  (none)"
	}

	out := make([]string, len(records))
	for i := range records {
		out[i] = fmt.Sprintf("  %d: %s", i, renderRecord(records[i]))
	}

	return strings.Join(out, "\n")
}
