package perflog

import (
	"errors"
	"strings"
	"testing"

	"github.com/huangsam/perflog/internal/contract"
)

// FuzzRecords fuzzes the reader with arbitrary log text.
func FuzzRecords(f *testing.F) {
	f.Add("# a b\n1 2\n3 4\n")
	f.Add("junk\n# x\n-5\n")
	f.Add("# a b\n1\n")
	f.Add("")
	f.Add("#\n#\n#\n")

	f.Fuzz(func(t *testing.T, input string) {
		h, err := ReadHeader(strings.NewReader(input))
		if err != nil {
			return
		}
		for rec, err := range Records(strings.NewReader(input), h) {
			if err != nil {
				var parseErr *contract.ParseError
				if !errors.As(err, &parseErr) && !strings.Contains(err.Error(), "reading") {
					t.Fatalf("unexpected error type: %v", err)
				}
				return
			}
			if len(rec.Ints()) != len(h.Fields) {
				t.Fatalf("record has %d values, header has %d fields", len(rec.Ints()), len(h.Fields))
			}
		}
	})
}
