package naming

import (
	"sort"
	"testing"
)

func TestNewCompactIDShape(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 500; i++ {
		id, err := NewCompactID()
		if err != nil {
			t.Fatalf("NewCompactID: %v", err)
		}
		if len(id) != compactIDTimeLen+compactIDRandLen {
			t.Fatalf("unexpected length %d: %s", len(id), id)
		}
		for _, c := range id {
			if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'z') {
				t.Fatalf("non-base36 character %q in %s", c, id)
			}
		}
		if seen[id] {
			t.Fatalf("duplicate ID: %s", id)
		}
		seen[id] = true
	}
}

func TestNewCompactIDTimeOrdered(t *testing.T) {
	// IDs generated back to back share or advance the timestamp prefix, so
	// sorting the prefixes must not change their order.
	var prefixes []string
	for i := 0; i < 20; i++ {
		id, err := NewCompactID()
		if err != nil {
			t.Fatalf("NewCompactID: %v", err)
		}
		prefixes = append(prefixes, id[:compactIDTimeLen])
	}
	if !sort.StringsAreSorted(prefixes) {
		t.Fatalf("timestamp prefixes out of order: %v", prefixes)
	}
}

func TestEncodeBase36(t *testing.T) {
	var buf [7]byte
	encodeBase36(buf[:], 0)
	if string(buf[:]) != "0000000" {
		t.Fatalf("zero encoding: %s", buf[:])
	}
	encodeBase36(buf[:], 35)
	if string(buf[:]) != "000000z" {
		t.Fatalf("35 encoding: %s", buf[:])
	}
	encodeBase36(buf[:], 36)
	if string(buf[:]) != "0000010" {
		t.Fatalf("36 encoding: %s", buf[:])
	}
}
