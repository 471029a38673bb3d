package bigint

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

type goldenCase struct {
	Op   string `json:"op"`
	A    string `json:"a"`
	B    string `json:"b"`
	Want string `json:"want"`
	Rem  string `json:"rem,omitempty"`
}

// TestGolden replays the vectors written by cmd/generate-golden.
func TestGolden(t *testing.T) {
	t.Parallel()
	data, err := os.ReadFile(filepath.Join("testdata", "golden.json"))
	if err != nil {
		t.Skipf("golden file not available (run go run ./cmd/generate-golden): %v", err)
	}
	var file struct {
		Cases []goldenCase `json:"cases"`
	}
	if err := json.Unmarshal(data, &file); err != nil {
		t.Fatalf("decoding golden file: %v", err)
	}

	for _, c := range file.Cases {
		a, b := mustInt(t, c.A), mustInt(t, c.B)
		var got, rem string
		switch c.Op {
		case "add":
			got = a.Add(b).String()
		case "sub":
			got = a.Sub(b).String()
		case "mul":
			got = a.Mul(b).String()
		case "divmod":
			q, r := New(), New()
			if err := DivMod(a, b, q, r); err != nil {
				t.Fatalf("DivMod(%s, %s): %v", c.A, c.B, err)
			}
			got, rem = q.String(), r.String()
			q.Release()
			r.Release()
		default:
			t.Fatalf("unknown golden op %q", c.Op)
		}
		if got != c.Want || rem != c.Rem {
			t.Errorf("%s(%s, %s) = %s rem %q, want %s rem %q", c.Op, c.A, c.B, got, rem, c.Want, c.Rem)
		}
		a.Release()
		b.Release()
	}
}
