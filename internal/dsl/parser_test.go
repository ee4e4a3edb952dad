package dsl

import (
	"reflect"
	"testing"

	"github.com/forkhestra/forkhestra/internal/chainspec"
)

func TestParseSingleStep(t *testing.T) {
	steps, err := Parse("planner")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []chainspec.Step{{Agent: "planner", Loop: false, MaxIterations: 1}}
	if len(steps) != 1 || !reflect.DeepEqual(steps[0], want[0]) {
		t.Fatalf("got %+v, want %+v", steps, want)
	}
}

func TestParseLoopingStep(t *testing.T) {
	steps, err := Parse("worker:5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(steps) != 1 || !steps[0].Loop || steps[0].MaxIterations != 5 {
		t.Fatalf("got %+v", steps)
	}
}

func TestParseChain(t *testing.T) {
	steps, err := Parse("planner -> builder:3 -> reviewer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(steps) != 3 {
		t.Fatalf("got %d steps, want 3", len(steps))
	}
	if steps[1].Agent != "builder" || steps[1].MaxIterations != 3 {
		t.Fatalf("got %+v", steps[1])
	}
}

func TestParseWhitespaceInsensitive(t *testing.T) {
	a, err := Parse("planner -> builder : 3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Parse("planner->builder:3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if Serialize(a) != Serialize(b) {
		t.Fatalf("whitespace should not change result: %q vs %q", Serialize(a), Serialize(b))
	}
}

func TestParseErrors(t *testing.T) {
	cases := []string{
		"",
		"   ",
		"a:0",
		"a -> -> b",
		"a:x",
		"1abc",
		"-> a",
		"a ->",
	}
	for _, c := range cases {
		t.Run(c, func(t *testing.T) {
			if _, err := Parse(c); err == nil {
				t.Fatalf("expected ParseError for %q", c)
			}
		})
	}
}

func TestParseRoundTrip(t *testing.T) {
	inputs := []string{"a", "a:1", "planner -> builder:2 -> reviewer"}
	for _, in := range inputs {
		steps, err := Parse(in)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		// re-parsing the serialized form must produce the same steps
		steps2, err := Parse(Serialize(steps))
		if err != nil {
			t.Fatalf("re-parse %q: %v", Serialize(steps), err)
		}
		if len(steps) != len(steps2) {
			t.Fatalf("round trip length mismatch for %q", in)
		}
		for i := range steps {
			if !reflect.DeepEqual(steps[i], steps2[i]) {
				t.Fatalf("round trip mismatch at %d for %q: %+v vs %+v", i, in, steps[i], steps2[i])
			}
		}
	}
}
