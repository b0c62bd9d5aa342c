package app

import (
	"context"
	"testing"

	"github.com/agbru/fibgrade/internal/config"
	"github.com/agbru/fibgrade/internal/fib"
	"github.com/agbru/fibgrade/internal/reference"
	"github.com/agbru/fibgrade/internal/student"
	"github.com/agbru/fibgrade/internal/trace"
)

func TestBuildReferences(t *testing.T) {
	refs, err := buildReferences([]string{"iter", "memo", "naive"}, 30)
	if err != nil {
		t.Fatalf("buildReferences failed: %v", err)
	}

	want := []string{"fib-iterative", "fib-memoized", "fib-naive"}
	if len(refs) != len(want) {
		t.Fatalf("got %d references, want %d", len(refs), len(want))
	}
	for i, ref := range refs {
		if ref.Name() != want[i] {
			t.Errorf("refs[%d].Name() = %q, want %q", i, ref.Name(), want[i])
		}
	}
}

func TestBuildReferences_UnknownKey(t *testing.T) {
	if _, err := buildReferences([]string{"warp"}, 30); err == nil {
		t.Error("expected an error for a calculator without a bundled reference")
	}
}

func TestBundledReference_AnnotationCounts(t *testing.T) {
	tests := []struct {
		key        string
		profileMax int
		wantAnns   int
	}{
		{"iter", 30, 2},
		{"memo", 30, 2},
		{"naive", 30, 1},
		// A profile too short to reach index 2 drops the value assertion.
		{"iter", 1, 1},
	}

	for _, tt := range tests {
		ref, err := bundledReference(tt.key, tt.profileMax)
		if err != nil {
			t.Fatalf("bundledReference(%q, %d) failed: %v", tt.key, tt.profileMax, err)
		}
		if got := len(ref.Annotations()); got != tt.wantAnns {
			t.Errorf("bundledReference(%q, %d) has %d annotations, want %d",
				tt.key, tt.profileMax, got, tt.wantAnns)
		}
	}
}

// traceKey records a cold run of the keyed calculator over 0..limit,
// mirroring what the grading pipeline does.
func traceKey(t *testing.T, key string, limit int) *student.Implementation {
	t.Helper()
	a := &Application{Factory: fib.NewDefaultFactory()}
	impl, err := student.Record("test", func(c *trace.Collector) error {
		for n := 0; n <= limit; n++ {
			calc := a.profileCalculator(key)
			if _, err := c.Bracket(key, n, func(obs fib.Observer) error {
				_, err := calc.Calculate(context.Background(), n, obs)
				return err
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("tracing %q failed: %v", key, err)
	}
	return impl
}

func TestBundledReference_SatisfiedByTrace(t *testing.T) {
	tests := []struct {
		key   string
		limit int
	}{
		{"iter", 12},
		{"memo", 12},
		{"naive", 12},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			ref, err := bundledReference(tt.key, tt.limit)
			if err != nil {
				t.Fatalf("bundledReference failed: %v", err)
			}

			impl := traceKey(t, tt.key, tt.limit)
			res := impl.CheckAgainst(ref)

			if !res.Correct() {
				t.Errorf("trace should satisfy %s, unsatisfied: %+v",
					ref.Name(), res.Unsatisfied())
			}
		})
	}
}

func TestBundledReference_WrongCalculatorFails(t *testing.T) {
	// A naive trace does not produce linear step counts, so grading it
	// against the iterative reference must fail.
	ref, err := bundledReference("iter", 12)
	if err != nil {
		t.Fatalf("bundledReference failed: %v", err)
	}

	impl, err := student.Record("test", func(c *trace.Collector) error {
		naive := &fib.Naive{}
		for n := 0; n <= 12; n++ {
			if _, err := c.Bracket("iter", n, func(obs fib.Observer) error {
				_, err := naive.Calculate(context.Background(), n, obs)
				return err
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("tracing failed: %v", err)
	}

	if res := impl.CheckAgainst(ref); res.Correct() {
		t.Error("a naive trace should not satisfy the iterative reference")
	}
}

func TestDemoSequence(t *testing.T) {
	seq := demoSequence(10)
	if len(seq) != 11 {
		t.Fatalf("len = %d, want 11", len(seq))
	}
	if seq[0].Int64() != 0 || seq[1].Int64() != 1 || seq[10].Int64() != 55 {
		t.Errorf("sequence endpoints wrong: F(0)=%s, F(1)=%s, F(10)=%s", seq[0], seq[1], seq[10])
	}
}

func TestDemoCache(t *testing.T) {
	cache := demoCache(10)
	if len(cache) != 9 {
		t.Fatalf("len = %d, want 9 (indices 2..10)", len(cache))
	}
	if _, ok := cache[0]; ok {
		t.Error("base case 0 should not be cached")
	}
	if _, ok := cache[1]; ok {
		t.Error("base case 1 should not be cached")
	}
	if cache[10].Int64() != 55 {
		t.Errorf("cache[10] = %s, want 55", cache[10])
	}
}

func configWithAlgo(algo string) config.AppConfig {
	return config.AppConfig{Algo: algo}
}

func TestApplication_ProfiledKeys(t *testing.T) {
	factory := fib.NewDefaultFactory()

	all := &Application{Config: configWithAlgo("all"), Factory: factory}
	if got := all.profiledKeys(); len(got) != 3 {
		t.Errorf("profiledKeys(all) = %v, want the full registry", got)
	}

	single := &Application{Config: configWithAlgo("memo"), Factory: factory}
	if got := single.profiledKeys(); len(got) != 1 || got[0] != "memo" {
		t.Errorf("profiledKeys(memo) = %v, want [memo]", got)
	}
}

func TestApplication_LoadReferences_FromFile(t *testing.T) {
	refs, err := buildReferences([]string{"memo"}, 12)
	if err != nil {
		t.Fatalf("buildReferences failed: %v", err)
	}
	path := t.TempDir() + "/refs.json"
	if err := reference.Save(path, refs); err != nil {
		t.Fatalf("reference.Save failed: %v", err)
	}

	a := &Application{Factory: fib.NewDefaultFactory()}
	a.Config.RefsFile = path

	loaded, err := a.loadReferences([]string{"iter"})
	if err != nil {
		t.Fatalf("loadReferences failed: %v", err)
	}
	if len(loaded) != 1 || loaded[0].Name() != "fib-memoized" {
		t.Errorf("loaded %v, want the saved memoized reference", loaded)
	}
}
