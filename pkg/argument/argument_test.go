package argument

import (
	"context"
	"testing"
	"time"
)

func TestSingleWordArguments(t *testing.T) {
	tests := []struct {
		name   string
		parse  func(words []string, from int) (any, int, *Failure)
		words  []string
		from   int
		want   any
		taken  int
		failAt int
		fails  bool
	}{
		{name: "int", parse: wrap(Int()), words: []string{"4", "5"}, from: 1, want: int64(5), taken: 1},
		{name: "int negative", parse: wrap(Int()), words: []string{"-12"}, want: int64(-12), taken: 1},
		{name: "int rejects word", parse: wrap(Int()), words: []string{"cat"}, fails: true},
		{name: "int missing word", parse: wrap(Int()), words: []string{"4"}, from: 1, fails: true},
		{name: "float", parse: wrap(Float()), words: []string{"2.5"}, want: 2.5, taken: 1},
		{name: "bool yes", parse: wrap(Bool()), words: []string{"yes"}, want: true, taken: 1},
		{name: "bool off", parse: wrap(Bool()), words: []string{"OFF"}, want: false, taken: 1},
		{name: "bool rejects", parse: wrap(Bool()), words: []string{"maybe"}, fails: true},
		{name: "duration", parse: wrap(Duration()), words: []string{"5m"}, want: 5 * time.Minute, taken: 1},
		{name: "word", parse: wrap(Word()), words: []string{"hello", "there"}, want: "hello", taken: 1},
		{name: "text", parse: wrap(Text()), words: []string{"a", "b", "c"}, from: 1, want: "b c", taken: 2},
		{name: "text empty", parse: wrap(Text()), words: []string{"a"}, from: 1, fails: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, taken, failure := tt.parse(tt.words, tt.from)
			if tt.fails {
				if failure == nil {
					t.Fatalf("expected failure, got %v", got)
				}
				if failure.AtWord != tt.failAt {
					t.Fatalf("expected failure at word %d, got %d", tt.failAt, failure.AtWord)
				}
				return
			}
			if failure != nil {
				t.Fatalf("unexpected failure: %v", failure)
			}
			if got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			if taken != tt.taken {
				t.Fatalf("expected %d words taken, got %d", tt.taken, taken)
			}
		})
	}
}

func wrap[T any](arg Argument[T]) func([]string, int) (any, int, *Failure) {
	return func(words []string, from int) (any, int, *Failure) {
		r := arg.Parse(context.Background(), words, from, nil)
		return r.Value, r.WordsTaken, r.Failure
	}
}

func TestParseIsDeterministic(t *testing.T) {
	ctx := context.Background()
	arg := Or(Int(), Word())
	words := []string{"x", "42"}

	first := arg.Parse(ctx, words, 1, "ctx")
	for i := 0; i < 10; i++ {
		again := arg.Parse(ctx, words, 1, "ctx")
		if again.Value != first.Value || again.WordsTaken != first.WordsTaken || again.Ok() != first.Ok() {
			t.Fatalf("parse %d differs: %+v vs %+v", i, again, first)
		}
	}
}

func TestWithDefault(t *testing.T) {
	ctx := context.Background()
	arg := WithDefault(Int(), 7)

	r := arg.Parse(ctx, []string{"3"}, 0, nil)
	if !r.Ok() || r.Value != 3 || r.WordsTaken != 1 {
		t.Fatalf("expected pass-through success, got %+v", r)
	}

	r = arg.Parse(ctx, []string{"cat"}, 0, nil)
	if !r.Ok() || r.Value != 7 || r.WordsTaken != 0 {
		t.Fatalf("expected default with 0 words taken, got %+v", r)
	}

	r = arg.Parse(ctx, nil, 0, nil)
	if !r.Ok() || r.Value != 7 {
		t.Fatalf("expected default on missing word, got %+v", r)
	}

	if arg.Name() != "Number" {
		t.Fatalf("expected wrapped name, got %q", arg.Name())
	}
}

func TestWithDefaultNeverTakesMoreWords(t *testing.T) {
	ctx := context.Background()
	inner := Text()
	arg := WithDefault(inner, "none")

	for _, words := range [][]string{nil, {"a"}, {"a", "b"}, {"a", "b", "c"}} {
		base := inner.Parse(ctx, words, 0, nil)
		got := arg.Parse(ctx, words, 0, nil)
		limit := 0
		if base.Ok() {
			limit = base.WordsTaken
		}
		if got.WordsTaken > limit {
			t.Fatalf("words %v: default took %d, wrapped took %d", words, got.WordsTaken, limit)
		}
	}
}

func TestWithDefaultFuncUsesContext(t *testing.T) {
	arg := WithDefaultFunc(Word(), func(_ context.Context, argCtx any) string {
		return argCtx.(string)
	})

	r := arg.Parse(context.Background(), nil, 0, "from-context")
	if !r.Ok() || r.Value != "from-context" {
		t.Fatalf("expected supplied default, got %+v", r)
	}
}

func TestOptionalAndDefaultOptional(t *testing.T) {
	ctx := context.Background()

	opt := Optional(Int())
	r := opt.Parse(ctx, []string{"cat"}, 0, nil)
	if !r.Ok() || r.Value != nil || r.WordsTaken != 0 {
		t.Fatalf("expected nil success, got %+v", r)
	}
	r = opt.Parse(ctx, []string{"9"}, 0, nil)
	if !r.Ok() || r.Value == nil || *r.Value != 9 {
		t.Fatalf("expected 9, got %+v", r)
	}

	def := WithDefaultOptional(opt, 11)
	got := def.Parse(ctx, []string{"cat"}, 0, nil)
	if !got.Ok() || got.Value != 11 || got.WordsTaken != 0 {
		t.Fatalf("expected nil to be replaced by default, got %+v", got)
	}
	got = def.Parse(ctx, []string{"2"}, 0, nil)
	if !got.Ok() || got.Value != 2 || got.WordsTaken != 1 {
		t.Fatalf("expected present value to pass through, got %+v", got)
	}
}

func TestOr(t *testing.T) {
	ctx := context.Background()
	arg := Or(Int(), Bool())

	if arg.Name() != "Number or Boolean" {
		t.Fatalf("unexpected name %q", arg.Name())
	}

	r := arg.Parse(ctx, []string{"12"}, 0, nil)
	if !r.Ok() {
		t.Fatalf("expected success, got %v", r.Failure)
	}
	if v, ok := r.Value.Left(); !ok || v != 12 {
		t.Fatalf("expected left 12, got %+v", r.Value)
	}

	r = arg.Parse(ctx, []string{"yes"}, 0, nil)
	if v, ok := r.Value.Right(); !r.Ok() || !ok || !v {
		t.Fatalf("expected right true, got %+v", r)
	}

	r = arg.Parse(ctx, []string{"cat"}, 0, nil)
	if r.Ok() {
		t.Fatal("expected failure when both sides fail")
	}
	if r.Failure.Reason != "Expected true or false." {
		t.Fatalf("expected right-side failure, got %q", r.Failure.Reason)
	}
}

func TestFlatten(t *testing.T) {
	arg := Flatten(Or(Whitelist(Word(), "on", "off"), Named(Text(), "Reason")))

	r := arg.Parse(context.Background(), []string{"off"}, 0, nil)
	if !r.Ok() || r.Value != "off" || r.WordsTaken != 1 {
		t.Fatalf("expected left value, got %+v", r)
	}

	r = arg.Parse(context.Background(), []string{"not", "now"}, 0, nil)
	if !r.Ok() || r.Value != "not now" || r.WordsTaken != 2 {
		t.Fatalf("expected right value, got %+v", r)
	}
}

func TestAsAny(t *testing.T) {
	erased := AsAny(Int())
	r := erased.ParseAny(context.Background(), []string{"5"}, 0, nil)
	if !r.Ok() {
		t.Fatalf("unexpected failure: %v", r.Failure)
	}
	if v, ok := r.Value.(int64); !ok || v != 5 {
		t.Fatalf("expected int64 5, got %#v", r.Value)
	}

	r = erased.ParseAny(context.Background(), []string{"x"}, 0, nil)
	if r.Ok() || r.Failure.AtWord != 0 {
		t.Fatalf("expected failure at word 0, got %+v", r)
	}
}
