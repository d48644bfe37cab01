package processor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"nekocmd/pkg/argument"
	"nekocmd/pkg/commands"
	"nekocmd/pkg/logger"
)

type testEvent struct {
	Text string
	Data EventData
}

var testContext = commands.NewContext[string, string, *testEvent]("test")

type testConverter struct{}

func (testConverter) Text(event string) string { return event }

func (testConverter) ToArgumentContext(_ context.Context, event string) (string, error) {
	return event, nil
}

func (testConverter) ToCommandEvent(_ context.Context, argCtx string, data EventData) (*testEvent, error) {
	return &testEvent{Text: argCtx, Data: data}, nil
}

type recordingErrors struct {
	notFound []string
	empty    int
	rejected []ArgumentsFailure[string]
	tooMany  []TooManyWords[string]
}

func (r *recordingErrors) NotFound(_ context.Context, _ string, name string) {
	r.notFound = append(r.notFound, name)
}

func (r *recordingErrors) EmptyInvocation(context.Context, string) {
	r.empty++
}

func (r *recordingErrors) RejectArgument(_ context.Context, _ string, _ *commands.Command, _ []string, failure ArgumentsFailure[string]) {
	r.rejected = append(r.rejected, failure)
}

func (r *recordingErrors) TooManyWords(_ context.Context, _ string, _ *commands.Command, result TooManyWords[string]) {
	r.tooMany = append(r.tooMany, result)
}

type fixture struct {
	proc    *Processor
	handler *BaseEventHandler[string, string, *testEvent]
	errors  *recordingErrors
}

func newFixture(t *testing.T, decl func(*commands.ModuleBuilder[string, string, *testEvent])) *fixture {
	t.Helper()

	proc := New(logger.NewNop(), Config{}, WithScheduler(Inline()))
	m, err := commands.NewModule("test-module", testContext, decl)
	if err != nil {
		t.Fatalf("NewModule failed: %v", err)
	}
	if err := proc.AddModule(m); err != nil {
		t.Fatalf("AddModule failed: %v", err)
	}

	errs := &recordingErrors{}
	handler := NewEventHandler(logger.NewNop(), testContext, testConverter{}, ErrorHandler[string, string, *testEvent](errs))
	if err := AddHandler[string](proc, handler); err != nil {
		t.Fatalf("AddHandler failed: %v", err)
	}

	return &fixture{proc: proc, handler: handler, errors: errs}
}

func (f *fixture) handle(text string) {
	f.handler.Handle(context.Background(), f.proc, text)
}

func TestZeroArgumentCommandInvokedOnce(t *testing.T) {
	calls := 0
	f := newFixture(t, func(b *commands.ModuleBuilder[string, string, *testEvent]) {
		b.Command("test", func(c *commands.CommandBuilder[string, string, *testEvent]) {
			commands.Invoke0(c, func(_ context.Context, event *testEvent) error {
				calls++
				if event.Data.Command.Name != "test" {
					t.Errorf("expected resolved command in event data, got %q", event.Data.Command.Name)
				}
				return nil
			})
		})
	})

	f.handle("test")

	if calls != 1 {
		t.Fatalf("expected 1 invocation, got %d", calls)
	}
}

func TestTwoNumberArguments(t *testing.T) {
	var got []int64
	f := newFixture(t, func(b *commands.ModuleBuilder[string, string, *testEvent]) {
		b.Command("test", func(c *commands.CommandBuilder[string, string, *testEvent]) {
			commands.Invoke2(c, argument.Int(), argument.Int(), func(_ context.Context, _ *testEvent, a, b int64) error {
				got = append(got, a, b)
				return nil
			})
		})
	})

	f.handle("test 4 5")
	if len(got) != 2 || got[0] != 4 || got[1] != 5 {
		t.Fatalf("expected [4 5], got %v", got)
	}

	f.handle("test 4")
	if len(f.errors.rejected) != 1 {
		t.Fatalf("expected one rejection, got %d", len(f.errors.rejected))
	}
	failure := f.errors.rejected[0]
	if failure.AtWord() != 1 {
		t.Fatalf("expected rejection at word 1, got %d", failure.AtWord())
	}
	if failure.ArgumentIndex != 1 || failure.Failure.Reason != argument.MissingWord {
		t.Fatalf("unexpected failure detail: %+v %v", failure, failure.Failure)
	}

	f.handle("test 4 5 6")
	if len(f.errors.tooMany) != 1 {
		t.Fatalf("expected too many words, got %d", len(f.errors.tooMany))
	}
	if f.errors.tooMany[0].WordsTaken != 2 || len(f.errors.tooMany[0].Words) != 3 {
		t.Fatalf("unexpected too many words result: %+v", f.errors.tooMany[0])
	}

	if len(got) != 2 {
		t.Fatalf("expected no further invocations, got %v", got)
	}
}

func TestAliasInvokesParentBody(t *testing.T) {
	var invokedAs []string
	f := newFixture(t, func(b *commands.ModuleBuilder[string, string, *testEvent]) {
		b.Command("test", func(c *commands.CommandBuilder[string, string, *testEvent]) {
			c.Alias("an-alias")
			commands.Invoke0(c, func(_ context.Context, event *testEvent) error {
				invokedAs = append(invokedAs, event.Data.Command.Name)
				if event.Data.Command.IsAlias() && event.Data.Command.Canonical().Name != "test" {
					t.Errorf("expected alias to point at test")
				}
				return nil
			})
		})
	})

	f.handle("an-alias")
	f.handle("test")

	if strings.Join(invokedAs, ",") != "an-alias,test" {
		t.Fatalf("unexpected invocations: %v", invokedAs)
	}
}

func TestNotFoundAndEmptyInvocation(t *testing.T) {
	f := newFixture(t, func(b *commands.ModuleBuilder[string, string, *testEvent]) {
		b.Command("test", func(c *commands.CommandBuilder[string, string, *testEvent]) {
			commands.Invoke0(c, func(context.Context, *testEvent) error { return nil })
		})
	})
	f.proc.SetPrefix(testContext, Literal("!"))

	f.handle("!missing arg")
	f.handle("!")
	f.handle("! test")
	f.handle("no prefix")

	if len(f.errors.notFound) != 1 || f.errors.notFound[0] != "missing" {
		t.Fatalf("unexpected not found calls: %v", f.errors.notFound)
	}
	if f.errors.empty != 2 {
		t.Fatalf("expected 2 empty invocations, got %d", f.errors.empty)
	}
}

func TestPrefixFunc(t *testing.T) {
	calls := 0
	f := newFixture(t, func(b *commands.ModuleBuilder[string, string, *testEvent]) {
		b.Command("ping", func(c *commands.CommandBuilder[string, string, *testEvent]) {
			commands.Invoke0(c, func(context.Context, *testEvent) error {
				calls++
				return nil
			})
		})
	})
	f.proc.SetPrefix(testContext, PrefixFunc(func(_ context.Context, event string) string {
		if strings.HasPrefix(event, "@bot ") {
			return "@bot "
		}
		return "/"
	}))

	f.handle("@bot ping")
	f.handle("/ping")
	f.handle("ping")

	if calls != 2 {
		t.Fatalf("expected 2 invocations, got %d", calls)
	}
}

func TestFiltersAbortSilently(t *testing.T) {
	calls := 0
	f := newFixture(t, func(b *commands.ModuleBuilder[string, string, *testEvent]) {
		b.Command("test", func(c *commands.CommandBuilder[string, string, *testEvent]) {
			commands.Invoke0(c, func(context.Context, *testEvent) error {
				calls++
				return nil
			})
		})
	})
	if err := AddFilter(f.proc, testContext, Filter[string](func(_ context.Context, event string) bool {
		return !strings.Contains(event, "blocked")
	})); err != nil {
		t.Fatalf("AddFilter failed: %v", err)
	}

	f.handle("test blocked")
	f.handle("unknown blocked")
	f.handle("test")

	if calls != 1 {
		t.Fatalf("expected 1 invocation, got %d", calls)
	}
	if len(f.errors.notFound) != 0 || len(f.errors.tooMany) != 0 {
		t.Fatalf("expected filtered events to produce no callbacks: %+v", f.errors)
	}
}

func TestPreconditionsRunInPriorityOrderBeforeParsing(t *testing.T) {
	var order []string
	invoked := false
	f := newFixture(t, func(b *commands.ModuleBuilder[string, string, *testEvent]) {
		b.Command("guarded", func(c *commands.CommandBuilder[string, string, *testEvent]) {
			c.Precondition("command-low", 1, func(context.Context, *testEvent) bool {
				order = append(order, "command-low")
				return true
			})
			c.Precondition("command-reject", 5, func(context.Context, *testEvent) bool {
				order = append(order, "command-reject")
				return false
			})
			commands.Invoke1(c, argument.Int(), func(context.Context, *testEvent, int64) error {
				invoked = true
				return nil
			})
		})
	})
	if err := f.proc.AddPrecondition(testContext, commands.NewPrecondition("global-high", 10,
		func(context.Context, *testEvent) bool {
			order = append(order, "global-high")
			return true
		})); err != nil {
		t.Fatalf("AddPrecondition failed: %v", err)
	}

	f.handle("guarded not-a-number")

	if strings.Join(order, ",") != "global-high,command-reject" {
		t.Fatalf("unexpected precondition order: %v", order)
	}
	if invoked {
		t.Fatal("expected command not to be invoked")
	}
	if len(f.errors.rejected) != 0 {
		t.Fatal("expected argument parsing not to run after a rejection")
	}
}

func TestHandlerErrorsDoNotEscape(t *testing.T) {
	f := newFixture(t, func(b *commands.ModuleBuilder[string, string, *testEvent]) {
		b.Command("fail", func(c *commands.CommandBuilder[string, string, *testEvent]) {
			commands.Invoke0(c, func(context.Context, *testEvent) error {
				return errors.New("boom")
			})
		})
	})

	f.handle("fail")
	f.handle("fail")
}

func TestLookupIsContextScoped(t *testing.T) {
	f := newFixture(t, func(b *commands.ModuleBuilder[string, string, *testEvent]) {})

	other := commands.NewContext[string, string, string]("other")
	m, err := commands.NewModule("other-module", other, func(b *commands.ModuleBuilder[string, string, string]) {
		b.Command("foreign", func(c *commands.CommandBuilder[string, string, string]) {
			commands.Invoke0(c, func(context.Context, string) error {
				t.Error("foreign command must not run")
				return nil
			})
		})
	})
	if err != nil {
		t.Fatalf("NewModule failed: %v", err)
	}
	if err := f.proc.AddModule(m); err != nil {
		t.Fatalf("AddModule failed: %v", err)
	}

	f.handle("foreign")

	if len(f.errors.notFound) != 1 {
		t.Fatalf("expected foreign command to be not found, got %v", f.errors.notFound)
	}
}

func TestParseArgumentsWithDefaults(t *testing.T) {
	args := []argument.Any{
		argument.AsAny(argument.Int()),
		argument.AsAny(argument.WithDefault(argument.Int(), 10)),
		argument.AsAny(argument.Text()),
	}

	result := ParseArguments(context.Background(), "ctx", []string{"1", "hello", "world"}, args)
	success, ok := result.(ArgumentsSuccess[string])
	if !ok {
		t.Fatalf("expected success, got %T", result)
	}
	if success.Items[0] != int64(1) || success.Items[1] != int64(10) || success.Items[2] != "hello world" {
		t.Fatalf("unexpected items: %v", success.Items)
	}
	if success.WordsTaken != 3 {
		t.Fatalf("expected 3 words taken, got %d", success.WordsTaken)
	}
}

func TestParseArgumentsFailureOffset(t *testing.T) {
	args := []argument.Any{
		argument.AsAny(argument.Text()),
	}
	empty := ParseArguments(context.Background(), "ctx", nil, args)
	failure, ok := empty.(ArgumentsFailure[string])
	if !ok {
		t.Fatalf("expected failure, got %T", empty)
	}
	if failure.AtWord() != 0 || failure.Argument.Name() != "Text" {
		t.Fatalf("unexpected failure: %+v", failure)
	}

	args = []argument.Any{
		argument.AsAny(argument.Word()),
		argument.AsAny(argument.Word()),
		argument.AsAny(argument.Bool()),
	}
	result := ParseArguments(context.Background(), "ctx", []string{"a", "b", "maybe"}, args)
	failure, ok = result.(ArgumentsFailure[string])
	if !ok {
		t.Fatalf("expected failure, got %T", result)
	}
	if failure.WordsTaken != 2 || failure.AtWord() != 2 || failure.ArgumentIndex != 2 {
		t.Fatalf("unexpected failure position: %+v", failure)
	}
}

func TestTokenizationIsLiteral(t *testing.T) {
	var got []string
	f := newFixture(t, func(b *commands.ModuleBuilder[string, string, *testEvent]) {
		b.Command("echo", func(c *commands.CommandBuilder[string, string, *testEvent]) {
			commands.Invoke1(c, argument.Text(), func(_ context.Context, _ *testEvent, text string) error {
				got = append(got, text)
				return nil
			})
		})
	})

	f.handle("echo a  b")

	if len(got) != 1 || got[0] != "a  b" {
		t.Fatalf("expected double space to survive as an empty word, got %q", got)
	}
}
