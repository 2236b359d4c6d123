package di

import (
	"errors"
	"testing"
)

type widget struct{ name string }

type greeter interface{ Greet() string }

type englishGreeter struct{}

func (englishGreeter) Greet() string { return "hello" }

func TestRegisterResolve(t *testing.T) {
	c := New()
	Register(c, &widget{name: "w"})

	got, err := Resolve[*widget](c)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got.name != "w" {
		t.Errorf("Resolve() = %+v", got)
	}
}

func TestResolve_InterfaceType(t *testing.T) {
	c := New()
	Register[greeter](c, englishGreeter{})

	g, err := Resolve[greeter](c)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if g.Greet() != "hello" {
		t.Errorf("Greet() = %q", g.Greet())
	}
}

func TestResolve_MissingRegistration(t *testing.T) {
	c := New()

	if _, err := Resolve[*widget](c); err == nil {
		t.Fatal("Resolve() on empty container succeeded")
	}
}

func TestRegister_ReplacesPrevious(t *testing.T) {
	c := New()
	Register(c, &widget{name: "old"})
	Register(c, &widget{name: "new"})

	got, err := Resolve[*widget](c)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got.name != "new" {
		t.Errorf("Resolve() = %q, want the replacement", got.name)
	}
}

func TestMustResolve_PanicsWhenMissing(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustResolve() did not panic on a missing registration")
		}
	}()
	MustResolve[*widget](New())
}

func TestClose_ReverseOrder(t *testing.T) {
	c := New()

	var order []string
	c.OnClose(func() error { order = append(order, "first"); return nil })
	c.OnClose(func() error { order = append(order, "second"); return nil })
	c.OnClose(func() error { order = append(order, "third"); return nil })

	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if len(order) != 3 || order[0] != "third" || order[2] != "first" {
		t.Errorf("teardown order = %v, want reverse registration order", order)
	}
}

func TestClose_CollectsErrorsAndIsIdempotent(t *testing.T) {
	c := New()

	boom := errors.New("flush failed")
	calls := 0
	c.OnClose(func() error { calls++; return boom })
	c.OnClose(func() error { calls++; return nil })

	if err := c.Close(); !errors.Is(err, boom) {
		t.Fatalf("Close() error = %v, want %v", err, boom)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
	if calls != 2 {
		t.Errorf("hooks ran %d times, want 2", calls)
	}
}

func TestKeys_Sorted(t *testing.T) {
	c := New()
	Register(c, &widget{})
	Register[greeter](c, englishGreeter{})

	keys := c.Keys()
	if len(keys) != 2 {
		t.Fatalf("Keys() = %v", keys)
	}
	for i := 1; i < len(keys); i++ {
		if keys[i-1] > keys[i] {
			t.Errorf("Keys() not sorted: %v", keys)
		}
	}
}
