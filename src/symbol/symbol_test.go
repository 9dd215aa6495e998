package symbol

import "testing"

func TestInternFirstHandleIsOne(t *testing.T) {
	s := NewSession()
	a := s.Intern("main")
	if a.id != 1 {
		t.Fatalf("expected the first interned string to receive handle 1, got %d", a.id)
	}
}

func TestInternSameStringSameHandle(t *testing.T) {
	s := NewSession()
	a := s.Intern("x")
	b := s.Intern("y")
	c := s.Intern("x")
	if !a.Equal(c) {
		t.Fatal("interning the same string twice must yield equal handles")
	}
	if a.Equal(b) {
		t.Fatal("distinct strings must yield distinct handles")
	}
	if s.Name(a) != "x" || s.Name(b) != "y" {
		t.Fatal("Name must return the original interned bytes")
	}
}

func TestWithSessionNestingReusesSession(t *testing.T) {
	WithSession(func(outer *Session) {
		a := outer.Intern("shared")
		WithSession(func(inner *Session) {
			if inner != outer {
				t.Fatal("nested WithSession must reuse the active session")
			}
			b := inner.Intern("shared")
			if !a.Equal(b) {
				t.Fatal("the nested session must see the outer session's interned strings")
			}
		})
	})
}

func TestInternConcurrent(t *testing.T) {
	s := NewSession()
	done := make(chan Symbol, 16)
	for i := 0; i < 16; i++ {
		go func() {
			done <- s.Intern("contended")
		}()
	}
	first := <-done
	for i := 1; i < 16; i++ {
		if got := <-done; !got.Equal(first) {
			t.Fatal("concurrent interns of one string must agree on the handle")
		}
	}
}
