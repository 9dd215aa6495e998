// Package symbol implements identifier interning for a compilation session.
//
// A Session is a mutex-guarded struct owned by one compiler run. The
// garbage collector owns the interned strings once they are copied in, so
// there is no arena to manage beyond dropping the session itself.
package symbol

import (
	"fmt"
	"sync"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Symbol is an opaque interned-string handle. Two Symbols compare equal iff
// the underlying strings are byte-equal. The zero value is not a valid
// Symbol; Session.Intern never returns it.
//
// The handle caches the source text alongside the integer id: AST and IR
// nodes print and compare identifiers constantly, and a session round trip
// per Name() call would make debug dumps and error messages awkward to
// write without threading a *Session everywhere. Equality is still decided
// purely by id.
type Symbol struct {
	id   int
	name string
}

// Session owns the interner for the duration of a compilation. It is safe
// for concurrent use: the type checker's parallel per-function fan-out
// interns identifiers from multiple goroutines.
type Session struct {
	mx     sync.Mutex
	names  []string       // index i holds the name for Symbol{id: i+1}.
	lookup map[string]int // name -> id.
}

// ---------------------
// ----- Functions -----
// ---------------------

// NewSession returns a fresh, empty interning session.
func NewSession() *Session {
	return &Session{
		names:  make([]string, 0, 64),
		lookup: make(map[string]int, 64),
	}
}

// Intern returns the Symbol for name, interning it if this is the first
// occurrence. Intern is safe to call concurrently.
func (s *Session) Intern(name string) Symbol {
	s.mx.Lock()
	defer s.mx.Unlock()
	if id, ok := s.lookup[name]; ok {
		return Symbol{id: id, name: name}
	}
	s.names = append(s.names, name)
	id := len(s.names)
	s.lookup[name] = id
	return Symbol{id: id, name: name}
}

// Name returns the original string for sym. It panics if sym's handle is
// out of range for this Session (such as the zero Symbol), since that
// indicates a session lifetime bug in the caller rather than a recoverable
// condition. A handle from another Session whose id happens to be in range
// is not detected.
func (s *Session) Name(sym Symbol) string {
	s.mx.Lock()
	defer s.mx.Unlock()
	if sym.id < 1 || sym.id > len(s.names) {
		panic(fmt.Sprintf("symbol: handle %d does not belong to this session", sym.id))
	}
	return s.names[sym.id-1]
}

// String returns the interned text without requiring the caller to hold
// the owning Session.
func (sym Symbol) String() string {
	if sym.name == "" {
		return fmt.Sprintf("#%d", sym.id)
	}
	return sym.name
}

// Equal reports whether two symbols are the same interned handle.
func (sym Symbol) Equal(other Symbol) bool {
	return sym.id == other.id
}

// -------------------------------
// ----- Session acquisition -----
// -------------------------------

var (
	current   *Session
	currentMx sync.Mutex
)

// WithSession runs f with a process-wide session established, creating one
// first if none is active. Nested calls reuse the running session rather
// than shadowing it; the arena is torn down (dropped for garbage collection)
// when the outermost WithSession returns.
func WithSession(f func(*Session)) {
	currentMx.Lock()
	if current != nil {
		s := current
		currentMx.Unlock()
		f(s)
		return
	}
	s := NewSession()
	current = s
	currentMx.Unlock()

	defer func() {
		currentMx.Lock()
		current = nil
		currentMx.Unlock()
	}()
	f(s)
}
