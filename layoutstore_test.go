package stage

import (
	"errors"
	"testing"
)

type mapLoader struct {
	docs  map[string]*LayoutDescriptor
	loads int
}

func (m *mapLoader) LoadLayout(key string) (*LayoutDescriptor, error) {
	m.loads++
	d, ok := m.docs[key]
	if !ok {
		return nil, ErrLayoutNotFound
	}
	return d, nil
}

func TestLayoutStoreCachedIsSynchronous(t *testing.T) {
	s := NewLayoutStore(nil, nil)
	want := &LayoutDescriptor{Objects: []ObjectSpec{NewObjectSpec("a")}}
	s.Put("A", want)

	var got *LayoutDescriptor
	s.Fetch("A", func(d *LayoutDescriptor, err error) { got = d })
	if got != want {
		t.Error("cached fetch should deliver before returning")
	}
}

func TestLayoutStoreUncachedIsDeferred(t *testing.T) {
	l := &mapLoader{docs: map[string]*LayoutDescriptor{"A": {Objects: []ObjectSpec{}}}}
	s := NewLayoutStore(l, nil)

	calls := 0
	s.Fetch("A", func(*LayoutDescriptor, error) { calls++ })
	s.Fetch("A", func(*LayoutDescriptor, error) { calls++ })
	if calls != 0 {
		t.Fatal("uncached fetch delivered synchronously")
	}
	if s.Pending() != 1 {
		t.Errorf("Pending = %d, want 1 (coalesced)", s.Pending())
	}
	if n := s.Update(); n != 1 {
		t.Errorf("Update = %d", n)
	}
	if calls != 2 || l.loads != 1 {
		t.Errorf("calls=%d loads=%d", calls, l.loads)
	}
	if !s.Has("A") {
		t.Error("loaded key should be resident")
	}
}

func TestLayoutStoreCachesAbsence(t *testing.T) {
	l := &mapLoader{}
	s := NewLayoutStore(l, nil)

	var err1, err2 error
	s.Fetch("Nope", func(_ *LayoutDescriptor, err error) { err1 = err })
	s.Update()
	s.Fetch("Nope", func(_ *LayoutDescriptor, err error) { err2 = err })

	if !errors.Is(err1, ErrLayoutNotFound) || !errors.Is(err2, ErrLayoutNotFound) {
		t.Errorf("errs = %v, %v", err1, err2)
	}
	if l.loads != 1 {
		t.Errorf("loads = %d, want 1", l.loads)
	}

	s.Evict("Nope")
	if s.Has("Nope") {
		t.Error("Evict should drop the key")
	}
}

func TestLayoutStoreFetchDuringUpdateWaits(t *testing.T) {
	l := &mapLoader{docs: map[string]*LayoutDescriptor{"A": {Objects: []ObjectSpec{}}, "B": {Objects: []ObjectSpec{}}}}
	s := NewLayoutStore(l, nil)

	gotB := false
	s.Fetch("A", func(*LayoutDescriptor, error) {
		s.Fetch("B", func(*LayoutDescriptor, error) { gotB = true })
	})
	s.Update()
	if gotB {
		t.Fatal("fetch queued from a callback should wait for the next update")
	}
	s.Update()
	if !gotB {
		t.Error("B not delivered")
	}
}
