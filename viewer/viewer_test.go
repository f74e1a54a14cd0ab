package viewer

import (
	"errors"
	"testing"
)

func TestNewGameErrors(t *testing.T) {
	render := func() ([]byte, error) { return nil, nil }
	if _, err := newGame(0, 10, render); err == nil {
		t.Error("newGame(0, 10) succeeded")
	}
	if _, err := newGame(10, 10, nil); err == nil {
		t.Error("newGame with nil render succeeded")
	}
}

func TestUpdateRendersOnce(t *testing.T) {
	calls := 0
	g, err := newGame(2, 3, func() ([]byte, error) {
		calls++
		return make([]byte, 4*2*3), nil
	})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := g.update(); err != nil {
			t.Fatalf("update: %v", err)
		}
	}
	if calls != 1 {
		t.Errorf("render called %v times, want 1", calls)
	}
	if !g.dirty {
		t.Error("frame not marked dirty after render")
	}
	if w, h := g.Layout(800, 600); w != 2 || h != 3 {
		t.Errorf("Layout = %v,%v, want 2,3", w, h)
	}
}

func TestUpdateErrors(t *testing.T) {
	boom := errors.New("boom")
	g, err := newGame(2, 2, func() ([]byte, error) { return nil, boom })
	if err != nil {
		t.Fatal(err)
	}
	if err := g.update(); !errors.Is(err, boom) {
		t.Errorf("update = %v, want %v", err, boom)
	}

	g, err = newGame(2, 2, func() ([]byte, error) { return make([]byte, 3), nil })
	if err != nil {
		t.Fatal(err)
	}
	if err := g.update(); err == nil {
		t.Error("update accepted a short buffer")
	}
}
