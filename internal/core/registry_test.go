package core

import (
	"testing"

	"github.com/dkeye/Relay/internal/domain"
)

type nopConn struct{}

func (nopConn) TrySend(Frame) error { return nil }
func (nopConn) Close()              {}

func TestRegistryConnectAndGet(t *testing.T) {
	reg := NewRegistry()

	if _, ok := reg.Get("a"); ok {
		t.Fatal("expected no session before Connect")
	}

	reg.Connect("a", nopConn{})
	sess, ok := reg.Get("a")
	if !ok {
		t.Fatal("expected session after Connect")
	}
	if sess.Joined() {
		t.Error("fresh session must not be joined")
	}
	if sess.Conn == nil {
		t.Error("fresh session must carry its connection")
	}
}

func TestRegistryBindOverwrites(t *testing.T) {
	reg := NewRegistry()
	reg.Connect("a", nopConn{})

	if _, ok := reg.Bind("a", "alice", "x"); !ok {
		t.Fatal("bind on connected session failed")
	}
	sess, _ := reg.Get("a")
	if sess.Username != "alice" || sess.Room != domain.RoomName("x") {
		t.Fatalf("got %q in %q, want alice in x", sess.Username, sess.Room)
	}

	// Rebinding relocates in place, it does not recreate the session.
	if _, ok := reg.Bind("a", "alice2", "y"); !ok {
		t.Fatal("rebind failed")
	}
	sess2, _ := reg.Get("a")
	if sess2 != sess {
		t.Error("rebind must mutate the existing session")
	}
	if sess2.Username != "alice2" || sess2.Room != domain.RoomName("y") {
		t.Fatalf("got %q in %q after rebind", sess2.Username, sess2.Room)
	}
}

func TestRegistryBindUnknownSID(t *testing.T) {
	reg := NewRegistry()
	if _, ok := reg.Bind("ghost", "alice", "x"); ok {
		t.Fatal("bind must fail for a connection that never announced itself")
	}
}

func TestRegistryUnbindKeepsConnection(t *testing.T) {
	reg := NewRegistry()
	reg.Connect("a", nopConn{})
	reg.Bind("a", "alice", "x")

	reg.Unbind("a")
	sess, ok := reg.Get("a")
	if !ok {
		t.Fatal("unbind must not drop the session")
	}
	if sess.Joined() || sess.Username != "" {
		t.Errorf("unbind must clear join state, got %q in %q", sess.Username, sess.Room)
	}
	if sess.Conn == nil {
		t.Error("unbind must keep the transport connection")
	}
}

func TestRegistryDrop(t *testing.T) {
	reg := NewRegistry()
	reg.Connect("a", nopConn{})
	reg.Drop("a")
	if _, ok := reg.Get("a"); ok {
		t.Fatal("expected no session after Drop")
	}
	if reg.Len() != 0 {
		t.Fatalf("expected empty registry, got %d", reg.Len())
	}
	// Dropping twice is harmless.
	reg.Drop("a")
}
