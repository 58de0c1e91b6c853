package core

import (
	"reflect"
	"testing"

	"github.com/dkeye/Relay/internal/domain"
)

func TestRoomIndexJoinLeave(t *testing.T) {
	x := NewRoomIndex()

	x.Join("x", "a")
	x.Join("x", "b")
	if !x.Contains("x", "a") || !x.Contains("x", "b") {
		t.Fatal("joined members missing from room")
	}
	if got := len(x.MembersOf("x")); got != 2 {
		t.Fatalf("member count = %d, want 2", got)
	}

	x.Leave("x", "a")
	if x.Contains("x", "a") {
		t.Error("a still member after leave")
	}
	if got := len(x.MembersOf("x")); got != 1 {
		t.Fatalf("member count = %d, want 1", got)
	}
}

func TestRoomIndexEmptyRoomIsAbsent(t *testing.T) {
	x := NewRoomIndex()

	x.Join("x", "a")
	if x.Len() != 1 {
		t.Fatalf("room count = %d, want 1", x.Len())
	}
	x.Leave("x", "a")
	if x.Len() != 0 {
		t.Fatal("empty room must be removed from the index")
	}
	if x.MembersOf("x") != nil {
		t.Fatal("absent room must report nil members")
	}

	// Recreated on demand.
	x.Join("x", "b")
	if x.Len() != 1 || !x.Contains("x", "b") {
		t.Fatal("room not recreated on join")
	}
}

func TestRoomIndexLeaveAbsent(t *testing.T) {
	x := NewRoomIndex()
	x.Leave("nope", "a") // no-op
	x.Join("x", "a")
	x.Leave("x", "ghost") // non-member no-op, room stays
	if x.Len() != 1 {
		t.Fatal("room vanished after non-member leave")
	}
}

func TestRoomIndexUsernames(t *testing.T) {
	reg := NewRegistry()
	for _, c := range []struct {
		sid  SessionID
		name string
	}{{"1", "carol"}, {"2", "alice"}, {"3", "bob"}} {
		reg.Connect(c.sid, nopConn{})
		reg.Bind(c.sid, c.name, "x")
	}

	x := NewRoomIndex()
	x.Join("x", "1")
	x.Join("x", "2")
	x.Join("x", "3")

	got := x.Usernames("x", reg)
	want := []string{"alice", "bob", "carol"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("usernames = %v, want %v", got, want)
	}

	if got := x.Usernames("absent", reg); len(got) != 0 {
		t.Fatalf("absent room usernames = %v, want empty", got)
	}
}

func TestRoomIndexList(t *testing.T) {
	x := NewRoomIndex()
	x.Join("x", "a")
	x.Join("x", "b")
	x.Join("y", "c")

	infos := x.List()
	if len(infos) != 2 {
		t.Fatalf("room count = %d, want 2", len(infos))
	}
	counts := map[domain.RoomName]int{}
	for _, info := range infos {
		counts[info.Name] = info.MemberCount
	}
	if counts["x"] != 2 || counts["y"] != 1 {
		t.Fatalf("counts = %v", counts)
	}
}
