package guibridge_test

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/go-theft-auto/guibridge"
	"github.com/go-theft-auto/guibridge/gui"
)

func TestMailboxTakeMoves(t *testing.T) {
	m := guibridge.NewMailbox()
	if m.Take() != nil {
		t.Fatal("empty mailbox returned a packet")
	}
	p := &guibridge.FramePacket{Removes: []gui.TextureID{3}}
	m.Post(p)
	if got := m.Take(); got != p {
		t.Fatalf("expected posted packet, got %+v", got)
	}
	if m.Take() != nil {
		t.Error("packet taken twice")
	}
	m.Post(nil)
	if m.Take() != nil {
		t.Error("nil post must be ignored")
	}
}

func TestMailboxMergesUnconsumed(t *testing.T) {
	ctx := newContext(t)
	older := frame(t, ctx, nil)
	newer := frame(t, ctx, nil)

	m := guibridge.NewMailbox()
	m.Post(&guibridge.FramePacket{
		Snapshot: older,
		Rebuild:  &guibridge.Rebuild{Scale: 1},
		Removes:  []gui.TextureID{2},
		Adds:     []guibridge.TextureAdd{{ID: 3}, {ID: 4}},
	})
	m.Post(&guibridge.FramePacket{
		Snapshot: newer,
		Removes:  []gui.TextureID{4},
		Adds:     []guibridge.TextureAdd{{ID: 5}},
	})

	p := m.Take()
	if p.Snapshot != newer {
		t.Error("newer snapshot must win")
	}
	if p.Rebuild == nil {
		t.Error("older rebuild must survive a merge")
	}
	if !slices.Equal(p.Removes, []gui.TextureID{2, 4}) {
		t.Errorf("expected removes [2 4], got %v", p.Removes)
	}
	// The removal of 4 cancels its add when the renderer applies the batch.
	if got := addIDs(p); !slices.Equal(got, []gui.TextureID{3, 4, 5}) {
		t.Errorf("expected adds [3 4 5], got %v", got)
	}
}

func TestMailboxKeepsOlderSnapshot(t *testing.T) {
	ctx := newContext(t)
	snap := frame(t, ctx, nil)

	m := guibridge.NewMailbox()
	m.Post(&guibridge.FramePacket{Snapshot: snap})
	m.Post(&guibridge.FramePacket{Removes: []gui.TextureID{2}})

	if p := m.Take(); p.Snapshot != snap {
		t.Error("a packet without a snapshot keeps the older one")
	}
}

func TestMailboxRebuildDropsOlderSnapshot(t *testing.T) {
	ctx := newContext(t)
	snap := frame(t, ctx, nil)

	m := guibridge.NewMailbox()
	m.Post(&guibridge.FramePacket{
		Snapshot: snap,
		Removes:  []gui.TextureID{2},
		Adds:     []guibridge.TextureAdd{{ID: 3}},
	})
	rb := &guibridge.Rebuild{Scale: 2}
	m.Post(&guibridge.FramePacket{Rebuild: rb, Removes: []gui.TextureID{3}, Adds: []guibridge.TextureAdd{{ID: 4}}})

	p := m.Take()
	if p.Rebuild != rb {
		t.Error("expected the newer rebuild")
	}
	if p.Snapshot != nil {
		t.Error("a snapshot from before the rebuild must not be painted")
	}
	if !slices.Equal(p.Removes, []gui.TextureID{2, 3}) {
		t.Errorf("expected removes [2 3], got %v", p.Removes)
	}
	if got := addIDs(p); !slices.Equal(got, []gui.TextureID{3, 4}) {
		t.Errorf("expected adds [3 4], got %v", got)
	}
}

func addIDs(p *guibridge.FramePacket) []gui.TextureID {
	var ids []gui.TextureID
	for _, a := range p.Adds {
		ids = append(ids, a.ID)
	}
	return ids
}

func TestMailboxWait(t *testing.T) {
	m := guibridge.NewMailbox()

	cctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := m.Wait(cctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	want := &guibridge.FramePacket{}
	go func() {
		time.Sleep(10 * time.Millisecond)
		m.Post(want)
	}()
	wctx, wcancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer wcancel()
	got, err := m.Wait(wctx)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Error("Wait returned a different packet")
	}
}
