package guibridge

import "context"

// Mailbox hands frame packets from the update goroutine to the render
// goroutine. It holds at most one packet; posting over an unconsumed one
// merges the two so no texture operation is lost.
//
// Post has a single producer; Take and Wait a single consumer.
type Mailbox struct {
	ch chan *FramePacket
}

// NewMailbox returns an empty mailbox.
func NewMailbox() *Mailbox {
	return &Mailbox{ch: make(chan *FramePacket, 1)}
}

// Post delivers p, merging it with any packet the consumer has not taken.
func (m *Mailbox) Post(p *FramePacket) {
	if p == nil {
		return
	}
	for {
		select {
		case m.ch <- p:
			return
		default:
		}
		select {
		case old := <-m.ch:
			p = merge(old, p)
			logger().Debug("mailbox merged unconsumed packet")
		default:
		}
	}
}

// Take moves the pending packet out, or returns nil.
func (m *Mailbox) Take() *FramePacket {
	select {
	case p := <-m.ch:
		return p
	default:
		return nil
	}
}

// Wait blocks until a packet arrives or ctx is done.
func (m *Mailbox) Wait(ctx context.Context) (*FramePacket, error) {
	select {
	case p := <-m.ch:
		return p, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
