package gui

import (
	"hash/fnv"
	"strconv"
	"strings"
)

// ID identifies a widget across frames. The same label under the same ID
// stack yields the same ID every frame, so state survives widgets that
// are drawn conditionally.
//
// Everything from "##" on in a label is part of the ID but not printed:
// "Volume##music" and "Volume##sfx" are two widgets both showing
// "Volume", and "##hidden" shows no label.
type ID uint64

func hashID(parent ID, data string) ID {
	h := fnv.New64a()
	var seed [8]byte
	for i := range seed {
		seed[i] = byte(parent >> (8 * i))
	}
	h.Write(seed[:])
	h.Write([]byte(data))
	return ID(h.Sum64())
}

// displayLabel returns the printed part of a label.
func displayLabel(label string) string {
	if i := strings.Index(label, "##"); i >= 0 {
		return label[:i]
	}
	return label
}

// GetID returns the ID of label under the current ID stack.
// Use PushID or PushIDInt to tell identical labels apart, e.g. in loops.
func (ctx *Context) GetID(label string) ID {
	return hashID(ctx.CurrentID(), label)
}

// GetIDFromInt returns the ID of n under the current ID stack.
func (ctx *Context) GetIDFromInt(n int) ID {
	return hashID(ctx.CurrentID(), "#"+strconv.Itoa(n))
}

// PushID scopes the IDs of following widgets under label.
func (ctx *Context) PushID(label string) {
	ctx.idStack = append(ctx.idStack, ctx.GetID(label))
}

// PushIDInt scopes the IDs of following widgets under n.
func (ctx *Context) PushIDInt(n int) {
	ctx.idStack = append(ctx.idStack, ctx.GetIDFromInt(n))
}

// PopID ends the innermost PushID scope.
func (ctx *Context) PopID() {
	if n := len(ctx.idStack); n > 0 {
		ctx.idStack = ctx.idStack[:n-1]
	}
}

// CurrentID returns the innermost scope's ID, or 0 at the root.
func (ctx *Context) CurrentID() ID {
	if n := len(ctx.idStack); n > 0 {
		return ctx.idStack[n-1]
	}
	return 0
}
