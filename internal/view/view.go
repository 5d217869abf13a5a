// Package view provides the replaceable content regions the shell renders
// into: the header, the sidebar and the main page area.
package view

import (
	"strings"
	"sync"
)

// Container is the target of a renderer. Replace swaps the whole content.
type Container interface {
	Replace(content string)
}

// Block is a named part of a region that can be patched on its own.
type Block struct {
	ID      string
	Content string
}

// Region is a Container made of ordered blocks. Replace and SetBlocks are
// full rebuilds, PatchBlock changes one block in place.
type Region struct {
	name string

	mu       sync.RWMutex
	blocks   []Block
	version  uint64
	rebuilds int
	patches  int
}

// NewRegion creates an empty region.
func NewRegion(name string) *Region {
	return &Region{name: name}
}

// Name returns the region name.
func (r *Region) Name() string {
	return r.name
}

// Replace sets content as the only block.
func (r *Region) Replace(content string) {
	r.SetBlocks([]Block{{Content: content}})
}

// SetBlocks replaces every block.
func (r *Region) SetBlocks(blocks []Block) {
	cp := make([]Block, len(blocks))
	copy(cp, blocks)

	r.mu.Lock()
	r.blocks = cp
	r.version++
	r.rebuilds++
	r.mu.Unlock()
}

// PatchBlock replaces the content of block id. It reports false if the
// region has no such block.
func (r *Region) PatchBlock(id, content string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.blocks {
		if r.blocks[i].ID == id {
			r.blocks[i].Content = content
			r.version++
			r.patches++
			return true
		}
	}
	return false
}

// Block returns the content of block id.
func (r *Region) Block(id string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, b := range r.blocks {
		if b.ID == id {
			return b.Content, true
		}
	}
	return "", false
}

// Content returns all blocks joined by newlines.
func (r *Region) Content() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	parts := make([]string, len(r.blocks))
	for i, b := range r.blocks {
		parts[i] = b.Content
	}
	return strings.Join(parts, "\n")
}

// Version increases with every change.
func (r *Region) Version() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}

// Counts returns how many full rebuilds and block patches were applied.
func (r *Region) Counts() (rebuilds, patches int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rebuilds, r.patches
}
