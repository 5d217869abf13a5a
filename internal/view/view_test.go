package view

import "testing"

func TestRegionReplace(t *testing.T) {
	r := NewRegion("main")
	if r.Content() != "" || r.Version() != 0 {
		t.Fatalf("new region not empty: %q v%d", r.Content(), r.Version())
	}

	r.Replace("hello")
	r.Replace("world")

	if r.Content() != "world" {
		t.Errorf("Content() = %q", r.Content())
	}
	if r.Version() != 2 {
		t.Errorf("Version() = %d, want 2", r.Version())
	}
	if rebuilds, patches := r.Counts(); rebuilds != 2 || patches != 0 {
		t.Errorf("Counts() = %d, %d", rebuilds, patches)
	}
}

func TestRegionPatchBlock(t *testing.T) {
	r := NewRegion("sidebar")
	blocks := []Block{{ID: "a", Content: "A"}, {ID: "b", Content: "B"}}
	r.SetBlocks(blocks)
	blocks[0].Content = "mutated"

	if r.Content() != "A\nB" {
		t.Fatalf("Content() = %q, SetBlocks must copy", r.Content())
	}

	if !r.PatchBlock("b", "B2") {
		t.Fatal("PatchBlock(b) failed")
	}
	if r.PatchBlock("missing", "x") {
		t.Error("PatchBlock(missing) should fail")
	}
	if got, _ := r.Block("b"); got != "B2" {
		t.Errorf("Block(b) = %q", got)
	}
	if r.Content() != "A\nB2" {
		t.Errorf("Content() = %q", r.Content())
	}
	if rebuilds, patches := r.Counts(); rebuilds != 1 || patches != 1 {
		t.Errorf("Counts() = %d, %d", rebuilds, patches)
	}
}
