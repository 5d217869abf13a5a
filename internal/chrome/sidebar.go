package chrome

import (
	"strings"
	"sync"

	"github.com/msto63/leitstand/foundation/utils/mapx"
	"github.com/msto63/leitstand/internal/i18n"
	"github.com/msto63/leitstand/internal/theme"
	"github.com/msto63/leitstand/internal/view"
	"github.com/msto63/leitstand/pkg/core/logging"
)

// ExpansionKey is the store key of the expansion map.
const ExpansionKey = "sidebar.expanded"

// Indicator glyphs of a group header.
const (
	GlyphExpanded  = "▾"
	GlyphCollapsed = "▸"
)

// Store persists the expansion map.
type Store interface {
	GetJSON(key string, target any) bool
	SetJSON(key string, value any) bool
}

// SidebarOptions configures a Sidebar.
type SidebarOptions struct {
	Region *view.Region
	Groups []Group
	Store  Store
	Logger *logging.Logger
}

// cursor points at a group header (item < 0) or one of its items.
type cursor struct {
	group int
	item  int
}

// Sidebar renders the navigation groups. Each group is one block of the
// region so that toggling a group patches only that block.
type Sidebar struct {
	region *view.Region
	groups []Group
	store  Store
	logger *logging.Logger

	mu       sync.Mutex
	att      attachment
	active   string
	cursor   cursor
	memory   map[string]bool
	attached bool
}

// NewSidebar creates a sidebar. Without a store the expansion map lives in
// memory only.
func NewSidebar(opts SidebarOptions) *Sidebar {
	s := &Sidebar{
		region: opts.Region,
		groups: opts.Groups,
		store:  opts.Store,
		logger: opts.Logger,
		cursor: cursor{item: -1},
		memory: make(map[string]bool),
	}
	if s.region == nil {
		s.region = view.NewRegion("sidebar")
	}
	if len(s.groups) == 0 {
		s.groups = DefaultGroups()
	}
	if s.logger == nil {
		s.logger = logging.New("sidebar")
	}
	s.att = newAttachment(s.Rebuild)
	return s
}

// Region returns the region the sidebar renders into.
func (s *Sidebar) Region() *view.Region {
	return s.region
}

// Attach subscribes to route and language changes. A previous attachment is
// released first.
func (s *Sidebar) Attach(routes RouteSource, languages LanguageSource) {
	s.Detach()
	s.mu.Lock()
	s.att.attach(routes, languages)
	s.attached = true
	s.mu.Unlock()
}

// Detach removes exactly the listeners added by Attach.
func (s *Sidebar) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.attached {
		return
	}
	s.att.detach()
	s.attached = false
}

func (s *Sidebar) sources() (RouteSource, i18n.TranslateFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.att.routes, translateOrKey(s.att.languages)
}

// expansion reads the persisted map. Missing groups are collapsed.
func (s *Sidebar) expansion() map[string]bool {
	if s.store == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		return mapx.Clone(s.memory)
	}
	m := make(map[string]bool)
	if !s.store.GetJSON(ExpansionKey, &m) || m == nil {
		m = make(map[string]bool)
	}
	return m
}

func (s *Sidebar) saveExpansion(m map[string]bool) {
	if s.store == nil {
		s.mu.Lock()
		s.memory = m
		s.mu.Unlock()
		return
	}
	if !s.store.SetJSON(ExpansionKey, m) {
		s.logger.Warn("failed to persist sidebar expansion")
	}
}

// Expanded reports whether group id is open.
func (s *Sidebar) Expanded(id string) bool {
	return s.expansion()[id]
}

// Rebuild renders every group from the persisted expansion map.
func (s *Sidebar) Rebuild() {
	routes, t := s.sources()
	active := ""
	if routes != nil {
		active = routes.CurrentRoute().Path()
	}
	expanded := s.expansion()

	s.mu.Lock()
	if routes != nil {
		s.active = active
	}
	s.clampCursor(expanded)
	blocks := make([]view.Block, len(s.groups))
	for i, g := range s.groups {
		blocks[i] = view.Block{ID: g.ID, Content: s.renderGroup(i, expanded[g.ID], t)}
	}
	s.mu.Unlock()

	s.region.SetBlocks(blocks)
}

// Toggle flips group id, persists the map and patches only that group's
// block. It returns the new state; unknown groups are ignored.
func (s *Sidebar) Toggle(id string) bool {
	index := s.groupIndex(id)
	if index < 0 {
		s.logger.Debug("ignoring toggle of unknown group", "group", id)
		return false
	}

	expanded := s.expansion()
	expanded[id] = !expanded[id]
	s.saveExpansion(expanded)

	s.patch([]int{index}, expanded)
	return expanded[id]
}

func (s *Sidebar) groupIndex(id string) int {
	for i, g := range s.groups {
		if g.ID == id {
			return i
		}
	}
	return -1
}

// patch re-renders the given groups in place.
func (s *Sidebar) patch(indexes []int, expanded map[string]bool) {
	_, t := s.sources()

	s.mu.Lock()
	s.clampCursor(expanded)
	contents := make([]string, len(indexes))
	for n, i := range indexes {
		contents[n] = s.renderGroup(i, expanded[s.groups[i].ID], t)
	}
	s.mu.Unlock()

	for n, i := range indexes {
		s.region.PatchBlock(s.groups[i].ID, contents[n])
	}
}

// clampCursor moves the cursor to its group header when the group is closed.
func (s *Sidebar) clampCursor(expanded map[string]bool) {
	if s.cursor.item >= 0 && !expanded[s.groups[s.cursor.group].ID] {
		s.cursor.item = -1
	}
}

func (s *Sidebar) renderGroup(index int, expanded bool, t i18n.TranslateFunc) string {
	g := s.groups[index]
	glyph := GlyphCollapsed
	if expanded {
		glyph = GlyphExpanded
	}

	lines := []string{s.mark(index, -1) + glyph + " " + theme.GroupStyle.Render(t(g.TitleKey))}
	if expanded {
		for j, item := range g.Items {
			style := theme.MenuItemStyle
			if isActive(s.active, item.Path) {
				style = theme.ActiveMenuItemStyle
			}
			lines = append(lines, s.mark(index, j)+style.Render(t(item.LabelKey)))
		}
	}
	return strings.Join(lines, "\n")
}

func (s *Sidebar) mark(group, item int) string {
	if s.cursor.group == group && s.cursor.item == item {
		return theme.CursorStyle.Render("›") + " "
	}
	return "  "
}

func isActive(current, path string) bool {
	return current == path || strings.HasPrefix(current, path+"/")
}

// visible lists the cursor positions in display order.
func (s *Sidebar) visible(expanded map[string]bool) []cursor {
	var out []cursor
	for i, g := range s.groups {
		out = append(out, cursor{group: i, item: -1})
		if expanded[g.ID] {
			for j := range g.Items {
				out = append(out, cursor{group: i, item: j})
			}
		}
	}
	return out
}

// MoveCursor moves the cursor by delta visible rows, stopping at the ends.
func (s *Sidebar) MoveCursor(delta int) {
	expanded := s.expansion()

	s.mu.Lock()
	s.clampCursor(expanded)
	rows := s.visible(expanded)
	pos := 0
	for i, c := range rows {
		if c == s.cursor {
			pos = i
			break
		}
	}
	pos += delta
	if pos < 0 {
		pos = 0
	}
	if pos >= len(rows) {
		pos = len(rows) - 1
	}
	old := s.cursor.group
	s.cursor = rows[pos]
	changed := []int{old}
	if s.cursor.group != old {
		changed = append(changed, s.cursor.group)
	}
	s.mu.Unlock()

	s.patch(changed, expanded)
}

// Select acts on the cursor row. On a group header it toggles the group and
// returns ok=false; on an item it returns the item's path.
func (s *Sidebar) Select() (path string, ok bool) {
	s.mu.Lock()
	c := s.cursor
	s.mu.Unlock()

	g := s.groups[c.group]
	if c.item < 0 {
		s.Toggle(g.ID)
		return "", false
	}
	return g.Items[c.item].Path, true
}

// ToggleAtCursor toggles the group the cursor is in.
func (s *Sidebar) ToggleAtCursor() bool {
	s.mu.Lock()
	id := s.groups[s.cursor.group].ID
	s.mu.Unlock()
	return s.Toggle(id)
}
