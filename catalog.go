package ugmirror

import "context"

// RootNodeIndex is the arena index of the synthetic root node.
const RootNodeIndex = 0

// ChapterNode is one chapter of a user guide. Nodes live in a ChapterTree
// arena; Parent and Children are arena indices, not pointers, so the graph is
// acyclic by construction.
type ChapterNode struct {
	// ID is unique across the whole tree. The synthetic root uses the
	// manual's topic ID.
	ID string

	// Title is the chapter label shown in the navigation tree.
	Title string

	// LinkTarget is the remote content key for leaf chapters. Empty when
	// the chapter has no content of its own.
	LinkTarget string

	// Parent is the arena index of the parent node; -1 for the root.
	Parent int

	// Children holds arena indices in the order returned by the catalog.
	Children []int
}

// ChapterTree is an arena of chapter nodes rooted at a single synthetic root.
// It is the skeleton produced by catalog resolution: structure and titles
// only, no content.
type ChapterTree struct {
	// Title is the manual title as listed by the catalog.
	Title string

	// Model and Variant describe the vehicle as printed on the manual's
	// cover page. Populated from the catalog's abstract when available.
	Model   string
	Variant string

	nodes []ChapterNode
	byID  map[string]int
}

// NewChapterTree creates a tree containing only the synthetic root.
func NewChapterTree(rootID, title string) *ChapterTree {
	t := &ChapterTree{
		Title: title,
		byID:  map[string]int{rootID: RootNodeIndex},
	}
	t.nodes = append(t.nodes, ChapterNode{ID: rootID, Title: title, Parent: -1})
	return t
}

// AddNode appends a chapter under the given parent index and returns the new
// node's index. It returns EMALFORMED if the ID is empty or already present,
// and EINVALID if the parent index is out of range. Because children can only
// be attached to nodes that already exist, the result is always a tree.
func (t *ChapterTree) AddNode(parent int, id, title, linkTarget string) (int, error) {
	if parent < 0 || parent >= len(t.nodes) {
		return 0, Errorf(EINVALID, "parent index %d out of range", parent)
	}
	if id == "" {
		return 0, Errorf(EMALFORMED, "chapter under %q has no id", t.nodes[parent].ID)
	}
	if _, ok := t.byID[id]; ok {
		return 0, Errorf(EMALFORMED, "duplicate chapter id %q", id)
	}

	idx := len(t.nodes)
	t.nodes = append(t.nodes, ChapterNode{
		ID:         id,
		Title:      title,
		LinkTarget: linkTarget,
		Parent:     parent,
		Children:   nil,
	})
	t.byID[id] = idx
	t.nodes[parent].Children = append(t.nodes[parent].Children, idx)
	return idx, nil
}

// Len returns the number of nodes, including the synthetic root.
func (t *ChapterTree) Len() int {
	return len(t.nodes)
}

// Node returns the node at the given arena index.
func (t *ChapterTree) Node(idx int) *ChapterNode {
	return &t.nodes[idx]
}

// Lookup returns the arena index for a chapter ID.
func (t *ChapterTree) Lookup(id string) (int, bool) {
	idx, ok := t.byID[id]
	return idx, ok
}

// Depth returns the distance of a node from the root (root is 0).
func (t *ChapterTree) Depth(idx int) int {
	depth := 0
	for t.nodes[idx].Parent >= 0 {
		idx = t.nodes[idx].Parent
		depth++
	}
	return depth
}

// Walk visits every node in depth-first preorder, preserving the catalog's
// child ordering. The root is visited first with depth 0.
func (t *ChapterTree) Walk(fn func(idx int, node *ChapterNode, depth int)) {
	if len(t.nodes) == 0 {
		return
	}
	t.walk(RootNodeIndex, 0, fn)
}

func (t *ChapterTree) walk(idx, depth int, fn func(int, *ChapterNode, int)) {
	fn(idx, &t.nodes[idx], depth)
	for _, child := range t.nodes[idx].Children {
		t.walk(child, depth+1, fn)
	}
}

// ManualInfo describes one manual available for a vehicle.
type ManualInfo struct {
	// TopicID is the catalog key of the manual's root topic.
	TopicID string `json:"topicId"`

	// Title is the manual's display title.
	Title string `json:"title"`
}

// CatalogService resolves a vehicle's manuals from the remote catalog.
type CatalogService interface {
	// ListManuals returns the manuals available for the vehicle the
	// service was opened for. Returns ENOTFOUND if the vehicle is unknown
	// or has no manuals.
	ListManuals(ctx context.Context) ([]ManualInfo, error)

	// Resolve retrieves the manual's complete chapter tree (structure and
	// titles only). Returns EMALFORMED if the catalog response cannot be
	// parsed into a valid tree, EUNAVAILABLE on transport failure. Resolve
	// is never retried: without a catalog no crawl is possible.
	Resolve(ctx context.Context, manual ManualInfo) (*ChapterTree, error)
}
