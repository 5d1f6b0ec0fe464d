package shamap

import (
	"sync"
)

// Hash is a 256-bit hash used throughout the shamap
type Hash [32]byte

// SHAMapState describes the current state of a SHAMap
type SHAMapState int

const (
	// Modifying - map is in flux and objects can be added/removed
	Modifying SHAMapState = iota
	// Immutable - map is set in stone and cannot be changed
	Immutable
	// Synching - map's hash is fixed but missing nodes can be added
	Synching
	// Invalid - map is known to not be valid
	Invalid
)

// SHAMapType indicates the type of SHAMap
type SHAMapType int

const (
	// SHAMapTypeTransaction - transaction tree
	SHAMapTypeTransaction SHAMapType = iota
	// SHAMapTypeState - state tree
	SHAMapTypeState
)

// NodeType indicates the type of SHAMapTreeNode
type NodeType int

const (
	// NodeTypeInner - inner node with children
	NodeTypeInner NodeType = iota
	// NodeTypeLeaf - leaf node with item
	NodeTypeLeaf
)

// Constants for the tree structure
const (
	BranchFactor = 16
	LeafDepth    = 64
)

// SHAMapItem holds the actual data in the map
type SHAMapItem struct {
	Key  Hash
	Data []byte
}

// SHAMapTreeNode is the base interface for nodes in the tree
type SHAMapTreeNode interface {
	GetHash() Hash
	IsLeaf() bool
	SetHash(hash Hash)
}

// SHAMapInnerNode is an internal node with up to 16 children
type SHAMapInnerNode struct {
	hash     Hash
	children [BranchFactor]SHAMapTreeNode
	dirty    bool
	mutex    sync.RWMutex
}

// SHAMapLeafNode is a leaf node containing actual data
type SHAMapLeafNode struct {
	hash Hash
	item *SHAMapItem
}

// Family manages shared resources like caches
type Family struct {
	nodeStore     NodeStore
	treeNodeCache *TreeNodeCache
	mutex         sync.RWMutex
}

// NodeStore interface for database operations
type NodeStore interface {
	Fetch(hash Hash) ([]byte, error)
	Store(hash Hash, data []byte, ledgerSeq uint32) error
	// Additional methods as needed
}

// TreeNodeCache caches tree nodes for efficiency
type TreeNodeCache struct {
	cache map[Hash]SHAMapTreeNode
	mutex sync.RWMutex
}

// SHAMap implements a Merkle-radix tree
type SHAMap struct {
	family    *Family
	root      SHAMapTreeNode
	state     SHAMapState
	mapType   SHAMapType
	ledgerSeq uint32
	cowID     uint32
	backed    bool
	full      bool
	mutex     sync.RWMutex
}

// NewSHAMap creates a new SHAMap
func NewSHAMap(mapType SHAMapType, family *Family) *SHAMap {
	m := &SHAMap{
		family:  family,
		state:   Modifying,
		mapType: mapType,
		cowID:   1,
		backed:  true,
		full:    false,
	}

	// Create a new root inner node
	m.root = &SHAMapInnerNode{
		children: [BranchFactor]SHAMapTreeNode{},
		dirty:    true,
	}

	return m
}

// Snapshot creates a new SHAMap that's a snapshot of this one
func (m *SHAMap) Snapshot(mutable bool) *SHAMap {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	snap := &SHAMap{
		family:    m.family,
		root:      m.root, // Shared initially due to copy-on-write
		state:     Immutable,
		mapType:   m.mapType,
		ledgerSeq: m.ledgerSeq,
		cowID:     m.cowID + 1,
		backed:    m.backed,
		full:      m.full,
	}

	if mutable {
		snap.state = Modifying
	}

	return snap
}

// HasItem checks if an item with the given ID exists in the map
func (m *SHAMap) HasItem(id Hash) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	leaf := m.findKey(id)
	return leaf != nil
}

// AddItem adds an item to the map
func (m *SHAMap) AddItem(item *SHAMapItem) bool {
	if m.state == Immutable {
		return false
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	// Implementation details
	return m.addItemToNode(m.root, item, 0)
}

// GetHash returns the hash of the SHAMap
func (m *SHAMap) GetHash() Hash {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.root == nil {
		return Hash{}
	}

	return m.root.GetHash()
}

// SetImmutable marks the map as immutable
func (m *SHAMap) SetImmutable() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.state != Invalid {
		m.state = Immutable
	}
}

// Iterator for traversing the leaves of the SHAMap
type Iterator struct {
	stack []nodeStackEntry
	map_  *SHAMap
	item  *SHAMapItem
}

type nodeStackEntry struct {
	node SHAMapTreeNode
	id   NodeID // Node identifier (path in the tree)
}

// Begin returns an iterator to the first leaf
func (m *SHAMap) Begin() *Iterator {
	iter := &Iterator{
		map_: m,
	}

	// Set up stack and item for first leaf
	// Implementation details

	return iter
}

// End returns an iterator to the end (nil)
func (m *SHAMap) End() *Iterator {
	return &Iterator{
		map_: m,
		item: nil,
	}
}

// Next advances the iterator to the next leaf
func (iter *Iterator) Next() {
	// Implementation details
}

// Item returns the current item
func (iter *Iterator) Item() *SHAMapItem {
	return iter.item
}

// Helper methods (private)

// findKey finds a node by key, returning nil if not found
func (m *SHAMap) findKey(id Hash) *SHAMapLeafNode {
	// Implementation details
	return nil
}

// addItemToNode adds an item to a specific node
func (m *SHAMap) addItemToNode(node SHAMapTreeNode, item *SHAMapItem, depth uint) bool {
	// Implementation details
	return true
}

// descend gets a child of the specified node
func (m *SHAMap) descend(parent *SHAMapInnerNode, branch int) SHAMapTreeNode {
	// Implementation details
	return nil
}

// dirtyUp updates hashes up to the root
func (m *SHAMap) dirtyUp(stack []nodeStackEntry, target Hash, terminal SHAMapTreeNode) {
	// Implementation details
}

// unshareNode makes a copy of a node for copy-on-write
func (m *SHAMap) unshareNode(node SHAMapTreeNode, nodeID NodeID) SHAMapTreeNode {
	// Implementation details
	return nil
}
