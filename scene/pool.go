package scene

import "github.com/gogpu/wb/store"

const kindCount = int(store.KindConnector) + 1

// NodePool recycles nodes per kind so the high-frequency stroke path does
// not allocate a node per pointer sample. Acquired nodes are fully reset;
// the pool is unbounded and never pre-warmed.
type NodePool struct {
	free [kindCount][]*Node
}

// NewNodePool creates an empty node pool.
func NewNodePool() *NodePool {
	return &NodePool{}
}

// Acquire returns a node of the given kind with all visual attributes
// reset, reusing a released node when one is available.
func (p *NodePool) Acquire(kind store.Kind) *Node {
	k := int(kind)
	if k >= kindCount {
		k = 0
	}
	free := p.free[k]
	if len(free) == 0 {
		return &Node{Kind: kind}
	}
	n := free[len(free)-1]
	p.free[k] = free[:len(free)-1]
	n.reset()
	n.Kind = kind
	return n
}

// Release returns a node to the pool for reuse.
func (p *NodePool) Release(n *Node) {
	if n == nil {
		return
	}
	k := int(n.Kind)
	if k >= kindCount {
		k = 0
	}
	p.free[k] = append(p.free[k], n)
}

// FreeCount reports how many released nodes of the kind are waiting for
// reuse.
func (p *NodePool) FreeCount(kind store.Kind) int {
	k := int(kind)
	if k >= kindCount {
		return 0
	}
	return len(p.free[k])
}
