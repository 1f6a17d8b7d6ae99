package protoarray

import "github.com/prylabs-zero/beacon-core/consensus-types/primitives"

// nonExistentNode marks an absent parent/bestChild/bestDescendant index —
// the array has no room for a real node at this sentinel, unlike zero which
// is a legitimate index once the store has any nodes at all.
const nonExistentNode = ^uint64(0)

// Node is one block's entry in the flat fork-choice array: its own
// identity, its parent link by index (not pointer, so the whole store can
// be reallocated by Prune without invalidating other nodes' references),
// its accumulated LMD-GHOST weight, and a cached best-child/best-descendant
// pair so get_head never has to rescan the array.
type Node struct {
	slot           primitives.Slot
	root           [32]byte
	parent         uint64
	justifiedEpoch primitives.Epoch
	finalizedEpoch primitives.Epoch
	weight         uint64
	bestChild      uint64
	bestDescendant uint64
}

func (n *Node) Slot() primitives.Slot           { return n.slot }
func (n *Node) Root() [32]byte                  { return n.root }
func (n *Node) Parent() uint64                  { return n.parent }
func (n *Node) JustifiedEpoch() primitives.Epoch { return n.justifiedEpoch }
func (n *Node) FinalizedEpoch() primitives.Epoch { return n.finalizedEpoch }
func (n *Node) Weight() uint64                  { return n.weight }
func (n *Node) BestChild() uint64               { return n.bestChild }
func (n *Node) BestDescendant() uint64          { return n.bestDescendant }
