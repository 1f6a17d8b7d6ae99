package protoarray

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/prylabs-zero/beacon-core/consensus-types/primitives"
)

// defaultPruneThreshold is the total node count the array must reach
// before Prune actually compacts it, trading a bounded
// amount of dead weight for not reallocating on every finalization.
const defaultPruneThreshold = 256

// Store is the array backing a ForkChoice: every node ever inserted (never
// removed except by Prune), indexed both by position and by block root.
type Store struct {
	justifiedEpoch primitives.Epoch
	finalizedEpoch primitives.Epoch
	finalizedRoot  [32]byte
	nodes          []*Node
	nodeIndices    map[[32]byte]uint64
	pruneThreshold uint64
}

func newStore(justifiedEpoch, finalizedEpoch primitives.Epoch, finalizedRoot [32]byte) *Store {
	s := &Store{
		justifiedEpoch: justifiedEpoch,
		finalizedEpoch: finalizedEpoch,
		finalizedRoot:  finalizedRoot,
		nodes:          make([]*Node, 0),
		nodeIndices:    make(map[[32]byte]uint64),
		pruneThreshold: defaultPruneThreshold,
	}
	s.nodes = append(s.nodes, &Node{
		root:           finalizedRoot,
		parent:         nonExistentNode,
		justifiedEpoch: justifiedEpoch,
		finalizedEpoch: finalizedEpoch,
		bestChild:      nonExistentNode,
		bestDescendant: nonExistentNode,
	})
	s.nodeIndices[finalizedRoot] = 0
	return s
}

func (s *Store) PruneThreshold() uint64 { return s.pruneThreshold }

// insert appends a new node for root, linking it to parentRoot's index. A
// root already known is a no-op: on_block is expected to be idempotent
// against a block the store has already seen.
func (s *Store) insert(slot primitives.Slot, root, parentRoot [32]byte, justifiedEpoch, finalizedEpoch primitives.Epoch) error {
	if _, ok := s.nodeIndices[root]; ok {
		return nil
	}

	parentIndex := nonExistentNode
	if idx, ok := s.nodeIndices[parentRoot]; ok {
		parentIndex = idx
	} else {
		return unknownParent(errors.Errorf("parent root %x is not known to the fork choice store", parentRoot))
	}

	index := uint64(len(s.nodes))
	s.nodes = append(s.nodes, &Node{
		slot:           slot,
		root:           root,
		parent:         parentIndex,
		justifiedEpoch: justifiedEpoch,
		finalizedEpoch: finalizedEpoch,
		bestChild:      nonExistentNode,
		bestDescendant: nonExistentNode,
	})
	s.nodeIndices[root] = index
	return nil
}

// applyDelta walks from root's node up through its ancestry adding delta to
// every node's weight: LMD-GHOST's weight for a block is the stake of every
// validator whose latest vote names that block or any of its descendants,
// so a single validator's vote change touches its entire ancestor chain.
// An unknown root (already pruned) is silently skipped rather than erroring
// — a stale vote for a finalized-away fork carries no information.
func (s *Store) applyDelta(root [32]byte, delta int64) {
	index, ok := s.nodeIndices[root]
	if !ok {
		return
	}
	for index != nonExistentNode {
		node := s.nodes[index]
		if delta < 0 {
			d := uint64(-delta)
			if d > node.weight {
				node.weight = 0
			} else {
				node.weight -= d
			}
		} else {
			node.weight += uint64(delta)
		}
		index = node.parent
	}
}

// updateBestChildAndDescendant recomputes every node's bestChild/
// bestDescendant bottom-up in a single reverse pass. Nodes are always
// appended parent-before-child, so by the time index i is visited (walking
// from the highest index down) every child of node i has already had its
// own bestChild/bestDescendant finalized, and node i can safely use them to
// update its own parent.
func (s *Store) updateBestChildAndDescendant() {
	for _, node := range s.nodes {
		node.bestChild = nonExistentNode
		node.bestDescendant = nonExistentNode
	}
	for i := len(s.nodes) - 1; i >= 1; i-- {
		child := s.nodes[i]
		if child.parent == nonExistentNode {
			continue
		}
		parent := s.nodes[child.parent]

		descendant := uint64(i)
		if child.bestDescendant != nonExistentNode {
			descendant = child.bestDescendant
		}

		if parent.bestChild == nonExistentNode {
			parent.bestChild = uint64(i)
			parent.bestDescendant = descendant
			continue
		}

		current := s.nodes[parent.bestChild]
		if child.weight > current.weight ||
			(child.weight == current.weight && bytes.Compare(child.root[:], current.root[:]) > 0) {
			parent.bestChild = uint64(i)
			parent.bestDescendant = descendant
		}
	}
}

// head follows justifiedRoot's cached bestDescendant straight to the
// heaviest leaf; updateBestChildAndDescendant refreshes those links in one
// pass over the array before each Head call.
//
//	def get_head(store: Store) -> Root:
//	  (descend by weight from the justified checkpoint)
func (s *Store) head(justifiedRoot [32]byte) ([32]byte, error) {
	index, ok := s.nodeIndices[justifiedRoot]
	if !ok {
		return [32]byte{}, errUnknownJustifiedRoot
	}
	if index >= uint64(len(s.nodes)) {
		return [32]byte{}, errInvalidNodeIndex
	}
	node := s.nodes[index]
	if node.bestDescendant == nonExistentNode {
		return node.root, nil
	}
	if node.bestDescendant >= uint64(len(s.nodes)) {
		return [32]byte{}, errInvalidBestDescendantIdx
	}
	return s.nodes[node.bestDescendant].root, nil
}

// prune drops every node before finalizedRoot's index, the portion of the
// array no fork still building on the finalized checkpoint can ever
// reference again, and reindexes parent/bestChild/bestDescendant links
// relative to the new base.
func (s *Store) prune(finalizedRoot [32]byte) error {
	idx, ok := s.nodeIndices[finalizedRoot]
	if !ok {
		return errUnknownFinalizedRoot
	}
	if idx == 0 || uint64(len(s.nodes)) < s.pruneThreshold {
		return nil
	}

	kept := s.nodes[idx:]
	newIndices := make(map[[32]byte]uint64, len(kept))
	for i, node := range kept {
		if node.parent == nonExistentNode || node.parent < idx {
			node.parent = nonExistentNode
		} else {
			node.parent -= idx
		}
		if node.bestChild != nonExistentNode {
			node.bestChild -= idx
		}
		if node.bestDescendant != nonExistentNode {
			node.bestDescendant -= idx
		}
		newIndices[node.root] = uint64(i)
	}

	s.nodes = kept
	s.nodeIndices = newIndices
	s.finalizedRoot = finalizedRoot
	return nil
}
