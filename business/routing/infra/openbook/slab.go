package openbook

import (
	"encoding/binary"

	"github.com/fd1az/smart-router/internal/apperror"
	"github.com/fd1az/smart-router/internal/safemath"
)

const (
	offSlabHeader = 13
	offRootNode   = offSlabHeader + 20
	offLeafCount  = offSlabHeader + 24
	offNodes      = offSlabHeader + 32
	nodeSize      = 72
)

// Node tags. Free and uninitialized nodes are never reachable from root.
const (
	tagInner uint32 = 1
	tagLeaf  uint32 = 2
)

// Leaf is one resting order.
type Leaf struct {
	Key           safemath.U128
	OwnerSlot     uint8
	Quantity      uint64
	ClientOrderID uint64
}

// Price is the limit price in quote lots per base lot.
func (l Leaf) Price() uint64 {
	return l.Key.Hi()
}

// Slab is a read-only view over a bids or asks account.
type Slab struct {
	nodes     []byte
	count     uint32
	root      uint32
	leafCount uint64
	what      string
}

// DecodeSlab checks the framing and flags of a slab account. flag is
// FlagBids or FlagAsks.
func DecodeSlab(b []byte, flag uint64) (*Slab, error) {
	what := "bids"
	if flag == FlagAsks {
		what = "asks"
	}

	if err := checkFraming(b, what); err != nil {
		return nil, err
	}
	if len(b) < offNodes+len(accountTail) {
		return nil, apperror.Decoding("openbook %s is %d bytes, header needs %d", what, len(b), offNodes+len(accountTail))
	}

	le := binary.LittleEndian
	flags := le.Uint64(b[offAccountFlags:])
	if flags&(FlagInitialized|flag) != FlagInitialized|flag {
		return nil, apperror.Decoding("openbook %s account flags %#x", what, flags)
	}

	nodes := b[offNodes : len(b)-len(accountTail)]
	return &Slab{
		nodes:     nodes,
		count:     uint32(len(nodes) / nodeSize),
		root:      le.Uint32(b[offRootNode:]),
		leafCount: le.Uint64(b[offLeafCount:]),
		what:      what,
	}, nil
}

func (s *Slab) node(h uint32) ([]byte, error) {
	if h >= s.count {
		return nil, apperror.Decoding("openbook %s references node %d of %d", s.what, h, s.count)
	}
	start := uint64(h) * nodeSize
	return s.nodes[start : start+nodeSize], nil
}

// Min returns the leaf with the smallest key, or nil on an empty tree.
func (s *Slab) Min() (*Leaf, error) { return s.walk(0) }

// Max returns the leaf with the largest key, or nil on an empty tree.
func (s *Slab) Max() (*Leaf, error) { return s.walk(1) }

// walk descends always into children[child] until it reaches a leaf.
func (s *Slab) walk(child uint32) (*Leaf, error) {
	if s.leafCount == 0 {
		return nil, nil
	}

	le := binary.LittleEndian
	h := s.root
	for steps := uint32(0); ; steps++ {
		if steps > s.count {
			return nil, apperror.Decoding("openbook %s tree has a cycle", s.what)
		}
		n, err := s.node(h)
		if err != nil {
			return nil, err
		}

		switch tag := le.Uint32(n[0:]); tag {
		case tagInner:
			h = le.Uint32(n[24+4*child:])
		case tagLeaf:
			return &Leaf{
				Key:           safemath.U128FromWords(le.Uint64(n[16:]), le.Uint64(n[8:])),
				OwnerSlot:     n[4],
				Quantity:      le.Uint64(n[56:]),
				ClientOrderID: le.Uint64(n[64:]),
			}, nil
		default:
			return nil, apperror.Decoding("openbook %s walk hit node %d with tag %d", s.what, h, tag)
		}
	}
}
