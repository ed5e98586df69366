package phoenix

import (
	"encoding/binary"

	"github.com/fd1az/smart-router/internal/apperror"
)

// sentinel is the null node address. Real addresses are 1-based.
const sentinel = 0

// RestingOrder is one order resting on a ladder.
type RestingOrder struct {
	PriceInTicks   uint64
	SequenceNumber uint64
	TraderIndex    uint64
	NumBaseLots    uint64
}

// ladder is a read-only view over one side's red-black tree.
type ladder struct {
	buf      []byte
	capacity uint64
	side     string
}

func newLadder(body []byte, offset, capacity uint64, side string) ladder {
	return ladder{buf: body[offset : offset+treeSize(capacity, orderNodeSize)], capacity: capacity, side: side}
}

func (l ladder) root() uint32 {
	return binary.LittleEndian.Uint32(l.buf[0:])
}

func (l ladder) node(addr uint32) ([]byte, error) {
	if addr == sentinel || uint64(addr) > l.capacity {
		return nil, apperror.Decoding("phoenix %s tree references node %d of %d", l.side, addr, l.capacity)
	}
	start := treeHeaderSize + uint64(addr-1)*orderNodeSize
	return l.buf[start : start+orderNodeSize], nil
}

// first returns the order that iteration yields first: the leftmost node.
// Both trees order their keys best-first, so this is the top of book.
// An empty tree returns nil.
func (l ladder) first() (*RestingOrder, error) {
	addr := l.root()
	if addr == sentinel {
		return nil, nil
	}

	le := binary.LittleEndian
	for steps := uint64(0); ; steps++ {
		if steps > l.capacity {
			return nil, apperror.Decoding("phoenix %s tree has a cycle", l.side)
		}
		n, err := l.node(addr)
		if err != nil {
			return nil, err
		}
		left := le.Uint32(n[registerLeft:])
		if left == sentinel {
			return &RestingOrder{
				PriceInTicks:   le.Uint64(n[offPriceInTicks:]),
				SequenceNumber: le.Uint64(n[offOrderSequence:]),
				TraderIndex:    le.Uint64(n[offTraderIndex:]),
				NumBaseLots:    le.Uint64(n[offNumBaseLots:]),
			}, nil
		}
		addr = left
	}
}
