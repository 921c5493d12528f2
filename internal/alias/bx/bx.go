// stand for bytes helper
package bx

import (
	"encoding/binary"
	"errors"
)

var LE = binary.LittleEndian

var ErrSlotTooSmall = errors.New("bx: value does not fit fixed-width slot")

// --- LE: read ---
func U16(b []byte) uint16 { return LE.Uint16(b) }
func U32(b []byte) uint32 { return LE.Uint32(b) }
func U64(b []byte) uint64 { return LE.Uint64(b) }

// --- LE: write ---
func PutU16(b []byte, v uint16) { LE.PutUint16(b, v) }
func PutU32(b []byte, v uint32) { LE.PutUint32(b, v) }
func PutU64(b []byte, v uint64) { LE.PutUint64(b, v) }

// --- fixed-width string slot ---
// Layout: [u16 len][payload][zero padding], total len(slot) bytes.

// SlotPayload is the number of payload bytes a slot of width w can hold.
func SlotPayload(w int) int { return w - 2 }

// PutSlot writes s into slot, padding the rest with zeros.
func PutSlot(slot []byte, s []byte) error {
	if len(slot) < 2 || len(s) > SlotPayload(len(slot)) {
		return ErrSlotTooSmall
	}
	PutU16(slot, uint16(len(s)))
	n := copy(slot[2:], s)
	clear(slot[2+n:])
	return nil
}

// Slot returns a copy of the payload stored in slot.
func Slot(slot []byte) ([]byte, error) {
	if len(slot) < 2 {
		return nil, ErrSlotTooSmall
	}
	l := int(U16(slot))
	if l > SlotPayload(len(slot)) {
		return nil, ErrSlotTooSmall
	}
	out := make([]byte, l)
	copy(out, slot[2:2+l])
	return out, nil
}
