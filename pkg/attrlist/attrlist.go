// Package attrlist models the darwin getattrlist/setattrlist request and
// response formats. These layouts must match the kernel's sys/attr.h exactly
// for binary compatibility.
package attrlist

import (
	"encoding/binary"
	"fmt"
)

// Constants from sys/attr.h. BitMapCount is the attribute-list format version
// this code targets; the kernel rejects or misreads descriptors carrying any
// other value.
const (
	BitMapCount uint16 = 5

	// CmnAddedTime is the common-attribute bit for the "date added"
	// timestamp (kMDItemDateAdded in Spotlight terms).
	CmnAddedTime uint32 = 0x10000000

	// CmnReturnedAttrs asks the kernel to echo, in the response, which of
	// the requested attribute bits it actually serviced.
	CmnReturnedAttrs uint32 = 0x80000000

	// OptNoFollow makes the call operate on a symlink itself rather than
	// its target when the path's last component is a symlink.
	OptNoFollow uint32 = 0x00000001
)

// AttributeSet holds one bitmask per attribute group.
// Size: 20 bytes
type AttributeSet struct {
	Commonattr uint32
	Volattr    uint32
	Dirattr    uint32
	Fileattr   uint32
	Forkattr   uint32
}

// AttributeSetSize is the size of AttributeSet in bytes.
const AttributeSetSize = 20

// List is the request descriptor passed to getattrlist and setattrlist.
// Size: 24 bytes
type List struct {
	Bitmapcount uint16
	Reserved    uint16
	AttributeSet
}

// TimeSpec is the kernel's two-field time value. Nsec is advisory for the
// added-time attribute; this package always writes it as 0 and readers only
// consume Sec.
// Size: 16 bytes
type TimeSpec struct {
	Sec  int64
	Nsec int64
}

// TimeSpecSize is the size of TimeSpec in bytes.
const TimeSpecSize = 16

// AddedTimeResponseSize is the size of the response buffer for an added-time
// read request: a uint32 total length, the echoed AttributeSet, and one
// TimeSpec.
const AddedTimeResponseSize = 4 + AttributeSetSize + TimeSpecSize

// AddedTimeReadRequest builds the descriptor for reading the added-time
// attribute. The returned-attributes sentinel is included so the response
// reports whether the kernel actually serviced the bit.
func AddedTimeReadRequest() List {
	return List{
		Bitmapcount:  BitMapCount,
		AttributeSet: AttributeSet{Commonattr: CmnAddedTime | CmnReturnedAttrs},
	}
}

// AddedTimeWriteRequest builds the descriptor for writing the added-time
// attribute. No sentinel: setattrlist either succeeds wholesale or fails.
func AddedTimeWriteRequest() List {
	return List{
		Bitmapcount:  BitMapCount,
		AttributeSet: AttributeSet{Commonattr: CmnAddedTime},
	}
}

// Marshal encodes the TimeSpec into its raw 16-byte wire form in host byte
// order, suitable as a setattrlist payload.
func (ts TimeSpec) Marshal() []byte {
	buf := make([]byte, TimeSpecSize)
	binary.NativeEndian.PutUint64(buf[0:8], uint64(ts.Sec))
	binary.NativeEndian.PutUint64(buf[8:16], uint64(ts.Nsec))
	return buf
}

// DecodeAddedTime interprets the getattrlist response buffer for the request
// built by AddedTimeReadRequest. The second return is false when the kernel's
// echoed common-attribute mask differs from the requested one, meaning the
// added-time attribute is not tracked for the path; that is a valid result,
// not an error. An error is returned only for a buffer too short to contain
// the fixed layout.
func DecodeAddedTime(buf []byte, req List) (int64, bool, error) {
	if len(buf) < 4+AttributeSetSize {
		return 0, false, fmt.Errorf("attribute response truncated: %d bytes", len(buf))
	}

	returned := decodeAttributeSet(buf[4 : 4+AttributeSetSize])
	if returned.Commonattr != req.Commonattr {
		return 0, false, nil
	}

	if len(buf) < AddedTimeResponseSize {
		return 0, false, fmt.Errorf("attribute response truncated: %d bytes", len(buf))
	}

	sec := int64(binary.NativeEndian.Uint64(buf[4+AttributeSetSize : 4+AttributeSetSize+8]))
	return sec, true, nil
}

// decodeAttributeSet reads the five group masks from a 20-byte slice.
func decodeAttributeSet(b []byte) AttributeSet {
	return AttributeSet{
		Commonattr: binary.NativeEndian.Uint32(b[0:4]),
		Volattr:    binary.NativeEndian.Uint32(b[4:8]),
		Dirattr:    binary.NativeEndian.Uint32(b[8:12]),
		Fileattr:   binary.NativeEndian.Uint32(b[12:16]),
		Forkattr:   binary.NativeEndian.Uint32(b[16:20]),
	}
}
