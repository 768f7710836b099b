package charset

import (
	"errors"
	"fmt"

	"github.com/calmh/xdr"

	"github.com/coregx/lexdfa/internal/conv"
)

// ErrInvalidEncoding indicates a serialized partition is malformed.
var ErrInvalidEncoding = errors.New("charset: invalid encoding")

// XDRSize returns the encoded size of the partition.
func (c *Classes) XDRSize() int {
	return 4 + 4*len(c.partition())
}

// MarshalXDR encodes the partition. Category tables are not encoded; a
// decoded Classes only canonicalizes.
func (c *Classes) MarshalXDR() ([]byte, error) {
	buf := make([]byte, c.XDRSize())
	m := &xdr.Marshaller{Data: buf}
	return buf, c.MarshalXDRInto(m)
}

// MarshalXDRInto encodes the partition into m.
func (c *Classes) MarshalXDRInto(m *xdr.Marshaller) error {
	starts := c.partition()
	m.MarshalUint32(conv.IntToUint32(len(starts)))
	for _, r := range starts {
		m.MarshalUint32(conv.RuneToUint32(r))
	}
	return m.Error
}

// UnmarshalXDR decodes a partition written by MarshalXDR.
func (c *Classes) UnmarshalXDR(bs []byte) error {
	u := &xdr.Unmarshaller{Data: bs}
	return c.UnmarshalXDRFrom(u)
}

// UnmarshalXDRFrom decodes a partition from u. The result is frozen.
func (c *Classes) UnmarshalXDRFrom(u *xdr.Unmarshaller) error {
	n, ok := conv.Uint32ToInt(u.UnmarshalUint32(), int(MaxChar)+1)
	if !ok {
		return xdr.ElementSizeExceeded("number of classes", n, int(MaxChar)+1)
	}
	starts := make([]rune, n)
	for i := range starts {
		starts[i] = rune(u.UnmarshalUint32())
	}
	if u.Error != nil {
		return u.Error
	}
	if err := validateStarts(starts); err != nil {
		return err
	}

	*c = Classes{
		categories: defaultCategories(),
		used:       make(map[rune]struct{}),
		starts:     starts,
		frozen:     true,
	}
	return nil
}

func validateStarts(starts []rune) error {
	if len(starts) == 0 || starts[0] != 0 {
		return fmt.Errorf("%w: partition must start at 0", ErrInvalidEncoding)
	}
	for i := 1; i < len(starts); i++ {
		if starts[i] <= starts[i-1] || starts[i] > MaxChar {
			return fmt.Errorf("%w: class %d starts at %#x", ErrInvalidEncoding, i, starts[i])
		}
	}
	return nil
}
