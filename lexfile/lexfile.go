// Package lexfile frames a serialized lexer for storage.
//
// A file is a fixed header followed by the payload:
//
//	magic    [4]byte  "LXDF"
//	version  uint32
//	flags    uint32   bit 0: payload is an lz4 block
//	size     uint32   uncompressed payload size
//	payload
//
// All integers are big endian. Payloads that do not compress are stored raw.
package lexfile

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

// Version is the container version written by Write.
const Version = 1

// MaxPayload is the largest payload Read accepts.
const MaxPayload = 256 << 20

var magic = [4]byte{'L', 'X', 'D', 'F'}

const flagLZ4 = 1 << 0

var (
	// ErrMagic indicates the input is not a lexfile.
	ErrMagic = errors.New("lexfile: bad magic")

	// ErrVersion indicates an unsupported container version.
	ErrVersion = errors.New("lexfile: unsupported version")

	// ErrCorrupt indicates a damaged header or payload.
	ErrCorrupt = errors.New("lexfile: corrupt data")
)

type header struct {
	Magic   [4]byte
	Version uint32
	Flags   uint32
	Size    uint32
}

// Write writes payload to w.
func Write(w io.Writer, payload []byte) error {
	if len(payload) > MaxPayload {
		return fmt.Errorf("lexfile: payload of %d bytes exceeds %d", len(payload), MaxPayload)
	}

	body := payload
	h := header{Magic: magic, Version: Version, Size: uint32(len(payload))}

	buf := make([]byte, lz4.CompressBlockBound(len(payload)))
	n, err := lz4.CompressBlock(payload, buf, nil)
	if err != nil {
		return fmt.Errorf("lexfile: compress: %w", err)
	}
	if n > 0 && n < len(payload) {
		body = buf[:n]
		h.Flags |= flagLZ4
	}

	if err := binary.Write(w, binary.BigEndian, h); err != nil {
		return err
	}
	_, err = w.Write(body)
	return err
}

// Read reads a payload written by Write.
func Read(r io.Reader) ([]byte, error) {
	var h header
	if err := binary.Read(r, binary.BigEndian, &h); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: short header", ErrCorrupt)
		}
		return nil, err
	}
	if h.Magic != magic {
		return nil, ErrMagic
	}
	if h.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrVersion, h.Version)
	}
	if h.Size > MaxPayload {
		return nil, fmt.Errorf("%w: payload size %d", ErrCorrupt, h.Size)
	}

	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	if h.Flags&flagLZ4 == 0 {
		if len(body) != int(h.Size) {
			return nil, fmt.Errorf("%w: payload is %d bytes, header says %d", ErrCorrupt, len(body), h.Size)
		}
		return body, nil
	}

	out := make([]byte, h.Size)
	n, err := lz4.UncompressBlock(body, out)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if n != int(h.Size) {
		return nil, fmt.Errorf("%w: decompressed %d bytes, header says %d", ErrCorrupt, n, h.Size)
	}
	return out, nil
}

// Sniff reports whether data starts with the lexfile magic.
func Sniff(data []byte) bool {
	return bytes.HasPrefix(data, magic[:])
}
