package depinfo

import (
	"encoding/binary"

	"go.trai.ch/zerr"

	"github.com/anvil-build/anvil/internal/core/domain"
)

// The binary dependency encoding is a single version byte followed by
// tagged, length-prefixed records until end of file:
//
//	[1-byte version = 1]
//	[1-byte tag][4-byte little-endian length][length raw path bytes] ...
//
// No escaping is needed; paths carry their explicit byte length.
const binaryVersion = 1

// Record tags.
const (
	tagInput   = 0
	tagOutput  = 1
	tagMissing = 2
)

// parseBinary decodes the binary record encoding. Inputs are all records
// tagged as inputs; output and missing records are ordering metadata and
// do not contribute to the discovered set.
func parseBinary(data []byte) ([]string, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if data[0] != binaryVersion {
		return nil, zerr.With(domain.ErrDependencyInfoParse, "reason", "unsupported version")
	}

	var inputs []string
	rest := data[1:]
	for len(rest) > 0 {
		if len(rest) < 5 {
			return nil, zerr.With(domain.ErrDependencyInfoParse, "reason", "truncated record header")
		}
		tag := rest[0]
		length := binary.LittleEndian.Uint32(rest[1:5])
		rest = rest[5:]

		if uint32(len(rest)) < length {
			return nil, zerr.With(domain.ErrDependencyInfoParse, "reason", "truncated record payload")
		}
		path := string(rest[:length])
		rest = rest[length:]

		switch tag {
		case tagInput:
			inputs = append(inputs, path)
		case tagOutput, tagMissing:
			// Not part of the discovered input set.
		default:
			return nil, zerr.With(domain.ErrDependencyInfoParse, "reason", "unknown record tag")
		}
	}
	return inputs, nil
}

// EncodeBinary serializes input, output, and missing path sets in the
// binary record encoding. It is the inverse of parsing: decoding the
// result yields exactly the given inputs.
func EncodeBinary(inputs, outputs, missing []string) []byte {
	size := 1
	for _, set := range [][]string{inputs, outputs, missing} {
		for _, path := range set {
			size += 5 + len(path)
		}
	}

	data := make([]byte, 0, size)
	data = append(data, binaryVersion)
	appendRecords := func(tag byte, paths []string) {
		for _, path := range paths {
			data = append(data, tag)
			data = binary.LittleEndian.AppendUint32(data, uint32(len(path)))
			data = append(data, path...)
		}
	}
	appendRecords(tagInput, inputs)
	appendRecords(tagOutput, outputs)
	appendRecords(tagMissing, missing)
	return data
}
