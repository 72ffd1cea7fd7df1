package bytecode

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Bytecode file format (.sbc) specification
// ===========================================
//
// Header (8 bytes):
//   - Magic number: "SBC\x00" (4 bytes)
//   - Version major/minor/patch: uint8 each
//   - Reserved: uint8
//
// Body: one serialized Chunk (see SerializeChunk).
//
// Design goals: forward-compatible version check, compact binary layout,
// complete enough to reload a Chunk without re-running the emitter.

const (
	// MagicNumber identifies a SharpTS compiled-bytecode file.
	MagicNumber = "SBC\x00"

	VersionMajor = 1
	VersionMinor = 0
	VersionPatch = 0
)

// SerializerVersion is a three-part bytecode format version.
type SerializerVersion struct {
	Major, Minor, Patch uint8
}

func (v SerializerVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// IsCompatible reports whether a reader at version v can load bytecode
// written at version other: the major version must match exactly, and the
// writer's minor version must not be newer than the reader's.
func (v SerializerVersion) IsCompatible(other SerializerVersion) bool {
	if v.Major != other.Major {
		return false
	}
	return other.Minor <= v.Minor
}

// SerializeChunk encodes a chunk to its binary wire format, including the
// file header.
func SerializeChunk(c *Chunk) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(MagicNumber)
	buf.WriteByte(VersionMajor)
	buf.WriteByte(VersionMinor)
	buf.WriteByte(VersionPatch)
	buf.WriteByte(0) // reserved

	writeString(&buf, c.Name)
	writeUint32(&buf, uint32(len(c.Code)))
	for _, inst := range c.Code {
		writeUint32(&buf, uint32(inst))
	}

	writeUint32(&buf, uint32(len(c.Constants)))
	for _, k := range c.Constants {
		if err := writeValue(&buf, k); err != nil {
			return nil, err
		}
	}

	writeUint32(&buf, uint32(len(c.Tokens)))
	for _, tok := range c.Tokens {
		buf.WriteByte(byte(tok.Kind))
		writeString(&buf, tok.Owner)
		writeString(&buf, tok.Name)
	}

	writeUint32(&buf, uint32(len(c.Helpers)))
	for _, h := range c.Helpers {
		writeString(&buf, h.Name)
	}

	writeUint32(&buf, uint32(c.LocalCount))

	return buf.Bytes(), nil
}

// DeserializeChunk decodes a chunk previously written by SerializeChunk.
func DeserializeChunk(data []byte) (*Chunk, error) {
	r := bytes.NewReader(data)

	magic := make([]byte, 4)
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, fmt.Errorf("bytecode: reading magic number: %w", err)
	}
	if string(magic) != MagicNumber {
		return nil, fmt.Errorf("bytecode: bad magic number %q", magic)
	}

	var versionBytes [4]byte
	if _, err := io.ReadFull(r, versionBytes[:]); err != nil {
		return nil, fmt.Errorf("bytecode: reading version: %w", err)
	}
	fileVersion := SerializerVersion{Major: versionBytes[0], Minor: versionBytes[1], Patch: versionBytes[2]}
	readerVersion := SerializerVersion{Major: VersionMajor, Minor: VersionMinor, Patch: VersionPatch}
	if !readerVersion.IsCompatible(fileVersion) {
		return nil, fmt.Errorf("bytecode: incompatible version %s (reader is %s)", fileVersion, readerVersion)
	}

	name, err := readString(r)
	if err != nil {
		return nil, err
	}
	c := NewChunk(name)

	instCount, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	c.Code = make([]Instruction, instCount)
	for i := range c.Code {
		raw, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		c.Code[i] = Instruction(raw)
	}

	constCount, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < constCount; i++ {
		v, err := readValue(r)
		if err != nil {
			return nil, err
		}
		c.Constants = append(c.Constants, v)
	}

	tokenCount, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < tokenCount; i++ {
		kindByte, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		owner, err := readString(r)
		if err != nil {
			return nil, err
		}
		name, err := readString(r)
		if err != nil {
			return nil, err
		}
		c.Tokens = append(c.Tokens, MetadataToken{Kind: TokenKind(kindByte), Owner: owner, Name: name})
	}

	helperCount, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < helperCount; i++ {
		name, err := readString(r)
		if err != nil {
			return nil, err
		}
		c.Helpers = append(c.Helpers, HelperInfo{Name: name})
	}

	localCount, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	c.LocalCount = int(localCount)

	return c, nil
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	buf.Write(tmp[:])
}

func readUint32(r *bytes.Reader) (uint32, error) {
	var tmp [4]byte
	if _, err := io.ReadFull(r, tmp[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(tmp[:]), nil
}

func writeString(buf *bytes.Buffer, s string) {
	writeUint32(buf, uint32(len(s)))
	buf.WriteString(s)
}

func readString(r *bytes.Reader) (string, error) {
	n, err := readUint32(r)
	if err != nil {
		return "", err
	}
	data := make([]byte, n)
	if _, err := io.ReadFull(r, data); err != nil {
		return "", err
	}
	return string(data), nil
}

func writeValue(buf *bytes.Buffer, v Value) error {
	buf.WriteByte(byte(v.Kind))
	switch v.Kind {
	case KindNull, KindUndefined:
	case KindBoolean:
		if v.AsBool() {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}
	case KindNumber:
		var tmp [8]byte
		binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(v.AsNumber()))
		buf.Write(tmp[:])
	case KindString, KindBigInt:
		writeString(buf, fmt.Sprint(v.Data))
	default:
		return fmt.Errorf("bytecode: cannot serialize constant of kind %s", v.Kind)
	}
	return nil
}

func readValue(r *bytes.Reader) (Value, error) {
	kindByte, err := r.ReadByte()
	if err != nil {
		return Value{}, err
	}
	kind := ValueKind(kindByte)
	switch kind {
	case KindNull:
		return NullValue(), nil
	case KindUndefined:
		return UndefinedValue(), nil
	case KindBoolean:
		b, err := r.ReadByte()
		if err != nil {
			return Value{}, err
		}
		return BoolValue(b != 0), nil
	case KindNumber:
		var tmp [8]byte
		if _, err := io.ReadFull(r, tmp[:]); err != nil {
			return Value{}, err
		}
		return NumberValue(math.Float64frombits(binary.LittleEndian.Uint64(tmp[:]))), nil
	case KindString:
		s, err := readString(r)
		if err != nil {
			return Value{}, err
		}
		return StringValue(s), nil
	case KindBigInt:
		s, err := readString(r)
		if err != nil {
			return Value{}, err
		}
		return BigIntValue(s), nil
	default:
		return Value{}, fmt.Errorf("bytecode: cannot deserialize constant of kind %d", kindByte)
	}
}
