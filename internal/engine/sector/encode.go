package sector

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/skelhorn/undercroft/pkg/level"
)

// Compiled sector container, file extension .usec. Little endian throughout:
//
//	magic        [4]byte "USEC"
//	version      uint8
//	name         uint16 length + UTF-8 bytes
//	materials    3 x (uint16 length + bytes)  wall, floor, ceiling
//	bounds       6 x float32                  min xyz, max xyz
//	vertexCount  uint32
//	vertices     vertexCount x Vertex         pos3 normal3 tangent3 bitangent3 uv2
//	indexCount   uint32
//	indices      indexCount x uint32
//	ranges       3 x (int32 start, int32 count)  walls, floor, ceiling

var (
	// ErrInvalidMagic means the data does not start with the USEC signature.
	ErrInvalidMagic = errors.New("not a compiled sector file")
	// ErrUnsupportedVersion means the file was written by an incompatible
	// format revision.
	ErrUnsupportedVersion = errors.New("unsupported sector file version")
	// ErrCorruptFile means a length field is implausible or the data ends
	// early.
	ErrCorruptFile = errors.New("corrupt sector file")
)

var usecMagic = [4]byte{'U', 'S', 'E', 'C'}

const usecVersion = 1

// maxElementCount bounds vertex and index counts on decode so a corrupt
// length field cannot trigger a giant allocation.
const maxElementCount = 1 << 26

// Encode writes the mesh to w in the .usec container format.
func Encode(w io.Writer, m *Mesh) error {
	if _, err := w.Write(usecMagic[:]); err != nil {
		return fmt.Errorf("writing magic: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint8(usecVersion)); err != nil {
		return fmt.Errorf("writing version: %w", err)
	}

	for _, s := range []string{m.Name, m.Materials.Wall, m.Materials.Floor, m.Materials.Ceiling} {
		if err := writeString(w, s); err != nil {
			return err
		}
	}

	if err := binary.Write(w, binary.LittleEndian, m.Bounds); err != nil {
		return fmt.Errorf("writing bounds: %w", err)
	}

	if err := binary.Write(w, binary.LittleEndian, uint32(len(m.Vertices))); err != nil {
		return fmt.Errorf("writing vertex count: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, m.Vertices); err != nil {
		return fmt.Errorf("writing vertices: %w", err)
	}

	if err := binary.Write(w, binary.LittleEndian, uint32(len(m.Indices))); err != nil {
		return fmt.Errorf("writing index count: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, m.Indices); err != nil {
		return fmt.Errorf("writing indices: %w", err)
	}

	if err := binary.Write(w, binary.LittleEndian, m.Walls); err != nil {
		return fmt.Errorf("writing wall range: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, m.Floor); err != nil {
		return fmt.Errorf("writing floor range: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, m.Ceiling); err != nil {
		return fmt.Errorf("writing ceiling range: %w", err)
	}

	return nil
}

// Decode reads a mesh from r, validating the signature and version.
func Decode(r io.Reader) (*Mesh, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("reading magic: %w", err)
	}
	if magic != usecMagic {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidMagic, magic[:])
	}

	var version uint8
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("reading version: %w", err)
	}
	if version != usecVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	m := &Mesh{}

	strs := make([]string, 4)
	for i := range strs {
		s, err := readString(r)
		if err != nil {
			return nil, err
		}
		strs[i] = s
	}
	m.Name = strs[0]
	m.Materials = level.MaterialSet{Wall: strs[1], Floor: strs[2], Ceiling: strs[3]}

	if err := binary.Read(r, binary.LittleEndian, &m.Bounds); err != nil {
		return nil, fmt.Errorf("reading bounds: %w", err)
	}

	var vertexCount uint32
	if err := binary.Read(r, binary.LittleEndian, &vertexCount); err != nil {
		return nil, fmt.Errorf("reading vertex count: %w", err)
	}
	if vertexCount > maxElementCount {
		return nil, fmt.Errorf("%w: vertex count %d", ErrCorruptFile, vertexCount)
	}
	m.Vertices = make([]Vertex, vertexCount)
	if err := binary.Read(r, binary.LittleEndian, m.Vertices); err != nil {
		return nil, fmt.Errorf("reading vertices: %w", err)
	}

	var indexCount uint32
	if err := binary.Read(r, binary.LittleEndian, &indexCount); err != nil {
		return nil, fmt.Errorf("reading index count: %w", err)
	}
	if indexCount > maxElementCount {
		return nil, fmt.Errorf("%w: index count %d", ErrCorruptFile, indexCount)
	}
	m.Indices = make([]uint32, indexCount)
	if err := binary.Read(r, binary.LittleEndian, m.Indices); err != nil {
		return nil, fmt.Errorf("reading indices: %w", err)
	}

	if err := binary.Read(r, binary.LittleEndian, &m.Walls); err != nil {
		return nil, fmt.Errorf("reading wall range: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &m.Floor); err != nil {
		return nil, fmt.Errorf("reading floor range: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &m.Ceiling); err != nil {
		return nil, fmt.Errorf("reading ceiling range: %w", err)
	}

	return m, nil
}

// WriteFile encodes the mesh to path.
func WriteFile(path string, m *Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating sector file: %w", err)
	}

	w := bufio.NewWriter(f)
	if err := Encode(w, m); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("flushing sector file: %w", err)
	}
	return f.Close()
}

// ReadFile decodes the mesh at path.
func ReadFile(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening sector file: %w", err)
	}
	defer f.Close()

	m, err := Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func writeString(w io.Writer, s string) error {
	if len(s) > 0xFFFF {
		return fmt.Errorf("string too long for container: %d bytes", len(s))
	}
	if err := binary.Write(w, binary.LittleEndian, uint16(len(s))); err != nil {
		return fmt.Errorf("writing string length: %w", err)
	}
	if _, err := w.Write([]byte(s)); err != nil {
		return fmt.Errorf("writing string: %w", err)
	}
	return nil
}

func readString(r io.Reader) (string, error) {
	var n uint16
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", fmt.Errorf("reading string length: %w", err)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("reading string: %w", err)
	}
	return string(buf), nil
}
