package meridian

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/x448/float16"
)

// ErrIndexNotFound is returned when a metadata read names an index the
// catalog does not know. The cost estimator treats this as fatal: without a
// list count no estimate is possible.
var ErrIndexNotFound = errors.New("index not found")

// Metadata is the persistent, build-time state of an IVF index. It is
// written once when the index is built and read-only at query time.
type Metadata struct {
	// Lists is the configured number of inverted lists, in
	// [MinLists, MaxLists]. Immutable after build.
	Lists int

	// Dimensions is the vector dimensionality.
	Dimensions int

	// Tuples is the number of vectors loaded into the index.
	Tuples uint64
}

// MetadataReader reads index metadata at planning time. Implementations must
// tolerate concurrent reads of the same index without exclusive locking.
type MetadataReader interface {
	// ReadMetadata returns the build-time metadata for the named index.
	// Fails only if the index cannot be opened.
	ReadMetadata(index string) (Metadata, error)
}

// Catalog is an in-memory MetadataReader over registered indexes. A catalog
// is safe for concurrent use; metadata reads take only a shared lock.
type Catalog struct {
	mu      sync.RWMutex
	indexes map[string]*IVFIndex
}

// Compile-time check that Catalog implements MetadataReader.
var _ MetadataReader = (*Catalog)(nil)

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{indexes: make(map[string]*IVFIndex)}
}

// Register makes the index visible to metadata reads under the given name,
// replacing any previous registration.
func (c *Catalog) Register(name string, index *IVFIndex) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.indexes[name] = index
}

// Deregister removes the named index from the catalog.
func (c *Catalog) Deregister(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.indexes, name)
}

// Lookup returns the named index, or nil if it is not registered.
func (c *Catalog) Lookup(name string) *IVFIndex {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.indexes[name]
}

// ReadMetadata implements MetadataReader.
func (c *Catalog) ReadMetadata(name string) (Metadata, error) {
	c.mu.RLock()
	index, ok := c.indexes[name]
	c.mu.RUnlock()

	if !ok {
		return Metadata{}, fmt.Errorf("read metadata for %q: %w", name, ErrIndexNotFound)
	}
	return index.Metadata(), nil
}

// Encoded metadata block layout, little-endian:
//
//	magic   uint32
//	version uint16
//	lists   uint32
//	dims    uint32
//	tuples  uint64
//	centroids lists × dims × uint16 (IEEE 754 half precision)
//
// Centroids are stored half-precision: they only steer list selection, so
// half-precision error is irrelevant next to the k-means approximation, and
// the block stays small enough to read in one metadata fetch.
const (
	metaMagic   uint32 = 0x4d455249 // "MERI"
	metaVersion uint16 = 1

	metaHeaderSize = 4 + 2 + 4 + 4 + 8
)

// EncodeMetadata serializes metadata and centroids into the compact block
// format. The centroid slice length must equal m.Lists and every centroid
// must have m.Dimensions elements.
func EncodeMetadata(m Metadata, centroids [][]float32) ([]byte, error) {
	if err := ValidateLists(m.Lists); err != nil {
		return nil, err
	}
	if len(centroids) != m.Lists {
		return nil, fmt.Errorf("expected %d centroids, got %d", m.Lists, len(centroids))
	}

	buf := make([]byte, metaHeaderSize+2*m.Lists*m.Dimensions)
	binary.LittleEndian.PutUint32(buf[0:], metaMagic)
	binary.LittleEndian.PutUint16(buf[4:], metaVersion)
	binary.LittleEndian.PutUint32(buf[6:], uint32(m.Lists))
	binary.LittleEndian.PutUint32(buf[10:], uint32(m.Dimensions))
	binary.LittleEndian.PutUint64(buf[14:], m.Tuples)

	off := metaHeaderSize
	for i, centroid := range centroids {
		if len(centroid) != m.Dimensions {
			return nil, fmt.Errorf("centroid %d has %d dimensions, expected %d", i, len(centroid), m.Dimensions)
		}
		for _, v := range centroid {
			binary.LittleEndian.PutUint16(buf[off:], float16.Fromfloat32(v).Bits())
			off += 2
		}
	}

	return buf, nil
}

// DecodeMetadata parses a block produced by EncodeMetadata, returning the
// metadata and the half-precision centroids widened back to float32.
func DecodeMetadata(buf []byte) (Metadata, [][]float32, error) {
	if len(buf) < metaHeaderSize {
		return Metadata{}, nil, fmt.Errorf("metadata block truncated: %d bytes", len(buf))
	}
	if magic := binary.LittleEndian.Uint32(buf[0:]); magic != metaMagic {
		return Metadata{}, nil, fmt.Errorf("bad metadata magic %#x", magic)
	}
	if version := binary.LittleEndian.Uint16(buf[4:]); version != metaVersion {
		return Metadata{}, nil, fmt.Errorf("unsupported metadata version %d", version)
	}

	m := Metadata{
		Lists:      int(binary.LittleEndian.Uint32(buf[6:])),
		Dimensions: int(binary.LittleEndian.Uint32(buf[10:])),
		Tuples:     binary.LittleEndian.Uint64(buf[14:]),
	}
	if err := ValidateLists(m.Lists); err != nil {
		return Metadata{}, nil, err
	}

	want := metaHeaderSize + 2*m.Lists*m.Dimensions
	if len(buf) != want {
		return Metadata{}, nil, fmt.Errorf("metadata block has %d bytes, expected %d", len(buf), want)
	}

	centroids := make([][]float32, m.Lists)
	off := metaHeaderSize
	for i := range centroids {
		centroid := make([]float32, m.Dimensions)
		for j := range centroid {
			centroid[j] = float16.Frombits(binary.LittleEndian.Uint16(buf[off:])).Float32()
			off += 2
		}
		centroids[i] = centroid
	}

	return m, centroids, nil
}
