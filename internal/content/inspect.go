package content

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"

	"github.com/samcharles93/xnacore/pkg/xnb"
)

// ReaderEntry is one row of a container's type reader table.
type ReaderEntry struct {
	Name    string `json:"name"`
	Version int32  `json:"version"`
}

// Inspection summarizes a compiled container without keeping the decoded
// asset around.
type Inspection struct {
	Asset           string        `json:"asset"`
	Platform        string        `json:"platform"`
	Version         uint8         `json:"version"`
	HiDef           bool          `json:"hidef"`
	Compression     string        `json:"compression"`
	FileSize        int           `json:"file_size"`
	PayloadSize     int           `json:"payload_size"`
	Ratio           float64       `json:"ratio"`
	Readers         []ReaderEntry `json:"readers"`
	SharedResources int           `json:"shared_resources"`
	RootType        string        `json:"root_type,omitempty"`
	Digest          string        `json:"blake3"`
	DecodeError     string        `json:"decode_error,omitempty"`
}

// Digest is the hex blake3 hash of b.
func Digest(b []byte) string {
	sum := blake3.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// Inspect parses a container and its object stream header, then tries a
// full decode to name the root type. Container errors fail the call; a
// decode error is recorded in the result.
func (m *Manager) Inspect(asset string, data []byte) (*Inspection, error) {
	f, err := xnb.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("content: %q: %w", asset, err)
	}
	in := &Inspection{
		Asset:       asset,
		Platform:    f.Header.Platform.String(),
		Version:     f.Header.Version,
		HiDef:       f.Header.HiDef(),
		Compression: f.Header.Compression().String(),
		FileSize:    int(f.Header.FileSize),
		PayloadSize: len(f.Payload),
		Digest:      Digest(f.Payload),
	}
	if len(f.Payload) > 0 {
		in.Ratio = float64(f.Header.PayloadSize()) / float64(len(f.Payload))
	}

	r := newReader(m, m.types, asset, f.Header, f.Payload)
	if in.Readers, in.SharedResources, err = r.readTable(); err != nil {
		in.DecodeError = err.Error()
		return in, nil
	}

	root, err := newReader(m, m.types, asset, f.Header, f.Payload).ReadAsset()
	if err != nil {
		in.DecodeError = err.Error()
		return in, nil
	}
	if root != nil {
		in.RootType = fmt.Sprintf("%T", root)
	}
	if c, ok := root.(interface{ Close() error }); ok {
		_ = c.Close()
	}
	return in, nil
}

// readTable reads the type reader names and the shared resource count
// without resolving any reader.
func (r *Reader) readTable() ([]ReaderEntry, int, error) {
	n, err := r.Read7BitEncodedInt()
	if err != nil {
		return nil, 0, err
	}
	if n < 0 || n > r.Remaining() {
		return nil, 0, fmt.Errorf("%w: %d type readers", ErrCorrupt, n)
	}
	out := make([]ReaderEntry, 0, n)
	for range n {
		name, err := r.ReadString()
		if err != nil {
			return out, 0, err
		}
		v, err := r.ReadInt32()
		if err != nil {
			return out, 0, err
		}
		out = append(out, ReaderEntry{Name: name, Version: v})
	}
	shared, err := r.Read7BitEncodedInt()
	if err != nil {
		return out, 0, err
	}
	return out, shared, nil
}
