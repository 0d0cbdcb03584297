package uid

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"strings"
	"sync/atomic"
	"time"
)

// ErrStableNodeIdentityUnavailable means neither machine-id nor
// hostname could be read, so node-unique IDs cannot be guaranteed.
var ErrStableNodeIdentityUnavailable = errors.New("uid: cannot determine stable node identity (machine-id/hostname unavailable)")

// ObjectIDGenerator produces 64-character hex IDs that are safe to
// generate concurrently across processes and hosts. Each ID packs a
// millisecond timestamp, a node fingerprint, the pid, a counter, and
// random tail bytes, so IDs sort roughly by creation time.
type ObjectIDGenerator struct {
	nodeID  [6]byte
	pid     uint16
	counter uint32
}

// NewObjectIDGenerator builds a generator. It fails when no stable
// node identity can be derived for this host.
func NewObjectIDGenerator() (*ObjectIDGenerator, error) {
	g := &ObjectIDGenerator{pid: uint16(os.Getpid())}

	src, err := nodeIdentity()
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256([]byte(src))
	copy(g.nodeID[:], sum[:6])

	// random starting counter so restarts don't repeat sequences
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return nil, err
	}
	g.counter = uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])

	return g, nil
}

// nodeIdentity prefers /etc/machine-id and falls back to hostname.
func nodeIdentity() (string, error) {
	if b, err := os.ReadFile("/etc/machine-id"); err == nil {
		if s := strings.TrimSpace(string(b)); s != "" {
			return s, nil
		}
	}
	if h, err := os.Hostname(); err == nil {
		if h = strings.TrimSpace(h); h != "" {
			return h, nil
		}
	}
	return "", ErrStableNodeIdentityUnavailable
}

// Generate returns the next ID as a 64-character hex string.
func (g *ObjectIDGenerator) Generate() string {
	var raw [32]byte

	ts := uint64(time.Now().UnixMilli())
	raw[0] = byte(ts >> 40)
	raw[1] = byte(ts >> 32)
	raw[2] = byte(ts >> 24)
	raw[3] = byte(ts >> 16)
	raw[4] = byte(ts >> 8)
	raw[5] = byte(ts)

	copy(raw[6:12], g.nodeID[:])

	raw[12] = byte(g.pid >> 8)
	raw[13] = byte(g.pid)

	c := atomic.AddUint32(&g.counter, 1)
	raw[14] = byte(c >> 24)
	raw[15] = byte(c >> 16)
	raw[16] = byte(c >> 8)
	raw[17] = byte(c)

	// random tail; hash the structured prefix if entropy is unavailable
	if _, err := rand.Read(raw[18:]); err != nil {
		sum := sha256.Sum256(raw[:18])
		copy(raw[18:], sum[:14])
	}

	var out [64]byte
	hex.Encode(out[:], raw[:])
	return string(out[:])
}
