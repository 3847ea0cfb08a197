package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"

	"github.com/gowebpki/jcs"
)

// scheduleVersion is bumped whenever the schedule format or the ordering
// rules change, invalidating previously cached schedules.
const scheduleVersion = 1

// Hash returns the hex SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashJSON returns the Hash of v's canonical JSON form (RFC 8785), so equal
// documents hash alike whatever their field order or number formatting.
func HashJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	data, err = jcs.Transform(data)
	if err != nil {
		return "", err
	}
	return Hash(data), nil
}

// Keyer generates cache keys.
type Keyer interface {
	// ScheduleKey returns the key for the schedule of the graph with the
	// given content hash.
	ScheduleKey(graphHash string) string
}

// DefaultKeyer produces keys of the form "schedule:v<version>:<graph hash>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ScheduleKey implements Keyer.
func (DefaultKeyer) ScheduleKey(graphHash string) string {
	return "schedule:v" + strconv.Itoa(scheduleVersion) + ":" + graphHash
}

// ScopedKeyer prefixes every key of an inner Keyer, so several environments
// can share one Redis instance.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ScheduleKey implements Keyer.
func (k *ScopedKeyer) ScheduleKey(graphHash string) string {
	return k.prefix + k.inner.ScheduleKey(graphHash)
}
