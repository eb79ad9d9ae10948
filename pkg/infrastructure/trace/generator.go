package trace

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/vsinha/mrpatp/pkg/domain/repositories"
)

// UUIDGenerator issues ids of the form KIND-KEY-xxxxxxxx from random UUIDs
type UUIDGenerator struct{}

// NewUUIDGenerator creates a UUID-backed trace id generator
func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Verify interface compliance
var _ repositories.TraceIDGenerator = (*UUIDGenerator)(nil)

// GenerateTraceID returns a new id for kind and key
func (g *UUIDGenerator) GenerateTraceID(kind, key string) string {
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return format(kind, key, suffix)
}

// SequentialGenerator issues deterministic ids KIND-KEY-000001, KIND-KEY-000002, ...
type SequentialGenerator struct {
	next atomic.Int64
}

// NewSequentialGenerator creates a counter-backed trace id generator
func NewSequentialGenerator() *SequentialGenerator {
	return &SequentialGenerator{}
}

// Verify interface compliance
var _ repositories.TraceIDGenerator = (*SequentialGenerator)(nil)

// GenerateTraceID returns the next id in sequence
func (g *SequentialGenerator) GenerateTraceID(kind, key string) string {
	n := g.next.Add(1)
	return format(kind, key, fmt.Sprintf("%06d", n))
}

func format(kind, key, suffix string) string {
	if key == "" {
		return kind + "-" + suffix
	}
	return kind + "-" + key + "-" + suffix
}
