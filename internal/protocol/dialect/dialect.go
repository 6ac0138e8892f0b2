package dialect

import (
	"errors"
	"fmt"
	"sort"

	"github.com/danmuck/mavlink/internal/protocol/wire"
	"github.com/rs/zerolog/log"
)

var (
	ErrDuplicateMessage = errors.New("dialect: duplicate message")
	ErrInvalidMetadata  = errors.New("dialect: invalid metadata")
	ErrMessageType      = errors.New("dialect: unexpected message type")
)

// Message is any decoded dialect message.
type Message interface {
	MessageID() uint32
}

// Payload is implemented by generated message types.
type Payload interface {
	Message
	MarshalPayload(e *wire.Encoder)
	UnmarshalPayload(d *wire.Decoder)
}

// Metadata describes one message of a dialect. Values are immutable once
// registered.
type Metadata struct {
	ID       uint32
	Name     string
	CRCExtra uint8
	// Size is the declared (untruncated) payload size, extensions included.
	Size   int
	New    func() Message
	Encode func(Message) ([]byte, error)
	Decode func([]byte) (Message, error)
}

// Dialect resolves message ids to metadata. A miss is not an error.
type Dialect interface {
	Resolve(id uint32) (Metadata, bool)
	Supports(id uint32) bool
}

// DecodeError reports a payload that passed its checksum but does not fit
// the declared message shape.
type DecodeError struct {
	MessageID uint32
	Name      string
	Err       error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("dialect: decode %s (%d): %v", e.Name, e.MessageID, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Entry builds Metadata for a generated message type T whose pointer
// implements Payload.
func Entry[T any, P interface {
	*T
	Payload
}](id uint32, name string, crcExtra uint8, size int) Metadata {
	return Metadata{
		ID:       id,
		Name:     name,
		CRCExtra: crcExtra,
		Size:     size,
		New: func() Message {
			return P(new(T))
		},
		Encode: func(m Message) ([]byte, error) {
			var p P
			switch v := any(m).(type) {
			case P:
				p = v
			case T:
				p = P(&v)
			default:
				return nil, fmt.Errorf("%w: %T for %s", ErrMessageType, m, name)
			}
			e := wire.NewEncoder(size)
			p.MarshalPayload(e)
			return e.Bytes(), nil
		},
		Decode: func(b []byte) (Message, error) {
			// Bytes past the declared size are extension fields from a
			// newer dialect and are ignored.
			if len(b) > size {
				b = b[:size]
			}
			p := P(new(T))
			p.UnmarshalPayload(wire.NewDecoder(b))
			return p, nil
		},
	}
}

// Registry is a Dialect built once from a fixed set of entries.
type Registry struct {
	name   string
	byID   map[uint32]Metadata
	byName map[string]uint32
}

func NewRegistry(name string, entries ...Metadata) (*Registry, error) {
	r := &Registry{
		name:   name,
		byID:   make(map[uint32]Metadata, len(entries)),
		byName: make(map[string]uint32, len(entries)),
	}
	for _, m := range entries {
		if m.Name == "" || m.Encode == nil || m.Decode == nil || m.New == nil || m.Size < 0 {
			return nil, fmt.Errorf("%w: message %d", ErrInvalidMetadata, m.ID)
		}
		if _, ok := r.byID[m.ID]; ok {
			return nil, fmt.Errorf("%w: id %d", ErrDuplicateMessage, m.ID)
		}
		if _, ok := r.byName[m.Name]; ok {
			return nil, fmt.Errorf("%w: name %s", ErrDuplicateMessage, m.Name)
		}
		r.byID[m.ID] = m
		r.byName[m.Name] = m.ID
	}
	log.Debug().Str("dialect", name).Int("messages", len(r.byID)).Msg("dialect.NewRegistry")
	return r, nil
}

// MustRegistry is NewRegistry for package-level generated dialects.
func MustRegistry(name string, entries ...Metadata) *Registry {
	r, err := NewRegistry(name, entries...)
	if err != nil {
		panic(err)
	}
	return r
}

// Merge combines registries, e.g. a vendor dialect on top of common.
func Merge(name string, parts ...*Registry) (*Registry, error) {
	var entries []Metadata
	for _, p := range parts {
		entries = append(entries, p.Entries()...)
	}
	return NewRegistry(name, entries...)
}

func (r *Registry) Name() string {
	return r.name
}

func (r *Registry) Resolve(id uint32) (Metadata, bool) {
	m, ok := r.byID[id]
	return m, ok
}

func (r *Registry) Supports(id uint32) bool {
	_, ok := r.byID[id]
	return ok
}

func (r *Registry) ResolveName(name string) (Metadata, bool) {
	id, ok := r.byName[name]
	if !ok {
		return Metadata{}, false
	}
	return r.byID[id], true
}

// Entries returns every registered message ordered by id.
func (r *Registry) Entries() []Metadata {
	out := make([]Metadata, 0, len(r.byID))
	for _, m := range r.byID {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out
}
