package app

import (
	"fmt"

	"github.com/bunchhieng/sqid/internal/model"
	"github.com/bunchhieng/sqid/pkg/sqids"
)

// IDs maps link keys to public IDs and back.
type IDs struct {
	codec *sqids.Sqids
}

// NewIDs wraps codec.
func NewIDs(codec *sqids.Sqids) *IDs {
	return &IDs{codec: codec}
}

// Codec returns the underlying encoder.
func (i *IDs) Codec() *sqids.Sqids {
	return i.codec
}

// Encode returns the public ID of key.
func (i *IDs) Encode(key uint64) (string, error) {
	id, err := i.codec.Encode([]uint64{key})
	if err != nil {
		return "", fmt.Errorf("encode key %d: %w", key, err)
	}
	return id, nil
}

// Decode returns the key behind id. Only the canonical ID of a single key is
// accepted: padded variants, IDs regenerated around the blocklist by another
// configuration and multi-number IDs all fail with model.ErrInvalidID.
func (i *IDs) Decode(id string) (uint64, error) {
	numbers := i.codec.Decode(id)
	if len(numbers) != 1 {
		return 0, fmt.Errorf("%w: %q", model.ErrInvalidID, id)
	}
	canonical, err := i.codec.Encode(numbers)
	if err != nil || canonical != id {
		return 0, fmt.Errorf("%w: %q", model.ErrInvalidID, id)
	}
	return numbers[0], nil
}

// Fill sets the ID field of every link.
func (i *IDs) Fill(links ...*model.Link) error {
	for _, link := range links {
		id, err := i.Encode(link.Key)
		if err != nil {
			return err
		}
		link.ID = id
	}
	return nil
}
