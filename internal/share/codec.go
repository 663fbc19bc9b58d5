package share

import (
	"fmt"

	"github.com/speps/go-hashids/v2"
)

const (
	minLength = 8
	alphabet  = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// Codec turns place IDs into short opaque share codes and back.
type Codec struct {
	h *hashids.HashID
}

func NewCodec(salt string) (*Codec, error) {
	data := hashids.NewData()
	data.Salt = salt
	data.MinLength = minLength
	data.Alphabet = alphabet

	h, err := hashids.NewWithData(data)
	if err != nil {
		return nil, fmt.Errorf("init hashids: %w", err)
	}
	return &Codec{h: h}, nil
}

func (c *Codec) Encode(id int64) (string, error) {
	return c.h.EncodeInt64([]int64{id})
}

func (c *Codec) Decode(code string) (int64, error) {
	ids, err := c.h.DecodeInt64WithError(code)
	if err != nil {
		return 0, fmt.Errorf("invalid share code: %w", err)
	}
	if len(ids) != 1 {
		return 0, fmt.Errorf("invalid share code")
	}
	return ids[0], nil
}
