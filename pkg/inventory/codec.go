package inventory

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/agentstation/instantbox/pkg/errors"
)

// NewID returns a fresh entity id. UUIDv7 ids sort by creation time.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// EncodeCameras serializes cameras for persistence and replication.
func EncodeCameras(cameras []Camera) ([]byte, error) {
	return encode(CollectionCameras, cameras)
}

// DecodeCameras parses a serialized camera collection. Empty input yields nil.
func DecodeCameras(data []byte) ([]Camera, error) {
	return decode[Camera](CollectionCameras, data)
}

// EncodeFilmPacks serializes film packs for persistence and replication.
func EncodeFilmPacks(packs []FilmPack) ([]byte, error) {
	return encode(CollectionFilmPacks, packs)
}

// DecodeFilmPacks parses a serialized film pack collection. Empty input yields nil.
func DecodeFilmPacks(data []byte) ([]FilmPack, error) {
	return decode[FilmPack](CollectionFilmPacks, data)
}

func encode[T any](collection string, items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return nil, errors.NewParseError("json", collection, "encoding failed", err)
	}
	return data, nil
}

func decode[T any](collection string, data []byte) ([]T, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, errors.NewParseError("json", collection, "decoding failed", err)
	}
	return items, nil
}
