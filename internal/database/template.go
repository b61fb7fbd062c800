package database

import (
	"encoding/binary"
	"fmt"
	"math"
)

// EncodeTemplate serializes a descriptor as little-endian float32 values.
// Returns nil for an empty descriptor so the column stays NULL.
func EncodeTemplate(template []float32) []byte {
	if len(template) == 0 {
		return nil
	}
	buf := make([]byte, 4*len(template))
	for i, v := range template {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// DecodeTemplate is the inverse of EncodeTemplate.
func DecodeTemplate(data []byte) ([]float32, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("template blob length %d is not a multiple of 4", len(data))
	}
	out := make([]float32, len(data)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return out, nil
}
