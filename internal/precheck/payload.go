// Package precheck implements the PrecheckV1 guard: the client-side
// instruction builder and the single-transition state machine the deployed
// program evaluates. The instruction aborts the whole transaction when
// bonding-curve liquidity or slot freshness constraints are violated, so no
// partial swap can occur.
package precheck

import (
	"encoding/binary"
	"errors"

	"github.com/hxuan190/trade-engine/internal/domain"
)

// DiscriminatorV1 is the instruction discriminator byte for PrecheckV1.
const DiscriminatorV1 byte = 1

// PayloadLenV1 is the serialized payload length:
// disc + context_slot + max_slot_diff + four liquidity bounds + base.
const PayloadLenV1 = 1 + 8 + 1 + 8 + 8 + 8 + 8 + 8

var (
	ErrInvalidPayloadLength        = errors.New("precheck: invalid payload length")
	ErrInvalidDiscriminator        = errors.New("precheck: invalid discriminator")
	ErrZeroMaxSlotDiff             = errors.New("precheck: max_slot_diff must be non-zero")
	ErrInvalidLiquidityRange       = errors.New("precheck: min_liquidity_lamports exceeds max_liquidity_lamports")
	ErrInvalidDifferenceRange      = errors.New("precheck: min_liquidity_difference_lamports exceeds max_liquidity_difference_lamports")
)

// Payload is the fixed-layout PrecheckV1 instruction payload. All integer
// fields are little-endian on the wire.
type Payload struct {
	ContextSlot                    uint64
	MaxSlotDiff                    uint8
	MinLiquidityLamports           uint64
	MaxLiquidityLamports           uint64
	BaseLiquidityLamports          uint64
	MinLiquidityDifferenceLamports uint64
	MaxLiquidityDifferenceLamports uint64
}

// PayloadFromParams converts the request-level params into a wire payload.
func PayloadFromParams(p domain.PrecheckParams) Payload {
	return Payload{
		ContextSlot:                    p.ContextSlot,
		MaxSlotDiff:                    p.MaxSlotDiff,
		MinLiquidityLamports:           p.MinLiquidityLamports,
		MaxLiquidityLamports:           p.MaxLiquidityLamports,
		BaseLiquidityLamports:          p.BaseLiquidityLamports,
		MinLiquidityDifferenceLamports: p.MinLiquidityDifferenceLamports,
		MaxLiquidityDifferenceLamports: p.MaxLiquidityDifferenceLamports,
	}
}

// Validate rejects payloads the program would refuse to parse.
func (p Payload) Validate() error {
	if p.MaxSlotDiff == 0 {
		return ErrZeroMaxSlotDiff
	}
	if p.MinLiquidityLamports > p.MaxLiquidityLamports {
		return ErrInvalidLiquidityRange
	}
	if p.MinLiquidityDifferenceLamports != 0 && p.MaxLiquidityDifferenceLamports != 0 &&
		p.MinLiquidityDifferenceLamports > p.MaxLiquidityDifferenceLamports {
		return ErrInvalidDifferenceRange
	}
	return nil
}

// Bytes serializes the payload in the PrecheckV1 wire layout.
func (p Payload) Bytes() []byte {
	buf := make([]byte, PayloadLenV1)
	buf[0] = DiscriminatorV1
	binary.LittleEndian.PutUint64(buf[1:9], p.ContextSlot)
	buf[9] = p.MaxSlotDiff
	binary.LittleEndian.PutUint64(buf[10:18], p.MinLiquidityLamports)
	binary.LittleEndian.PutUint64(buf[18:26], p.MaxLiquidityLamports)
	binary.LittleEndian.PutUint64(buf[26:34], p.BaseLiquidityLamports)
	binary.LittleEndian.PutUint64(buf[34:42], p.MinLiquidityDifferenceLamports)
	binary.LittleEndian.PutUint64(buf[42:50], p.MaxLiquidityDifferenceLamports)
	return buf
}

// ParsePayload validates length and discriminator before any field is read,
// then extracts fields by explicit offset.
func ParsePayload(data []byte) (Payload, error) {
	if len(data) != PayloadLenV1 {
		return Payload{}, ErrInvalidPayloadLength
	}
	if data[0] != DiscriminatorV1 {
		return Payload{}, ErrInvalidDiscriminator
	}
	p := Payload{
		ContextSlot:                    binary.LittleEndian.Uint64(data[1:9]),
		MaxSlotDiff:                    data[9],
		MinLiquidityLamports:           binary.LittleEndian.Uint64(data[10:18]),
		MaxLiquidityLamports:           binary.LittleEndian.Uint64(data[18:26]),
		BaseLiquidityLamports:          binary.LittleEndian.Uint64(data[26:34]),
		MinLiquidityDifferenceLamports: binary.LittleEndian.Uint64(data[34:42]),
		MaxLiquidityDifferenceLamports: binary.LittleEndian.Uint64(data[42:50]),
	}
	return p, p.Validate()
}
