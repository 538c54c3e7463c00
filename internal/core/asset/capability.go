package asset

import (
	"encoding/hex"
	"fmt"
)

// Capability is a 4-byte capability-introspection tag advertised by an asset
// contract, in the style of ERC-165 interface ids.
type Capability [4]byte

// Capability tags for the three supported transfer standards. The values
// match the interface ids the production contracts advertise.
var (
	// CapUnique marks contracts implementing the unique-asset standard
	// (one indivisible unit per id, single owner).
	CapUnique = Capability{0x80, 0xac, 0x58, 0xcd}

	// CapMultiUnit marks contracts implementing the multi-unit standard
	// (a divisible balance of identical units per id).
	CapMultiUnit = Capability{0xd9, 0xb6, 0x7a, 0x26}

	// CapFungible marks pure balance-only token ledgers. Contracts that
	// advertise neither NFT tag are treated as fungible regardless.
	CapFungible = Capability{0x74, 0xa1, 0x47, 0x6f}
)

// String returns the tag in 0x-prefixed hex.
func (c Capability) String() string {
	return fmt.Sprintf("0x%02x%02x%02x%02x", c[0], c[1], c[2], c[3])
}

// ParseCapability parses an 8-hex-digit capability tag, with or without a
// 0x prefix.
func ParseCapability(s string) (Capability, error) {
	if len(s) >= 2 && (s[:2] == "0x" || s[:2] == "0X") {
		s = s[2:]
	}
	if len(s) != 8 {
		return Capability{}, fmt.Errorf("invalid capability tag %q: want 8 hex digits", s)
	}
	var c Capability
	if _, err := hex.Decode(c[:], []byte(s)); err != nil {
		return Capability{}, fmt.Errorf("invalid capability tag %q: %w", s, err)
	}
	return c, nil
}

// Class is the transfer protocol resolved for an asset contract.
type Class int

const (
	// ClassFungible is the default class when no NFT capability tag matches.
	ClassFungible Class = iota
	ClassUnique
	ClassMultiUnit
)

// String implements fmt.Stringer.
func (c Class) String() string {
	switch c {
	case ClassFungible:
		return "fungible"
	case ClassUnique:
		return "unique"
	case ClassMultiUnit:
		return "multi-unit"
	default:
		return fmt.Sprintf("class(%d)", int(c))
	}
}
