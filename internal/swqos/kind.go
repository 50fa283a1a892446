// Package swqos submits signed transactions to SWQOS relays over pooled
// HTTP connections with a uniform contract across relay vendors.
package swqos

import (
	"fmt"
)

// ServiceKind identifies a relay vendor. The set is closed; every switch
// over it handles all kinds explicitly.
type ServiceKind uint8

const (
	KindDefault ServiceKind = iota // plain RPC sendTransaction
	KindJito
	KindBloxroute
	KindNextBlock
	KindZeroSlot
	KindHelius
	KindNode1
	KindAstralane
	KindStellium
	KindBlockRazor
)

func (k ServiceKind) String() string {
	switch k {
	case KindDefault:
		return "default"
	case KindJito:
		return "jito"
	case KindBloxroute:
		return "bloxroute"
	case KindNextBlock:
		return "nextblock"
	case KindZeroSlot:
		return "zeroslot"
	case KindHelius:
		return "helius"
	case KindNode1:
		return "node1"
	case KindAstralane:
		return "astralane"
	case KindStellium:
		return "stellium"
	case KindBlockRazor:
		return "blockrazor"
	default:
		return "unknown"
	}
}

func ParseServiceKind(s string) (ServiceKind, error) {
	switch s {
	case "default", "":
		return KindDefault, nil
	case "jito":
		return KindJito, nil
	case "bloxroute":
		return KindBloxroute, nil
	case "nextblock":
		return KindNextBlock, nil
	case "zeroslot", "0slot":
		return KindZeroSlot, nil
	case "helius":
		return KindHelius, nil
	case "node1":
		return KindNode1, nil
	case "astralane":
		return KindAstralane, nil
	case "stellium":
		return KindStellium, nil
	case "blockrazor":
		return KindBlockRazor, nil
	default:
		return 0, fmt.Errorf("unknown swqos service kind %q", s)
	}
}

// Region selects a vendor point of presence. Vendors that do not serve a
// region fall back to their default endpoint.
type Region uint8

const (
	RegionDefault Region = iota
	RegionFrankfurt
	RegionNewYork
	RegionAmsterdam
	RegionTokyo
	RegionSaltLake
	RegionLosAngeles
)

func (r Region) String() string {
	switch r {
	case RegionFrankfurt:
		return "frankfurt"
	case RegionNewYork:
		return "newyork"
	case RegionAmsterdam:
		return "amsterdam"
	case RegionTokyo:
		return "tokyo"
	case RegionSaltLake:
		return "saltlake"
	case RegionLosAngeles:
		return "losangeles"
	default:
		return "default"
	}
}

func ParseRegion(s string) (Region, error) {
	switch s {
	case "", "default":
		return RegionDefault, nil
	case "frankfurt", "fra":
		return RegionFrankfurt, nil
	case "newyork", "ny":
		return RegionNewYork, nil
	case "amsterdam", "ams":
		return RegionAmsterdam, nil
	case "tokyo", "tyo":
		return RegionTokyo, nil
	case "saltlake", "slc":
		return RegionSaltLake, nil
	case "losangeles", "la":
		return RegionLosAngeles, nil
	default:
		return 0, fmt.Errorf("unknown swqos region %q", s)
	}
}
