package ord

import "github.com/gaze-network/ordinals-indexer/common"

// GetJubileeHeight returns the activation height after which
// previously-cursed inscriptions receive positive (jubilee) numbers.
func GetJubileeHeight(network common.Network) uint64 {
	switch network {
	case common.NetworkMainnet:
		return 824544
	case common.NetworkTestnet:
		return 2544192
	}
	panic("unsupported network")
}
