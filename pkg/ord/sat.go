package ord

// Sat is an ordinal number: the index of a satoshi in total issuance order.
type Sat uint64

const (
	// SatSupply is the total number of satoshis that will ever exist.
	SatSupply = 2099999997690000

	halvingInterval    = 210_000
	diffchangeInterval = 2016
	cycleEpochs        = 6
	initialSubsidy     = 50 * 100_000_000
)

// epochStartingSats[e] is the first sat of halving epoch e.
var epochStartingSats = func() [34]Sat {
	var starts [34]Sat
	sat := uint64(0)
	subsidy := uint64(initialSubsidy)
	for e := 0; e < 33; e++ {
		starts[e] = Sat(sat)
		sat += subsidy * halvingInterval
		subsidy >>= 1
	}
	starts[33] = Sat(sat)
	return starts
}()

// Epoch returns the halving epoch this sat was mined in.
func (s Sat) Epoch() uint64 {
	for e := 1; e < len(epochStartingSats); e++ {
		if s < epochStartingSats[e] {
			return uint64(e - 1)
		}
	}
	return uint64(len(epochStartingSats) - 1)
}

func (s Sat) epochSubsidy() uint64 {
	return uint64(initialSubsidy) >> s.Epoch()
}

// Height returns the block height this sat was mined at.
func (s Sat) Height() uint64 {
	epoch := s.Epoch()
	offset := uint64(s - epochStartingSats[epoch])
	return epoch*halvingInterval + offset/s.epochSubsidy()
}

// Third returns the offset of this sat within its block's subsidy.
func (s Sat) Third() uint64 {
	epoch := s.Epoch()
	offset := uint64(s - epochStartingSats[epoch])
	return offset % s.epochSubsidy()
}
