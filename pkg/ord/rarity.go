package ord

// Rarity is the ordinal-theory rarity class of a satoshi, a pure
// function of its ordinal number.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
	RarityMythic    Rarity = "mythic"
)

func (r Rarity) String() string {
	return string(r)
}

func (r Rarity) IsValid() bool {
	switch r {
	case RarityCommon, RarityUncommon, RarityRare, RarityEpic, RarityLegendary, RarityMythic:
		return true
	}
	return false
}

// Rarity classifies this sat:
// mythic is sat 0, legendary the first sat of a cycle, epic the first sat
// of a halving epoch, rare the first sat of a difficulty adjustment
// period, uncommon the first sat of any block, common everything else.
func (s Sat) Rarity() Rarity {
	if s == 0 {
		return RarityMythic
	}
	if s.Third() != 0 {
		return RarityCommon
	}
	height := s.Height()
	switch {
	case height%(halvingInterval*cycleEpochs) == 0:
		return RarityLegendary
	case height%halvingInterval == 0:
		return RarityEpic
	case height%diffchangeInterval == 0:
		return RarityRare
	default:
		return RarityUncommon
	}
}
