package ord

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/cockroachdb/errors"
)

// SatPoint is the position of a satoshi within a transaction output.
// The canonical text form is "<txid>:<vout>:<offset>".
type SatPoint struct {
	OutPoint wire.OutPoint
	Offset   uint64
}

func (s SatPoint) String() string {
	return fmt.Sprintf("%s:%d", s.OutPoint.String(), s.Offset)
}

var ErrSatPointInvalidSeparator = fmt.Errorf("invalid sat point: must contain exactly two separators")

func NewSatPointFromString(s string) (SatPoint, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 {
		return SatPoint{}, errors.WithStack(ErrSatPointInvalidSeparator)
	}
	txHash, err := chainhash.NewHashFromStr(parts[0])
	if err != nil {
		return SatPoint{}, errors.Wrap(err, "invalid sat point: cannot parse txHash")
	}
	index, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return SatPoint{}, errors.Wrap(err, "invalid sat point: cannot parse output index")
	}
	offset, err := strconv.ParseUint(parts[2], 10, 64)
	if err != nil {
		return SatPoint{}, errors.Wrap(err, "invalid sat point: cannot parse offset")
	}
	return SatPoint{
		OutPoint: wire.OutPoint{
			Hash:  *txHash,
			Index: uint32(index),
		},
		Offset: offset,
	}, nil
}

// MarshalJSON implements json.Marshaler
func (s SatPoint) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (s *SatPoint) UnmarshalJSON(data []byte) error {
	// data must be quoted
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return errors.New("must be string")
	}
	parsed, err := NewSatPointFromString(string(data[1 : len(data)-1]))
	if err != nil {
		return errors.WithStack(err)
	}
	*s = parsed
	return nil
}
