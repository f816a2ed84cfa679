package ord

import (
	"testing"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/assert"
)

func TestNewSatPointFromString(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    SatPoint
		shouldError bool
	}{
		{
			name:  "zero vout and offset",
			input: "1111111111111111111111111111111111111111111111111111111111111111:0:0",
			expected: SatPoint{
				OutPoint: wire.OutPoint{
					Hash:  *utils.Must(chainhash.NewHashFromStr("1111111111111111111111111111111111111111111111111111111111111111")),
					Index: 0,
				},
				Offset: 0,
			},
		},
		{
			name:  "nonzero vout and offset",
			input: "1111111111111111111111111111111111111111111111111111111111111111:2:330",
			expected: SatPoint{
				OutPoint: wire.OutPoint{
					Hash:  *utils.Must(chainhash.NewHashFromStr("1111111111111111111111111111111111111111111111111111111111111111")),
					Index: 2,
				},
				Offset: 330,
			},
		},
		{
			name:        "error missing offset",
			input:       "1111111111111111111111111111111111111111111111111111111111111111:0",
			shouldError: true,
		},
		{
			name:        "error invalid tx hash",
			input:       "xyz:0:0",
			shouldError: true,
		},
		{
			name:        "error invalid offset",
			input:       "1111111111111111111111111111111111111111111111111111111111111111:0:abc",
			shouldError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, err := NewSatPointFromString(tt.input)
			if tt.shouldError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, actual)
			}
		})
	}
}

func TestSatPointString(t *testing.T) {
	satPoint := SatPoint{
		OutPoint: wire.OutPoint{
			Hash:  *utils.Must(chainhash.NewHashFromStr("1111111111111111111111111111111111111111111111111111111111111111")),
			Index: 1,
		},
		Offset: 546,
	}
	assert.Equal(t, "1111111111111111111111111111111111111111111111111111111111111111:1:546", satPoint.String())
}

func TestSatPointJSONRoundTrip(t *testing.T) {
	satPoint := SatPoint{
		OutPoint: wire.OutPoint{
			Hash:  *utils.Must(chainhash.NewHashFromStr("2222222222222222222222222222222222222222222222222222222222222222")),
			Index: 0,
		},
		Offset: 1,
	}
	data, err := satPoint.MarshalJSON()
	assert.NoError(t, err)

	var parsed SatPoint
	assert.NoError(t, parsed.UnmarshalJSON(data))
	assert.Equal(t, satPoint, parsed)
}
