package ord

import (
	"testing"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/assert"
)

func TestNewInscriptionIdFromString(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    InscriptionId
		shouldError bool
	}{
		{
			name:  "index zero",
			input: "1111111111111111111111111111111111111111111111111111111111111111i0",
			expected: InscriptionId{
				TxHash: *utils.Must(chainhash.NewHashFromStr("1111111111111111111111111111111111111111111111111111111111111111")),
				Index:  0,
			},
		},
		{
			name:  "index one",
			input: "1111111111111111111111111111111111111111111111111111111111111111i1",
			expected: InscriptionId{
				TxHash: *utils.Must(chainhash.NewHashFromStr("1111111111111111111111111111111111111111111111111111111111111111")),
				Index:  1,
			},
		},
		{
			name:  "max index",
			input: "1111111111111111111111111111111111111111111111111111111111111111i4294967295",
			expected: InscriptionId{
				TxHash: *utils.Must(chainhash.NewHashFromStr("1111111111111111111111111111111111111111111111111111111111111111")),
				Index:  4294967295,
			},
		},
		{
			name:        "error no separator",
			input:       "abc",
			shouldError: true,
		},
		{
			name:        "error invalid tx hash",
			input:       "xyzi0",
			shouldError: true,
		},
		{
			name:        "error invalid index",
			input:       "1111111111111111111111111111111111111111111111111111111111111111ixyz",
			shouldError: true,
		},
		{
			name:        "error index overflow",
			input:       "1111111111111111111111111111111111111111111111111111111111111111i4294967296",
			shouldError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, err := NewInscriptionIdFromString(tt.input)
			if tt.shouldError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, actual)
			}
		})
	}
}

func TestInscriptionIdString(t *testing.T) {
	id := InscriptionId{
		TxHash: *utils.Must(chainhash.NewHashFromStr("1111111111111111111111111111111111111111111111111111111111111111")),
		Index:  42,
	}
	assert.Equal(t, "1111111111111111111111111111111111111111111111111111111111111111i42", id.String())
}

func TestInscriptionIdJSONRoundTrip(t *testing.T) {
	id := InscriptionId{
		TxHash: *utils.Must(chainhash.NewHashFromStr("2222222222222222222222222222222222222222222222222222222222222222")),
		Index:  7,
	}
	data, err := id.MarshalJSON()
	assert.NoError(t, err)
	assert.Equal(t, `"2222222222222222222222222222222222222222222222222222222222222222i7"`, string(data))

	var parsed InscriptionId
	assert.NoError(t, parsed.UnmarshalJSON(data))
	assert.Equal(t, id, parsed)

	assert.Error(t, parsed.UnmarshalJSON([]byte(`123`)))
}
