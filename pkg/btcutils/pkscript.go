package btcutils

import (
	"encoding/hex"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/txscript"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ordinals-indexer/common"
	"github.com/gaze-network/ordinals-indexer/common/errs"
)

// ToPkScript converts a string of address or hex-encoded pkscript to bytes of pkscript.
func ToPkScript(network common.Network, from string) ([]byte, error) {
	if from == "" {
		return nil, errors.Wrap(errs.InvalidArgument, "empty input")
	}
	params := network.ChainParams()
	if params == nil {
		return nil, errors.Wrap(errs.InvalidArgument, "invalid network")
	}

	// attempt to parse as address
	address, err := btcutil.DecodeAddress(from, params)
	if err == nil {
		pkScript, err := txscript.PayToAddrScript(address)
		if err != nil {
			return nil, errors.Wrap(err, "error converting address to pkscript")
		}
		return pkScript, nil
	}

	// attempt to parse as pkscript
	pkScript, err := hex.DecodeString(from)
	if err != nil {
		return nil, errors.Wrap(err, "error decoding pkscript")
	}
	return pkScript, nil
}

// PkScriptToAddress returns the address encoded from the given pkScript.
func PkScriptToAddress(pkScript []byte, network common.Network) (string, error) {
	_, addrs, _, err := txscript.ExtractPkScriptAddrs(pkScript, network.ChainParams())
	if err != nil {
		return "", errors.Wrap(err, "error extracting addresses from pkscript")
	}
	if len(addrs) != 1 {
		return "", errors.New("invalid number of addresses extracted from pkscript")
	}
	return addrs[0].EncodeAddress(), nil
}
