package brc20

import (
	"encoding/json"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
)

// rawPayload keeps every field as json.RawMessage so that unquoted JSON
// numbers can be told apart from the required JSON strings.
type rawPayload struct {
	P    *json.RawMessage `json:"p"`
	Op   *json.RawMessage `json:"op"`
	Tick *json.RawMessage `json:"tick"`

	// for deploy operations
	Max      *json.RawMessage `json:"max"`
	Lim      *json.RawMessage `json:"lim"`
	Dec      *json.RawMessage `json:"dec"`
	SelfMint *json.RawMessage `json:"self_mint"`

	// for mint/transfer operations
	Amt *json.RawMessage `json:"amt"`
}

type Payload struct {
	Op           Operation
	Tick         string // lower-cased tick
	OriginalTick string // original tick before lower-cased

	// for deploy operations
	Max      decimal.Decimal
	Lim      decimal.Decimal
	Dec      uint16
	SelfMint bool

	// for mint/transfer operations
	Amt decimal.Decimal
}

var (
	ErrInvalidContentType = errors.New("invalid content type: base type must be 'application/json' or 'text/plain'")
	ErrInvalidProtocol    = errors.New("invalid protocol: must be 'brc-20'")
	ErrInvalidOperation   = errors.New("invalid operation for brc20: must be one of 'deploy', 'mint', or 'transfer'")
	ErrInvalidTickLength  = errors.New("invalid tick length: must be exactly 4 bytes")
	ErrEmptyMax           = errors.New("empty max")
	ErrInvalidDec         = errors.New("invalid dec: must be an integer in [0, 18]")
	ErrInvalidNumber      = errors.New("invalid number: must be a quoted decimal string matching ^\\d+(\\.\\d+)?$")
	ErrNumberOverflow     = errors.New("number overflow: mantissa max value is (2^64-1)")
	ErrZeroNumber         = errors.New("invalid number: must be greater than zero")
)

// ValidContentType reports whether the declared mime type's base type
// (ignoring parameters) can carry a BRC-20 operation.
func ValidContentType(contentType string) bool {
	baseType, _, _ := strings.Cut(contentType, ";")
	baseType = strings.TrimSpace(baseType)
	return baseType == "application/json" || baseType == "text/plain"
}

// ParsePayload validates inscription content against the BRC-20 rules
// and returns the typed operation. Any error means "not BRC-20": callers
// ignore the content without failing the batch.
func ParsePayload(content []byte, contentType string) (*Payload, error) {
	if !ValidContentType(contentType) {
		return nil, errors.WithStack(ErrInvalidContentType)
	}

	var p rawPayload
	if err := json.Unmarshal(content, &p); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal payload as json object")
	}

	protocol, err := parseStringField(p.P)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse p")
	}
	if protocol != "brc-20" {
		return nil, errors.WithStack(ErrInvalidProtocol)
	}
	op, err := parseStringField(p.Op)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse op")
	}
	if !Operation(op).IsValid() {
		return nil, errors.WithStack(ErrInvalidOperation)
	}
	tick, err := parseStringField(p.Tick)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse tick")
	}
	if len(tick) != 4 {
		return nil, errors.WithStack(ErrInvalidTickLength)
	}

	parsed := Payload{
		Op:           Operation(op),
		Tick:         strings.ToLower(tick),
		OriginalTick: tick,
	}

	switch parsed.Op {
	case OperationDeploy:
		if p.Max == nil {
			return nil, errors.WithStack(ErrEmptyMax)
		}

		dec := uint64(18)
		if p.Dec != nil {
			rawDec, err := parseStringField(p.Dec)
			if err != nil {
				return nil, errors.Wrap(err, "failed to parse dec")
			}
			dec, err = strconv.ParseUint(rawDec, 10, 16)
			if err != nil {
				return nil, errors.Wrap(ErrInvalidDec, "dec is not an integer")
			}
			if dec > 18 {
				return nil, errors.WithStack(ErrInvalidDec)
			}
		}
		parsed.Dec = uint16(dec)

		max, err := parseNumericField(p.Max, false)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse max")
		}
		parsed.Max = max

		limit := max
		if p.Lim != nil {
			limit, err = parseNumericField(p.Lim, false)
			if err != nil {
				return nil, errors.Wrap(err, "failed to parse lim")
			}
		}
		parsed.Lim = limit

		if p.SelfMint != nil {
			rawSelfMint, err := parseStringField(p.SelfMint)
			if err != nil {
				return nil, errors.Wrap(err, "failed to parse self_mint")
			}
			parsed.SelfMint = rawSelfMint == "true"
		}
	case OperationMint, OperationTransfer:
		// NOTE: the amount's decimal places are checked against the
		// tick's configured decimals at apply time, not here
		amt, err := parseNumericField(p.Amt, false)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse amt")
		}
		parsed.Amt = amt
	}
	return &parsed, nil
}

// AmountWithinDecimals reports whether amount has no more fractional
// digits than the tick allows.
func AmountWithinDecimals(amount decimal.Decimal, decimals uint16) bool {
	return -amount.Exponent() <= int32(decimals)
}

var numericPattern = regexp.MustCompile(`^\d+(\.\d+)?$`)

// mantissa limit for all numeric fields is (2^64-1)
var maxMantissa = new(big.Int).SetUint64(math.MaxUint64)

// parseStringField unquotes a JSON string field. Absent fields and
// non-string values are rejected.
func parseStringField(raw *json.RawMessage) (string, error) {
	if raw == nil {
		return "", errors.New("field is absent")
	}
	var s string
	if err := json.Unmarshal(*raw, &s); err != nil {
		return "", errors.Wrap(err, "field is not a json string")
	}
	return s, nil
}

// parseNumericField parses a numeric field. The value must be a JSON
// string (unquoted numbers invalidate the whole operation), match
// ^\d+(\.\d+)?$, carry a mantissa of at most 2^64-1, and be strictly
// positive unless allowZero is set.
func parseNumericField(raw *json.RawMessage, allowZero bool) (decimal.Decimal, error) {
	s, err := parseStringField(raw)
	if err != nil {
		return decimal.Decimal{}, errors.WithStack(err)
	}
	if !numericPattern.MatchString(s) {
		return decimal.Decimal{}, errors.WithStack(ErrInvalidNumber)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, errors.Wrap(err, "failed to parse decimal number")
	}
	if d.Coefficient().CmpAbs(maxMantissa) > 0 {
		return decimal.Decimal{}, errors.WithStack(ErrNumberOverflow)
	}
	if !allowZero && d.IsZero() {
		return decimal.Decimal{}, errors.WithStack(ErrZeroNumber)
	}
	return d, nil
}
