package ordinals

import "github.com/cockroachdb/errors"

// ErrInscriptionNumberGap is returned when a streaming block reveals an
// inscription whose effective number is not contiguous with the numbers
// indexed so far. Continuing past a gap would corrupt the numbering
// sequence irrecoverably, so the whole batch is rejected.
var ErrInscriptionNumberGap = errors.New("inscription number gap detected in streaming block")
