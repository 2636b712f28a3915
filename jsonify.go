// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package sparserun

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// decodeNonNegativeInt reports whether the raw JSON element rm is an
// unquoted JSON number token, and if so decodes it as a non-negative
// delete-run count. ok is false (with a nil error) when rm is not a bare
// number — notably including a quoted string that merely looks like one
// ("5", "3.14") — so the caller falls through to its variant-specific
// present-element decoding instead of having a quoted string silently
// swallowed as a deletion count (json.Number accepts quoted numeric
// strings, which is not what the §6 element-kind rule means by "number").
func decodeNonNegativeInt(rm json.RawMessage) (n int, ok bool, err error) {
	trimmed := bytes.TrimSpace(rm)
	if len(trimmed) == 0 || trimmed[0] == '"' {
		return 0, false, nil
	}
	var num json.Number
	if uerr := json.Unmarshal(rm, &num); uerr != nil {
		return 0, false, nil
	}
	v, cerr := num.Int64()
	if cerr != nil || v < 0 {
		return 0, true, fmt.Errorf("%w: negative or non-integer delete count", ErrInvalidSerialized)
	}
	return int(v), true, nil
}
