package gateway

import (
	"bytes"
	"strconv"
	"strings"
)

// The upstream API emits numeric fields inconsistently: a number, a quoted
// number, an empty string, the literal string "null", or null. FlexInt and
// FlexFloat normalize all of those to zero values at the decode boundary so
// the rest of the system only ever sees plain numbers.

type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	s := normalizeNumeric(data)
	if s == "" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		// Some revisions of the API send decimals for integer fields.
		if fv, ferr := strconv.ParseFloat(s, 64); ferr == nil {
			*f = FlexInt(int(fv))
			return nil
		}
		*f = 0
		return nil
	}
	*f = FlexInt(n)
	return nil
}

func (f FlexInt) Int() int { return int(f) }

type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	s := normalizeNumeric(data)
	if s == "" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = FlexFloat(v)
	return nil
}

func (f FlexFloat) Float64() float64 { return float64(f) }

// normalizeNumeric strips quotes and maps null-ish tokens to "".
func normalizeNumeric(data []byte) string {
	s := string(bytes.TrimSpace(data))
	if s == "null" {
		return ""
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		return ""
	}
	return s
}
