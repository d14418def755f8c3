// Package telemetry extracts channel metrics from the protobuf text encoding
// Meshview returns in packet payloads, e.g.
//
//	device_metrics {
//	  channel_utilization: 12.5
//	  air_util_tx: 1.2
//	}
//
// The scanner recognises fields of the form
//
//	identifier ':' whitespace* number
//
// where identifier is [A-Za-z_][A-Za-z0-9_]* and number is a run of digits
// containing at most one '.'. Everything else in the payload is skipped.
package telemetry

import (
	"strconv"

	"meshstat/internal/model"
)

const (
	KeyChannelUtilization = "channel_utilization"
	KeyAirUtilTx          = "air_util_tx"
)

// Value is an optional float field.
type Value struct {
	Float float64
	Set   bool
}

// Fields is the parse result. A field not present in the payload is unset.
type Fields struct {
	ChannelUtilization Value
	AirUtilTx          Value
}

// Empty reports whether no known field was found.
func (f Fields) Empty() bool {
	return !f.ChannelUtilization.Set && !f.AirUtilTx.Set
}

// Sample converts the fields to a sample. ok is false when the payload had no
// channel_utilization; a missing air_util_tx counts as zero.
func (f Fields) Sample() (model.TelemetrySample, bool) {
	if !f.ChannelUtilization.Set {
		return model.TelemetrySample{}, false
	}
	return model.TelemetrySample{
		ChannelUtilization: f.ChannelUtilization.Float,
		AirUtilTx:          f.AirUtilTx.Float,
	}, true
}

// Parse scans payload for the known fields. It never fails: malformed or
// empty input yields an empty result. The first well-formed occurrence of
// each key wins.
func Parse(payload string) Fields {
	var out Fields
	s := scanner{src: payload}
	for !out.ChannelUtilization.Set || !out.AirUtilTx.Set {
		key, value, ok := s.next()
		if !ok {
			break
		}
		switch key {
		case KeyChannelUtilization:
			if !out.ChannelUtilization.Set {
				out.ChannelUtilization = Value{Float: value, Set: true}
			}
		case KeyAirUtilTx:
			if !out.AirUtilTx.Set {
				out.AirUtilTx = Value{Float: value, Set: true}
			}
		}
	}
	return out
}

type scanner struct {
	src string
	pos int
}

// next returns the next identifier that is followed by ':' and a number.
func (s *scanner) next() (string, float64, bool) {
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if !isIdentPart(c) {
			s.pos++
			continue
		}
		if !isIdentStart(c) {
			// a word starting with a digit is not an identifier
			for s.pos < len(s.src) && isIdentPart(s.src[s.pos]) {
				s.pos++
			}
			continue
		}

		start := s.pos
		for s.pos < len(s.src) && isIdentPart(s.src[s.pos]) {
			s.pos++
		}
		ident := s.src[start:s.pos]

		if s.pos >= len(s.src) || s.src[s.pos] != ':' {
			continue
		}
		s.pos++
		for s.pos < len(s.src) && isSpace(s.src[s.pos]) {
			s.pos++
		}

		if value, ok := s.number(); ok {
			return ident, value, true
		}
	}
	return "", 0, false
}

func (s *scanner) number() (float64, bool) {
	start := s.pos
	digits, dots := 0, 0
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if c >= '0' && c <= '9' {
			digits++
		} else if c == '.' && dots == 0 {
			dots++
		} else {
			break
		}
		s.pos++
	}
	if digits == 0 {
		return 0, false
	}
	value, err := strconv.ParseFloat(s.src[start:s.pos], 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}
