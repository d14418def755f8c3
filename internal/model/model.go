package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Router is an active mesh node whose role relays traffic for others.
type Router struct {
	NodeID    int64
	LongName  string
	ShortName string
	Role      string
}

// HexID renders the node id in the Meshtastic form, e.g. "!a5060ad0".
func (r Router) HexID() string {
	return FormatHexID(r.NodeID)
}

// PacketRecord is one telemetry packet as returned by the packets endpoint.
type PacketRecord struct {
	ImportTimeUs int64
	Payload      string
}

// TelemetrySample holds the channel metrics extracted from one packet.
type TelemetrySample struct {
	ChannelUtilization float64
	AirUtilTx          float64
}

// DirectoryNode is one entry of the community node directory.
type DirectoryNode struct {
	NodeID    string
	LongName  string
	ShortName string
	Tier      string
	Latitude  string
	Longitude string
	AntennaDB string
	HeightAGL string
	HeightMSL string
}

// FormatHexID formats a decimal node id as "!" plus eight hex digits.
func FormatHexID(id int64) string {
	return fmt.Sprintf("!%08x", id)
}

// ParseHexID accepts "!a5060ad0" or "a5060ad0" and returns the decimal id.
func ParseHexID(value string) (int64, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(value), "!")
	if trimmed == "" {
		return 0, fmt.Errorf("empty node id")
	}
	id, err := strconv.ParseUint(trimmed, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid node id %q: %w", value, err)
	}
	return int64(id), nil
}
