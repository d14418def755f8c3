package api

import (
	"bytes"
	"encoding/json"
	"strconv"

	"meshstat/internal/model"
)

// Node is one entry of the Meshview /nodes listing.
type Node struct {
	NodeID     int64  `json:"node_id"`
	LongName   string `json:"long_name"`
	ShortName  string `json:"short_name"`
	Role       string `json:"role"`
	HWModel    string `json:"hw_model,omitempty"`
	LastSeenUs int64  `json:"last_seen_us,omitempty"`
}

// NodesResponse wraps the /nodes listing.
type NodesResponse struct {
	Nodes []Node `json:"nodes"`
}

// Packet is one entry of the /packets listing. ImportTimeUs is 0 when the
// field is missing or null.
type Packet struct {
	ImportTimeUs int64  `json:"import_time_us"`
	Payload      string `json:"payload"`
}

// Record converts the wire packet to the domain record.
func (p Packet) Record() model.PacketRecord {
	return model.PacketRecord{ImportTimeUs: p.ImportTimeUs, Payload: p.Payload}
}

// PacketsResponse wraps the /packets listing.
type PacketsResponse struct {
	Packets []Packet `json:"packets"`
}

// PacketQuery selects packets by port, source node and result count.
type PacketQuery struct {
	PortNum    int
	FromNodeID int64
	Length     int
}

// StatBucket is one period of the /stats endpoint.
type StatBucket struct {
	Period string `json:"period"`
	Count  int64  `json:"count"`
}

// StatsResponse wraps the /stats listing.
type StatsResponse struct {
	Data []StatBucket `json:"data"`
}

// Scalar keeps a JSON scalar as text: numbers verbatim, strings unquoted,
// null and missing values empty.
type Scalar string

func (s *Scalar) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*s = ""
	case len(data) > 0 && data[0] == '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = Scalar(str)
	case bytes.Equal(data, []byte("true")), bytes.Equal(data, []byte("false")):
		*s = Scalar(data)
	default:
		if _, err := strconv.ParseFloat(string(data), 64); err != nil {
			return &json.UnsupportedValueError{Str: string(data)}
		}
		*s = Scalar(data)
	}
	return nil
}

// Position is the optional location block of a directory entry.
type Position struct {
	Latitude  Scalar `json:"latitude"`
	Longitude Scalar `json:"longitude"`
}

// Antenna is the optional antenna block of a directory entry.
type Antenna struct {
	GainDBi Scalar `json:"gain_dbi"`
	AGLM    Scalar `json:"agl_m"`
	MSLM    Scalar `json:"msl_m"`
}

// DirectoryEntry is one node of the community directory.
type DirectoryEntry struct {
	NodeID    Scalar    `json:"node_id"`
	LongName  Scalar    `json:"long_name"`
	ShortName Scalar    `json:"short_name"`
	NodeTier  Scalar    `json:"node_tier"`
	Position  *Position `json:"position"`
	Antenna   *Antenna  `json:"antenna"`
}

// Node converts the entry to the domain type.
func (e DirectoryEntry) Node() model.DirectoryNode {
	n := model.DirectoryNode{
		NodeID:    string(e.NodeID),
		LongName:  string(e.LongName),
		ShortName: string(e.ShortName),
		Tier:      string(e.NodeTier),
	}
	if e.Position != nil {
		n.Latitude = string(e.Position.Latitude)
		n.Longitude = string(e.Position.Longitude)
	}
	if e.Antenna != nil {
		n.AntennaDB = string(e.Antenna.GainDBi)
		n.HeightAGL = string(e.Antenna.AGLM)
		n.HeightMSL = string(e.Antenna.MSLM)
	}
	return n
}
