package game

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Num is a chain scalar. The gateway returns the same logical value in
// several encodings depending on indexer version: JSON number, decimal
// string, 0x hex string, bool, or a single-field enum object. Malformed
// values degrade to zero instead of failing the whole snapshot.
type Num uint64

func (n *Num) UnmarshalJSON(data []byte) error {
	*n = Num(parseScalar(data))
	return nil
}

func parseScalar(data []byte) uint64 {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return 0
	}
	switch trimmed {
	case "true":
		return 1
	case "false":
		return 0
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return 0
		}
		return parseNumericString(s)
	}
	if trimmed[0] == '{' {
		return parseEnumObject(data)
	}
	if v, err := strconv.ParseUint(trimmed, 10, 64); err == nil {
		return v
	}
	// Some snapshots carry integral floats.
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil && f >= 0 {
		return uint64(f)
	}
	return 0
}

func parseNumericString(s string) uint64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err := strconv.ParseUint(s[2:], 16, 64)
		if err != nil {
			return 0
		}
		return v
	}
	if v, err := strconv.ParseUint(s, 10, 64); err == nil {
		return v
	}
	return 0
}

// parseEnumObject handles wrapped enum/option shapes such as
// {"Some": 3}, {"value": "0x2"} or {"variant": {"Active": 1}}: the first
// scalar found wins.
func parseEnumObject(data []byte) uint64 {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return 0
	}
	for _, key := range []string{"value", "Some", "some", "variant"} {
		if raw, ok := obj[key]; ok {
			return parseScalar(raw)
		}
	}
	for _, raw := range obj {
		if v := parseScalar(raw); v != 0 {
			return v
		}
	}
	return 0
}

func (n Num) Int() int       { return int(n) }
func (n Num) Uint64() uint64 { return uint64(n) }
func (n Num) Bool() bool     { return n != 0 }

type RawStats struct {
	Strength     Num `json:"strength"`
	Dexterity    Num `json:"dexterity"`
	Vitality     Num `json:"vitality"`
	Intelligence Num `json:"intelligence"`
	Wisdom       Num `json:"wisdom"`
	Charisma     Num `json:"charisma"`
	Luck         Num `json:"luck"`
}

type RawItem struct {
	ID Num `json:"id"`
	XP Num `json:"xp"`
}

type RawEquipment struct {
	Weapon RawItem `json:"weapon"`
	Chest  RawItem `json:"chest"`
	Head   RawItem `json:"head"`
	Waist  RawItem `json:"waist"`
	Foot   RawItem `json:"foot"`
	Hand   RawItem `json:"hand"`
	Neck   RawItem `json:"neck"`
	Ring   RawItem `json:"ring"`
}

type RawAdventurer struct {
	Health       Num          `json:"health"`
	XP           Num          `json:"xp"`
	Gold         Num          `json:"gold"`
	BeastHealth  Num          `json:"beast_health"`
	StatUpgrades Num          `json:"stat_upgrades_available"`
	Stats        RawStats     `json:"stats"`
	Equipment    RawEquipment `json:"equipment"`
	ActionCount  Num          `json:"action_count"`
}

type RawBeast struct {
	ID            Num `json:"id"`
	Health        Num `json:"health"`
	Level         Num `json:"level"`
	IsCollectable Num `json:"is_collectable"`
}

// RawSnapshot is the gateway view of one adventurer, as returned by the
// read path. All scalar fields tolerate every encoding Num accepts.
type RawSnapshot struct {
	AdventurerID uint64        `json:"adventurer_id"`
	Adventurer   RawAdventurer `json:"adventurer"`
	Beast        RawBeast      `json:"beast"`
	Bag          []RawItem     `json:"bag"`
	Market       []Num         `json:"market"`
}
