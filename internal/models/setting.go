// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"strings"
	"time"
)

// SettingType describes how a setting value should be rendered and edited.
type SettingType string

const (
	SettingString  SettingType = "string"
	SettingBoolean SettingType = "boolean"
	SettingText    SettingType = "text"
)

// Setting represents a single configuration key-value pair. Structured
// values are stored JSON-encoded in the value column.
type Setting struct {
	Key         string      `json:"key"`
	Value       string      `json:"value"`
	Type        SettingType `json:"type"`
	Group       string      `json:"group,omitempty"`
	Description string      `json:"description,omitempty"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// DecodedValue returns the stored value, with JSON-looking strings
// decoded into their structured form.
func (s *Setting) DecodedValue() any {
	v := strings.TrimSpace(s.Value)
	if strings.HasPrefix(v, "{") || strings.HasPrefix(v, "[") {
		var decoded any
		if err := json.Unmarshal([]byte(v), &decoded); err == nil {
			return decoded
		}
	}
	return s.Value
}
