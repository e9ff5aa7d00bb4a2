package database

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Level is one row of the xp_lv table.
type Level struct {
	Lv         int        `json:"lv"`
	XP         int        `json:"xp"`          // Experience needed to reach Lv
	LevelName  string     `json:"level_name"`
	LevelIcon  string     `json:"level_icon"`
	Privileges Privileges `json:"privileges"`
}

// Privileges is an ordered set of capabilities. It is stored as a JSON
// object mapping each capability to true, in order.
type Privileges []string

// MarshalJSON writes {"a":true,"b":true} keeping capability order.
func (p Privileges) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(name))
		buf.WriteString(":true")
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the object form back, keeping only capabilities set
// to true, in document order.
func (p *Privileges) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*p = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("privileges: expected object, got %v", tok)
	}

	out := Privileges{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		var enabled bool
		if err := dec.Decode(&enabled); err != nil {
			return fmt.Errorf("privileges: %s: %w", key, err)
		}
		if enabled {
			out = append(out, key)
		}
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*p = out
	return nil
}

// Capabilities unlocked one per level, in level order.
var capabilities = []string{
	"daily_sign",
	"comment",
	"upload",
	"priority_support",
	"advanced_features",
	"exclusive_content",
	"custom_avatar",
	"moderator",
	"special_badge",
}

var levelNames = []string{
	"新手", "初级用户", "活跃用户", "资深用户", "专家用户",
	"超级用户", "传奇用户", "大师级", "宗师级",
}

var levelThresholds = []int{0, 100, 300, 600, 1000, 1500, 2100, 2800, 3600}

// DefaultLevels returns the nine seed levels. Thresholds increase
// strictly and each level keeps the previous level's privileges plus one.
func DefaultLevels() []Level {
	levels := make([]Level, len(levelNames))
	for i := range levelNames {
		lv := i + 1
		privs := make(Privileges, lv)
		copy(privs, capabilities[:lv])
		levels[i] = Level{
			Lv:         lv,
			XP:         levelThresholds[i],
			LevelName:  levelNames[i],
			LevelIcon:  fmt.Sprintf("/assets/icon/lv/lv%d.png", lv),
			Privileges: privs,
		}
	}
	return levels
}
