// Package weekday probes the catalog's /schedule endpoint with the weekday
// spellings the backend accepts, and holds the backend's weekday mapping
// so the stub server can answer the same way.
//
// Days are numbered 1 (Monday) through 7 (Sunday); 0 is an alias for 7.
package weekday

import (
	"strconv"
	"strings"
)

// Sunday is the canonical number for Sunday; 0 normalizes to it.
const Sunday = 7

// AllDays is the display name used when no weekday filter applies.
const AllDays = "全部"

var aliases = map[string]int{
	"星期一": 1, "星期二": 2, "星期三": 3, "星期四": 4,
	"星期五": 5, "星期六": 6, "星期日": 7, "星期天": 7,

	"一": 1, "二": 2, "三": 3, "四": 4,
	"五": 5, "六": 6, "日": 7, "天": 7,

	"monday": 1, "tuesday": 2, "wednesday": 3, "thursday": 4,
	"friday": 5, "saturday": 6, "sunday": 7,

	"mon": 1, "tue": 2, "wed": 3, "thu": 4,
	"fri": 5, "sat": 6, "sun": 7,
}

// chineseShort is indexed by day number; index 0 is unused.
var chineseShort = [8]string{"", "一", "二", "三", "四", "五", "六", "日"}

// storageLabels are the values the catalog stores in vod_weekday.
// Sunday is stored as 天, not 日.
var storageLabels = [8]string{"", "一", "二", "三", "四", "五", "六", "天"}

// Normalize maps a weekday spelling to its day number (1-7).
// Numbers 0-7 are accepted with 0 meaning Sunday; names match after
// trimming and, for English, case folding. ok is false for anything else.
func Normalize(raw string) (day int, ok bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}

	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > 7 {
			return 0, false
		}
		if n == 0 {
			return Sunday, true
		}
		return n, true
	}

	if d, found := aliases[s]; found {
		return d, true
	}
	if d, found := aliases[strings.ToLower(s)]; found {
		return d, true
	}
	return 0, false
}

// ChineseName returns the short Chinese name of day, or "" if day is out of range.
func ChineseName(day int) string {
	if day < 1 || day > 7 {
		return ""
	}
	return chineseShort[day]
}

// ChineseFullName returns 星期X for day, or "" if day is out of range.
func ChineseFullName(day int) string {
	if name := ChineseName(day); name != "" {
		return "星期" + name
	}
	return ""
}

// StorageLabel returns the vod_weekday value the catalog stores for day.
func StorageLabel(day int) string {
	if day < 1 || day > 7 {
		return ""
	}
	return storageLabels[day]
}

// FilterLabel returns the vod_weekday value a request parameter filters
// on. Chinese spellings pass through as-is; other spellings are mapped
// through their day number. An empty result means "all days".
//
// A bare "0" filters nothing even though Normalize maps it to Sunday: the
// backend treats it as an empty parameter.
func FilterLabel(raw string) string {
	if raw == "0" {
		return ""
	}
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if _, err := strconv.Atoi(s); err != nil {
		if _, found := aliases[s]; found && isChinese(s) {
			return s
		}
	}
	day, ok := Normalize(s)
	if !ok {
		return ""
	}
	return StorageLabel(day)
}

func isChinese(s string) bool {
	for _, r := range s {
		if r < 0x4e00 || r > 0x9fff {
			return false
		}
	}
	return true
}
