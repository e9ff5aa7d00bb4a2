package mockapi

import (
	"time"
)

// Type is a video category.
type Type struct {
	ID   int    `json:"type_id"`
	Name string `json:"type_name"`
	En   string `json:"type_en"`
	Sort int    `json:"type_sort"`
}

// Video is one catalog entry.
type Video struct {
	ID      int
	Name    string
	Pic     string
	Slide   string // Banner image
	Remarks string
	Class   string
	Weekday string // vod_weekday as stored; empty when unscheduled
	Level   int    // vod_level; selects banner and hot lists
}

// Release is the latest published client build for a platform.
type Release struct {
	Platform    string
	Title       string
	Version     string
	DownloadURL string
	BrowserURL  string
	Description string
	PackageSize string
	ForceUpdate bool
	Published   time.Time
}

// Catalog is the fixture data the stub server answers from.
type Catalog struct {
	Types       []Type
	Videos      []Video
	Releases    map[string]Release
	BannerLevel int
	HotLevel    int
}

// DefaultCatalog returns a small catalog with scheduled videos on every
// weekday. One Sunday entry uses the legacy 日 label next to the usual 天.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Types: []Type{
			{ID: 1, Name: "连载动漫", En: "lianzai", Sort: 1},
			{ID: 2, Name: "完结动漫", En: "wanjie", Sort: 2},
			{ID: 3, Name: "剧场版", En: "juchang", Sort: 3},
			{ID: 4, Name: "国产动漫", En: "guochan", Sort: 4},
		},
		Videos: []Video{
			{ID: 101, Name: "星辰物语", Remarks: "更新至12集", Class: "奇幻,冒险", Weekday: "一", Level: 6},
			{ID: 102, Name: "晨光学园", Remarks: "更新至8集", Class: "校园", Weekday: "一", Level: 9},
			{ID: 103, Name: "机巧少女", Remarks: "更新至5集", Class: "机战", Weekday: "二", Level: 6},
			{ID: 104, Name: "雾之町", Remarks: "更新至3集", Class: "悬疑", Weekday: "三"},
			{ID: 105, Name: "远航者", Remarks: "更新至10集", Class: "科幻", Weekday: "四", Level: 9},
			{ID: 106, Name: "花与剑", Remarks: "更新至7集", Class: "古风", Weekday: "五"},
			{ID: 107, Name: "料理之魂", Remarks: "更新至9集", Class: "美食", Weekday: "六", Level: 6},
			{ID: 108, Name: "夜行列车", Remarks: "更新至4集", Class: "治愈", Weekday: "天"},
			{ID: 109, Name: "白夜骑士", Remarks: "更新至11集", Class: "战斗", Weekday: "日", Level: 6},
			{ID: 110, Name: "银河铁道", Remarks: "全24集", Class: "科幻", Level: 9},
			{ID: 111, Name: "夏日回忆", Remarks: "全12集", Class: "恋爱", Level: 6},
		},
		Releases: map[string]Release{
			"android": {
				Platform:    "android",
				Title:       "OVO 1.2.0",
				Version:     "1.2.0",
				DownloadURL: "https://example.com/download/ovo-1.2.0.apk",
				Description: "修复已知问题，优化播放体验",
				PackageSize: "32.5MB",
				Published:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
			},
			"ios": {
				Platform:    "ios",
				Title:       "OVO 1.1.0",
				Version:     "1.1.0",
				BrowserURL:  "https://example.com/ios",
				Description: "新增排期表",
				PackageSize: "41.0MB",
				Published:   time.Date(2025, 5, 20, 12, 0, 0, 0, time.UTC),
			},
		},
		BannerLevel: 9,
		HotLevel:    6,
	}
}

// videosAtLevel returns videos with the given vod_level, in catalog order.
func (c *Catalog) videosAtLevel(level int) []Video {
	var out []Video
	for _, v := range c.Videos {
		if v.Level == level {
			out = append(out, v)
		}
	}
	return out
}
