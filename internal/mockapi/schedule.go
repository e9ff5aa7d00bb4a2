package mockapi

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/ovoapp/catalog-probe/internal/weekday"
)

type scheduleItem struct {
	ID              int    `json:"vod_id"`
	Name            string `json:"vod_name"`
	Pic             string `json:"vod_pic"`
	Remarks         string `json:"vod_remarks"`
	Class           string `json:"vod_class"`
	WeekdayOriginal string `json:"vod_weekday_original"`
}

type weekdayName struct {
	Number       int    `json:"number"`
	ChineseShort string `json:"chinese_short"`
	ChineseFull  string `json:"chinese_full"`
}

type currentFilter struct {
	WeekdayParam          *string `json:"weekday_param"`
	ParsedWeekday         int     `json:"parsed_weekday"`
	ParsedWeekdayNumber   int     `json:"parsed_weekday_number"`
	ParsedWeekdayDatabase string  `json:"parsed_weekday_database"`
	ChineseName           string  `json:"chinese_name"`
}

type debugInfo struct {
	TotalVideos int            `json:"total_videos"`
	DayCounts   map[string]int `json:"day_counts"`
}

type scheduleData struct {
	Schedule         map[string][]scheduleItem `json:"schedule"`
	WeekdayNames     map[string]weekdayName    `json:"weekday_names"`
	CurrentFilter    currentFilter             `json:"current_filter"`
	DebugInfo        debugInfo                 `json:"debug_info"`
	SupportedFormats map[string]string         `json:"supported_formats"`
}

var supportedFormats = map[string]string{
	"numbers":         "1-7 (1=星期一, 7=星期日)",
	"chinese_short":   "一,二,三,四,五,六,日,天",
	"chinese_full":    "星期一,星期二,星期三,星期四,星期五,星期六,星期日,星期天",
	"english_short":   "Mon,Tue,Wed,Thu,Fri,Sat,Sun",
	"english_full":    "Monday,Tuesday,Wednesday,Thursday,Friday,Saturday,Sunday",
	"database_format": "数据库存储格式：一,二,三,四,五,六,天",
}

// GetSchedule handles the schedule route. The optional weekday parameter
// selects one day; without it, or when it cannot be parsed, every day is
// returned, as for a bare weekday=0. In strict mode an unparseable weekday
// is a code 400.
//
// Videos are grouped by their normalized day, so 日 and 天 labels both
// land on day 7.
func (h *Handlers) GetSchedule(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := currentFilter{ChineseName: weekday.AllDays}
	day, selected := 0, 0
	if q.Has("weekday") {
		raw := q.Get("weekday")
		filter.WeekdayParam = &raw

		d, ok := weekday.Normalize(raw)
		if !ok && h.strict {
			WriteBadRequest(w, "无效的星期参数: "+raw)
			return
		}
		if ok {
			day = d
			filter.ChineseName = weekday.ChineseName(d)
		}

		// Selection follows the database label, so weekday=0 reports
		// Sunday but returns every day.
		filter.ParsedWeekdayDatabase = weekday.FilterLabel(raw)
		if filter.ParsedWeekdayDatabase != "" {
			selected, _ = weekday.Normalize(filter.ParsedWeekdayDatabase)
		}
	}
	filter.ParsedWeekday = day
	filter.ParsedWeekdayNumber = day

	schedule := make(map[string][]scheduleItem, 7)
	names := make(map[string]weekdayName, 7)
	for d := 1; d <= 7; d++ {
		key := strconv.Itoa(d)
		schedule[key] = []scheduleItem{}
		names[key] = weekdayName{
			Number:       d,
			ChineseShort: weekday.ChineseName(d),
			ChineseFull:  weekday.ChineseFullName(d),
		}
	}

	total := 0
	for _, v := range h.catalog.Videos {
		d, ok := weekday.Normalize(v.Weekday)
		if !ok || (selected != 0 && d != selected) {
			continue
		}
		key := strconv.Itoa(d)
		schedule[key] = append(schedule[key], scheduleItem{
			ID:              v.ID,
			Name:            v.Name,
			Pic:             v.Pic,
			Remarks:         v.Remarks,
			Class:           v.Class,
			WeekdayOriginal: v.Weekday,
		})
		total++
	}

	counts := make(map[string]int, 7)
	for key, items := range schedule {
		counts[key] = len(items)
	}

	h.logger.Debug("schedule served",
		zap.Int("parsed_weekday", day),
		zap.Int("selected_day", selected),
		zap.String("database_label", filter.ParsedWeekdayDatabase),
		zap.Int("total_videos", total),
	)

	WriteSuccess(w, scheduleData{
		Schedule:         schedule,
		WeekdayNames:     names,
		CurrentFilter:    filter,
		DebugInfo:        debugInfo{TotalVideos: total, DayCounts: counts},
		SupportedFormats: supportedFormats,
	})
}
