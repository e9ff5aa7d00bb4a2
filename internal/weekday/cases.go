package weekday

// Case is one weekday spelling sent to /schedule.
type Case struct {
	// Value is sent as the weekday query parameter unless Omit is set.
	Value string
	// Omit sends no weekday parameter at all, asking for every day.
	Omit        bool
	Description string
	// WantDay is the day number the backend is expected to resolve
	// Value to; 0 means no particular day (invalid or omitted).
	WantDay int
}

// Param renders the case parameter the way the trace prints it.
func (c Case) Param() string {
	if c.Omit {
		return "None"
	}
	return c.Value
}

// Params returns the query parameters for the case.
func (c Case) Params() map[string]string {
	if c.Omit {
		return nil
	}
	return map[string]string{"weekday": c.Value}
}

// DefaultCases returns the weekday spellings probed on every run, in order.
func DefaultCases() []Case {
	return []Case{
		// Numeric
		{Value: "1", Description: "数字 1（星期一）", WantDay: 1},
		{Value: "7", Description: "数字 7（星期日）", WantDay: 7},
		{Value: "0", Description: "数字 0（星期日）", WantDay: 7},

		// Chinese short
		{Value: "一", Description: "中文简写：一", WantDay: 1},
		{Value: "二", Description: "中文简写：二", WantDay: 2},
		{Value: "日", Description: "中文简写：日", WantDay: 7},
		{Value: "天", Description: "中文简写：天", WantDay: 7},

		// Chinese full
		{Value: "星期一", Description: "中文完整：星期一", WantDay: 1},
		{Value: "星期日", Description: "中文完整：星期日", WantDay: 7},

		// English short
		{Value: "Mon", Description: "英文简写：Mon", WantDay: 1},
		{Value: "Sun", Description: "英文简写：Sun", WantDay: 7},

		// English full
		{Value: "Monday", Description: "英文完整：Monday", WantDay: 1},
		{Value: "Sunday", Description: "英文完整：Sunday", WantDay: 7},

		// Invalid
		{Value: "invalid", Description: "无效参数测试"},
		{Value: "8", Description: "超出范围的数字"},

		{Omit: true, Description: "不传参数（获取全部）"},
	}
}
