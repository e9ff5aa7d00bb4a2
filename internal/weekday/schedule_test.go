package weekday

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleData_Object(t *testing.T) {
	payload := `{
		"current_filter": {"weekday_param": "0", "parsed_weekday": 7, "chinese_name": "日"},
		"schedule": {"1": [{"vod_id": 1}], "7": [{"vod_id": 2}, {"vod_id": 3}], "10": [], "2": []}
	}`

	var data ScheduleData
	require.NoError(t, json.Unmarshal([]byte(payload), &data))
	require.NotNil(t, data.CurrentFilter)
	require.NotNil(t, data.Schedule)

	assert.Equal(t, "0", data.CurrentFilter.Param())
	assert.Equal(t, "日", data.CurrentFilter.Name())
	assert.Equal(t, 7, data.CurrentFilter.Day())

	s := *data.Schedule
	assert.Equal(t, 3, s.Total())
	assert.Equal(t, []DayCount{
		{Label: "1", Count: 1},
		{Label: "2", Count: 0},
		{Label: "7", Count: 2},
		{Label: "10", Count: 0},
	}, s.Days())
}

func TestDecodeScheduleData_KeysIndependent(t *testing.T) {
	data, err := DecodeScheduleData(json.RawMessage(`{
		"current_filter": {"chinese_name": "一", "parsed_weekday": 1},
		"schedule": "broken"
	}`))
	assert.Error(t, err)
	require.NotNil(t, data.CurrentFilter)
	assert.Equal(t, 1, data.CurrentFilter.Day())
	assert.Nil(t, data.Schedule)

	data, err = DecodeScheduleData(json.RawMessage(`{
		"current_filter": {"parsed_weekday": "one"},
		"schedule": {"1": [{}], "2": [{}, {}]}
	}`))
	assert.ErrorContains(t, err, "current_filter")
	assert.Nil(t, data.CurrentFilter)
	require.NotNil(t, data.Schedule)
	assert.Equal(t, 3, data.Schedule.Total())

	data, err = DecodeScheduleData(json.RawMessage(`{"current_filter": null}`))
	assert.NoError(t, err)
	assert.Nil(t, data.CurrentFilter)
	assert.Nil(t, data.Schedule)

	_, err = DecodeScheduleData(json.RawMessage(`[1, 2]`))
	assert.Error(t, err)
}

func TestScheduleData_Array(t *testing.T) {
	var s Schedule
	require.NoError(t, json.Unmarshal([]byte(`[[{"vod_id":1}], [], [{}, {}]]`), &s))
	assert.Equal(t, 3, s.Total())
	assert.Len(t, s["2"], 2)
}

func TestScheduleData_Invalid(t *testing.T) {
	var s Schedule
	assert.Error(t, json.Unmarshal([]byte(`"nope"`), &s))
}

func TestCurrentFilter_Fallbacks(t *testing.T) {
	var f CurrentFilter
	require.NoError(t, json.Unmarshal([]byte(`{"weekday_param": null, "parsed_weekday_number": 3}`), &f))
	assert.Equal(t, "None", f.Param())
	assert.Equal(t, "未知", f.Name())
	assert.Equal(t, 3, f.Day())

	f = CurrentFilter{WeekdayParam: json.RawMessage(`5`)}
	assert.Equal(t, "5", f.Param())
	assert.Equal(t, 0, f.Day())
}

func TestDays_NonNumericLast(t *testing.T) {
	s := Schedule{"b": nil, "3": nil, "a": nil, "1": nil}
	var labels []string
	for _, d := range s.Days() {
		labels = append(labels, d.Label)
	}
	assert.Equal(t, []string{"1", "3", "a", "b"}, labels)
}
