package weekday_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ovoapp/catalog-probe/internal/config"
	"github.com/ovoapp/catalog-probe/internal/mockapi"
	"github.com/ovoapp/catalog-probe/internal/probe"
	"github.com/ovoapp/catalog-probe/internal/weekday"
)

// newRunner starts a stub catalog and returns a runner aimed at its
// direct schedule URL.
func newRunner(t *testing.T, strict bool, out *bytes.Buffer) *weekday.Runner {
	t.Helper()
	cfg := &config.Config{MockStrictWeekday: strict}
	h := mockapi.NewHandlers(mockapi.DefaultCatalog(), nil, cfg, zap.NewNop())
	srv := httptest.NewServer(mockapi.SetupRoutes(h, zap.NewNop()))
	t.Cleanup(srv.Close)

	client := probe.NewClient(srv.URL+"/api.php", probe.WithTimeout(2*time.Second))
	return weekday.NewRunner(client, srv.URL+"/api.php/v1/schedule", weekday.WithOutput(out))
}

func resultFor(t *testing.T, s weekday.Summary, param string) weekday.Result {
	t.Helper()
	for _, r := range s.Results {
		if r.Case.Param() == param {
			return r
		}
	}
	t.Fatalf("no result for %q", param)
	return weekday.Result{}
}

func TestRunner_DefaultCases(t *testing.T) {
	var out bytes.Buffer
	summary := newRunner(t, false, &out).Run(context.Background(), weekday.DefaultCases())

	assert.Equal(t, 16, summary.Total)
	assert.Equal(t, 16, summary.Passed, out.String())
	assert.Equal(t, "100.00%", summary.FormatPassRate())

	one := resultFor(t, summary, "1")
	require.NotNil(t, one.Filter)
	assert.Equal(t, "一", one.Filter.Name())
	assert.Equal(t, 1, one.Filter.Day())

	for _, p := range []string{"0", "7", "日", "天", "Sun", "Sunday", "星期日"} {
		r := resultFor(t, summary, p)
		require.NotNil(t, r.Filter, p)
		assert.Equal(t, "日", r.Filter.Name(), p)
		assert.Equal(t, 7, r.Filter.Day(), p)
	}

	for _, p := range []string{"8", "invalid"} {
		r := resultFor(t, summary, p)
		require.NotNil(t, r.Filter, p)
		assert.Equal(t, "全部", r.Filter.Name(), p)
	}

	all := resultFor(t, summary, "None")
	assert.Len(t, all.Schedule, 7)
	sum := 0
	for _, d := range all.Schedule.Days() {
		sum += d.Count
	}
	assert.Equal(t, all.Schedule.Total(), sum)
	assert.Equal(t, 9, sum)

	trace := out.String()
	assert.Contains(t, trace, "测试 1: 数字 1（星期一）\n参数: 1\n✅ 测试通过\n")
	assert.Contains(t, trace, "解析结果: 参数 '0' 解析为 '日' (数字: 7)")
	assert.Contains(t, trace, "解析结果: 参数 'None' 解析为 '全部' (数字: 0)")
	assert.Contains(t, trace, "返回数据: 共 9 个视频")
	assert.Contains(t, trace, "  星期7: 2 个视频")
	assert.Contains(t, trace, "总测试数: 16\n通过数: 16\n失败数: 0\n通过率: 100.00%\n")
	assert.NotContains(t, trace, "⚠️ 期望解析为")
}

func TestRunner_StrictServerFailsInvalidCases(t *testing.T) {
	var out bytes.Buffer
	summary := newRunner(t, true, &out).Run(context.Background(), weekday.DefaultCases())

	assert.Equal(t, 16, summary.Total)
	assert.Equal(t, 14, summary.Passed)
	assert.Equal(t, 2, summary.Failed())
	assert.Equal(t, "87.50%", summary.FormatPassRate())

	r := resultFor(t, summary, "invalid")
	assert.False(t, r.Passed)
	assert.NoError(t, r.Err)
	assert.Contains(t, r.Message, "无效的星期参数")
	assert.Contains(t, out.String(), "❌ 测试失败\n错误信息: 无效的星期参数: invalid\n")
}

func TestRunner_WarnsOnUnexpectedMapping(t *testing.T) {
	var out bytes.Buffer
	runner := newRunner(t, false, &out)

	res := runner.Check(context.Background(), weekday.Case{Value: "0", WantDay: 1})
	assert.True(t, res.Passed, "mapping mismatch does not fail a case")

	runner.Run(context.Background(), []weekday.Case{{Value: "0", Description: "数字 0", WantDay: 1}})
	assert.Contains(t, out.String(), "⚠️ 期望解析为 1 (星期一)")
}

func TestRunner_HTTPAndTransportFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("weekday") {
		case "boom":
			http.Error(w, "internal", http.StatusInternalServerError)
		case "html":
			w.Write([]byte("<html></html>"))
		case "slow":
			select {
			case <-r.Context().Done():
			case <-time.After(3 * time.Second):
			}
		default:
			w.Write([]byte(`{"code":0,"msg":"success","data":null}`))
		}
	}))
	defer srv.Close()

	var out bytes.Buffer
	client := probe.NewClient(srv.URL, probe.WithTimeout(200*time.Millisecond))
	runner := weekday.NewRunner(client, srv.URL, weekday.WithOutput(&out))

	summary := runner.Run(context.Background(), []weekday.Case{
		{Value: "boom", Description: "服务器错误"},
		{Value: "html", Description: "非JSON"},
		{Value: "slow", Description: "超时"},
		{Value: "1", Description: "无数据"},
	})

	require.Equal(t, 4, summary.Total)
	assert.Equal(t, 1, summary.Passed)

	boom := summary.Results[0]
	assert.Equal(t, http.StatusInternalServerError, boom.StatusCode)
	assert.ErrorContains(t, boom.Err, "HTTP 500")
	assert.ErrorIs(t, summary.Results[1].Err, probe.ErrNotJSON)
	assert.Error(t, summary.Results[2].Err)
	assert.Zero(t, summary.Results[2].StatusCode)

	assert.Contains(t, out.String(), "HTTP状态码: 500")
	assert.Contains(t, out.String(), "通过率: 25.00%")
}

func TestRunner_KeepsFilterWhenScheduleMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":0,"msg":"success","data":{` +
			`"current_filter":{"weekday_param":"1","parsed_weekday":1,"chinese_name":"一"},` +
			`"schedule":"oops"}}`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	runner := weekday.NewRunner(probe.NewClient(srv.URL), srv.URL, weekday.WithOutput(&out))

	res := runner.Check(context.Background(), weekday.Case{Value: "1", WantDay: 1})
	assert.True(t, res.Passed)
	require.NotNil(t, res.Filter)
	assert.Equal(t, 1, res.Filter.Day())
	assert.Nil(t, res.Schedule)
}

func TestRunner_StopsWhenCancelled(t *testing.T) {
	var out bytes.Buffer
	runner := newRunner(t, false, &out)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary := runner.Run(ctx, weekday.DefaultCases())
	assert.Zero(t, summary.Total)
	assert.Equal(t, "0.00%", summary.FormatPassRate())
	assert.Contains(t, out.String(), "测试统计")
}

func TestSummary_PassRate(t *testing.T) {
	s := weekday.Summary{Total: 15, Passed: 13}
	assert.Equal(t, "86.67%", s.FormatPassRate())
	assert.Equal(t, 2, s.Failed())

	assert.Equal(t, 0.0, weekday.Summary{}.PassRate())
}

func TestPrintUsage(t *testing.T) {
	var out bytes.Buffer
	weekday.PrintUsage(&out, "http://h/api.php/v1/schedule")

	lines := strings.Split(out.String(), "\n")
	assert.Contains(t, lines, "GET http://h/api.php/v1/schedule?weekday=星期一")
	assert.Contains(t, lines, "GET http://h/api.php/v1/schedule  # 获取全部")
}
