package weekday

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/ovoapp/catalog-probe/internal/probe"
)

// Result is the verdict for one case.
type Result struct {
	Case       Case
	Passed     bool
	StatusCode int
	// Message is the server's msg for an application-level failure.
	Message  string
	Filter   *CurrentFilter
	Schedule Schedule
	// Err is set for transport, HTTP and decoding failures.
	Err error
}

// Summary aggregates a run.
type Summary struct {
	Total   int
	Passed  int
	Results []Result
}

// Failed returns the number of failed cases.
func (s Summary) Failed() int {
	return s.Total - s.Passed
}

// PassRate returns Passed/Total*100, or 0 for an empty run.
func (s Summary) PassRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Passed) / float64(s.Total) * 100
}

// FormatPassRate renders the pass rate with two decimals, e.g. "86.67%".
func (s Summary) FormatPassRate() string {
	return fmt.Sprintf("%.2f%%", s.PassRate())
}

// Runner sends each case to the schedule endpoint and prints a verdict.
type Runner struct {
	client      *probe.Client
	scheduleURL string
	out         io.Writer
	logger      *zap.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithOutput sets where the trace is written. Defaults to stdout.
func WithOutput(w io.Writer) RunnerOption {
	return func(r *Runner) {
		r.out = w
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *zap.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = l
	}
}

// NewRunner creates a runner against the direct schedule URL.
func NewRunner(client *probe.Client, scheduleURL string, opts ...RunnerOption) *Runner {
	r := &Runner{
		client:      client,
		scheduleURL: scheduleURL,
		out:         os.Stdout,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run checks every case in order, prints each verdict and the final
// statistics, and returns the summary. A cancelled context stops the run
// early; the summary then covers only the cases that ran.
func (r *Runner) Run(ctx context.Context, cases []Case) Summary {
	probe.Rule(r.out, "=", probe.WideRule)
	fmt.Fprintln(r.out, "排期表API功能测试")
	probe.Rule(r.out, "=", probe.WideRule)
	fmt.Fprintln(r.out)

	summary := Summary{Results: make([]Result, 0, len(cases))}
	for i, c := range cases {
		if ctx.Err() != nil {
			break
		}

		fmt.Fprintf(r.out, "测试 %d: %s\n", i+1, c.Description)
		fmt.Fprintf(r.out, "参数: %s\n", c.Param())

		res := r.Check(ctx, c)
		r.printResult(res)

		summary.Total++
		if res.Passed {
			summary.Passed++
		}
		summary.Results = append(summary.Results, res)

		probe.Rule(r.out, "-", probe.NarrowRule)
		fmt.Fprintln(r.out)
	}

	PrintSummary(r.out, summary)
	return summary
}

// Check sends one case and judges it. A case passes exactly when the
// response is an envelope with code 0.
func (r *Runner) Check(ctx context.Context, c Case) Result {
	res := Result{Case: c}

	resp, err := r.client.Get(ctx, r.scheduleURL, c.Params())
	if err != nil {
		res.Err = err
		return res
	}
	res.StatusCode = resp.StatusCode

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		res.Err = fmt.Errorf("HTTP %d: %s", resp.StatusCode, probe.Truncate(resp.Text(), probe.ErrorBodyLimit))
		return res
	}

	env, err := probe.DecodeEnvelope(resp.Body)
	if err != nil {
		res.Err = err
		return res
	}

	if !env.OK() {
		res.Message = env.Message()
		return res
	}
	res.Passed = true

	if !env.HasData() {
		return res
	}
	data, err := DecodeScheduleData(env.Data)
	if err != nil {
		r.logger.Warn("schedule payload not understood",
			zap.String("weekday", c.Param()),
			zap.String("request_id", resp.RequestID),
			zap.Error(err),
		)
	}
	res.Filter = data.CurrentFilter
	if data.Schedule != nil {
		res.Schedule = *data.Schedule
	}
	return res
}

func (r *Runner) printResult(res Result) {
	switch {
	case res.Err != nil:
		fmt.Fprintln(r.out, "❌ 测试失败")
		fmt.Fprintf(r.out, "错误信息: %v\n", res.Err)
		if res.StatusCode != 0 {
			fmt.Fprintf(r.out, "HTTP状态码: %d\n", res.StatusCode)
		}
	case !res.Passed:
		fmt.Fprintln(r.out, "❌ 测试失败")
		fmt.Fprintf(r.out, "错误信息: %s\n", res.Message)
	default:
		fmt.Fprintln(r.out, "✅ 测试通过")
		if f := res.Filter; f != nil {
			fmt.Fprintf(r.out, "解析结果: 参数 '%s' 解析为 '%s' (数字: %d)\n", f.Param(), f.Name(), f.Day())
			if want := res.Case.WantDay; want != 0 && f.Day() != want {
				fmt.Fprintf(r.out, "⚠️ 期望解析为 %d (%s)\n", want, ChineseFullName(want))
			}
		}
		if res.Schedule != nil {
			fmt.Fprintf(r.out, "返回数据: 共 %d 个视频\n", res.Schedule.Total())
			for _, d := range res.Schedule.Days() {
				if d.Count > 0 {
					fmt.Fprintf(r.out, "  星期%s: %d 个视频\n", d.Label, d.Count)
				}
			}
		}
	}
}

// PrintSummary writes the statistics block.
func PrintSummary(w io.Writer, s Summary) {
	probe.Rule(w, "=", probe.WideRule)
	fmt.Fprintln(w, "测试统计")
	probe.Rule(w, "=", probe.WideRule)
	fmt.Fprintf(w, "总测试数: %d\n", s.Total)
	fmt.Fprintf(w, "通过数: %d\n", s.Passed)
	fmt.Fprintf(w, "失败数: %d\n", s.Failed())
	fmt.Fprintf(w, "通过率: %s\n", s.FormatPassRate())
	fmt.Fprintln(w)
}

// PrintUsage writes the accepted weekday spellings and example calls.
func PrintUsage(w io.Writer, scheduleURL string) {
	probe.Rule(w, "=", probe.WideRule)
	fmt.Fprintln(w, "API使用示例")
	probe.Rule(w, "=", probe.WideRule)
	fmt.Fprintln(w, "支持的星期格式:")
	fmt.Fprintln(w, "- 数字: 1-7 (1=星期一, 7=星期日)")
	fmt.Fprintln(w, "- 中文简写: 一,二,三,四,五,六,日,天")
	fmt.Fprintln(w, "- 中文完整: 星期一,星期二,星期三,星期四,星期五,星期六,星期日,星期天")
	fmt.Fprintln(w, "- 英文简写: Mon,Tue,Wed,Thu,Fri,Sat,Sun")
	fmt.Fprintln(w, "- 英文完整: Monday,Tuesday,Wednesday,Thursday,Friday,Saturday,Sunday")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "调用示例:")
	for _, v := range []string{"一", "星期一", "Monday", "1"} {
		fmt.Fprintf(w, "GET %s?weekday=%s\n", scheduleURL, v)
	}
	fmt.Fprintf(w, "GET %s  # 获取全部\n", scheduleURL)
}
