package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"go.uber.org/zap"
)

// Endpoint is one named API route to probe.
type Endpoint struct {
	Name   string
	Path   string
	Params map[string]string
}

// DefaultEndpoints returns the routes probed on every run, in order.
func DefaultEndpoints() []Endpoint {
	return []Endpoint{
		{Name: "视频分类", Path: "/types"},
		{Name: "等级系统", Path: "/xp_lv"},
		{Name: "轮播图", Path: "/banners"},
		{Name: "热门视频", Path: "/hotvedios"},
		{Name: "排期表", Path: "/schedule"},
		{Name: "版本检查", Path: "/check_update", Params: map[string]string{
			"platform": "android",
			"version":  "1.0.0",
		}},
	}
}

// OutcomeKind classifies how a probe ended.
type OutcomeKind int

const (
	// OutcomeOK is HTTP 200 with a JSON body.
	OutcomeOK OutcomeKind = iota
	// OutcomeNotJSON is HTTP 200 with a body that is not JSON.
	OutcomeNotJSON
	// OutcomeHTTPError is any status other than 200.
	OutcomeHTTPError
	// OutcomeNetworkError is a transport failure: timeout, refused, DNS.
	OutcomeNetworkError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeOK:
		return "ok"
	case OutcomeNotJSON:
		return "not_json"
	case OutcomeHTTPError:
		return "http_error"
	case OutcomeNetworkError:
		return "network_error"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", int(k))
	}
}

// Outcome is the result of probing one endpoint.
type Outcome struct {
	Endpoint   Endpoint
	Kind       OutcomeKind
	StatusCode int
	// Envelope is set when the body decoded as a {code,msg,data} object.
	Envelope *Envelope
	Body     string
	Err      error
}

// Prober probes endpoints one after another and prints a trace of each.
type Prober struct {
	client      *Client
	out         io.Writer
	showHeaders bool
	logger      *zap.Logger
}

// ProberOption configures a Prober.
type ProberOption func(*Prober)

// WithOutput sets where traces are written. Defaults to stdout.
func WithOutput(w io.Writer) ProberOption {
	return func(p *Prober) {
		p.out = w
	}
}

// WithHeaders also prints response headers for every probe.
func WithHeaders(show bool) ProberOption {
	return func(p *Prober) {
		p.showHeaders = show
	}
}

// WithProberLogger sets the diagnostics logger.
func WithProberLogger(l *zap.Logger) ProberOption {
	return func(p *Prober) {
		p.logger = l
	}
}

// NewProber creates a prober that sends requests through client.
func NewProber(client *Client, opts ...ProberOption) *Prober {
	p := &Prober{
		client: client,
		out:    os.Stdout,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run probes every endpoint in order and returns their outcomes. A failed
// endpoint never stops the run; a cancelled context does.
func (p *Prober) Run(ctx context.Context, endpoints []Endpoint) []Outcome {
	fmt.Fprintln(p.out, "🚀 开始API接口测试")
	Rule(p.out, "=", NarrowRule)

	outcomes := make([]Outcome, 0, len(endpoints))
	for _, ep := range endpoints {
		if ctx.Err() != nil {
			return outcomes
		}
		fmt.Fprintf(p.out, "\n🧪 测试 %s - %s\n", ep.Name, ep.Path)
		outcomes = append(outcomes, p.Probe(ctx, ep))
		Rule(p.out, "-", NarrowRule)
	}

	fmt.Fprintln(p.out, "\n🎉 测试完成!")
	return outcomes
}

// Probe sends one request and prints its trace.
func (p *Prober) Probe(ctx context.Context, ep Endpoint) Outcome {
	params := p.client.RouteParams(ep.Path, ep.Params)
	fmt.Fprintf(p.out, "📡 请求URL: %s\n", p.client.BaseURL())
	fmt.Fprintf(p.out, "📊 参数: %s\n", FormatParams(params))

	outcome := Outcome{Endpoint: ep}

	resp, err := p.client.Get(ctx, p.client.BaseURL(), params)
	if err != nil {
		outcome.Kind = OutcomeNetworkError
		outcome.Err = err
		fmt.Fprintf(p.out, "❌ 网络错误: %v\n", err)
		return outcome
	}

	outcome.StatusCode = resp.StatusCode
	outcome.Body = resp.Text()
	fmt.Fprintf(p.out, "📈 状态码: %d\n", resp.StatusCode)
	if p.showHeaders {
		fmt.Fprintf(p.out, "📝 响应头: %s\n", FormatHeaders(resp.Header))
	}

	if resp.StatusCode != http.StatusOK {
		outcome.Kind = OutcomeHTTPError
		fmt.Fprintf(p.out, "❌ 失败! HTTP %d\n", resp.StatusCode)
		fmt.Fprintf(p.out, "📄 错误信息: %s\n", Truncate(resp.Text(), ErrorBodyLimit))
		return outcome
	}

	pretty, ok := PrettyJSON(resp.Body)
	if !ok {
		outcome.Kind = OutcomeNotJSON
		outcome.Err = ErrNotJSON
		p.logger.Warn("non-JSON response",
			zap.String("endpoint", ep.Path),
			zap.String("request_id", resp.RequestID),
		)
		fmt.Fprintln(p.out, "⚠️ 响应不是JSON格式:")
		fmt.Fprintln(p.out, Truncate(resp.Text(), RawBodyLimit))
		return outcome
	}

	outcome.Kind = OutcomeOK
	if env, err := DecodeEnvelope(resp.Body); err == nil {
		outcome.Envelope = env
	}
	fmt.Fprintln(p.out, "✅ 成功! 响应数据:")
	fmt.Fprintln(p.out, pretty)
	return outcome
}
