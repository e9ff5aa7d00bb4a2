// Package mockapi is a stub of the video catalog API. It answers the
// routes the probers exercise with fixture data, using the same envelope,
// routing and weekday rules as the real backend.
package mockapi

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hashicorp/go-version"
	"go.uber.org/zap"

	"github.com/ovoapp/catalog-probe/internal/config"
	"github.com/ovoapp/catalog-probe/internal/database"
)

// LevelSource lists the experience levels served by /xp_lv.
// *database.DB satisfies it.
type LevelSource interface {
	ListLevels(ctx context.Context) ([]database.Level, error)
}

// healthChecker is implemented by level sources backed by a database.
type healthChecker interface {
	Health(ctx context.Context) error
}

type staticLevels []database.Level

func (s staticLevels) ListLevels(context.Context) ([]database.Level, error) {
	return s, nil
}

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	catalog *Catalog
	levels  LevelSource
	strict  bool
	logger  *zap.Logger
	routes  map[string]http.HandlerFunc
}

// NewHandlers creates a new Handlers instance. A nil levels serves
// database.DefaultLevels.
func NewHandlers(catalog *Catalog, levels LevelSource, cfg *config.Config, logger *zap.Logger) *Handlers {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	if levels == nil {
		levels = staticLevels(database.DefaultLevels())
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	h := &Handlers{
		catalog: catalog,
		levels:  levels,
		strict:  cfg != nil && cfg.MockStrictWeekday,
		logger:  logger,
	}
	h.routes = map[string]http.HandlerFunc{
		"/types":        h.GetTypes,
		"/xp_lv":        h.GetLevels,
		"/banners":      h.GetBanners,
		"/hotvedios":    h.GetHotVideos,
		"/schedule":     h.GetSchedule,
		"/check_update": h.CheckUpdate,
	}
	return h
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if hc, ok := h.levels.(healthChecker); ok {
		if err := hc.Health(r.Context()); err != nil {
			h.logger.Warn("health check failed", zap.Error(err))
			WriteError(w, http.StatusServiceUnavailable, "数据库连接异常")
			return
		}
	}

	WriteSuccess(w, map[string]string{
		"status": "healthy",
	})
}

// Dispatch resolves the catalog route from the s parameter, or from the
// path after /api.php, and serves it. Unknown routes get a code 404
// envelope.
func (h *Handlers) Dispatch(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("s")
	if raw == "" {
		raw = "/" + chi.URLParam(r, "*")
	}
	route := apiPath(raw)

	handler, ok := h.routes[route]
	if !ok {
		h.logger.Debug("unknown route",
			zap.String("route", route),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
		WriteNotFound(w, "请求的API接口不存在: "+route)
		return
	}
	handler(w, r)
}

// apiPath strips the /api/v1 prefix from a routed path. A bare /v1 prefix
// is accepted as well.
func apiPath(p string) string {
	if strings.HasPrefix(p, "/v1") {
		p = "/api" + p
	}
	p = strings.TrimPrefix(p, "/api/v1")
	if p == "" {
		return "/"
	}
	return p
}

// GetTypes handles the types route.
func (h *Handlers) GetTypes(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, map[string]any{
		"list": h.catalog.Types,
	})
}

// GetLevels handles the xp_lv route: a map of level to required xp.
func (h *Handlers) GetLevels(w http.ResponseWriter, r *http.Request) {
	levels, err := h.levels.ListLevels(r.Context())
	if err != nil {
		h.logger.Error("failed to list levels", zap.Error(err))
		WriteInternalError(w, "获取等级表失败: "+err.Error())
		return
	}

	table := make(map[string]int, len(levels))
	for _, l := range levels {
		table[strconv.Itoa(l.Lv)] = l.XP
	}
	WriteSuccess(w, table)
}

type bannerItem struct {
	ID       int    `json:"vod_id"`
	Name     string `json:"vod_name"`
	ImageURL string `json:"image_url"`
}

// GetBanners handles the banners route.
func (h *Handlers) GetBanners(w http.ResponseWriter, r *http.Request) {
	list := []bannerItem{}
	for _, v := range h.catalog.videosAtLevel(h.catalog.BannerLevel) {
		list = append(list, bannerItem{ID: v.ID, Name: v.Name, ImageURL: v.Slide})
	}
	WriteSuccess(w, map[string]any{
		"list": list,
	})
}

type hotItem struct {
	ID      int    `json:"vod_id"`
	Name    string `json:"vod_name"`
	Pic     string `json:"vod_pic"`
	Remarks string `json:"vod_remarks"`
	Level   int    `json:"vod_level"`
}

// GetHotVideos handles the hotvedios route with optional page, limit and
// level parameters.
func (h *Handlers) GetHotVideos(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := max(1, queryInt(q.Get("page"), 1))
	limit := min(100, max(1, queryInt(q.Get("limit"), 20)))
	level := queryInt(q.Get("level"), h.catalog.HotLevel)

	videos := h.catalog.videosAtLevel(level)
	total := len(videos)

	list := []hotItem{}
	for i := (page - 1) * limit; i < total && len(list) < limit; i++ {
		v := videos[i]
		list = append(list, hotItem{ID: v.ID, Name: v.Name, Pic: v.Pic, Remarks: v.Remarks, Level: v.Level})
	}

	WriteSuccess(w, map[string]any{
		"list":  list,
		"total": total,
		"page":  page,
		"limit": limit,
		"pages": int(math.Ceil(float64(total) / float64(limit))),
	})
}

var supportedPlatforms = []string{"android", "ios"}

// CheckUpdate handles the check_update route. platform and version are
// required; version must parse as a version number, with or without a v
// prefix and with any number of parts.
func (h *Handlers) CheckUpdate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	platform := strings.ToLower(strings.TrimSpace(q.Get("platform")))
	current := strings.TrimSpace(q.Get("version"))

	if platform == "" {
		WriteBadRequest(w, "平台参数不能为空")
		return
	}
	if current == "" {
		WriteBadRequest(w, "版本号不能为空")
		return
	}

	release, ok := h.catalog.Releases[platform]
	if !ok {
		known := false
		for _, p := range supportedPlatforms {
			known = known || p == platform
		}
		if !known {
			WriteBadRequest(w, "不支持的平台，当前只支持: "+strings.Join(supportedPlatforms, ", "))
			return
		}
		WriteNotFound(w, "未找到该平台的版本信息")
		return
	}

	clientVersion, err := version.NewVersion(current)
	if err != nil {
		WriteBadRequest(w, "版本号格式不正确: "+current)
		return
	}
	latest, err := version.NewVersion(release.Version)
	if err != nil {
		h.logger.Error("invalid release version",
			zap.String("platform", platform),
			zap.String("version", release.Version),
			zap.Error(err),
		)
		WriteInternalError(w, "版本信息配置错误")
		return
	}

	hasUpdate := latest.GreaterThan(clientVersion)
	data := map[string]any{
		"has_update":      hasUpdate,
		"platform":        release.Platform,
		"version":         release.Version,
		"current_version": current,
		"title":           release.Title,
		"download_url":    "",
		"browser_url":     "",
		"description":     "",
		"package_size":    "",
		"force_update":    false,
		"update_time":     release.Published.Format("2006-01-02 15:04:05"),
	}
	if hasUpdate {
		data["download_url"] = release.DownloadURL
		data["browser_url"] = release.BrowserURL
		data["description"] = release.Description
		data["package_size"] = release.PackageSize
		data["force_update"] = release.ForceUpdate
	}
	WriteSuccess(w, data)
}

func queryInt(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}
