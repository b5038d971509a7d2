package handler

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/user/tempcast/internal/config"
	"github.com/user/tempcast/internal/middleware"
	"github.com/user/tempcast/internal/model"
	"github.com/user/tempcast/internal/repository"
	"github.com/user/tempcast/internal/service"
)

// Handler HTTP 处理器
type Handler struct {
	Repos    *repository.Repositories
	Config   *config.Config
	History  *service.HistoryService
	Forecast *service.ForecastService
}

// NewHandler 创建处理器
func NewHandler(repos *repository.Repositories, cfg *config.Config) *Handler {
	return &Handler{
		Repos:    repos,
		Config:   cfg,
		History:  service.NewHistoryService(repos.SearchHistory),
		Forecast: service.NewForecastService(),
	}
}

// RenderData 统一封装公共渲染数据
func (h *Handler) RenderData(c *gin.Context, data gin.H) gin.H {
	// 基础数据
	res := gin.H{
		"SiteName": h.Config.SiteName,
		"SiteUrl":  h.Config.SiteUrl,
		"Path":     c.Request.URL.Path,
	}

	// 注入用户信息
	session := sessions.Default(c)
	if userinfo := session.Get("userinfo"); userinfo != nil {
		if su, ok := userinfo.(model.SessionUser); ok {
			res["UserInfo"] = su
		}
	}

	// 菜单高亮逻辑
	res["ActiveMenu"] = h.getActiveMenu(c.Request.URL.Path)

	// 合并传入的数据
	for k, v := range data {
		res[k] = v
	}

	return res
}

// getActiveMenu 根据路径判断当前高亮菜单
func (h *Handler) getActiveMenu(path string) string {
	switch path {
	case "/":
		return "home"
	case "/dashboard/history":
		return "history"
	default:
		return ""
	}
}

// ==================== 公开页面 ====================

// Home 首页（温度预测表单）
func (h *Handler) Home(c *gin.Context) {
	// 获取热门搜索地点
	trending, _ := h.Repos.SearchHistory.GetTrendingLocations(service.TrendingHours, service.TrendingLimit)

	c.HTML(http.StatusOK, "home.html", h.RenderData(c, gin.H{
		"Title":    h.Config.SiteName + " - 温度预测",
		"Trending": trending,
	}))
}

// NotFound 404 页面
func (h *Handler) NotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "404.html", h.RenderData(c, gin.H{
		"Title": "页面未找到 - " + h.Config.SiteName,
	}))
}

// ==================== 用户中心（需要登录）====================

// HistoryPage 搜索历史页
func (h *Handler) HistoryPage(c *gin.Context) {
	userID := middleware.GetUserID(c)

	records, err := h.History.ListByOwner(userID)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "404.html", h.RenderData(c, gin.H{
			"Title": "加载失败 - " + h.Config.SiteName,
		}))
		return
	}

	total, _ := h.Repos.SearchHistory.CountByOwner(userID)

	c.HTML(http.StatusOK, "history.html", h.RenderData(c, gin.H{
		"Title":   "搜索历史 - " + h.Config.SiteName,
		"Records": records,
		"Total":   total,
	}))
}
