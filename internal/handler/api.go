package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/tempcast/internal/middleware"
	"github.com/user/tempcast/internal/service"
	"github.com/user/tempcast/internal/utils"
)

// RecordSearch 记录一次搜索 POST /api/search-history
func (h *Handler) RecordSearch(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		utils.APIError(c, http.StatusUnauthorized, "Unauthorized", "UNAUTHORIZED")
		return
	}

	// 绑定为原始 JSON 对象，校验交给 HistoryService
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.APIError(c, http.StatusBadRequest, "Invalid request body", "INVALID_BODY")
		return
	}

	record, err := h.History.Record(userID, body)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserIDNotAllowed):
			utils.APIError(c, http.StatusBadRequest, err.Error(), "USER_ID_NOT_ALLOWED")
		case errors.Is(err, service.ErrInvalidLocation):
			utils.APIError(c, http.StatusBadRequest, err.Error(), "INVALID_LOCATION")
		case errors.Is(err, service.ErrInvalidDays):
			utils.APIError(c, http.StatusBadRequest, err.Error(), "INVALID_DAYS")
		default:
			log.Printf("[SearchHistory] 写入失败: %v", err)
			utils.APIError(c, http.StatusInternalServerError, "Internal server error: "+err.Error(), "INTERNAL_ERROR")
		}
		return
	}

	c.JSON(http.StatusCreated, record)
}

// ListSearchHistory 获取当前用户的搜索历史 GET /api/search-history
func (h *Handler) ListSearchHistory(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		utils.APIError(c, http.StatusUnauthorized, "Unauthorized", "UNAUTHORIZED")
		return
	}

	records, err := h.History.ListByOwner(userID)
	if err != nil {
		log.Printf("[SearchHistory] 查询失败: %v", err)
		utils.APIError(c, http.StatusInternalServerError, "Internal server error: "+err.Error(), "INTERNAL_ERROR")
		return
	}

	c.JSON(http.StatusOK, records)
}

// TemperatureReq 温度预测请求
type TemperatureReq struct {
	Location string `json:"location" binding:"required"`
	Days     int    `json:"days"`
}

// Temperature 生成温度预测 POST /api/temperature（无需登录）
func (h *Handler) Temperature(c *gin.Context) {
	var req TemperatureReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Location is required"})
		return
	}

	forecast, err := h.Forecast.Predict(req.Location, req.Days)
	if err != nil {
		if errors.Is(err, service.ErrLocationRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Location is required"})
			return
		}
		log.Printf("[Temperature] 生成预测失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch temperature predictions"})
		return
	}

	c.JSON(http.StatusOK, forecast)
}

// TrendingLocations 热门搜索地点 GET /api/trending
func (h *Handler) TrendingLocations(c *gin.Context) {
	locations, err := h.Repos.SearchHistory.GetTrendingLocations(service.TrendingHours, service.TrendingLimit)
	if err != nil {
		log.Printf("[Trending] 查询失败: %v", err)
		utils.InternalServerError(c, "")
		return
	}

	utils.Success(c, locations)
}
