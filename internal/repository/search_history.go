package repository

import (
	"fmt"
	"time"

	"github.com/user/tempcast/internal/model"
	"github.com/user/tempcast/internal/utils"
	"gorm.io/gorm"
)

type SearchHistoryRepository struct {
	db *gorm.DB
}

func NewSearchHistoryRepository(db *gorm.DB) *SearchHistoryRepository {
	return &SearchHistoryRepository{db: db}
}

// Insert 写入一条搜索记录
func (r *SearchHistoryRepository) Insert(record *model.SearchHistory) error {
	return r.db.Create(record).Error
}

// ListByOwner 获取用户全部搜索历史（最新优先）
// user_id 条件写死在这里，调用方无法查到别人的记录
func (r *SearchHistoryRepository) ListByOwner(userID int) ([]*model.SearchHistory, error) {
	var records []*model.SearchHistory
	err := r.db.Where("user_id = ?", userID).
		Order("searched_at DESC, id DESC").
		Find(&records).Error
	return records, err
}

// CountByOwner 统计用户搜索历史数量
func (r *SearchHistoryRepository) CountByOwner(userID int) (int64, error) {
	var count int64
	err := r.db.Model(&model.SearchHistory{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// GetTrendingLocations 获取指定时间范围内的热门搜索地点
func (r *SearchHistoryRepository) GetTrendingLocations(hours, limit int) ([]*model.TrendingLocation, error) {
	// 1. 检查缓存
	cacheKey := fmt.Sprintf("trending:%d:%d", hours, limit)
	if cached, found := utils.CacheGet(cacheKey); found {
		if locations, ok := cached.([]*model.TrendingLocation); ok {
			return locations, nil
		}
	}

	// 2. 从数据库实时聚合
	var locations []*model.TrendingLocation
	err := r.db.Raw(`
		SELECT location, COUNT(*) as count, MAX(searched_at) as last_searched_at
		FROM search_histories
		WHERE searched_at > NOW() - INTERVAL '1 hour' * $1
		GROUP BY location
		ORDER BY count DESC
		LIMIT $2
	`, hours, limit).Scan(&locations).Error
	if err != nil {
		return nil, err
	}

	// 3. 设置缓存
	utils.CacheSet(cacheKey, locations, 30*time.Minute)

	return locations, nil
}
