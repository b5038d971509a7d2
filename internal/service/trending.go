package service

import (
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/user/tempcast/internal/repository"
	"github.com/user/tempcast/internal/utils"
)

// 首页热门地点的查询参数，与 handler 保持一致
const (
	TrendingHours = 24
	TrendingLimit = 10
)

// TrendingService 定时刷新热门搜索地点缓存
type TrendingService struct {
	repos     *repository.Repositories
	scheduler *gocron.Scheduler
}

// NewTrendingService 创建热门地点服务
func NewTrendingService(repos *repository.Repositories) *TrendingService {
	return &TrendingService{
		repos:     repos,
		scheduler: gocron.NewScheduler(time.UTC),
	}
}

// Start 启动定时刷新任务
func (s *TrendingService) Start() error {
	// 启动时先预热一次
	go s.refresh()

	_, err := s.scheduler.Every(30).Minutes().Do(s.refresh)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop 停止定时任务
func (s *TrendingService) Stop() {
	s.scheduler.Stop()
}

// refresh 清掉旧缓存后重新聚合，保证首页拿到的是新数据
func (s *TrendingService) refresh() {
	utils.CacheDelete(fmt.Sprintf("trending:%d:%d", TrendingHours, TrendingLimit))

	if _, err := s.repos.SearchHistory.GetTrendingLocations(TrendingHours, TrendingLimit); err != nil {
		log.Printf("[TrendingService] 刷新热门地点失败: %v", err)
	}
}
