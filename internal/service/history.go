package service

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/user/tempcast/internal/model"
)

// 搜索历史的校验错误，handler 负责映射为 HTTP 状态码和错误码
var (
	ErrUserIDNotAllowed = errors.New("User ID cannot be provided in request body")
	ErrInvalidLocation  = errors.New("Location is required and must be a non-empty string")
	ErrInvalidDays      = errors.New("Days is required and must be a positive integer")
)

// HistoryStore 搜索历史存储接口，测试时可用内存实现替换
type HistoryStore interface {
	Insert(record *model.SearchHistory) error
	ListByOwner(userID int) ([]*model.SearchHistory, error)
}

// HistoryService 搜索历史服务
// 记录归属只能来自登录会话，所有校验先于写入执行
type HistoryService struct {
	store HistoryStore
	now   func() time.Time
}

// NewHistoryService 创建搜索历史服务
func NewHistoryService(store HistoryStore) *HistoryService {
	return &HistoryService{
		store: store,
		now:   time.Now,
	}
}

// Record 校验并写入一条搜索记录
// body 是原始 JSON 对象，方便检测越权字段和非整数的 days
func (s *HistoryService) Record(userID int, body map[string]interface{}) (*model.SearchHistory, error) {
	// 安全校验：禁止客户端在请求体中指定归属用户
	if _, ok := body["userId"]; ok {
		return nil, ErrUserIDNotAllowed
	}
	if _, ok := body["user_id"]; ok {
		return nil, ErrUserIDNotAllowed
	}

	location, ok := body["location"].(string)
	if !ok || strings.TrimSpace(location) == "" {
		return nil, ErrInvalidLocation
	}

	days, ok := intField(body["days"])
	if !ok || days <= 0 {
		return nil, ErrInvalidDays
	}

	record := &model.SearchHistory{
		UserID:     userID,
		Location:   strings.TrimSpace(location),
		Days:       days,
		SearchedAt: s.now(),
	}
	if err := s.store.Insert(record); err != nil {
		return nil, err
	}

	return record, nil
}

// ListByOwner 获取用户全部搜索历史（最新优先）
// 归属隔离由存储层的 user_id 条件保证，和客户端输入无关
func (s *HistoryService) ListByOwner(userID int) ([]*model.SearchHistory, error) {
	records, err := s.store.ListByOwner(userID)
	if err != nil {
		return nil, err
	}
	// 没有历史时返回空列表而不是 null
	if records == nil {
		records = []*model.SearchHistory{}
	}
	return records, nil
}

// intField 把 JSON 数值解析为整数，2.5 这类小数视为非法
func intField(v interface{}) (int, bool) {
	f, ok := v.(float64)
	if !ok {
		return 0, false
	}
	if f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}
