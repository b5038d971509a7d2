package service

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/user/tempcast/internal/model"
	"github.com/user/tempcast/internal/utils"
	"golang.org/x/sync/singleflight"
)

// ErrLocationRequired 地点为空
var ErrLocationRequired = errors.New("Location is required")

// DefaultForecastDays 默认预测天数
const DefaultForecastDays = 7

// conditions 固定的天气状况集合
var conditions = []string{"Sunny", "Partly Cloudy", "Cloudy", "Light Rain", "Clear"}

// ForecastService 温度预测服务
// 数据为模拟生成，接入真实天气数据源时替换 generate 即可
type ForecastService struct {
	cache *utils.TTLCache[*model.Forecast]
	sf    singleflight.Group
}

// NewForecastService 创建预测服务
// 短期缓存让同一地点在几分钟内拿到稳定的预测结果
func NewForecastService() *ForecastService {
	return &ForecastService{
		cache: utils.NewTTLCache[*model.Forecast](1000, 10*time.Minute),
	}
}

// Predict 生成指定地点未来若干天的温度预测
func (s *ForecastService) Predict(location string, days int) (*model.Forecast, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, ErrLocationRequired
	}
	if days <= 0 {
		days = DefaultForecastDays
	}

	key := fmt.Sprintf("%s|%d", strings.ToLower(location), days)
	if cached, ok := s.cache.Get(key); ok {
		return cached, nil
	}

	// singleflight 避免并发生成同一地点的预测
	val, err, _ := s.sf.Do(key, func() (interface{}, error) {
		forecast := s.generate(location, days)
		s.cache.Set(key, forecast)
		return forecast, nil
	})
	if err != nil {
		return nil, err
	}

	return val.(*model.Forecast), nil
}

// generate 生成模拟预测数据
// 基准温度 15-35°C，叠加正弦波动和随机噪声
func (s *ForecastService) generate(location string, days int) *model.Forecast {
	baseTemp := float64(rand.Intn(20) + 15)
	today := time.Now()

	predictions := make([]model.Prediction, 0, days)
	for i := 0; i < days; i++ {
		variation := math.Sin(float64(i)*0.5)*5 + (rand.Float64()-0.5)*3
		temp := round1(baseTemp + variation)
		tempMin := round1(temp - 2 - rand.Float64()*2)
		tempMax := round1(temp + 2 + rand.Float64()*2)
		humidity := rand.Intn(41) + 40 // 40-80%

		predictions = append(predictions, model.Prediction{
			Date:        today.AddDate(0, 0, i).Format("2006-01-02"),
			Temp:        temp,
			TempMin:     tempMin,
			TempMax:     tempMax,
			Humidity:    humidity,
			Description: conditions[rand.Intn(len(conditions))],
		})
	}

	return &model.Forecast{
		Location:    location,
		Predictions: predictions,
		Unit:        "celsius",
	}
}

// round1 保留一位小数
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
