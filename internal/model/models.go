package model

import (
	"time"
)

// User 用户模型
type User struct {
	ID           int       `json:"id" db:"id"`
	Email        string    `json:"email" db:"email" gorm:"unique"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// SessionUser 专门用于 Session 存储的用户信息结构
type SessionUser struct {
	ID       int
	Email    string
	Username string
}

// SearchHistory 搜索历史记录
// user_id 只能来自登录会话，记录创建后不可变更
type SearchHistory struct {
	ID         int       `json:"id" db:"id"`
	UserID     int       `json:"userId" db:"user_id" gorm:"index"`
	Location   string    `json:"location" db:"location"`
	Days       int       `json:"days" db:"days"`
	SearchedAt time.Time `json:"searchedAt" db:"searched_at"`
}

// TrendingLocation 热门搜索地点
type TrendingLocation struct {
	Location       string    `json:"location" db:"location"`
	Count          int       `json:"count" db:"count"`
	LastSearchedAt time.Time `json:"last_searched_at" db:"last_searched_at"`
}

// Prediction 单日温度预测
type Prediction struct {
	Date        string  `json:"date"`
	Temp        float64 `json:"temp"`
	TempMin     float64 `json:"tempMin"`
	TempMax     float64 `json:"tempMax"`
	Humidity    int     `json:"humidity"`
	Description string  `json:"description"`
}

// Forecast 温度预测结果
type Forecast struct {
	Location    string       `json:"location"`
	Predictions []Prediction `json:"predictions"`
	Unit        string       `json:"unit"`
}
