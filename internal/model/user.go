package model

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Balance decimal.Decimal `gorm:"column:balance;type:numeric(20,8);not null;default:0"`
}

func (User) TableName() string {
	return "users"
}
