// Package model defines the tables of the console database.
package model

// Option is one key/value row of the blog preference.
type Option struct {
	Id    int    `json:"id" gorm:"primaryKey;autoIncrement"`
	Key   string `json:"key" gorm:"uniqueIndex;not null"`
	Value string `json:"value"`
}
