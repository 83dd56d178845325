package models

import "time"

// Library 用户书架
type Library struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UUID       string    `gorm:"size:36;uniqueIndex;not null" json:"uuid"`
	UserID     string    `gorm:"size:36;uniqueIndex;not null" json:"userId"`
	CreateTime time.Time `gorm:"autoCreateTime" json:"createTime"`
	UpdateTime time.Time `gorm:"autoUpdateTime" json:"updateTime"`
}

// TableName 表名
func (Library) TableName() string {
	return "libraries"
}

// NovelLibrary 书架内的小说条目
type NovelLibrary struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	LibraryID  uint      `gorm:"index:idx_library_novel,unique;not null" json:"libraryId"`
	NovelID    int64     `gorm:"index:idx_library_novel,unique;not null" json:"novelId"`
	Progress   int       `gorm:"default:0" json:"progress"`
	CreateTime time.Time `gorm:"autoCreateTime" json:"createTime"`
	UpdateTime time.Time `gorm:"autoUpdateTime" json:"updateTime"`
}

// TableName 表名
func (NovelLibrary) TableName() string {
	return "novel_libraries"
}
