package db

import "time"

// Page 是站点唯一持久化的内容实体，对应公开站点上的 /page/:slug。
// 不嵌入 gorm.Model：删除为硬删除，不保留 deleted_at。
type Page struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Title           string    `gorm:"not null" json:"title"`
	Slug            string    `gorm:"uniqueIndex:idx_pages_slug;not null" json:"slug"`
	Content         string    `gorm:"type:text;not null;default:''" json:"content"`
	MetaDescription string    `gorm:"type:text;not null;default:''" json:"meta_description"`
	IsPublished     bool      `gorm:"not null" json:"is_published"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName 固定表名为 pages。
func (Page) TableName() string {
	return "pages"
}
