package models

// Detail - производный факт о пользователе ("Full name", "Gender" и т.п.).
// Записи создаются только фоновым синхронизатором; для каждой пары
// (user_id, key) существует не более одной строки.
type Detail struct {
	BaseModel
	UserID uint   `gorm:"not null;uniqueIndex:idx_details_user_key,priority:1" json:"user_id"`
	Key    string `gorm:"size:255;not null;uniqueIndex:idx_details_user_key,priority:2" json:"key"`
	Value  string `gorm:"size:255" json:"value"`
	Type   string `gorm:"size:255;default:bio" json:"type"`
}

// Ключи, которые поддерживает синхронизатор.
const (
	DetailKeyFullName = "Full name"
	DetailKeyGender   = "Gender"
)
