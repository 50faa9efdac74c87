package models

import (
	"strings"
	"time"
)

// User - учетная запись в панели администрирования.
// Пароль хранится только в виде bcrypt-хэша.
type User struct {
	BaseModelWithDeleted
	Prefixname      PrefixName `gorm:"type:varchar(10);not null" json:"prefixname"`
	Firstname       string     `gorm:"size:255;not null" json:"firstname"`
	Middlename      string     `gorm:"size:255;not null" json:"middlename"`
	Lastname        string     `gorm:"size:255;not null" json:"lastname"`
	Username        string     `gorm:"size:255;uniqueIndex;not null" json:"username"`
	Email           string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password        string     `gorm:"size:255;not null" json:"-"`
	Photo           *string    `gorm:"size:255" json:"photo,omitempty"`
	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty"`

	// Relations
	Details []Detail `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// MiddleInitial возвращает первую букву отчества/второго имени в верхнем
// регистре с точкой, либо пустую строку.
func MiddleInitial(u *User) string {
	if u.Middlename == "" {
		return ""
	}
	r := []rune(u.Middlename)
	return strings.ToUpper(string(r[0])) + "."
}

// FullName собирает полное имя в формате "firstname MI. lastname".
// При пустом втором имени между first и last остаются два пробела.
func FullName(u *User) string {
	return u.Firstname + " " + MiddleInitial(u) + " " + u.Lastname
}

// Gender выводит пол из обращения: Mr -> male, Mrs/Ms -> female, иначе "".
func Gender(u *User) string {
	switch u.Prefixname {
	case PrefixMr:
		return "male"
	case PrefixMrs, PrefixMs:
		return "female"
	default:
		return ""
	}
}

// Trashed сообщает, помечена ли запись как удаленная (soft delete).
func (u *User) Trashed() bool {
	return u.DeletedAt.Valid
}
