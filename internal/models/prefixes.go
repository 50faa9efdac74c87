package models

// PrefixName - обращение перед именем пользователя (Mr/Mrs/Ms).
type PrefixName string

const (
	PrefixMr  PrefixName = "Mr"
	PrefixMrs PrefixName = "Mrs"
	PrefixMs  PrefixName = "Ms"
)

// AllPrefixNames возвращает полный список допустимых значений.
func AllPrefixNames() []PrefixName {
	return []PrefixName{PrefixMr, PrefixMrs, PrefixMs}
}

// Valid сообщает, входит ли значение в список допустимых.
func (p PrefixName) Valid() bool {
	switch p {
	case PrefixMr, PrefixMrs, PrefixMs:
		return true
	default:
		return false
	}
}
