package model

type User struct {
	ID       uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	Email    string `json:"email" gorm:"size:100;uniqueIndex"`
	Password string `json:"-" gorm:"size:100"`
}

func (User) TableName() string {
	return "users"
}
