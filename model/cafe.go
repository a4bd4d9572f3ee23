package model

type Cafe struct {
	ID           uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	Name         string `json:"name" gorm:"size:250;not null;uniqueIndex"`
	MapURL       string `json:"map_url" gorm:"column:map_url;size:250;not null;uniqueIndex"`
	ImgURL       string `json:"img_url" gorm:"column:img_url;size:250;not null;uniqueIndex"`
	Location     string `json:"location" gorm:"size:100;not null"`
	HasSockets   int    `json:"has_sockets" gorm:"not null"`
	HasToilet    int    `json:"has_toilet" gorm:"not null"`
	HasWifi      int    `json:"has_wifi" gorm:"not null"`
	CanTakeCalls int    `json:"can_take_calls" gorm:"not null"`
	Seats        string `json:"seats" gorm:"size:100;not null"`
	CoffeePrice  string `json:"coffee_price" gorm:"size:100;not null"`
}

// TableName pins the table; gorm's inflector would otherwise pluralize
// "cafe" to "caves".
func (Cafe) TableName() string {
	return "cafes"
}
