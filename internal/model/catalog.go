package model

// Reference data cached verbatim from the bootstrap payload.

type Category struct {
	ID   int    `gorm:"primaryKey"`
	Name string `gorm:"not null"`
}

type Brand struct {
	ID   int    `gorm:"primaryKey"`
	Name string `gorm:"not null"`
}

type PaymentMethod struct {
	ID   int    `gorm:"primaryKey"`
	Name string `gorm:"not null"`
}
