package database

import "time"

// EstadoLibre is the state an entity enters when it is released
const EstadoLibre = "libre"

// Lote represents a plot of land
type Lote struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Nombre    string    `json:"nombre" gorm:"type:varchar(100);not null"`
	Estado    string    `json:"estado" gorm:"type:varchar(50);not null;default:'libre'"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Cultivo represents a crop planted on a lote
type Cultivo struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	LoteID    int64     `json:"loteId" gorm:"index;not null"`
	Nombre    string    `json:"nombre" gorm:"type:varchar(100);not null"`
	Estado    string    `json:"estado" gorm:"type:varchar(50);not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Sublote represents a subdivision of a lote
type Sublote struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	LoteID    int64     `json:"loteId" gorm:"index;not null"`
	Nombre    string    `json:"nombre" gorm:"type:varchar(100);not null"`
	Estado    string    `json:"estado" gorm:"type:varchar(50);not null;default:'libre'"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
