package models

import "time"

// Product represents a sellable offering leads can be associated with.
// "Deleting" a product means toggling Active off; the row is retained.
type Product struct {
	ID                 uint   `gorm:"primaryKey" json:"id"`
	Nome               string `gorm:"not null" json:"nome"`
	DescricaoDetalhada string `gorm:"type:text;not null" json:"descricao_detalhada"`
	PromptConsultivo   string `gorm:"type:text;not null" json:"prompt_consultivo"`
	Active             bool   `gorm:"not null;default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProductStats counts products by their active flag.
type ProductStats struct {
	Total    int `json:"total"`
	Ativos   int `json:"ativos"`
	Inativos int `json:"inativos"`
}
