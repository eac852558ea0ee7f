package models

import "time"

// Lead status buckets. Values match what the sales dashboard stores.
const (
	StatusNenhum           = "NENHUM"
	StatusSemRetorno       = "SEM RETORNO"
	StatusSemInteresse     = "SEM INTERESSE"
	StatusTalvez           = "TALVEZ"
	StatusMedioInteresse   = "MEDIO INTERESSE"
	StatusMuitoInteressado = "MUITO INTERESSADO"
	StatusOcupado          = "OCUPADO"
)

// Active flag values. Leads are never hard-deleted, only flipped to "no".
const (
	LeadActiveYes = "yes"
	LeadActiveNo  = "no"
)

// LeadStatuses lists every valid status bucket.
var LeadStatuses = []string{
	StatusNenhum,
	StatusSemRetorno,
	StatusSemInteresse,
	StatusTalvez,
	StatusMedioInteresse,
	StatusMuitoInteressado,
	StatusOcupado,
}

// Lead represents a prospect contact in the sales pipeline.
type Lead struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Nome        string `gorm:"not null" json:"nome"`
	Email       string `gorm:"index" json:"email"`
	Telefone    string `gorm:"not null" json:"telefone"`
	Instagram   string `json:"instagram"`
	Decisor     string `gorm:"not null" json:"decisor"`
	Endereco    string `gorm:"not null" json:"endereco"`
	Cidade      string `gorm:"not null" json:"cidade"`
	Estado      string `gorm:"not null" json:"estado"`
	Website     string `json:"website"`
	IDProduto   *uint  `gorm:"column:id_produto;index" json:"id_produto,omitempty"`
	Status      string `gorm:"not null;default:NENHUM;index" json:"status"`
	Active      string `gorm:"not null;default:yes;index" json:"active"`
	Observacoes string `gorm:"type:text" json:"observacoes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Produto *Product `gorm:"foreignKey:IDProduto" json:"produto,omitempty"`
}

// LeadStats counts active leads per status bucket.
type LeadStats struct {
	Total            int `json:"total"`
	SemRetorno       int `json:"semRetorno"`
	SemInteresse     int `json:"semInteresse"`
	Talvez           int `json:"talvez"`
	MedioInteresse   int `json:"medioInteresse"`
	MuitoInteressado int `json:"muitoInteressado"`
}

// DuplicateCheckResult reports whether an active lead already carries one of
// the contact fields being checked, and which field collided.
type DuplicateCheckResult struct {
	IsDuplicate  bool   `json:"is_duplicate"`
	Field        string `json:"field,omitempty"` // email, instagram or website
	ExistingLead *Lead  `json:"existing_lead,omitempty"`
}
