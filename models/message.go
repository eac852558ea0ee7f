package models

import "time"

// Contact channels for outreach messages.
const (
	ChannelFacebook     = "facebook"
	ChannelWhatsApp     = "whatsapp"
	ChannelInstagram    = "instagram"
	ChannelPessoalmente = "pessoalmente"
	ChannelEmail        = "email"
	ChannelLigacao      = "ligacao"
)

// Message kinds.
const (
	MessagePrimeiroContato = "primeiro contato"
	MessageFollowup        = "followup"
)

// Message direction.
const (
	DirectionEnviada  = "Enviada"
	DirectionRecebida = "Recebida"
)

// Message represents one outreach event tied to exactly one lead. The lead
// reference is immutable after creation; messages are hard-deleted only.
type Message struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	IDLead        uint      `gorm:"column:id_lead;not null;index" json:"id_lead"`
	Mensagem      string    `gorm:"type:text;not null" json:"mensagem"`
	MeioDeContato string    `gorm:"not null" json:"meio_de_contato"`
	TipoMensagem  string    `gorm:"not null" json:"tipo_mensagem"`
	Identifica    string    `gorm:"not null" json:"identifica"`
	DataHora      time.Time `gorm:"not null;index" json:"data_hora"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Lead *Lead `gorm:"foreignKey:IDLead" json:"-"`
}

// MessageWithLead is a message row joined with the identity columns of the
// owning lead, used by the all-messages listing and the grouped view.
type MessageWithLead struct {
	Message
	LeadNome      string `json:"lead_nome"`
	LeadEmail     string `json:"lead_email"`
	LeadInstagram string `json:"lead_instagram"`
	LeadTelefone  string `json:"lead_telefone"`
}

// MessageStats counts messages by direction and by kind.
type MessageStats struct {
	Total           int `json:"total"`
	Enviadas        int `json:"enviadas"`
	Recebidas       int `json:"recebidas"`
	PrimeiroContato int `json:"primeiroContato"`
	Followup        int `json:"followup"`
}

// LeadRef is the minimal lead identity carried by grouped message views.
type LeadRef struct {
	ID        uint   `json:"id"`
	Nome      string `json:"nome"`
	Instagram string `json:"instagram,omitempty"`
	Telefone  string `json:"telefone,omitempty"`
	Email     string `json:"email,omitempty"`
}

// LeadMessagesGroup partitions messages by their owning lead, each partition
// ordered by communication timestamp descending.
type LeadMessagesGroup struct {
	Lead     LeadRef   `json:"lead"`
	Messages []Message `json:"messages"`
}
