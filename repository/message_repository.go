package repository

import (
	"gorm.io/gorm"

	"leadhub/models"
)

// leadIdentityColumns are the owning-lead columns projected into joined
// message listings.
const leadIdentityColumns = "messages.*, " +
	"leads.nome AS lead_nome, " +
	"leads.email AS lead_email, " +
	"leads.instagram AS lead_instagram, " +
	"leads.telefone AS lead_telefone"

// MessageRepository implements services.MessageStore on Postgres via GORM.
type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Insert(message *models.Message) error {
	return r.db.Create(message).Error
}

func (r *MessageRepository) GetByID(id uint) (*models.Message, error) {
	var message models.Message
	if err := r.db.First(&message, id).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *MessageRepository) ListByLead(leadID uint, offset, limit int) ([]models.Message, int64, error) {
	var count int64
	if err := r.db.Model(&models.Message{}).
		Where("id_lead = ?", leadID).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var messages []models.Message
	if err := r.db.
		Where("id_lead = ?", leadID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, 0, err
	}

	return messages, count, nil
}

func (r *MessageRepository) UpdateFields(id uint, fields map[string]interface{}) (*models.Message, error) {
	result := r.db.Model(&models.Message{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(id)
}

func (r *MessageRepository) Delete(id uint) error {
	result := r.db.Delete(&models.Message{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *MessageRepository) ListWithLead(offset, limit int) ([]models.MessageWithLead, int64, error) {
	var count int64
	if err := r.db.Model(&models.Message{}).
		Joins("INNER JOIN leads ON leads.id = messages.id_lead").
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.MessageWithLead
	if err := r.db.Model(&models.Message{}).
		Select(leadIdentityColumns).
		Joins("INNER JOIN leads ON leads.id = messages.id_lead").
		Order("messages.created_at DESC").
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	return rows, count, nil
}

func (r *MessageRepository) ListAllWithLead() ([]models.MessageWithLead, error) {
	var rows []models.MessageWithLead
	err := r.db.Model(&models.Message{}).
		Select(leadIdentityColumns).
		Joins("INNER JOIN leads ON leads.id = messages.id_lead").
		Order("messages.data_hora DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *MessageRepository) DirectionsAndKinds() ([]models.Message, error) {
	var rows []models.Message
	err := r.db.Model(&models.Message{}).
		Select("identifica, tipo_mensagem").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
