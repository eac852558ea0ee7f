package repository

import (
	"strings"

	"gorm.io/gorm"

	"leadhub/models"
)

// LeadRepository implements services.LeadStore on Postgres via GORM.
type LeadRepository struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

func (r *LeadRepository) ListActive(offset, limit int) ([]models.Lead, int64, error) {
	var count int64
	if err := r.db.Model(&models.Lead{}).
		Where("active = ?", models.LeadActiveYes).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var leads []models.Lead
	if err := r.db.
		Where("active = ?", models.LeadActiveYes).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&leads).Error; err != nil {
		return nil, 0, err
	}

	return leads, count, nil
}

func (r *LeadRepository) GetByID(id uint) (*models.Lead, error) {
	var lead models.Lead
	if err := r.db.First(&lead, id).Error; err != nil {
		return nil, err
	}
	return &lead, nil
}

func (r *LeadRepository) FindActiveMatches(email, instagram, website string, excludeID uint) ([]models.Lead, error) {
	var conds []string
	var args []interface{}
	if email != "" {
		conds = append(conds, "email = ?")
		args = append(args, email)
	}
	if instagram != "" {
		conds = append(conds, "instagram = ?")
		args = append(args, instagram)
	}
	if website != "" {
		conds = append(conds, "website = ?")
		args = append(args, website)
	}
	if len(conds) == 0 {
		return nil, nil
	}

	query := r.db.
		Where("active = ?", models.LeadActiveYes).
		Where("("+strings.Join(conds, " OR ")+")", args...)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var leads []models.Lead
	if err := query.Find(&leads).Error; err != nil {
		return nil, err
	}
	return leads, nil
}

func (r *LeadRepository) Insert(lead *models.Lead) error {
	return r.db.Create(lead).Error
}

func (r *LeadRepository) UpdateFields(id uint, fields map[string]interface{}) (*models.Lead, error) {
	result := r.db.Model(&models.Lead{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(id)
}

func (r *LeadRepository) Deactivate(id uint) error {
	result := r.db.Model(&models.Lead{}).
		Where("id = ?", id).
		Update("active", models.LeadActiveNo)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *LeadRepository) SearchActive(term string, limit int) ([]models.Lead, error) {
	like := "%" + term + "%"
	var leads []models.Lead
	err := r.db.
		Where("active = ?", models.LeadActiveYes).
		Where(
			"nome ILIKE ? OR email ILIKE ? OR telefone ILIKE ? OR instagram ILIKE ? OR decisor ILIKE ? OR cidade ILIKE ?",
			like, like, like, like, like, like,
		).
		Order("created_at DESC").
		Limit(limit).
		Find(&leads).Error
	if err != nil {
		return nil, err
	}
	return leads, nil
}

func (r *LeadRepository) ActiveStatuses() ([]string, error) {
	var statuses []string
	err := r.db.Model(&models.Lead{}).
		Where("active = ?", models.LeadActiveYes).
		Pluck("status", &statuses).Error
	if err != nil {
		return nil, err
	}
	return statuses, nil
}

func (r *LeadRepository) ListActiveByStatus(status string) ([]models.Lead, error) {
	var leads []models.Lead
	err := r.db.
		Where("active = ?", models.LeadActiveYes).
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&leads).Error
	if err != nil {
		return nil, err
	}
	return leads, nil
}
