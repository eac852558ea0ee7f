package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"leadhub/models"
)

const (
	messagesByLeadTTL  = 3
	messageByIDTTL     = 5
	messagesPageTTL    = 2
	messageStatsTTL    = 5
	messagesGroupedTTL = 3
)

// MessageStore is the persistence surface the messages service depends on.
type MessageStore interface {
	Insert(message *models.Message) error
	GetByID(id uint) (*models.Message, error)
	// ListByLead returns one page of a lead's messages ordered by creation
	// time descending, plus the total count.
	ListByLead(leadID uint, offset, limit int) ([]models.Message, int64, error)
	UpdateFields(id uint, fields map[string]interface{}) (*models.Message, error)
	Delete(id uint) error
	// ListWithLead returns one page of all messages joined with the owning
	// lead's identity columns, ordered by creation time descending.
	ListWithLead(offset, limit int) ([]models.MessageWithLead, int64, error)
	// ListAllWithLead returns every message joined with lead identity,
	// ordered by communication timestamp descending.
	ListAllWithLead() ([]models.MessageWithLead, error)
	// DirectionsAndKinds returns the (identifica, tipo_mensagem) pair of
	// every message, for stats aggregation.
	DirectionsAndKinds() ([]models.Message, error)
}

// MessageCreate carries the fields accepted when recording an outreach event.
type MessageCreate struct {
	IDLead        uint
	Mensagem      string
	MeioDeContato string
	TipoMensagem  string
	Identifica    string
	DataHora      time.Time
}

// MessageUpdate carries a partial update; the owning lead is immutable.
type MessageUpdate struct {
	Mensagem      *string
	MeioDeContato *string
	TipoMensagem  *string
	Identifica    *string
	DataHora      *time.Time
}

// MessagesPage is one window of a message listing.
type MessagesPage struct {
	Messages []models.MessageWithLead `json:"data"`
	Count    int64                    `json:"count"`
}

// LeadMessagesPage is one window of a single lead's messages.
type LeadMessagesPage struct {
	Messages []models.Message `json:"data"`
	Count    int64            `json:"count"`
}

// MessagesService mediates message creation/reads and produces the
// lead-grouped views.
type MessagesService struct {
	store MessageStore
	cache *CacheManager
	log   *logrus.Entry
}

func NewMessagesService(store MessageStore, cache *CacheManager, log *logrus.Entry) *MessagesService {
	return &MessagesService{store: store, cache: cache, log: log}
}

// CreateMessage records a new outreach event tied to a lead.
func (s *MessagesService) CreateMessage(input MessageCreate) (*models.Message, error) {
	message := &models.Message{
		IDLead:        input.IDLead,
		Mensagem:      input.Mensagem,
		MeioDeContato: input.MeioDeContato,
		TipoMensagem:  input.TipoMensagem,
		Identifica:    input.Identifica,
		DataHora:      input.DataHora,
	}
	if message.DataHora.IsZero() {
		message.DataHora = time.Now()
	}

	if err := s.store.Insert(message); err != nil {
		s.log.WithError(err).Error("failed to create message")
		return nil, err
	}

	s.invalidateListings()
	s.log.WithFields(logrus.Fields{
		"message_id": message.ID,
		"lead_id":    message.IDLead,
	}).Info("message created")
	return message, nil
}

// GetMessagesByLead returns one page of a lead's messages, newest first.
func (s *MessagesService) GetMessagesByLead(leadID uint, page, limit int) (*LeadMessagesPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	cacheKey := fmt.Sprintf("messages_lead_%d_page_%d_limit_%d", leadID, page, limit)
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached.(*LeadMessagesPage), nil
	}

	messages, count, err := s.store.ListByLead(leadID, (page-1)*limit, limit)
	if err != nil {
		s.log.WithError(err).WithField("lead_id", leadID).Error("failed to list lead messages")
		return nil, err
	}

	result := &LeadMessagesPage{Messages: messages, Count: count}
	s.cache.Set(cacheKey, result, messagesByLeadTTL)
	return result, nil
}

// GetMessageByID fetches a single message.
func (s *MessagesService) GetMessageByID(id uint) (*models.Message, error) {
	cacheKey := fmt.Sprintf("message_%d", id)
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached.(*models.Message), nil
	}

	message, err := s.store.GetByID(id)
	if err != nil {
		s.log.WithError(err).WithField("message_id", id).Error("failed to fetch message")
		return nil, err
	}

	s.cache.Set(cacheKey, message, messageByIDTTL)
	return message, nil
}

// UpdateMessage applies only the fields present in the partial payload.
func (s *MessagesService) UpdateMessage(id uint, input MessageUpdate) (*models.Message, error) {
	fields := map[string]interface{}{}
	if input.Mensagem != nil {
		fields["mensagem"] = *input.Mensagem
	}
	if input.MeioDeContato != nil {
		fields["meio_de_contato"] = *input.MeioDeContato
	}
	if input.TipoMensagem != nil {
		fields["tipo_mensagem"] = *input.TipoMensagem
	}
	if input.Identifica != nil {
		fields["identifica"] = *input.Identifica
	}
	if input.DataHora != nil {
		fields["data_hora"] = *input.DataHora
	}

	if len(fields) == 0 {
		return s.store.GetByID(id)
	}

	message, err := s.store.UpdateFields(id, fields)
	if err != nil {
		s.log.WithError(err).WithField("message_id", id).Error("failed to update message")
		return nil, err
	}

	s.invalidateListings()
	s.cache.Invalidate(fmt.Sprintf("message_%d", id))
	return message, nil
}

// DeleteMessage hard-deletes; messages carry no soft-delete flag.
func (s *MessagesService) DeleteMessage(id uint) error {
	if err := s.store.Delete(id); err != nil {
		s.log.WithError(err).WithField("message_id", id).Error("failed to delete message")
		return err
	}

	s.invalidateListings()
	s.cache.Invalidate(fmt.Sprintf("message_%d", id))
	return nil
}

// GetAllMessages returns one page of every message joined with minimal lead
// identity, newest first.
func (s *MessagesService) GetAllMessages(page, limit int) (*MessagesPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}

	cacheKey := fmt.Sprintf("messages_page_%d_limit_%d", page, limit)
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached.(*MessagesPage), nil
	}

	messages, count, err := s.store.ListWithLead((page-1)*limit, limit)
	if err != nil {
		s.log.WithError(err).Error("failed to list messages")
		return nil, err
	}

	result := &MessagesPage{Messages: messages, Count: count}
	s.cache.Set(cacheKey, result, messagesPageTTL)
	return result, nil
}

// GetMessagesStats counts messages by direction and by kind.
func (s *MessagesService) GetMessagesStats() (*models.MessageStats, error) {
	const cacheKey = "stats_messages"
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached.(*models.MessageStats), nil
	}

	rows, err := s.store.DirectionsAndKinds()
	if err != nil {
		s.log.WithError(err).Error("failed to fetch message stats")
		return nil, err
	}

	stats := &models.MessageStats{Total: len(rows)}
	for _, row := range rows {
		switch row.Identifica {
		case models.DirectionEnviada:
			stats.Enviadas++
		case models.DirectionRecebida:
			stats.Recebidas++
		}
		switch row.TipoMensagem {
		case models.MessagePrimeiroContato:
			stats.PrimeiroContato++
		case models.MessageFollowup:
			stats.Followup++
		}
	}

	s.cache.Set(cacheKey, stats, messageStatsTTL)
	return stats, nil
}

// GetMessagesGroupedByLead fetches every message with its owning lead's
// identity and partitions them into one group per lead. Groups appear in
// the order of each lead's most recent communication; inside a group
// messages are ordered by communication timestamp descending. The whole
// aggregate is cached as a single entry and invalidated wholesale on any
// message mutation.
func (s *MessagesService) GetMessagesGroupedByLead() ([]models.LeadMessagesGroup, error) {
	const cacheKey = "messages_grouped_by_lead"
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached.([]models.LeadMessagesGroup), nil
	}

	rows, err := s.store.ListAllWithLead()
	if err != nil {
		s.log.WithError(err).Error("failed to fetch grouped messages")
		return nil, err
	}

	groupIndex := map[uint]int{}
	groups := []models.LeadMessagesGroup{}
	for _, row := range rows {
		idx, ok := groupIndex[row.IDLead]
		if !ok {
			idx = len(groups)
			groupIndex[row.IDLead] = idx
			groups = append(groups, models.LeadMessagesGroup{
				Lead: models.LeadRef{
					ID:        row.IDLead,
					Nome:      row.LeadNome,
					Instagram: row.LeadInstagram,
					Telefone:  row.LeadTelefone,
					Email:     row.LeadEmail,
				},
			})
		}
		groups[idx].Messages = append(groups[idx].Messages, row.Message)
	}

	for i := range groups {
		msgs := groups[i].Messages
		sort.SliceStable(msgs, func(a, b int) bool {
			return msgs[a].DataHora.After(msgs[b].DataHora)
		})
	}

	s.cache.Set(cacheKey, groups, messagesGroupedTTL)
	return groups, nil
}

// ClearCache drops every cached message read.
func (s *MessagesService) ClearCache() {
	s.cache.Invalidate("")
}

func (s *MessagesService) invalidateListings() {
	s.cache.Invalidate("messages_lead")
	s.cache.Invalidate("messages_page")
	s.cache.Invalidate("messages_grouped")
	s.cache.Invalidate("stats_messages")
}
