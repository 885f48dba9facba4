package services

import (
	"context"
	"time"

	"gabinete-digital/internal/models"
	"gabinete-digital/internal/tablestore"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type MessageService struct {
	store    tablestore.Store
	notifier *Notifier
	log      logrus.FieldLogger
	now      func() time.Time
}

func NewMessageService(store tablestore.Store, notifier *Notifier, log logrus.FieldLogger) *MessageService {
	return &MessageService{
		store:    store,
		notifier: notifier,
		log:      log.WithField("entity", tablestore.TableMessages),
		now:      time.Now,
	}
}

func (s *MessageService) List(ctx context.Context, f models.MessageFilters) ([]models.ContactMessage, error) {
	q := tablestore.NewQuery()
	if f.Read != nil {
		q = q.Where(tablestore.Eq("lida", *f.Read))
	}
	if f.Answered != nil {
		q = q.Where(tablestore.Eq("respondida", *f.Answered))
	}

	messages := []models.ContactMessage{}
	if err := s.store.Find(ctx, tablestore.TableMessages, q, &messages); err != nil {
		return nil, storeFailure(s.log, tablestore.TableMessages, "list", err)
	}
	return messages, nil
}

func (s *MessageService) GetByID(ctx context.Context, id string) (*models.ContactMessage, error) {
	var message models.ContactMessage
	if err := s.store.FindOne(ctx, tablestore.TableMessages, tablestore.ByID(id), &message); err != nil {
		return nil, storeFailure(s.log, tablestore.TableMessages, "get", err)
	}
	return &message, nil
}

// Send grava a mensagem do formulário "Fale Conosco".
func (s *MessageService) Send(ctx context.Context, in models.SendMessageInput) (*models.ContactMessage, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	message := models.ContactMessage{
		ID:        uuid.NewString(),
		CreatedAt: s.now().UTC(),
		Name:      in.Name,
		Email:     in.Email,
		Phone:     optional(in.Phone),
		Subject:   in.Subject,
		Body:      in.Body,
	}

	if err := s.store.Insert(ctx, tablestore.TableMessages, message, nil); err != nil {
		return nil, storeFailure(s.log, tablestore.TableMessages, "send", err)
	}

	s.notifier.MessageReceived(ctx, &message)
	return &message, nil
}

func (s *MessageService) MarkRead(ctx context.Context, id string) (*models.ContactMessage, error) {
	return s.mark(ctx, id, "mark_read", map[string]any{"lida": true})
}

// MarkAnswered também marca como lida.
func (s *MessageService) MarkAnswered(ctx context.Context, id string) (*models.ContactMessage, error) {
	return s.mark(ctx, id, "mark_answered", map[string]any{"lida": true, "respondida": true})
}

func (s *MessageService) mark(ctx context.Context, id, op string, patch map[string]any) (*models.ContactMessage, error) {
	var message models.ContactMessage
	if err := s.store.Update(ctx, tablestore.TableMessages, tablestore.ByID(id), patch, &message); err != nil {
		return nil, storeFailure(s.log, tablestore.TableMessages, op, err)
	}
	return &message, nil
}

// CountUnread alimenta o contador do painel.
func (s *MessageService) CountUnread(ctx context.Context) (int64, error) {
	counts, err := s.store.CountBy(ctx, tablestore.TableMessages, "lida", tablestore.Query{})
	if err != nil {
		return 0, storeFailure(s.log, tablestore.TableMessages, "count_unread", err)
	}
	return counts["false"], nil
}

func (s *MessageService) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, tablestore.TableMessages, tablestore.ByID(id)); err != nil {
		return storeFailure(s.log, tablestore.TableMessages, "delete", err)
	}
	return nil
}
