package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/startrader/backend/internal/config"
	"github.com/startrader/backend/internal/domain"
	"github.com/startrader/backend/pkg/clients"
)

const (
	maxRetries    = 3
	retryInterval = time.Second * 1
)

var notifyingTransactions sync.Map

type TransactionRepo interface {
	FindPendingUnnotified(ctx context.Context, limit uint32) ([]domain.Transaction, error)
	MarkNotified(ctx context.Context, id int, notifiedAt time.Time) error
}

// Notification is the payload posted to the ops webhook for every newly
// submitted pending transaction.
type Notification struct {
	TransactionID int       `json:"transaction_id"`
	UserID        int       `json:"user_id"`
	Type          string    `json:"type"`
	Amount        float64   `json:"amount"`
	Reference     string    `json:"reference"`
	CreatedAt     time.Time `json:"created_at"`
}

type Service struct {
	url             string
	transactionRepo TransactionRepo
	client          clients.HTTPClientI
	limit           uint32
	workerPool      WorkerPoolI
	updateInterval  time.Duration
}

func New(cfg *config.Config, transactionRepo TransactionRepo, client clients.HTTPClientI) *Service {
	return &Service{
		url:             cfg.WebhookAddress,
		transactionRepo: transactionRepo,
		client:          client,
		limit:           1000,
		workerPool:      NewWorkerPool(10),
		updateInterval:  time.Second * 5,
	}
}

func (s *Service) Start(ctx context.Context) {
	if s.url == "" {
		zap.L().Info("Webhook notifier disabled: no webhook address configured")
		return
	}
	zap.L().Info("Webhook notifier started")
	go s.run(ctx)
}

func (s *Service) run(ctx context.Context) {
	ticker := time.NewTicker(s.updateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("Context canceled, stopping notifier")
			return
		case <-ticker.C:
			s.processPending(ctx)
		}
	}
}

func (s *Service) processPending(ctx context.Context) {
	transactions, err := s.transactionRepo.FindPendingUnnotified(ctx, s.limit)
	if err != nil {
		zap.L().Error("Failed to fetch transactions for notification", zap.Error(err))
		return
	}

	var g errgroup.Group
	for _, transaction := range transactions {
		transaction := transaction

		if _, loaded := notifyingTransactions.LoadOrStore(transaction.ID, struct{}{}); loaded {
			continue
		}

		g.Go(func() error {
			err := s.workerPool.AddTask(ctx, func() error {
				defer notifyingTransactions.Delete(transaction.ID)
				return s.notify(ctx, transaction)
			})
			if err != nil {
				notifyingTransactions.Delete(transaction.ID)
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		zap.L().Error("Error notifying transactions", zap.Error(err))
	}
}

func (s *Service) notify(ctx context.Context, transaction domain.Transaction) error {
	body, err := json.Marshal(Notification{
		TransactionID: transaction.ID,
		UserID:        transaction.UserID,
		Type:          transaction.Type,
		Amount:        transaction.Amount,
		Reference:     transaction.Reference,
		CreatedAt:     transaction.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	headers := http.Header{}
	headers.Set("Content-Type", "application/json")

	for attempt := 1; attempt <= maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			statusCode, _, err := s.client.Post(s.url, headers, body)
			if err != nil || statusCode < http.StatusOK || statusCode >= http.StatusMultipleChoices {
				if attempt < maxRetries {
					time.Sleep(retryInterval * time.Duration(attempt))
					continue
				}
				if err != nil {
					return fmt.Errorf("failed to notify transaction %s after %d retries: %w", transaction.Reference, maxRetries, err)
				}
				return fmt.Errorf("failed to notify transaction %s after %d retries: status %d", transaction.Reference, maxRetries, statusCode)
			}

			if err := s.transactionRepo.MarkNotified(ctx, transaction.ID, time.Now()); err != nil {
				return fmt.Errorf("failed to mark transaction %s notified: %w", transaction.Reference, err)
			}
			zap.L().Info("Transaction notification delivered", zap.String("reference", transaction.Reference))
			return nil
		}
	}
	return nil
}
