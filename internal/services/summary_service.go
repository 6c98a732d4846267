package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "github.com/You2499/settleease/internal/errors"
	"github.com/You2499/settleease/internal/logger"
	"github.com/You2499/settleease/internal/models"
	"github.com/You2499/settleease/internal/settlement"
	"github.com/You2499/settleease/internal/summary"
)

// summaryService generates AI summaries of the settlement state, caching
// results by the hash of the state they were generated from.
type summaryService struct {
	db          *gorm.DB
	settlements SettlementServicer
	client      *summary.Client
}

// NewSummaryService creates a new SummaryServicer.
func NewSummaryService(db *gorm.DB, settlements SettlementServicer, client *summary.Client) SummaryServicer {
	return &summaryService{db: db, settlements: settlements, client: client}
}

// summaryPayload is the settlement state a summary describes. Its JSON
// encoding is hashed to form the cache key.
type summaryPayload struct {
	Balances     []PersonBalance          `json:"balances"`
	Transactions []settlement.Transaction `json:"transactions"`
}

// Summarize returns a summary of the current settlement state, streaming
// tokens through onDelta when generating. An unchanged settlement state is
// served from cache without touching the upstream model.
func (s *summaryService) Summarize(ctx context.Context, onDelta func(token string) error) (*SummaryResult, error) {
	balances, err := s.settlements.Balances()
	if err != nil {
		return nil, err
	}
	transactions, err := s.settlements.SimplifiedDebts()
	if err != nil {
		return nil, err
	}

	payload := summaryPayload{Balances: balances, Transactions: transactions}
	hash, err := summary.HashPayload(payload)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var cached models.SummaryCache
	err = s.db.Where("payload_hash = ?", hash).First(&cached).Error
	if err == nil {
		if onDelta != nil {
			if err := onDelta(cached.Content); err != nil {
				return nil, err
			}
		}
		return &SummaryResult{
			Content:     cached.Content,
			Model:       cached.Model,
			Cached:      true,
			PayloadHash: hash,
		}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if onDelta == nil {
		onDelta = func(string) error { return nil }
	}

	model, content, err := s.client.Stream(ctx, buildPrompt(balances, transactions), onDelta)
	if err != nil {
		if errors.Is(err, summary.ErrNoModels) {
			return nil, apperrors.Wrap(apperrors.ErrSummaryUnavailable, err)
		}
		return nil, err
	}

	// Best effort: a failed cache write never fails the request.
	entry := models.SummaryCache{
		PayloadHash: hash,
		Model:       model,
		Content:     content,
		CreatedAt:   time.Now(),
	}
	if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&entry).Error; err != nil {
		logger.Get().Warnw("failed to cache summary", "error", err.Error())
	}

	return &SummaryResult{
		Content:     content,
		Model:       model,
		Cached:      false,
		PayloadHash: hash,
	}, nil
}

// buildPrompt renders the settlement state as plain text for the model,
// using names rather than IDs.
func buildPrompt(balances []PersonBalance, transactions []settlement.Transaction) string {
	names := make(map[string]string, len(balances))
	for _, bal := range balances {
		names[bal.PersonID] = bal.Name
	}
	displayName := func(id string) string {
		if name, ok := names[id]; ok && name != "" {
			return name
		}
		return id
	}

	var b strings.Builder
	b.WriteString("Current balances:\n")
	for _, bal := range balances {
		fmt.Fprintf(&b, "- %s: %.2f\n", bal.Name, bal.NetBalance)
	}
	if len(transactions) == 0 {
		b.WriteString("\nNo payments needed; everyone is settled up.\n")
		return b.String()
	}
	b.WriteString("\nSuggested payments to settle up:\n")
	for _, tx := range transactions {
		fmt.Fprintf(&b, "- %s pays %s %.2f\n", displayName(tx.From), displayName(tx.To), tx.Amount)
	}
	return b.String()
}
