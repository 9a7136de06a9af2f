package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mcoot/nexus/internal/model"
	"github.com/mcoot/nexus/internal/storage"
)

// Receipt records a completed debit so it can be refunded
type Receipt struct {
	Email  string
	Amount int
	// Metered is false for elite sessions, whose debits are no-ops
	Metered bool
}

// Service meters credits against the active session
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new ledger service
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// Debit takes amount credits from the session and its directory entry in one
// update. Each balance is decremented on its own; the directory entry never
// drops below zero. Elite sessions are never charged. A refused debit changes
// nothing.
func (s *Service) Debit(ctx context.Context, amount int) (Receipt, error) {
	if amount < 0 {
		return Receipt{}, fmt.Errorf("negative debit %d", amount)
	}

	var receipt Receipt
	err := s.storage.Update(ctx, func(st *model.State) error {
		if st.Session == nil {
			return model.ErrNoSession
		}
		receipt = Receipt{Email: st.Session.Email, Amount: amount}
		if st.Session.IsElite() {
			return nil
		}
		if st.Session.Credits < amount {
			return model.ErrInsufficientCredits
		}

		st.Session.Credits -= amount
		if idx := st.FindByEmail(st.Session.Email); idx >= 0 {
			st.Users[idx].Credits = max(st.Users[idx].Credits-amount, 0)
		}
		receipt.Metered = true
		return nil
	})
	if err != nil {
		s.logger.Info("debit refused", slog.Int("amount", amount), slog.String("reason", err.Error()))
		return Receipt{}, err
	}
	return receipt, nil
}

// Refund returns the credits of a receipt. The directory entry is credited
// by email; the session only if it still belongs to the same user.
func (s *Service) Refund(ctx context.Context, receipt Receipt) error {
	if !receipt.Metered || receipt.Amount == 0 {
		return nil
	}

	err := s.storage.Update(ctx, func(st *model.State) error {
		if st.Session != nil && st.Session.HasEmail(receipt.Email) {
			st.Session.Credits += receipt.Amount
		}
		if idx := st.FindByEmail(receipt.Email); idx >= 0 {
			st.Users[idx].Credits += receipt.Amount
		}
		return nil
	})
	if err != nil {
		s.logger.Error("refund failed",
			slog.String("email", receipt.Email),
			slog.Int("amount", receipt.Amount),
			slog.String("error", err.Error()),
		)
		return err
	}

	s.logger.Info("credits refunded", slog.String("email", receipt.Email), slog.Int("amount", receipt.Amount))
	return nil
}

// CanAfford reports whether the session could pay amount right now
func (s *Service) CanAfford(ctx context.Context, amount int) (bool, error) {
	st, err := s.storage.Load(ctx)
	if err != nil {
		return false, err
	}
	if st.Session == nil {
		return false, model.ErrNoSession
	}
	return st.Session.IsElite() || st.Session.Credits >= amount, nil
}
