package submission

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pricecheck/internal/badges"
	"pricecheck/internal/core"
	"pricecheck/internal/reputation"
)

// Storage uploads evidence screenshots and returns a public URL.
type Storage interface {
	Upload(ctx context.Context, key string, file multipart.File) (string, error)
}

type SubmitInput struct {
	MenuItemID       int64
	ProviderID       int64
	SubmitterID      string
	PriceValue       float64
	IsOffer          bool
	OfferDescription *string
	EvidenceURL      *string
}

type Service struct {
	repo       Repository
	reputation *reputation.Service
	badges     *badges.Service
	storage    Storage
	clock      core.Clock
	logger     *zap.Logger
}

func NewService(
	repo Repository,
	reps *reputation.Service,
	badgeService *badges.Service,
	storage Storage,
	clock core.Clock,
	logger *zap.Logger,
) *Service {
	return &Service{
		repo:       repo,
		reputation: reps,
		badges:     badgeService,
		storage:    storage,
		clock:      clock,
		logger:     logger,
	}
}

// Submit records a new price observation. Validation happens before any
// write; a rejected submission leaves the ledger untouched.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*PriceSubmission, error) {
	if in.PriceValue < MinPriceValue || in.PriceValue > MaxPriceValue {
		return nil, core.NewValidationError(
			"priceValue",
			fmt.Sprintf("must be between %.1f and %.0f", MinPriceValue, MaxPriceValue),
		)
	}
	if in.MenuItemID <= 0 {
		return nil, core.NewValidationError("menuItemId", "must be positive")
	}
	if in.ProviderID <= 0 {
		return nil, core.NewValidationError("providerId", "must be positive")
	}
	if in.SubmitterID == "" {
		return nil, core.NewValidationError("submitterId", "must not be empty")
	}

	sub := &PriceSubmission{
		MenuItemID:       in.MenuItemID,
		ProviderID:       in.ProviderID,
		SubmitterID:      in.SubmitterID,
		PriceValue:       in.PriceValue,
		SubmittedAt:      s.clock.Now(),
		IsOffer:          in.IsOffer,
		OfferDescription: in.OfferDescription,
		EvidenceURL:      in.EvidenceURL,
	}

	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, err
	}

	refID := sub.ID
	err := s.reputation.AwardPoints(
		ctx,
		in.SubmitterID,
		reputation.PointsForSubmission,
		reputation.ActionSubmission,
		fmt.Sprintf("Price submission for menu item %d", in.MenuItemID),
		&refID,
	)
	if err != nil {
		return nil, err
	}

	if _, err := s.badges.Evaluate(ctx, in.SubmitterID); err != nil {
		return nil, err
	}

	s.logger.Info("price submitted",
		zap.Int64("submission_id", sub.ID),
		zap.Int64("menu_item_id", in.MenuItemID),
		zap.Int64("provider_id", in.ProviderID),
		zap.Float64("price", in.PriceValue),
	)

	return sub, nil
}

// LatestPrice returns the freshest trusted submission for a (menu item,
// provider) pair: verified submissions win over unverified ones, newest
// first within each tier. Unverified data is surfaced rather than
// hidden; callers see its confidence score instead of a silent gap.
// Returns (nil, nil) when the pair has no submissions at all.
func (s *Service) LatestPrice(
	ctx context.Context,
	menuItemID, providerID int64,
) (*PriceSubmission, error) {

	subs, err := s.repo.ListForItemProvider(ctx, menuItemID, providerID)
	if err != nil {
		return nil, err
	}
	if len(subs) == 0 {
		return nil, nil
	}

	for _, sub := range subs {
		if sub.IsVerified {
			return sub, nil
		}
	}
	return subs[0], nil
}

// PricesForItem lists all submissions for a menu item, newest first.
func (s *Service) PricesForItem(ctx context.Context, menuItemID int64) ([]*PriceSubmission, error) {
	return s.repo.ListForItem(ctx, menuItemID)
}

// RecentByUser lists a user's latest submissions for the profile feed.
func (s *Service) RecentByUser(ctx context.Context, userID string, limit int) ([]*PriceSubmission, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.repo.ListRecentByUser(ctx, userID, limit)
}

// Get returns a submission by id.
func (s *Service) Get(ctx context.Context, id int64) (*PriceSubmission, error) {
	return s.repo.GetByID(ctx, id)
}

// AttachEvidence uploads a screenshot for an existing submission and
// stores its public URL.
func (s *Service) AttachEvidence(
	ctx context.Context,
	submissionID int64,
	file multipart.File,
	filename string,
) (string, error) {

	if s.storage == nil {
		return "", core.NewValidationError("evidence", "evidence storage not configured")
	}

	sub, err := s.repo.GetByID(ctx, submissionID)
	if err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return "", core.NewValidationError("evidence", "invalid file")
	}

	key := fmt.Sprintf("evidence/%d/%s%s", sub.ID, uuid.New().String(), ext)

	url, err := s.storage.Upload(ctx, key, file)
	if err != nil {
		return "", err
	}

	if err := s.repo.SetEvidenceURL(ctx, sub.ID, url); err != nil {
		return "", err
	}

	return url, nil
}
