package service

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/hurricane-api/internal/grading"
	"github.com/noah-isme/hurricane-api/internal/models"
	appErrors "github.com/noah-isme/hurricane-api/pkg/errors"
)

type rewardState interface {
	LoadSubjects(ctx context.Context) ([]models.Subject, error)
	LoadRedeemedCycles(ctx context.Context) (int, error)
	SaveRedeemedCycles(ctx context.Context, cycles int) error
}

// QuotePicker returns the index of the quote to show, in [0, n).
type QuotePicker func(n int) int

// RewardService tracks the perfect-score progress bar.
type RewardService struct {
	state        rewardState
	barsPerCycle int
	pick         QuotePicker
	metrics      *MetricsService
	logger       *zap.Logger
	mu           sync.Mutex
}

// NewRewardService constructs the service. A nil picker chooses randomly.
func NewRewardService(state rewardState, barsPerCycle int, pick QuotePicker, metrics *MetricsService, logger *zap.Logger) *RewardService {
	if barsPerCycle <= 0 {
		barsPerCycle = grading.DefaultBarsPerCycle
	}
	if pick == nil {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		var rngMu sync.Mutex
		pick = func(n int) int {
			rngMu.Lock()
			defer rngMu.Unlock()
			return rng.Intn(n)
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RewardService{state: state, barsPerCycle: barsPerCycle, pick: pick, metrics: metrics, logger: logger}
}

// Summary returns the current progress.
func (s *RewardService) Summary(ctx context.Context) (models.RewardSummary, error) {
	subjects, redeemed, err := s.load(ctx)
	if err != nil {
		return models.RewardSummary{}, err
	}
	return grading.Rewards(subjects, redeemed, s.barsPerCycle), nil
}

// Claim redeems one full cycle and returns a motivational quote.
func (s *RewardService) Claim(ctx context.Context) (*models.RewardClaim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	subjects, redeemed, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if !grading.Rewards(subjects, redeemed, s.barsPerCycle).Claimable {
		return nil, appErrors.ErrRewardLocked
	}
	redeemed++
	if err := s.state.SaveRedeemedCycles(ctx, redeemed); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store rewards")
	}
	s.metrics.ObserveRewardClaim()
	s.logger.Info("reward claimed", zap.Int("redeemed_cycles", redeemed))

	return &models.RewardClaim{
		Quote:   grading.Quotes[s.pick(len(grading.Quotes))],
		Summary: grading.Rewards(subjects, redeemed, s.barsPerCycle),
	}, nil
}

func (s *RewardService) load(ctx context.Context) ([]models.Subject, int, error) {
	subjects, err := s.state.LoadSubjects(ctx)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subjects")
	}
	redeemed, err := s.state.LoadRedeemedCycles(ctx)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rewards")
	}
	return subjects, redeemed, nil
}
