package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/hurricane-api/internal/grading"
	"github.com/noah-isme/hurricane-api/internal/models"
)

// Logical keys of the persisted state.
const (
	KeyProfile        = "study_user"
	KeySubjects       = "study_subjects"
	KeySchedule       = "study_schedule"
	KeyRedeemedCycles = "redeemed_cycles"
	KeyStrongSubjects = "strong_subjects"
	KeyTargetGoal     = "target_goal"
)

// StateKeys lists every key owned by the profile.
var StateKeys = []string{KeyProfile, KeySubjects, KeySchedule, KeyRedeemedCycles, KeyStrongSubjects, KeyTargetGoal}

// StateRepository maps the application state onto the key-value store.
// Undecodable documents are logged and treated as absent.
type StateRepository struct {
	store     KVStore
	namespace string
	logger    *zap.Logger
}

// NewStateRepository constructs the repository.
func NewStateRepository(store KVStore, namespace string, logger *zap.Logger) *StateRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StateRepository{store: store, namespace: namespace, logger: logger}
}

// Store exposes the underlying driver.
func (r *StateRepository) Store() KVStore {
	return r.store
}

// Load reads the whole state.
func (r *StateRepository) Load(ctx context.Context) (models.AppState, error) {
	var state models.AppState
	var err error
	if state.Profile, err = r.LoadProfile(ctx); err != nil {
		return state, err
	}
	if state.Subjects, err = r.LoadSubjects(ctx); err != nil {
		return state, err
	}
	if state.Schedule, err = r.LoadSchedule(ctx); err != nil {
		return state, err
	}
	if state.RedeemedCycles, err = r.LoadRedeemedCycles(ctx); err != nil {
		return state, err
	}
	if state.Target, err = r.LoadTarget(ctx); err != nil {
		return state, err
	}
	return state, nil
}

// LoadProfile returns nil when no profile was stored.
func (r *StateRepository) LoadProfile(ctx context.Context) (*models.UserProfile, error) {
	var profile models.UserProfile
	found, err := r.loadJSON(ctx, KeyProfile, &profile)
	if err != nil || !found {
		return nil, err
	}
	return &profile, nil
}

// SaveProfile stores the profile.
func (r *StateRepository) SaveProfile(ctx context.Context, profile models.UserProfile) error {
	return r.saveJSON(ctx, KeyProfile, profile)
}

// LoadSubjects returns the stored subjects with raw slots clamped and derived
// fields recomputed.
func (r *StateRepository) LoadSubjects(ctx context.Context) ([]models.Subject, error) {
	var subjects []models.Subject
	found, err := r.loadJSON(ctx, KeySubjects, &subjects)
	if err != nil {
		return nil, err
	}
	if !found {
		return []models.Subject{}, nil
	}
	for i := range subjects {
		subjects[i].HK1.Clamp()
		subjects[i].HK2.Clamp()
	}
	return grading.DeriveAll(subjects), nil
}

// SaveSubjects stores the subject collection.
func (r *StateRepository) SaveSubjects(ctx context.Context, subjects []models.Subject) error {
	if subjects == nil {
		subjects = []models.Subject{}
	}
	return r.saveJSON(ctx, KeySubjects, subjects)
}

// LoadSchedule returns an empty schedule when none was stored.
func (r *StateRepository) LoadSchedule(ctx context.Context) (models.WeeklySchedule, error) {
	schedule := models.WeeklySchedule{}
	found, err := r.loadJSON(ctx, KeySchedule, &schedule)
	if err != nil {
		return nil, err
	}
	if !found || schedule == nil {
		return models.WeeklySchedule{}, nil
	}
	return schedule, nil
}

// SaveSchedule stores the schedule.
func (r *StateRepository) SaveSchedule(ctx context.Context, schedule models.WeeklySchedule) error {
	return r.saveJSON(ctx, KeySchedule, schedule)
}

// LoadRedeemedCycles returns zero when nothing was redeemed.
func (r *StateRepository) LoadRedeemedCycles(ctx context.Context) (int, error) {
	raw, found, err := r.store.Load(ctx, r.key(KeyRedeemedCycles))
	if err != nil || !found {
		return 0, wrapLoad(KeyRedeemedCycles, err)
	}
	n, convErr := strconv.Atoi(strings.TrimSpace(string(raw)))
	if convErr != nil || n < 0 {
		r.logger.Warn("ignoring invalid redeemed cycles", zap.String("value", string(raw)))
		return 0, nil
	}
	return n, nil
}

// SaveRedeemedCycles stores the count as a decimal string.
func (r *StateRepository) SaveRedeemedCycles(ctx context.Context, cycles int) error {
	return r.save(ctx, KeyRedeemedCycles, []byte(strconv.Itoa(cycles)))
}

// LoadTarget returns the prediction goal (default good) and strong subjects.
func (r *StateRepository) LoadTarget(ctx context.Context) (models.PredictionTarget, error) {
	target := models.PredictionTarget{Goal: models.GoalGood, Strong: models.StrongSet{}}

	raw, found, err := r.store.Load(ctx, r.key(KeyTargetGoal))
	if err != nil {
		return target, wrapLoad(KeyTargetGoal, err)
	}
	if found {
		goal := models.Goal(strings.Trim(strings.TrimSpace(string(raw)), `"`))
		if goal.Valid() {
			target.Goal = goal
		}
	}

	var strong models.StrongSet
	found, err = r.loadJSON(ctx, KeyStrongSubjects, &strong)
	if err != nil {
		return target, err
	}
	if !found {
		strong = nil
	}
	if len(strong) > models.MaxStrongSubjects {
		strong = strong[:models.MaxStrongSubjects]
	}
	if strong != nil {
		target.Strong = strong
	}
	return target, nil
}

// SaveTarget stores the goal as a bare string and the strong set as JSON.
func (r *StateRepository) SaveTarget(ctx context.Context, target models.PredictionTarget) error {
	if err := r.save(ctx, KeyTargetGoal, []byte(target.Goal)); err != nil {
		return err
	}
	strong := target.Strong
	if strong == nil {
		strong = models.StrongSet{}
	}
	return r.saveJSON(ctx, KeyStrongSubjects, strong)
}

// Reset removes every stored key of the profile.
func (r *StateRepository) Reset(ctx context.Context) error {
	keys := make([]string, len(StateKeys))
	for i, k := range StateKeys {
		keys[i] = r.key(k)
	}
	if err := r.store.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("reset state: %w", err)
	}
	return nil
}

func (r *StateRepository) loadJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, found, err := r.store.Load(ctx, r.key(key))
	if err != nil {
		return false, wrapLoad(key, err)
	}
	if !found || len(raw) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		r.logger.Warn("ignoring undecodable state document", zap.String("key", key), zap.Error(err))
		return false, nil
	}
	return true, nil
}

func (r *StateRepository) saveJSON(ctx context.Context, key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return r.save(ctx, key, payload)
}

func (r *StateRepository) save(ctx context.Context, key string, payload []byte) error {
	if err := r.store.Save(ctx, r.key(key), payload); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (r *StateRepository) key(key string) string {
	return Key(r.namespace, key)
}

func wrapLoad(key string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("load %s: %w", key, err)
}
