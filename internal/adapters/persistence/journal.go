// Package persistence journals trade outcomes to BoltDB so operators can
// audit what was submitted, which relay won, and how the race went.
package persistence

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	boltdb "github.com/andrew-solarstorm/bolt-db"
	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"
	container "github.com/thehyperflames/dicontainer-go"

	"github.com/hxuan190/trade-engine/internal/config"
	"github.com/hxuan190/trade-engine/internal/domain"
)

const JOURNAL_SERVICE = "journal-svc"

const OutcomesBucket = "outcomes"

// StoredOutcome is the journaled form of an execution outcome, keyed by the
// transaction signature.
type StoredOutcome struct {
	Signature    string                   `json:"signature"`
	WinningRelay string                   `json:"winningRelay"`
	Confirmed    bool                     `json:"confirmed"`
	Simulated    bool                     `json:"simulated"`
	Failures     []domain.RelayFailure    `json:"failures,omitempty"`
	Timings      *domain.StageTimings     `json:"timings,omitempty"`
	Simulation   *domain.SimulationResult `json:"simulation,omitempty"`
	RecordedAt   time.Time                `json:"recordedAt"`
}

// JournalService keeps every outcome in memory for fast lookup and mirrors
// writes to disk when persistence is enabled. Disk failures are logged and
// never fail the trade that produced the outcome.
type JournalService struct {
	container.BaseDIInstance

	mu       sync.RWMutex
	outcomes map[string]*StoredOutcome

	db      *boltdb.BoltDatabase
	dbPath  string
	enabled bool
}

func NewJournalService() *JournalService {
	return &JournalService{
		outcomes: make(map[string]*StoredOutcome),
	}
}

func (svc *JournalService) ID() string {
	return JOURNAL_SERVICE
}

func (svc *JournalService) Configure(c container.IContainer) error {
	cfg := c.GetConfig(config.PERSISTENCE_CONFIG_KEY).(*config.PersistenceConfig)
	svc.dbPath = cfg.DBPath
	svc.enabled = cfg.Enabled
	if svc.outcomes == nil {
		svc.outcomes = make(map[string]*StoredOutcome)
	}
	return nil
}

func (svc *JournalService) Start() error {
	if !svc.enabled {
		log.Info().Msg("[JournalService] persistence disabled, outcomes kept in memory only")
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(svc.dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create journal directory: %w", err)
	}

	db := boltdb.NewBoltDatabase(svc.dbPath)
	if db == nil {
		return fmt.Errorf("failed to open journal database at %s", svc.dbPath)
	}
	svc.db = db

	loaded, err := svc.loadAll()
	if err != nil {
		return err
	}

	log.Info().
		Str("path", svc.dbPath).
		Int("outcomes", loaded).
		Msg("[JournalService] opened outcome journal")
	return nil
}

func (svc *JournalService) Stop() error {
	if svc.db != nil {
		return svc.db.Close()
	}
	return nil
}

func (svc *JournalService) loadAll() (int, error) {
	data, err := svc.db.List(OutcomesBucket)
	if err != nil {
		return 0, fmt.Errorf("failed to list outcomes: %w", err)
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	skipped := 0
	for sig, value := range data {
		var stored StoredOutcome
		if err := sonic.Unmarshal(value, &stored); err != nil {
			log.Warn().Str("signature", sig).Err(err).Msg("[JournalService] failed to unmarshal outcome, skipping")
			skipped++
			continue
		}
		svc.outcomes[sig] = &stored
	}

	if skipped > 0 {
		log.Warn().Int("skipped", skipped).Msg("[JournalService] journal loading completed with errors")
	}
	return len(svc.outcomes), nil
}

// Record journals one outcome. The in-memory index always takes the write;
// the disk write is best effort.
func (svc *JournalService) Record(outcome *domain.ExecutionOutcome) {
	stored := &StoredOutcome{
		Signature:    outcome.Signature.String(),
		WinningRelay: outcome.WinningRelay,
		Confirmed:    outcome.Confirmed,
		Simulated:    outcome.Simulated,
		Failures:     outcome.Failures,
		Timings:      outcome.Timings,
		Simulation:   outcome.Simulation,
		RecordedAt:   time.Now(),
	}

	svc.mu.Lock()
	svc.outcomes[stored.Signature] = stored
	svc.mu.Unlock()

	if svc.db == nil {
		return
	}

	data, err := sonic.Marshal(stored)
	if err != nil {
		log.Error().Str("signature", stored.Signature).Err(err).Msg("[JournalService] failed to marshal outcome")
		return
	}
	if err := svc.db.Set(OutcomesBucket, []byte(stored.Signature), data); err != nil {
		log.Error().Str("signature", stored.Signature).Err(err).Msg("[JournalService] failed to persist outcome")
	}
}

// Lookup returns the journaled outcome for a signature.
func (svc *JournalService) Lookup(signature string) (*StoredOutcome, bool) {
	svc.mu.RLock()
	stored, ok := svc.outcomes[signature]
	svc.mu.RUnlock()
	return stored, ok
}

// Count reports how many outcomes the journal holds.
func (svc *JournalService) Count() int {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return len(svc.outcomes)
}
