package cascade

import (
	"clusterpay_backend/internal/config"
	"clusterpay_backend/internal/game/session"
	"clusterpay_backend/internal/game/symbol"
	"clusterpay_backend/internal/ledger/pgledger"
	"clusterpay_backend/internal/repository"
	"clusterpay_backend/internal/service"
	"sync"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// sessionCacheSize - players whose engine stays warm; an evicted player just gets a new one
const sessionCacheSize = 4096

type serv struct {
	sessionCfg session.Config
	catalogue  session.Catalogue
	userRepo   repository.UserRepository
	statsRepo  repository.StatsRepository
	txManager  trm.Manager
	logger     *zap.Logger

	mtx      sync.Mutex
	sessions *lru.Cache[int, *session.Session]
}

// NewCascadeService builds the cascade service. txManager may be nil, then spins run without a transaction.
func NewCascadeService(
	cfg config.CascadeConfig,
	userRepo repository.UserRepository,
	statsRepo repository.StatsRepository,
	txManager trm.Manager,
	logger *zap.Logger,
) (service.CascadeService, error) {
	catalogue, err := NewCatalogue(cfg, symbol.DefaultRNG())
	if err != nil {
		return nil, err
	}
	return newService(SessionConfig(cfg), catalogue, userRepo, statsRepo, txManager, logger), nil
}

func newService(
	sessionCfg session.Config,
	catalogue session.Catalogue,
	userRepo repository.UserRepository,
	statsRepo repository.StatsRepository,
	txManager trm.Manager,
	logger *zap.Logger,
) *serv {
	if logger == nil {
		logger = zap.NewNop()
	}
	sessions, err := lru.New[int, *session.Session](sessionCacheSize)
	if err != nil {
		panic(err)
	}
	return &serv{
		sessionCfg: sessionCfg,
		catalogue:  catalogue,
		userRepo:   userRepo,
		statsRepo:  statsRepo,
		txManager:  txManager,
		logger:     logger,
		sessions:   sessions,
	}
}

// session - one engine per player, so a player's spins run one after another
func (s *serv) session(userID int) *session.Session {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if sess, ok := s.sessions.Get(userID); ok {
		return sess
	}

	opts := []session.Option{
		session.WithLogger(s.logger.With(zap.Int("user_id", userID))),
	}
	if s.txManager != nil {
		opts = append(opts, session.WithTxManager(s.txManager))
	}
	sess := session.New(s.sessionCfg, s.catalogue, pgledger.New(s.userRepo, userID), opts...)
	s.sessions.Add(userID, sess)
	return sess
}
