// Package ship wires one ship process together: configuration, Postgres
// stores, the shipgate link, the quest catalog, and the per-block
// reactors, and runs them all until shutdown. Grounded on the teacher's
// cmd/gameserver/main.go bootstrap shape, generalized from one game server
// + one login server + one gslistener into N block reactors.
package ship

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/psoserv/blockserver/internal/block"
	"github.com/psoserv/blockserver/internal/config"
	"github.com/psoserv/blockserver/internal/gm"
	"github.com/psoserv/blockserver/internal/model"
	"github.com/psoserv/blockserver/internal/quest"
	"github.com/psoserv/blockserver/internal/shipgate"
	"github.com/psoserv/blockserver/internal/store"
	"github.com/psoserv/blockserver/internal/subcommand"
)

// DefaultDefaultLobbies is the number of pre-created default lounges per
// block (§3).
const DefaultDefaultLobbies = 15

// Ship owns every collaborator needed to run a ship process's blocks.
type Ship struct {
	cfg      config.ShipConfig
	model    *model.Ship
	st       *store.Store
	sg       *shipgate.Client
	menu     gm.Table
	reloader *quest.Reloader

	reactors []*block.Reactor
}

// ReloadQuests re-parses the quest catalog from disk, for the GM "reload
// quests" menu entry (§4.5, §4.6).
func (s *Ship) ReloadQuests(ctx context.Context) error {
	return s.reloader.Reload(ctx)
}

// Bootstrap loads cfg's dependencies (database, migrations, shipgate link)
// and returns a ready-to-Run Ship.
func Bootstrap(ctx context.Context, cfg config.ShipConfig) (*Ship, error) {
	dsn := cfg.Database.DSN()
	if err := store.RunMigrations(ctx, dsn); err != nil {
		return nil, fmt.Errorf("ship: running migrations: %w", err)
	}
	slog.Info("ship: database migrations applied")

	st, err := store.Open(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("ship: opening store: %w", err)
	}

	roster := store.NewGMRoster(st)
	if err := roster.Refresh(ctx); err != nil {
		slog.Warn("ship: initial GM roster load failed, starting empty", "error", err)
	}
	limits := store.NewLimits(st)
	if err := limits.Refresh(ctx); err != nil {
		slog.Warn("ship: initial limits load failed, starting empty", "error", err)
	}
	bans := store.NewBanStore(st)

	sgAddr := fmt.Sprintf("%s:%d", cfg.Shipgate.Host, cfg.Shipgate.Port)
	sg := shipgate.NewClient(sgAddr)

	seed := time.Now().UnixNano()
	shipModel := model.NewShip(cfg, seed)
	shipModel.GMs = roster
	shipModel.Bans = bans
	shipModel.Limits = limits
	shipModel.Shipgate = sg

	for _, be := range cfg.Blocks {
		blockSeed := seed ^ int64(be.BasePort)
		blk := model.NewBlock(be.Index, shipModel, DefaultDefaultLobbies, blockSeed)
		shipModel.Blocks = append(shipModel.Blocks, blk)
	}

	reloader := quest.NewReloader(shipModel.Quests, quest.DirLoader{Dir: cfg.QuestDir})
	if err := reloader.Reload(ctx); err != nil {
		slog.Warn("ship: initial quest catalog load failed, starting empty", "error", err)
	}

	return &Ship{
		cfg:      cfg,
		model:    shipModel,
		st:       st,
		sg:       sg,
		menu:     gm.DefaultTable,
		reloader: reloader,
	}, nil
}

// Run starts the shipgate link and every block's reactor, blocking until
// ctx is cancelled or a component fails irrecoverably. It starts no quest
// catalog reload loop; reloads happen only through ReloadQuests.
func (s *Ship) Run(ctx context.Context) error {
	defer s.st.Close()

	timeouts := block.Timeouts{
		Liveness:       time.Duration(s.cfg.LivenessTimeoutSec) * time.Second,
		KeepAliveIdle:  time.Duration(s.cfg.KeepAliveIdleSec) * time.Second,
		KeepAliveQuiet: time.Duration(s.cfg.KeepAliveQuietSec) * time.Second,
		PreAuth:        time.Duration(s.cfg.PreAuthTimeoutSec) * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.sg.Run(gctx)
		return nil
	})

	for i, blk := range s.model.Blocks {
		be := s.cfg.Blocks[i]
		router := subcommand.NewRouter()
		subcommand.RegisterDefaults(router, nil)

		reactor := block.NewReactor(blk, router, s.cfg.BindAddress, be.BasePort, s.cfg.SendQueueSize, timeouts)
		s.reactors = append(s.reactors, reactor)

		g.Go(func() error {
			slog.Info("ship: starting block", "index", be.Index, "base_port", be.BasePort)
			if err := reactor.Run(gctx); err != nil {
				return fmt.Errorf("block %d: %w", be.Index, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("ship: %w", err)
	}
	return nil
}

// Model exposes the underlying ship model, e.g. for admin tooling.
func (s *Ship) Model() *model.Ship { return s.model }
