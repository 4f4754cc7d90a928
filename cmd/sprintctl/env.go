package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"sprint-board-api/internal/config"
	"sprint-board-api/internal/database"
	"sprint-board-api/internal/repository"
	"sprint-board-api/internal/service"
)

// env is what every data command needs
type env struct {
	cfg    *config.Config
	db     *gorm.DB
	logger *zap.Logger
	repos  repository.Repositories
	tx     repository.Transactor
	clock  service.Clock
}

func openEnv(cmd *cobra.Command) (*env, error) {
	configPath, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(verbose)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	db, err := database.New(database.Config{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.GetDSN(),
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		return nil, err
	}

	loc := cfg.Scheduler.Location()
	return &env{
		cfg:    cfg,
		db:     db,
		logger: logger,
		repos:  repository.NewRepositories(db),
		tx:     repository.NewTransactor(db),
		clock:  func() time.Time { return time.Now().In(loc) },
	}, nil
}

func (e *env) close() {
	_ = e.logger.Sync()
	_ = database.Close(e.db)
}

// newLogger writes console logs to stderr so command output stays clean
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	return cfg.Build()
}
