package services

import (
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/rmartinho/es-outfitter/pkg/config"
	"github.com/rmartinho/es-outfitter/pkg/data"
	"github.com/rmartinho/es-outfitter/pkg/parser"
	"github.com/rmartinho/es-outfitter/pkg/sources"
	"github.com/rmartinho/es-outfitter/pkg/utils"
)

// Session is a Controller restored from the state database, plus what is
// needed to save it again.
type Session struct {
	Controller *Controller
	API        *utils.API
	Config     *config.Config
	Dropped    []string

	persistence *data.Persistence
	repo        *data.Repository
	logger      *log.Logger
}

// OpenSession wires the services from cfg and restores the last snapshot.
func OpenSession(cfg *config.Config, logger *log.Logger) (*Session, error) {
	if logger == nil {
		logger = utils.Discard()
	}

	trees, err := sources.NewGitHubTrees(
		sources.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		sources.WithBaseURL(cfg.APIBaseURL),
		sources.WithToken(cfg.GitHubToken),
		sources.WithCacheSize(cfg.CacheSize),
	)
	if err != nil {
		return nil, err
	}
	resolver := sources.NewResolver(trees, cfg.RawBaseURL, logger)
	api := utils.NewAPI(cfg.HTTPTimeout)
	loader := NewLoader(api, parser.Default, cfg.RawBaseURL, cfg.Concurrency)
	controller := NewController(resolver, loader, WithLogger(logger), WithBaseURL(cfg.BaseURL))

	codec, err := data.NewCodec(data.Format(cfg.Format))
	if err != nil {
		return nil, err
	}
	repo, err := data.OpenRepository(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}
	persistence := data.NewPersistence(repo, codec, data.DefaultSnapshotKey)

	dropped, err := controller.Load(persistence)
	if err != nil {
		repo.Close()
		return nil, err
	}

	return &Session{
		Controller:  controller,
		API:         api,
		Config:      cfg,
		Dropped:     dropped,
		persistence: persistence,
		repo:        repo,
		logger:      logger,
	}, nil
}

func (s *Session) Save() error {
	return s.Controller.Save(s.persistence)
}

// Close saves the current state and closes the database.
func (s *Session) Close() error {
	saveErr := s.Save()
	if err := s.repo.Close(); err != nil && saveErr == nil {
		return err
	}
	return saveErr
}
