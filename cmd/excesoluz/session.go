package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"excesoluz/pkg/catalog"
	"excesoluz/pkg/counts"
	"excesoluz/pkg/errors"
	"excesoluz/pkg/logger"
	"excesoluz/pkg/progress"
	"excesoluz/pkg/storage"
	"excesoluz/pkg/ui"
)

// session is the storage-backed state a command works on
type session struct {
	storage  storage.Storage
	store    *progress.Store
	counts   *counts.Counts
	notifier *ui.Notifier
}

// openSession opens the configured backend and loads the progress record.
// When notify is set, store changes print a notification to the command's
// output.
func openSession(cmd *cobra.Command, notify bool) (*session, error) {
	if cfg.Storage.Encrypt && cfg.Storage.Passphrase == "" {
		pass, err := readPassword("Passphrase: ")
		if err != nil {
			return nil, fmt.Errorf("failed to read passphrase: %w", err)
		}
		cfg.Storage.Passphrase = pass
	}

	s, err := storage.Open(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	notifier := ui.NewNotifier(cfg.Notifications, ui.WithOutput(cmd.OutOrStdout()))

	var opts []progress.Option
	if notify {
		opts = append(opts, progress.WithObserver(notifier))
	}

	store, err := progress.Open(s, opts...)
	if err != nil {
		_ = storage.Close(s)
		return nil, err
	}

	return &session{
		storage:  s,
		store:    store,
		counts:   counts.New(s),
		notifier: notifier,
	}, nil
}

// failed shows storage failures as an error notification and returns err
// unchanged
func (s *session) failed(err error) error {
	if errors.IsType(err, errors.ErrorTypeStorage) {
		s.notifier.SendError("No se pudo guardar el progreso", err.Error())
	}
	return err
}

// Close releases the backend
func (s *session) Close() {
	if err := storage.Close(s.storage); err != nil {
		logger.WithError(err).Warn("Failed to close storage")
	}
}

// totals returns the cached category sizes, falling back to the catalogue
// when none have been stored yet
func (s *session) totals(cat *catalog.Catalog) (map[string]int, error) {
	totals, err := s.counts.All()
	if err != nil {
		return nil, err
	}
	if len(totals) == 0 && cat != nil {
		return cat.Totals(), nil
	}
	return totals, nil
}

// loadCatalog reads the configured catalogue. A missing file returns nil
// without error unless required is set.
func loadCatalog(required bool) (*catalog.Catalog, error) {
	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		if !required && errors.IsType(err, errors.ErrorTypeNotFound) {
			logger.WithField("path", cfg.Catalog.Path).Debug("No catalogue found")
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load catalogue: %w", err)
	}
	return cat, nil
}
