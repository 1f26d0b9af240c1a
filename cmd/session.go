package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"vpiscope.dev/pkg/vpiscope/internal/adapter"
	"vpiscope.dev/pkg/vpiscope/internal/domain"
)

var errNoDesign = errors.New("no design file given: use --design or set design in " + configFileName)

// openEngine loads a design and builds an engine over a fresh store and
// event queue.
func openEngine(ctx context.Context, designPath string, selectors []string, opts ...domain.Option) (domain.Engine, *adapter.EventQueue, error) {
	if strings.TrimSpace(designPath) == "" {
		return nil, nil, errNoDesign
	}

	compat, err := domain.ParseCompat(selectors)
	if err != nil {
		return nil, nil, err
	}

	design, err := designLoader.Load(ctx, designPath)
	if err != nil {
		return nil, nil, err
	}

	store, err := adapter.NewMemoryStore(design)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialise values of %s: %w", designPath, err)
	}

	queue := adapter.NewEventQueue()

	engine, err := domain.NewEngine(design, store, queue, append([]domain.Option{domain.WithCompat(compat)}, opts...)...)
	if err != nil {
		return nil, nil, err
	}

	slog.Debug("opened design", "path", designPath, "compat", compat.Version, "elements", design.NumElements())

	return engine, queue, nil
}

// openInspector opens the configured design for the inspection commands.
func openInspector(ctx context.Context) (domain.Inspector, error) {
	engine, _, err := openEngine(ctx, viper.GetString(designKey), viper.GetStringSlice(compatKey))
	if err != nil {
		return nil, err
	}

	return domain.NewInspector(engine), nil
}
