package cmd

import (
	"context"

	"github.com/msto63/leitstand/internal/i18n"
	"github.com/msto63/leitstand/internal/router"
	"github.com/msto63/leitstand/internal/shell"
	"github.com/msto63/leitstand/pkg/core/logging"
)

// offlineApp builds an app that resolves fragment once and settles all
// timers immediately. It keeps its settings in memory so that the
// persistent store is left untouched.
func offlineApp(ctx context.Context, fragment, lang string) (*shell.App, error) {
	c := *cfg
	c.Storage.Backend = "memory"
	c.I18n.Watch = false

	sched := router.NewManualScheduler()
	opts := shell.Options{
		Config:    &c,
		Location:  router.NewMemoryLocation(fragment),
		Scheduler: sched,
		Logger:    logging.New("cli"),
	}
	if lang != "" {
		opts.Locale = i18n.StaticLocale{lang}
	}

	app, err := shell.New(opts)
	if err != nil {
		return nil, err
	}
	app.Start(ctx)
	sched.Flush()
	return app, nil
}
