package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/JaimeStill/warden/internal/config"
	"github.com/JaimeStill/warden/internal/cooldown"
	"github.com/JaimeStill/warden/internal/moderation"
	"github.com/JaimeStill/warden/internal/notify"
	"github.com/JaimeStill/warden/internal/pipeline"
	"github.com/JaimeStill/warden/internal/severity"
	"github.com/JaimeStill/warden/internal/submissions"
)

const dictionaryLoadTimeout = 30 * time.Second

// Domain holds every domain system the API serves.
type Domain struct {
	Dictionaries *moderation.Dictionaries
	Assessor     *moderation.Assessor
	Submissions  submissions.System
	Throttle     *cooldown.Throttle
	Notifier     *notify.Multi
	Pipeline     *pipeline.Runtime
}

// NewDomain loads the keyword dictionaries and builds the domain systems
// from the API runtime.
func NewDomain(ctx context.Context, runtime *Runtime) (*Domain, error) {
	var blobs moderation.BlobReader
	if runtime.Storage != nil {
		blobs = runtime.Storage
	}

	lctx, cancel := context.WithTimeout(ctx, dictionaryLoadTimeout)
	defer cancel()

	dicts, err := moderation.LoadDictionaries(
		lctx,
		runtime.Moderation.DictionaryPath,
		runtime.Moderation.DictionaryBlob,
		blobs,
	)
	if err != nil {
		return nil, fmt.Errorf("load dictionaries: %w", err)
	}
	runtime.Logger.Info("dictionaries loaded", "version", dicts.Version)

	assessor := moderation.NewAssessor(dicts)

	subs := submissions.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	throttle := cooldown.New(
		newCooldownStore(runtime),
		cooldown.Options{
			Window:   runtime.Alerts.CooldownDuration(),
			FailOpen: runtime.Alerts.FailOpenEnabled(),
			Timeout:  runtime.Alerts.CooldownTimeoutDuration(),
		},
		runtime.Logger,
	)

	notifier := newNotifier(runtime)
	runtime.Logger.Info("alert channels configured", "channels", notifier.Channels())

	return &Domain{
		Dictionaries: dicts,
		Assessor:     assessor,
		Submissions:  subs,
		Throttle:     throttle,
		Notifier:     notifier,
		Pipeline: &pipeline.Runtime{
			Classifier:  severity.NewClassifier(assessor.Normalizer(), dicts.Emergency),
			Submissions: subs,
			Throttle:    throttle,
			Notifier:    notifier,
			Settings: pipeline.Settings{
				ReviewLink:     runtime.Alerts.ReviewLink,
				PreviewLength:  runtime.Alerts.PreviewLength,
				PersistTimeout: runtime.Alerts.PersistTimeoutDuration(),
				NotifyTimeout:  runtime.Alerts.NotifyTimeoutDuration(),
				Location:       runtime.Alerts.Location(),
			},
			Logger: runtime.Logger.With("system", "pipeline"),
		},
	}, nil
}

func newCooldownStore(runtime *Runtime) cooldown.Store {
	if runtime.Alerts.CooldownStore == config.CooldownStoreMemory {
		runtime.Logger.Warn("cooldown state is process-local")
		return cooldown.NewMemoryStore()
	}
	return cooldown.NewPostgresStore(runtime.Database.Connection())
}

// newNotifier registers every channel with credentials. With none, alerts
// are written to the log. The shared client times out after notify_timeout.
func newNotifier(runtime *Runtime) *notify.Multi {
	client := &http.Client{Timeout: runtime.Alerts.NotifyTimeoutDuration()}
	var channels []notify.Notifier

	if tg := runtime.Notify.Telegram; tg.Enabled() {
		channels = append(channels, notify.NewTelegram(notify.TelegramOptions{
			Token:   tg.Token,
			ChatIDs: tg.ChatIDs,
		}, client, runtime.Logger))
	}

	if ej := runtime.Notify.EmailJS; ej.Enabled() {
		channels = append(channels, notify.NewEmailJS(notify.EmailJSOptions{
			ServiceID:  ej.ServiceID,
			TemplateID: ej.TemplateID,
			PublicKey:  ej.PublicKey,
			PrivateKey: ej.PrivateKey,
			Recipients: ej.Recipients,
			Endpoint:   ej.Endpoint,
		}, client, runtime.Logger))
	}

	if len(channels) == 0 {
		channels = append(channels, notify.NewLog(runtime.Logger))
	}

	return notify.NewMulti(runtime.Logger, channels...)
}
