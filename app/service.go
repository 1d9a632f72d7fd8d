package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/kilianp07/vesting/api/audit"
	"github.com/kilianp07/vesting/config"
	coreevents "github.com/kilianp07/vesting/core/events"
	coremetrics "github.com/kilianp07/vesting/core/metrics"
	"github.com/kilianp07/vesting/core/model"
	"github.com/kilianp07/vesting/core/vesting"
	infraauth "github.com/kilianp07/vesting/infra/auth"
	infraevents "github.com/kilianp07/vesting/infra/events"
	"github.com/kilianp07/vesting/infra/history"
	"github.com/kilianp07/vesting/infra/logger"
	"github.com/kilianp07/vesting/infra/metrics"
	infratoken "github.com/kilianp07/vesting/infra/token"
	"github.com/kilianp07/vesting/internal/eventbus"
)

// Service wires the vesting core to its collaborators and observability
// sinks.
type Service struct {
	Vesting *vesting.Service
	Token   *infratoken.Ledger

	bus         *eventbus.Bus
	mqtt        *infraevents.MQTTEmitter
	history     history.Store
	log         logger.Logger
	promEnabled bool
	promAddr    string
	auditAddr   string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	tokenLedger := infratoken.NewLedger(cfg.Vesting.PoolAccount)
	if supply := cfg.Vesting.Supply(); supply.Sign() > 0 {
		tokenLedger.Mint(cfg.Vesting.Administrators[0], supply)
	}
	authorizer := infraauth.NewStatic(cfg.Vesting.Administrators...)

	var sinks []coremetrics.Sink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(nil)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Metrics))
	}
	var sink coremetrics.Sink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	bus := eventbus.New()
	emitters := []coreevents.Emitter{bus}
	var mqttEmitter *infraevents.MQTTEmitter
	if cfg.MQTT.Enabled {
		var err error
		mqttEmitter, err = infraevents.NewMQTTEmitter(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt emitter: %w", err)
		}
		emitters = append(emitters, mqttEmitter)
	}
	var histStore history.Store
	if cfg.History.Enabled {
		var err error
		histStore, err = history.Open(cfg.History)
		if err != nil {
			return nil, fmt.Errorf("history store: %w", err)
		}
		emitters = append(emitters, history.NewEmitter(histStore))
	}

	svc, err := vesting.NewService(
		vesting.NewMemoryStore(),
		vesting.NewLedger(),
		tokenLedger,
		authorizer,
		coreevents.NewMultiEmitter(emitters...),
		sink,
		model.WallClock{},
		cfg.Vesting.PoolAccount,
		logg,
	)
	if err != nil {
		return nil, fmt.Errorf("vesting service: %w", err)
	}

	return &Service{
		Vesting:     svc,
		Token:       tokenLedger,
		bus:         bus,
		mqtt:        mqttEmitter,
		history:     histStore,
		log:         logg,
		promEnabled: cfg.Metrics.PrometheusEnabled,
		promAddr:    cfg.Metrics.PrometheusAddr,
		auditAddr:   cfg.Vesting.AuditAddr,
	}, nil
}

// Events returns a subscription to the vesting event stream.
func (s *Service) Events() <-chan coreevents.Event { return s.bus.Subscribe() }

// Run starts the audit API and the Prometheus endpoint and blocks until the
// context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	srv := &http.Server{Addr: s.auditAddr, Handler: audit.NewHandler(s.Vesting, s.history)}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("audit server shutdown: %v", err)
		}
		cancel()
	}()
	s.log.Infof("audit API listening on %s", s.auditAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	if s.mqtt != nil {
		s.mqtt.Close()
	}
	if s.history != nil {
		return s.history.Close()
	}
	return nil
}
