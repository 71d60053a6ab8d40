package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"mobile-money-gateway/config"
	"mobile-money-gateway/internal/core/domain"
	"mobile-money-gateway/internal/core/ports"
	"mobile-money-gateway/pkg/logger"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Gate names, in evaluation order.
const (
	GateGeo        = "geo"
	GateIPDenylist = "ip_denylist"
	GateDevice     = "device"
	GateLimitation = "limitation"
	GateCaps       = "caps"
	GateVelocity   = "velocity"
)

// Gate is a single risk check.
type Gate interface {
	Name() string
	// Kind is the risk event recorded when the gate denies.
	Kind() domain.RiskEventKind
	Check(ctx context.Context, req ports.GateRequest) ports.GateResult
}

// RiskGateChain implements ports.RiskGate. Gates run in order and the
// first denial short-circuits the rest.
type RiskGateChain struct {
	gates     []Gate
	riskCfg   config.RiskConfig
	events    ports.RiskEventRepository
	publisher ports.EventPublisher
	log       zerolog.Logger
}

// RiskGateDeps are the stores the standard chain reads from.
type RiskGateDeps struct {
	Policies    ports.PolicyStore
	Limitations ports.LimitationStore
	Intents     ports.IntentRepository
	Counters    ports.CounterStore
	Events      ports.RiskEventRepository
	Publisher   ports.EventPublisher // optional
}

// NewRiskGateChain builds the standard chain:
// geo, ip denylist, device, limitation, caps, velocity.
func NewRiskGateChain(deps RiskGateDeps, cfg config.RiskConfig, log zerolog.Logger) *RiskGateChain {
	log = logger.Component(log, "risk")
	gates := []Gate{
		&geoGate{policies: deps.Policies},
		&ipDenylistGate{policies: deps.Policies, log: log},
		&deviceGate{policies: deps.Policies},
		&limitationGate{limitations: deps.Limitations},
		&capsGate{policies: deps.Policies, intents: deps.Intents},
		&velocityGate{policies: deps.Policies, counters: deps.Counters, multiplier: cfg.VelocityMultiplier},
	}
	return NewRiskGateChainWith(gates, deps.Events, deps.Publisher, cfg, log)
}

// NewRiskGateChainWith builds a chain over an explicit gate list.
func NewRiskGateChainWith(gates []Gate, events ports.RiskEventRepository, publisher ports.EventPublisher, cfg config.RiskConfig, log zerolog.Logger) *RiskGateChain {
	return &RiskGateChain{
		gates:     gates,
		riskCfg:   cfg,
		events:    events,
		publisher: publisher,
		log:       log,
	}
}

// Evaluate runs every gate until one denies.
func (c *RiskGateChain) Evaluate(ctx context.Context, req ports.GateRequest) ports.GateResult {
	if req.At.IsZero() {
		req.At = time.Now().UTC()
	}

	for _, g := range c.gates {
		res := c.check(ctx, g, req)

		if res.Verdict == ports.VerdictIndeterminate {
			closed := c.riskCfg.FailClosed(g.Name())
			c.log.Warn().Err(res.Err).
				Str("gate", g.Name()).
				Str("subject_id", req.SubjectID.String()).
				Bool("fail_closed", closed).
				Msg("Risk gate could not decide")
			if closed {
				res = ports.GateResult{
					Verdict:    ports.VerdictDenied,
					Gate:       g.Name(),
					Kind:       g.Kind(),
					Reason:     "risk check unavailable",
					HTTPStatus: http.StatusServiceUnavailable,
					Err:        res.Err,
				}
			}
		}

		gateDecisions.WithLabelValues(g.Name(), string(res.Verdict)).Inc()
		if res.Verdict == ports.VerdictDenied {
			c.recordDenial(ctx, req, res)
			return res
		}
	}

	return ports.GateResult{Verdict: ports.VerdictAllowed}
}

// check runs one gate under the policy timeout and fills in its identity.
func (c *RiskGateChain) check(ctx context.Context, g Gate, req ports.GateRequest) ports.GateResult {
	if c.riskCfg.PolicyTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.riskCfg.PolicyTimeout)
		defer cancel()
	}

	res := g.Check(ctx, req)
	res.Gate = g.Name()
	if res.Verdict == "" {
		res.Verdict = ports.VerdictAllowed
	}
	if res.Verdict == ports.VerdictDenied && res.Kind == "" {
		res.Kind = g.Kind()
	}
	return res
}

// recordDenial writes the risk event and announces it. Failures never change the decision.
func (c *RiskGateChain) recordDenial(ctx context.Context, req ports.GateRequest, res ports.GateResult) {
	meta := map[string]any{
		"gate":      res.Gate,
		"reason":    res.Reason,
		"amount":    req.Amount.String(),
		"direction": string(req.Direction),
	}
	if req.ClientIP != "" {
		meta["ip"] = req.ClientIP
	}
	if req.OriginCountry != "" {
		meta["country"] = req.OriginCountry
	}

	ev := &domain.RiskEvent{
		ID:        uuid.New(),
		Kind:      res.Kind,
		Score:     res.Score,
		Metadata:  meta,
		CreatedAt: req.At,
	}
	if req.SubjectID != uuid.Nil {
		subject := req.SubjectID
		ev.SubjectID = &subject
	}

	c.log.Info().
		Str("gate", res.Gate).
		Str("kind", string(res.Kind)).
		Str("subject_id", req.SubjectID.String()).
		Str("reason", res.Reason).
		Msg("Risk gate denied request")

	if c.events != nil {
		if err := c.events.Create(ctx, ev); err != nil {
			c.log.Error().Err(err).Str("gate", res.Gate).Msg("Failed to record risk event")
		}
	}
	if c.publisher != nil {
		if err := c.publisher.Publish(ctx, ports.EventRiskDenied, req.SubjectID.String(), ev); err != nil {
			c.log.Warn().Err(err).Str("gate", res.Gate).Msg("Failed to publish risk event")
		}
	}
}

func allow() ports.GateResult {
	return ports.GateResult{Verdict: ports.VerdictAllowed}
}

func deny(kind domain.RiskEventKind, status, score int, format string, args ...any) ports.GateResult {
	return ports.GateResult{
		Verdict:    ports.VerdictDenied,
		Kind:       kind,
		Reason:     fmt.Sprintf(format, args...),
		Score:      score,
		HTTPStatus: status,
	}
}

func indeterminate(err error) ports.GateResult {
	return ports.GateResult{Verdict: ports.VerdictIndeterminate, Err: err}
}
