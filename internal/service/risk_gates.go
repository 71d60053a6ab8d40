package service

import (
	"context"
	"net/http"
	"net/netip"
	"strings"

	"mobile-money-gateway/internal/core/domain"
	"mobile-money-gateway/internal/core/ports"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// geoGate denies origins outside a non-empty country allowlist.
type geoGate struct {
	policies ports.PolicyStore
}

func (g *geoGate) Name() string               { return GateGeo }
func (g *geoGate) Kind() domain.RiskEventKind { return domain.RiskEventGeoBlocked }

func (g *geoGate) Check(ctx context.Context, req ports.GateRequest) ports.GateResult {
	pol, err := g.policies.GetGeoPolicy(ctx)
	if err != nil {
		return indeterminate(err)
	}
	if pol == nil || len(pol.AllowedCountries) == 0 {
		return allow()
	}

	country := strings.TrimSpace(req.OriginCountry)
	for _, c := range pol.AllowedCountries {
		if country != "" && strings.EqualFold(strings.TrimSpace(c), country) {
			return allow()
		}
	}
	if country == "" {
		country = "unknown"
	}
	return deny(g.Kind(), http.StatusForbidden, 70, "transactions from origin %s are not permitted", country)
}

// ipDenylistGate denies client addresses inside any denylisted prefix.
type ipDenylistGate struct {
	policies ports.PolicyStore
	log      zerolog.Logger
}

func (g *ipDenylistGate) Name() string               { return GateIPDenylist }
func (g *ipDenylistGate) Kind() domain.RiskEventKind { return domain.RiskEventIPDenied }

func (g *ipDenylistGate) Check(ctx context.Context, req ports.GateRequest) ports.GateResult {
	entries, err := g.policies.GetIPDenylist(ctx)
	if err != nil {
		return indeterminate(err)
	}
	if len(entries) == 0 {
		return allow()
	}

	addr, err := netip.ParseAddr(strings.TrimSpace(req.ClientIP))
	if err != nil {
		g.log.Debug().Str("ip", req.ClientIP).Msg("Client IP not parseable, skipping denylist")
		return allow()
	}
	addr = addr.Unmap()

	for _, entry := range entries {
		prefix, ok := parseDenylistEntry(entry)
		if !ok {
			g.log.Warn().Str("entry", entry).Msg("Skipping unparseable IP denylist entry")
			continue
		}
		if prefix.Contains(addr) {
			return deny(g.Kind(), http.StatusForbidden, 90, "client address is denylisted")
		}
	}
	return allow()
}

// parseDenylistEntry accepts a bare address (a single-host prefix) or a CIDR prefix.
func parseDenylistEntry(entry string) (netip.Prefix, bool) {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return netip.Prefix{}, false
	}
	if strings.Contains(entry, "/") {
		p, err := netip.ParsePrefix(entry)
		if err != nil {
			return netip.Prefix{}, false
		}
		if p.Addr().Is4In6() {
			bits := p.Bits() - 96
			if bits < 0 {
				return netip.Prefix{}, false
			}
			p = netip.PrefixFrom(p.Addr().Unmap(), bits)
		}
		return p.Masked(), true
	}
	a, err := netip.ParseAddr(entry)
	if err != nil {
		return netip.Prefix{}, false
	}
	a = a.Unmap()
	return netip.PrefixFrom(a, a.BitLen()), true
}

// headlessSignatures are matched case-insensitively against the User-Agent.
var headlessSignatures = []string{"headlesschrome", "phantomjs", "puppeteer", "playwright", "selenium", "webdriver"}

// deviceGate denies automation clients and cookie-less requests when configured.
type deviceGate struct {
	policies ports.PolicyStore
}

func (g *deviceGate) Name() string               { return GateDevice }
func (g *deviceGate) Kind() domain.RiskEventKind { return domain.RiskEventDeviceBlocked }

func (g *deviceGate) Check(ctx context.Context, req ports.GateRequest) ports.GateResult {
	rules, err := g.policies.GetDeviceRules(ctx)
	if err != nil {
		return indeterminate(err)
	}
	if rules == nil {
		return allow()
	}

	if rules.BlockHeadless {
		ua := strings.ToLower(req.UserAgent)
		for _, sig := range headlessSignatures {
			if strings.Contains(ua, sig) {
				return deny(g.Kind(), http.StatusForbidden, 60, "automated client detected")
			}
		}
	}
	if rules.RequireCookies && !req.CookiesPresent {
		return deny(g.Kind(), http.StatusForbidden, 40, "cookies are required")
	}
	return allow()
}

// limitationGate denies outgoing transactions on restricted accounts.
type limitationGate struct {
	limitations ports.LimitationStore
}

func (g *limitationGate) Name() string               { return GateLimitation }
func (g *limitationGate) Kind() domain.RiskEventKind { return domain.RiskEventAccountLimited }

func (g *limitationGate) Check(ctx context.Context, req ports.GateRequest) ports.GateResult {
	if req.Direction != domain.DirectionOutgoing {
		return allow()
	}

	l, err := g.limitations.GetBySubject(ctx, req.SubjectID)
	if err != nil {
		return indeterminate(err)
	}
	if !l.Active(req.At) {
		return allow()
	}

	res := deny(g.Kind(), http.StatusLocked, 100, "account is limited")
	if l.Reason != "" {
		res.Reason = l.Reason
	}
	res.Limitation = &ports.LimitationDetails{
		Status:           l.Status,
		Reason:           l.Reason,
		CountdownMs:      l.Countdown(req.At).Milliseconds(),
		ReserveReleaseAt: l.ReserveReleaseAt,
	}
	return res
}

// capsGate enforces the subject's tier daily and monthly limits on intent totals.
type capsGate struct {
	policies ports.PolicyStore
	intents  ports.IntentRepository
}

func (g *capsGate) Name() string               { return GateCaps }
func (g *capsGate) Kind() domain.RiskEventKind { return domain.RiskEventCapExceeded }

func (g *capsGate) Check(ctx context.Context, req ports.GateRequest) ports.GateResult {
	limits, err := tierLimitsFor(ctx, g.policies, req)
	if err != nil {
		return indeterminate(err)
	}
	if limits == nil {
		return allow()
	}

	if limits.DailyLimit.IsPositive() {
		used, err := g.intents.SumAmountSince(ctx, req.SubjectID, domain.DayStart(req.At))
		if err != nil {
			return indeterminate(err)
		}
		if used.Add(req.Amount).GreaterThan(limits.DailyLimit) {
			return deny(g.Kind(), http.StatusTooManyRequests, 50,
				"daily limit of %s exceeded (used %s)", limits.DailyLimit.String(), used.String())
		}
	}
	if limits.MonthlyLimit.IsPositive() {
		used, err := g.intents.SumAmountSince(ctx, req.SubjectID, domain.MonthStart(req.At))
		if err != nil {
			return indeterminate(err)
		}
		if used.Add(req.Amount).GreaterThan(limits.MonthlyLimit) {
			return deny(g.Kind(), http.StatusTooManyRequests, 50,
				"monthly limit of %s exceeded (used %s)", limits.MonthlyLimit.String(), used.String())
		}
	}
	return allow()
}

// velocityGate counts every request that reaches it and denies when the day's
// accumulated amount exceeds multiplier times the daily limit.
type velocityGate struct {
	policies   ports.PolicyStore
	counters   ports.CounterStore
	multiplier int64
}

func (g *velocityGate) Name() string               { return GateVelocity }
func (g *velocityGate) Kind() domain.RiskEventKind { return domain.RiskEventVelocityExceeded }

func (g *velocityGate) Check(ctx context.Context, req ports.GateRequest) ports.GateResult {
	var day *domain.VelocityCounter
	for _, w := range domain.AllWindows {
		c, err := g.counters.Increment(ctx, req.SubjectID, w, req.At, req.Amount)
		if err != nil {
			return indeterminate(err)
		}
		if w == domain.WindowDay {
			day = c
		}
	}

	limits, err := tierLimitsFor(ctx, g.policies, req)
	if err != nil {
		return indeterminate(err)
	}
	if limits == nil || !limits.DailyLimit.IsPositive() {
		return allow()
	}

	mult := g.multiplier
	if mult <= 0 {
		mult = 2
	}
	threshold := limits.DailyLimit.Mul(decimal.NewFromInt(mult))
	if day.AmountAccumulated.GreaterThan(threshold) {
		return deny(g.Kind(), http.StatusTooManyRequests, 80,
			"velocity threshold of %s per day exceeded", threshold.String())
	}
	return allow()
}

// tierLimitsFor resolves the subject's tier limits. nil means no caps are configured.
func tierLimitsFor(ctx context.Context, policies ports.PolicyStore, req ports.GateRequest) (*domain.TierLimits, error) {
	tier, err := policies.GetTier(ctx, req.SubjectID)
	if err != nil {
		return nil, err
	}
	if tier == "" {
		return nil, nil
	}
	return policies.GetTierLimits(ctx, tier)
}
