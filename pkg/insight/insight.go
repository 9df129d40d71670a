// Package insight turns detected intent and entities into advisory lines
// that point the answer at the host's prediction models.
//
// The host registers its model handles once at startup with
// [Registry.Register]. Handles are opaque here: the injector only checks
// which ones are present.
package insight

import (
	"maps"
	"strings"
	"sync/atomic"

	"github.com/Madhu3782/Crop-Recommendation/pkg/entity"
)

// Insight categories.
const (
	KeyPriceForecast = "Price Forecast"
	KeyPestRisk      = "Pest Risk"
)

// Models is the set of handles registered by the host.
type Models struct {
	Price  any
	Crop   any
	Pest   any
	Config map[string]any
}

// Registry holds the registered models. Register replaces the whole set
// atomically, so a request sees either the old or the new set.
type Registry struct {
	models atomic.Pointer[Models]
}

// Register stores m.
func (r *Registry) Register(m Models) {
	if m.Config != nil {
		m.Config = maps.Clone(m.Config)
	}
	r.models.Store(&m)
}

// Models returns the current set. The zero Models is returned before the
// first registration.
func (r *Registry) Models() Models {
	if m := r.models.Load(); m != nil {
		return *m
	}
	return Models{}
}

// Registered reports whether Register has been called.
func (r *Registry) Registered() bool { return r.models.Load() != nil }

// Injector derives insight lines from a Registry.
type Injector struct {
	registry *Registry
}

// NewInjector returns an injector reading from reg. A nil reg behaves as
// an empty registry.
func NewInjector(reg *Registry) *Injector {
	if reg == nil {
		reg = &Registry{}
	}
	return &Injector{registry: reg}
}

// Registry returns the registry the injector reads from.
func (in *Injector) Registry() *Registry { return in.registry }

// Inject returns insight lines keyed by category. The result is never nil
// and stays empty until models have been registered.
func (in *Injector) Inject(query, intentLabel string, ents entity.Entities) map[string]string {
	out := map[string]string{}
	if !in.registry.Registered() {
		return out
	}
	models := in.registry.Models()
	il := strings.ToLower(intentLabel)
	ql := strings.ToLower(query)

	if strings.Contains(il, "price") || strings.Contains(il, "market") || strings.Contains(ql, "sell") {
		if crop := ents[entity.LabelCrop]; crop != "" && models.Price != nil {
			out[KeyPriceForecast] = "Estimated market price for " + crop +
				" is currently stable/high (Model access limited without full weather inputs)."
		}
	}
	if strings.Contains(il, "pest") || strings.Contains(il, "disease") {
		out[KeyPestRisk] = "Check the 'Pest Risk' tab for real-time risk analysis based on current weather."
	}
	return out
}

// Merge returns base with extra laid over it; extra wins on collision.
// Neither input is modified.
func Merge(base, extra map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(extra))
	maps.Copy(out, base)
	maps.Copy(out, extra)
	return out
}
