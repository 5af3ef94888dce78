// Package resolver is the public entry point of the resolution
// engine: it maps an authority identifier to the adapter and
// configuration for that council and runs a resolution call.
package resolver

import (
	"context"
	"fmt"
	"log/slog"

	"binday-backend/lib/address"
	"binday-backend/lib/providers"
	"binday-backend/lib/waste"

	"github.com/antzucaro/matchr"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("binday.services.resolver")

type Service struct {
	registry map[AuthorityID]providers.Provider
}

func NewService() Service {
	return Service{registry: defaultRegistry()}
}

// NewServiceWithRegistry exists for tests that stub out providers.
func NewServiceWithRegistry(registry map[AuthorityID]providers.Provider) Service {
	return Service{registry: registry}
}

// ParseAuthorityID validates a raw authority identifier. The error for
// an unknown id names the closest supported one, since the usual cause
// is a typo in the locality mapping table.
func ParseAuthorityID(raw string) (AuthorityID, error) {
	id := AuthorityID(raw)
	for _, known := range AuthorityIDs() {
		if known == id {
			return id, nil
		}
	}

	best := ""
	bestScore := 0.0
	for _, known := range AuthorityIDs() {
		score := matchr.JaroWinkler(raw, string(known), false)
		if score > bestScore {
			bestScore = score
			best = string(known)
		}
	}
	return "", fmt.Errorf("unknown authority %q (closest match: %q)", raw, best)
}

// Resolve normalizes the geocoded record and runs the authority's
// adapter. It either returns a populated CollectionResult or a
// *waste.Error; the caller owns retry policy.
func (s Service) Resolve(ctx context.Context, id AuthorityID, rec address.Record) (waste.CollectionResult, error) {
	ctx, span := tracer.Start(ctx, "Resolve")
	defer span.End()
	span.SetAttributes(attribute.String("authority", string(id)))

	provider, ok := s.registry[id]
	if !ok {
		span.SetStatus(codes.Error, "authority not in registry")
		return waste.CollectionResult{}, fmt.Errorf("authority %q is not in the registry", id)
	}

	canonical := address.Normalize(rec)
	slog.DebugContext(
		ctx, "resolving collection dates",
		"authority", id,
		"street", canonical.StreetName,
		"suburb", canonical.Suburb,
	)

	result, err := providers.SafeResolve(ctx, provider, canonical)
	if err != nil {
		kind, _ := waste.KindOf(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String("error_kind", kind.String()))
		return waste.CollectionResult{}, err
	}
	return result, nil
}
