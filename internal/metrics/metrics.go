package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/custodia-labs/sercha-docs/internal/core/domain"
)

const namespace = "sercha_docs"

var (
	DocumentMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "document_mutations_total", Help: "Document create, update and delete calls by outcome."},
		[]string{"operation", "result"},
	)
	RevisionsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: namespace, Name: "revisions_created_total", Help: "Revisions recorded by document updates."},
	)
	SlugProbes = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: namespace, Name: "slug_probes_total", Help: "Suffixed slug candidates tried because the base slug was taken."},
	)
	RenderCacheRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "render_cache_requests_total", Help: "Render cache lookups by result."},
		[]string{"result"},
	)
	RateLimit = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "rate_limit_total", Help: "Mutation requests seen by the rate limiter by decision."},
		[]string{"result"},
	)
	AttachmentBytes = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: namespace, Name: "attachment_bytes_total", Help: "Bytes stored as attachments."},
	)
)

// RegisterCollectors registers every collector with reg.
func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(DocumentMutations)
	reg.MustRegister(RevisionsCreated)
	reg.MustRegister(SlugProbes)
	reg.MustRegister(RenderCacheRequests)
	reg.MustRegister(RateLimit)
	reg.MustRegister(AttachmentBytes)
}

// Result maps an operation error to a low-cardinality label value.
func Result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrUnauthorized):
		return "denied"
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrTooLarge):
		return "invalid"
	case errors.Is(err, domain.ErrLocked), errors.Is(err, domain.ErrAlreadyExists):
		return "conflict"
	default:
		return "error"
	}
}
