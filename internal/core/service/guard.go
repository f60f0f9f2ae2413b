package service

import (
	"github.com/rs/zerolog"

	"github.com/coursehub/catalog-api/internal/core/auth"
	"github.com/coursehub/catalog-api/internal/core/domain"
	"github.com/coursehub/catalog-api/internal/pkg/metrics"
)

// authorize consults the access policy for op and records the decision.
// Callers must return the error untouched before any repository access.
func authorize(log zerolog.Logger, caller domain.Identity, op domain.Operation) error {
	err := auth.Authorize(caller, op)
	metrics.ObserveDecision(op, err)
	if err != nil {
		log.Info().
			Str("operation", string(op)).
			Str("user_id", caller.ID).
			Str("role", string(caller.Role)).
			Str("decision", metrics.DecisionLabel(err)).
			Msg("access denied")
	}
	return err
}
