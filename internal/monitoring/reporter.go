package monitoring

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/voltpanel/voltpanel-be/internal/services"
)

// Reporter periodically logs usage totals on a cron schedule.
type Reporter struct {
	service  services.AdminServiceProvider
	schedule cron.Schedule
	done     chan bool
}

// NewReporter creates a reporter from a standard cron expression
// (descriptors like "@every 15m" are accepted).
func NewReporter(service services.AdminServiceProvider, spec string) (*Reporter, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, err
	}
	return &Reporter{
		service:  service,
		schedule: schedule,
		done:     make(chan bool),
	}, nil
}

// Run starts the reporting loop. It reports once immediately, then on
// every schedule tick until Stop is called.
func (r *Reporter) Run() {
	log.Info().Msg("Starting usage reporter")
	r.report()

	for {
		timer := time.NewTimer(time.Until(r.schedule.Next(time.Now())))
		select {
		case <-r.done:
			timer.Stop()
			log.Info().Msg("Stopping usage reporter")
			return
		case <-timer.C:
			r.report()
		}
	}
}

// Stop halts the reporter.
func (r *Reporter) Stop() {
	r.done <- true
}

func (r *Reporter) report() {
	stats, err := r.service.GetStatistics()
	if err != nil {
		log.Error().Err(err).Msg("Usage reporter failed to collect statistics")
		return
	}
	log.Info().
		Int("total_users", stats.TotalUsers).
		Int("active_sessions", stats.ActiveSessions).
		Int("total_energy", stats.TotalEnergy).
		Float64("avg_energy", stats.AvgEnergy).
		Msg("Usage snapshot")
}
