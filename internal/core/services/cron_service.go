package services

import (
	"context"
	"log"

	"borrowdesk/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// CronService runs the scheduled ledger jobs: the nightly pending-charge
// refresh and refresh-token cleanup.
type CronService struct {
	cron             *cron.Cron
	interestService  *InterestService
	refreshTokenRepo repositories.RefreshTokenRepository
}

// NewCronService creates a new cron service
func NewCronService(interestService *InterestService, refreshTokenRepo repositories.RefreshTokenRepository) *CronService {
	return &CronService{
		cron:             cron.New(),
		interestService:  interestService,
		refreshTokenRepo: refreshTokenRepo,
	}
}

// Start registers and starts the scheduled jobs
func (s *CronService) Start() {
	// Recompute pending charges shortly after midnight so each open borrow
	// carries a charge for the period ending today.
	s.cron.AddFunc("15 0 * * *", func() {
		ctx := context.Background()
		computed, errs := s.interestService.ComputeAllCharges(ctx)
		if len(errs) > 0 {
			log.Printf("⚠️ Daily charge refresh finished with %d error(s), %d computed", len(errs), computed)
			for _, err := range errs {
				log.Printf("⚠️ Charge refresh: %v", err)
			}
			return
		}
		log.Printf("✅ Daily charge refresh completed: %d charge(s) computed", computed)
	})

	// Purge expired refresh tokens weekly (Sunday 03:00)
	s.cron.AddFunc("0 3 * * 0", func() {
		if err := s.refreshTokenRepo.DeleteExpired(context.Background()); err != nil {
			log.Printf("⚠️ Refresh token cleanup failed: %v", err)
			return
		}
		log.Println("✅ Expired refresh tokens purged")
	})

	s.cron.Start()
	log.Println("✅ Cron service started")
}

// Stop stops the scheduled jobs
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 Cron service stopped")
}
