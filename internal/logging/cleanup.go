package logging

import (
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/yagontorron/needitv1/internal/models"
)

// StartCleanup deletes system_logs rows older than retention once a day
// until done is closed.
func StartCleanup(db *gorm.DB, retention time.Duration, done <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				pruneLogs(db, time.Now().Add(-retention))
			case <-done:
				return
			}
		}
	}()
}

func pruneLogs(db *gorm.DB, cutoff time.Time) {
	result := db.Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	if result.Error != nil {
		slog.Error("log cleanup failed", "error", result.Error)
	} else if result.RowsAffected > 0 {
		slog.Info("log cleanup completed", "deleted", result.RowsAffected, "cutoff", cutoff)
	}
}
