package utils

import (
	"time"

	"unisport/models"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CronCleaner runs the daily cleanup jobs: pending invitations whose
// tournament deadline has passed are retracted, and old archived
// notifications are purged.
func CronCleaner(db *gorm.DB, logger *zap.Logger) {
	c := cron.New()

	// Retract invitations that can no longer be answered (daily).
	c.AddFunc("@daily", func() {
		logger.Info("Starting stale invitation cleanup")

		staleMemberIDs := []uint{}
		db.Model(&models.TeamMember{}).
			Joins("JOIN teams ON teams.id = team_members.team_id").
			Joins("JOIN games ON games.id = teams.game_id").
			Joins("JOIN tournaments ON tournaments.id = games.tournament_id").
			Where("team_members.status = ? AND tournaments.registration_deadline <= ?",
				models.MemberPending, time.Now()).
			Pluck("team_members.id", &staleMemberIDs)

		if len(staleMemberIDs) == 0 {
			return
		}

		// Archive the invitation notifications before dropping the rows.
		stale := []models.TeamMember{}
		db.Where("id IN ?", staleMemberIDs).Find(&stale)
		for _, member := range stale {
			db.Model(&models.Notification{}).
				Where("user_id = ? AND team_id = ? AND type = ?",
					member.UserID, member.TeamID, models.NotificationTeamRequest).
				Update("status", models.NotificationArchived)
		}

		result := db.Where("id IN ?", staleMemberIDs).Delete(&models.TeamMember{})
		if result.Error != nil {
			logger.Error("Failed to delete stale invitations", zap.Error(result.Error))
		} else {
			logger.Info("Stale invitation cleanup finished", zap.Int("deleted", int(result.RowsAffected)))
		}
	})

	// Purge archived notifications older than 30 days (at 03:00).
	c.AddFunc("0 3 * * *", func() {
		logger.Info("Starting archived notification purge")
		result := db.Where("status = ? AND updated_at <= ?",
			models.NotificationArchived, time.Now().Add(-30*24*time.Hour)).
			Delete(&models.Notification{})
		if result.Error != nil {
			logger.Error("Failed to purge archived notifications", zap.Error(result.Error))
		} else {
			logger.Info("Archived notification purge finished", zap.Int("deleted", int(result.RowsAffected)))
		}
	})

	c.Start()
}
