package migration

import (
	"github.com/aurora-society/aurora-backend/internal/domain"
	pkglogger "github.com/aurora-society/aurora-backend/pkg/logger"
	"gorm.io/gorm"
)

// Run applies the schema via gorm AutoMigrate. Order matters only for
// readability; AutoMigrate creates tables independently.
func Run(db *gorm.DB) error {
	models := []interface{}{
		&domain.Member{},
		&domain.PrivateProfile{},
		&domain.Referral{},
		&domain.ReferralLink{},
		&domain.LinkedAccount{},
		&domain.Friendship{},
		&domain.ConnectionRequest{},
		&domain.Conversation{},
		&domain.ConversationMember{},
		&domain.Message{},
		&domain.TwoFactorCode{},
		&domain.VerificationSession{},
		&domain.ContactMessage{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		return err
	}

	pkglogger.GetLogger().Info().Int("models", len(models)).Msg("schema migration complete")
	return nil
}
